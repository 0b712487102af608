package game

// NightActions is the sheet of everything chosen during one night. One
// record per action kind; roles fill their own slot and the resolver
// applies them in priority order at dawn.
type NightActions struct {
	CupidMatch     *MatchAction
	ThiefSteal     *StealAction
	CultistConvert *ConvertAction
	DetectiveCheck *CheckAction
	WitchCurse     *CurseAction
	SerialKill     *KillAction
	ArchitectGuess *GuessAction
	MafiaKill      *KillAction
	MafiaReport    *CheckAction
	MafiaAgitate   *AgitateAction
	DoctorHeal     *HealAction
	BusSwap        *SwapAction
	ReporterCheck  *VisitAction
}

type AgitateAction struct {
	AgitatorID int64
	TargetID   int64
}

type KillAction struct {
	KillerID int64
	TargetID int64
}

type HealAction struct {
	DoctorID int64
	TargetID int64
}

type CheckAction struct {
	DetectiveID int64
	TargetID    int64
	TargetRole  string
	TargetTeam  Team
}

type VisitAction struct {
	ReporterID int64
	TargetID   int64
	Visitors   []int64
}

type CurseAction struct {
	WitchID  int64
	TargetID int64
}

type SwapAction struct {
	DriverID int64
	FirstID  int64
	SecondID int64
}

type ConvertAction struct {
	CultistID int64
	TargetID  int64
	Success   bool
}

type MatchAction struct {
	CupidID int64
	Lovers  []int64
}

type StealAction struct {
	ThiefID  int64
	TargetID int64
}

type GuessAction struct {
	ArchitectID int64
	TargetID    int64
	RoleName    string
	Success     bool
}

// Reset clears the sheet for the next night.
func (a *NightActions) Reset() {
	*a = NightActions{}
}

// VisitorsOf lists actors whose recorded action targeted the given
// player, excluding the asking actor. This is what the reporter sees.
func (a *NightActions) VisitorsOf(targetID, excludeID int64) []int64 {
	var visitors []int64

	add := func(actorID, actedOn int64) {
		if actedOn == targetID && actorID != excludeID && actorID != 0 {
			visitors = append(visitors, actorID)
		}
	}

	if a.MafiaKill != nil {
		add(a.MafiaKill.KillerID, a.MafiaKill.TargetID)
	}
	if a.SerialKill != nil {
		add(a.SerialKill.KillerID, a.SerialKill.TargetID)
	}
	if a.DoctorHeal != nil {
		add(a.DoctorHeal.DoctorID, a.DoctorHeal.TargetID)
	}
	if a.DetectiveCheck != nil {
		add(a.DetectiveCheck.DetectiveID, a.DetectiveCheck.TargetID)
	}
	if a.WitchCurse != nil {
		add(a.WitchCurse.WitchID, a.WitchCurse.TargetID)
	}
	if a.CultistConvert != nil {
		add(a.CultistConvert.CultistID, a.CultistConvert.TargetID)
	}
	if a.ThiefSteal != nil {
		add(a.ThiefSteal.ThiefID, a.ThiefSteal.TargetID)
	}
	if a.ArchitectGuess != nil {
		add(a.ArchitectGuess.ArchitectID, a.ArchitectGuess.TargetID)
	}
	if a.MafiaReport != nil {
		add(a.MafiaReport.DetectiveID, a.MafiaReport.TargetID)
	}

	return visitors
}

// Redirect rewrites every recorded target through the bus driver's swap.
func (a *NightActions) Redirect(first, second int64) {
	swap := func(id int64) int64 {
		switch id {
		case first:
			return second
		case second:
			return first
		}
		return id
	}

	if a.MafiaKill != nil {
		a.MafiaKill.TargetID = swap(a.MafiaKill.TargetID)
	}
	if a.SerialKill != nil {
		a.SerialKill.TargetID = swap(a.SerialKill.TargetID)
	}
	if a.DoctorHeal != nil {
		a.DoctorHeal.TargetID = swap(a.DoctorHeal.TargetID)
	}
	if a.WitchCurse != nil {
		a.WitchCurse.TargetID = swap(a.WitchCurse.TargetID)
	}
}
