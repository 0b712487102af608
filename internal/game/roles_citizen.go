package game

import "fmt"

// Citizen has no ability; wins with the citizen team.
type Citizen struct {
	baseRole
}

func NewCitizen() *Citizen {
	return &Citizen{baseRole{
		name:        RoleCitizen,
		description: "👤 **시민**\n토론과 투표에 참여합니다.",
		team:        TeamCitizen,
	}}
}

// Detective learns the target's team overnight.
type Detective struct {
	baseRole
}

func NewDetective() *Detective {
	return &Detective{baseRole{
		name:        RoleDetective,
		description: "🕵️ **탐정**\n한 명의 정체를 조사합니다.",
		team:        TeamCitizen,
		nightAction: true,
		priority:    30,
	}}
}

func (r *Detective) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return aliveTargets(players, actorID)
}

func (r *Detective) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.DetectiveCheck != nil {
		return
	}

	check := &CheckAction{DetectiveID: actorID, TargetID: targetID}
	if target, ok := players[targetID]; ok && target.Role != nil {
		check.TargetRole = target.Role.Name()
		check.TargetTeam = target.Role.Team()
	}
	acts.DetectiveCheck = check
}

func (r *Detective) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	check := acts.DetectiveCheck
	if check == nil || check.DetectiveID != actorID {
		return "조사에 실패했습니다."
	}

	targetName := nameOf(players, check.TargetID)
	switch check.TargetTeam {
	case TeamMafia:
		return fmt.Sprintf("조사 결과: %s은(는) 마피아팀입니다!", targetName)
	case TeamCitizen:
		return fmt.Sprintf("조사 결과: %s은(는) 시민팀입니다.", targetName)
	case TeamNeutral:
		return fmt.Sprintf("조사 결과: %s은(는) 중립팀입니다.", targetName)
	}
	return "조사에 실패했습니다."
}

// Doctor protects one player per night and may heal themselves once.
type Doctor struct {
	baseRole
	selfHeals int
}

func NewDoctor() *Doctor {
	return &Doctor{
		baseRole: baseRole{
			name:        RoleDoctor,
			description: "👩‍⚕️ **의사**\n한 명을 치료해 공격을 막습니다.",
			team:        TeamCitizen,
			nightAction: true,
			priority:    60,
		},
		selfHeals: 1,
	}
}

func (r *Doctor) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	var targets []int64
	for id, p := range players {
		if !p.Alive {
			continue
		}
		if id == actorID && r.selfHeals <= 0 {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}

func (r *Doctor) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.DoctorHeal != nil {
		return
	}

	acts.DoctorHeal = &HealAction{DoctorID: actorID, TargetID: targetID}
	if targetID == actorID {
		r.selfHeals--
	}
}

func (r *Doctor) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	heal := acts.DoctorHeal
	if heal == nil || heal.DoctorID != actorID {
		return "치료에 실패했습니다."
	}

	if heal.TargetID == actorID {
		return fmt.Sprintf("당신은 자신을 치료했습니다. (남은 자가 치료 횟수: %d)", r.selfHeals)
	}
	return fmt.Sprintf("당신은 %s을(를) 치료했습니다.", nameOf(players, heal.TargetID))
}

// Reporter learns who visited the target that night. Runs last so the
// visit log is complete.
type Reporter struct {
	baseRole
}

func NewReporter() *Reporter {
	return &Reporter{baseRole{
		name:        RoleReporter,
		description: "📰 **기자**\n밤 방문 기록을 수집합니다.",
		team:        TeamCitizen,
		nightAction: true,
		priority:    90,
	}}
}

func (r *Reporter) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return aliveTargets(players, actorID)
}

func (r *Reporter) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.ReporterCheck != nil {
		return
	}

	acts.ReporterCheck = &VisitAction{
		ReporterID: actorID,
		TargetID:   targetID,
		Visitors:   acts.VisitorsOf(targetID, actorID),
	}
}

func (r *Reporter) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	check := acts.ReporterCheck
	if check == nil || check.ReporterID != actorID {
		return "조사에 실패했습니다."
	}

	targetName := nameOf(players, check.TargetID)
	if len(check.Visitors) == 0 {
		return fmt.Sprintf("%s을(를) 방문한 사람이 없습니다.", targetName)
	}

	names := ""
	for i, visitorID := range check.Visitors {
		if i > 0 {
			names += ", "
		}
		names += nameOf(players, visitorID)
	}
	return fmt.Sprintf("%s을(를) 방문한 사람: %s", targetName, names)
}

// Agitator carries two bonus votes: every ballot against them counts
// for three.
type Agitator struct {
	baseRole
}

func NewAgitator() *Agitator {
	return &Agitator{baseRole{
		name:        RoleAgitator,
		description: "📢 **선동가**\n투표에서 미리 2표를 확보합니다.",
		team:        TeamCitizen,
	}}
}

func (r *Agitator) VoteWeight() int { return 3 }

// BusDriver swaps the night results of two chosen players.
type BusDriver struct {
	baseRole
}

func NewBusDriver() *BusDriver {
	return &BusDriver{baseRole{
		name:        RoleBusDriver,
		description: "🚌 **버스기사**\n두 사람을 지목해 받는 결과를 바꿉니다.",
		team:        TeamCitizen,
		nightAction: true,
		priority:    70,
	}}
}

func (r *BusDriver) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return aliveTargets(players, 0)
}

func (r *BusDriver) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.BusSwap == nil {
		acts.BusSwap = &SwapAction{DriverID: actorID, FirstID: targetID}
		return
	}
	if acts.BusSwap.DriverID == actorID && acts.BusSwap.SecondID == 0 && acts.BusSwap.FirstID != targetID {
		acts.BusSwap.SecondID = targetID
	}
}

func (r *BusDriver) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	swap := acts.BusSwap
	if swap == nil || swap.DriverID != actorID {
		return "운행에 실패했습니다."
	}

	if swap.SecondID == 0 {
		return fmt.Sprintf("%s을(를) 첫 번째 승객으로 태웠습니다. 두 번째 승객을 선택하세요.", nameOf(players, swap.FirstID))
	}
	return fmt.Sprintf("%s와(과) %s의 결과를 바꿨습니다.", nameOf(players, swap.FirstID), nameOf(players, swap.SecondID))
}

// Bomber is passive: whoever kills them at night dies too. The
// retaliation itself lives in Player.Kill.
type Bomber struct {
	baseRole
}

func NewBomber() *Bomber {
	return &Bomber{baseRole{
		name:        RoleBomber,
		description: "💣 **폭탄**\n밤에 사망 시 공격자도 함께 죽입니다.",
		team:        TeamCitizen,
	}}
}

// Witch curses one player into silence for the coming day.
type Witch struct {
	baseRole
}

func NewWitch() *Witch {
	return &Witch{baseRole{
		name:        RoleWitch,
		description: "🧙‍♀️ **마녀**\n한 명에게 저주를 걸어 행동불능 상태로 만듭니다.",
		team:        TeamCitizen,
		nightAction: true,
		priority:    40,
	}}
}

func (r *Witch) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return aliveTargets(players, actorID)
}

func (r *Witch) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.WitchCurse != nil {
		return
	}
	acts.WitchCurse = &CurseAction{WitchID: actorID, TargetID: targetID}
}

func (r *Witch) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	curse := acts.WitchCurse
	if curse == nil || curse.WitchID != actorID {
		return "저주에 실패했습니다."
	}
	return fmt.Sprintf("%s에게 저주를 걸었습니다.", nameOf(players, curse.TargetID))
}
