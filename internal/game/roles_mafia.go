package game

import "fmt"

// Mafia night actions: kill, or a one-shot cover ability when the
// sub-role system dealt one.
const (
	MafiaActionKill    = "kill"
	MafiaActionSubRole = "sub_role"
)

// Mafia kills at night together with the rest of the mafia team. With
// the sub-role system enabled each mafia also carries a cover job
// (reporter, agitator or plain citizen) granting a one-shot ability.
type Mafia struct {
	baseRole
	killMode    string
	subRole     string
	subRoleUsed bool
	actionType  string
}

func NewMafia() *Mafia {
	return &Mafia{
		baseRole: baseRole{
			name:        RoleMafia,
			description: "😈 **마피아**\n어둠 속에서 작전을 수행합니다.",
			team:        TeamMafia,
			nightAction: true,
			priority:    50,
		},
		killMode:   KillModeTeam,
		actionType: MafiaActionKill,
	}
}

// SetKillMode selects how overlapping mafia kill orders combine: in team
// mode the latest order wins, in individual mode the first one sticks.
func (r *Mafia) SetKillMode(mode string) {
	if mode == KillModeTeam || mode == KillModeIndividual {
		r.killMode = mode
	}
}

func (r *Mafia) SubRole() string { return r.subRole }

func (r *Mafia) SetSubRole(subRole string) {
	switch subRole {
	case RoleReporter:
		r.subRole = subRole
		r.description += "\n📰 **서브 직업: 기자**\n한 명의 역할을 알아낼 수 있습니다."
	case RoleAgitator:
		r.subRole = subRole
		r.description += "\n📢 **서브 직업: 선동가**\n한 명의 투표 가중치를 2배로 만듭니다."
	case RoleCitizen:
		r.subRole = subRole
		r.description += "\n👤 **서브 직업: 시민**\n특별한 능력이 없습니다."
	}
}

// SetActionType switches between the kill and the sub-role ability for
// the coming night.
func (r *Mafia) SetActionType(actionType string) {
	if actionType == MafiaActionKill || actionType == MafiaActionSubRole {
		r.actionType = actionType
	}
}

func (r *Mafia) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	var targets []int64
	for id, p := range players {
		if !p.Alive || id == actorID {
			continue
		}
		if p.Role != nil && p.Role.Team() == TeamMafia {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}

func (r *Mafia) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	switch r.actionType {
	case MafiaActionKill:
		if acts.MafiaKill == nil {
			acts.MafiaKill = &KillAction{KillerID: actorID, TargetID: targetID}
		} else if r.killMode == KillModeTeam {
			acts.MafiaKill.KillerID = actorID
			acts.MafiaKill.TargetID = targetID
		}

	case MafiaActionSubRole:
		if r.subRoleUsed {
			return
		}
		switch r.subRole {
		case RoleReporter:
			if acts.MafiaReport == nil {
				report := &CheckAction{DetectiveID: actorID, TargetID: targetID}
				if target, ok := players[targetID]; ok && target.Role != nil {
					report.TargetRole = target.Role.Name()
				}
				acts.MafiaReport = report
				r.subRoleUsed = true
			}
		case RoleAgitator:
			if acts.MafiaAgitate == nil {
				acts.MafiaAgitate = &AgitateAction{AgitatorID: actorID, TargetID: targetID}
				r.subRoleUsed = true
			}
		}
	}
}

func (r *Mafia) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	switch r.actionType {
	case MafiaActionKill:
		if acts.MafiaKill != nil && acts.MafiaKill.KillerID == actorID {
			return fmt.Sprintf("당신은 %s을(를) 공격했습니다.", nameOf(players, acts.MafiaKill.TargetID))
		}

	case MafiaActionSubRole:
		if r.subRole == RoleReporter && acts.MafiaReport != nil && acts.MafiaReport.DetectiveID == actorID {
			return fmt.Sprintf("취재 결과: %s은(는) %s입니다.",
				nameOf(players, acts.MafiaReport.TargetID), acts.MafiaReport.TargetRole)
		}
		if r.subRole == RoleAgitator && acts.MafiaAgitate != nil && acts.MafiaAgitate.AgitatorID == actorID {
			return fmt.Sprintf("당신은 %s의 투표 가중치를 2배로 만들었습니다.",
				nameOf(players, acts.MafiaAgitate.TargetID))
		}
	}

	return "행동에 실패했습니다."
}
