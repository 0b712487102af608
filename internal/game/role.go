package game

// Team is the side a role wins with.
type Team string

const (
	TeamMafia   Team = "마피아팀"
	TeamCitizen Team = "시민팀"
	TeamNeutral Team = "중립팀"
)

// Role display names double as settings keys.
const (
	RoleMafia        = "마피아"
	RoleCitizen      = "시민"
	RoleDetective    = "탐정"
	RoleDoctor       = "의사"
	RoleReporter     = "기자"
	RoleAgitator     = "선동가"
	RoleBusDriver    = "버스기사"
	RoleBomber       = "폭탄"
	RoleWitch        = "마녀"
	RoleSerialKiller = "연쇄 살인마"
	RoleCultist      = "숭배자"
	RoleCupid        = "큐피드"
	RoleThief        = "도둑"
	RoleArchitect    = "설계자"
)

// Role is a player's secret job. Implementations carry their own state
// (remaining self-heals, chosen lovers and so on), so a Role instance
// belongs to exactly one player for the lifetime of a game.
type Role interface {
	Name() string
	Description() string
	Team() Team

	// HasNightAction reports whether the role acts at night at all.
	HasNightAction() bool
	// Priority orders night actions; lower acts first.
	Priority() int

	// NightTargets lists the user IDs the actor may target tonight.
	NightTargets(players map[int64]*Player, actorID int64) []int64
	// Perform records the actor's choice into the night action sheet.
	Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions)
	// NightResult is the private outcome line whispered to the actor.
	NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string

	// VoteWeight is how much a single vote against this role's owner counts.
	VoteWeight() int
}

type baseRole struct {
	name        string
	description string
	team        Team
	nightAction bool
	priority    int
}

func (r baseRole) Name() string         { return r.name }
func (r baseRole) Description() string  { return r.description }
func (r baseRole) Team() Team           { return r.team }
func (r baseRole) HasNightAction() bool { return r.nightAction }
func (r baseRole) Priority() int        { return r.priority }
func (r baseRole) VoteWeight() int      { return 1 }

func (r baseRole) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return nil
}

func (r baseRole) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
}

func (r baseRole) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	return "아무 일도 일어나지 않았습니다."
}

// NewRole builds a fresh role instance by display name. Returns nil for
// unknown names.
func NewRole(name string) Role {
	switch name {
	case RoleMafia:
		return NewMafia()
	case RoleCitizen:
		return NewCitizen()
	case RoleDetective:
		return NewDetective()
	case RoleDoctor:
		return NewDoctor()
	case RoleReporter:
		return NewReporter()
	case RoleAgitator:
		return NewAgitator()
	case RoleBusDriver:
		return NewBusDriver()
	case RoleBomber:
		return NewBomber()
	case RoleWitch:
		return NewWitch()
	case RoleSerialKiller:
		return NewSerialKiller()
	case RoleCultist:
		return NewCultist()
	case RoleCupid:
		return NewCupid()
	case RoleThief:
		return NewThief()
	case RoleArchitect:
		return NewArchitect()
	}
	return nil
}

// RolesByTeam lists role names belonging to a team, in rulebook order.
func RolesByTeam(team Team) []string {
	switch team {
	case TeamMafia:
		return []string{RoleMafia}
	case TeamCitizen:
		return []string{
			RoleCitizen, RoleDetective, RoleDoctor, RoleReporter,
			RoleAgitator, RoleBusDriver, RoleBomber, RoleWitch,
		}
	case TeamNeutral:
		return []string{
			RoleSerialKiller, RoleCultist, RoleCupid, RoleThief, RoleArchitect,
		}
	}
	return nil
}

// RoleDescription returns the rulebook text for a role name.
func RoleDescription(name string) string {
	if r := NewRole(name); r != nil {
		return r.Description()
	}
	return "알 수 없는 역할: " + name
}

// nameOf is the display name of a player, with the usual fallback.
func nameOf(players map[int64]*Player, id int64) string {
	if p, ok := players[id]; ok {
		return p.Name
	}
	return "알 수 없음"
}

// aliveTargets is the shared target list: everyone alive, optionally
// excluding the actor.
func aliveTargets(players map[int64]*Player, excludeID int64) []int64 {
	var targets []int64
	for id, p := range players {
		if !p.Alive {
			continue
		}
		if excludeID != 0 && id == excludeID {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}
