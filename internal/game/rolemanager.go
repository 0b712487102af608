package game

import "math/rand"

// dealOrder decides which roles get dealt first and which get trimmed
// first when there are more role slots than players (trim walks it
// backwards).
var dealOrder = []string{
	RoleCitizen, RoleMafia, RoleDetective, RoleDoctor, RoleReporter,
	RoleAgitator, RoleBusDriver, RoleBomber, RoleWitch,
	RoleSerialKiller, RoleCultist, RoleCupid, RoleThief, RoleArchitect,
}

// RoleManager deals roles for one game according to the chat settings.
type RoleManager struct {
	settings *Settings
	rng      *rand.Rand
}

func NewRoleManager(settings *Settings, rng *rand.Rand) *RoleManager {
	return &RoleManager{settings: settings, rng: rng}
}

// AssignRoles hands every player a fresh role instance. Mafia get their
// kill mode and, with the sub-role system on, a random cover job.
// Cultists dealt together share one cult. Leftover players become plain
// citizens, and a slice of the citizen team is marked psycho.
func (m *RoleManager) AssignRoles(players map[int64]*Player) {
	ids := make([]int64, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	m.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	counts := m.adjustRoles(len(ids))

	var sharedCult *cult
	for _, roleName := range dealOrder {
		for n := counts[roleName]; n > 0 && len(ids) > 0; n-- {
			id := ids[0]
			ids = ids[1:]

			role := NewRole(roleName)
			switch r := role.(type) {
			case *Mafia:
				r.SetKillMode(m.settings.MafiaKillMode)
				if m.settings.SubRoleEnabled {
					m.dealMafiaSubRole(r)
				}
			case *Cultist:
				if sharedCult == nil {
					sharedCult = r.cult
				} else {
					role = newConvert(sharedCult)
				}
				role.(*Cultist).Join(id)
			}

			players[id].AssignRole(role)
		}
	}

	for _, id := range ids {
		players[id].AssignRole(NewCitizen())
	}

	if m.settings.SubRoleEnabled {
		m.assignPsycho(players)
	}
}

// adjustRoles fits the configured role counts to the player count:
// disabled roles drop to zero, overflow is trimmed from the bottom of
// the deal order, and the mafia count is clamped to 1/5..1/3 of the
// table (at least one).
func (m *RoleManager) adjustRoles(playerCount int) map[string]int {
	counts := make(map[string]int, len(m.settings.RoleCounts))
	total := 0
	for name, n := range m.settings.RoleCounts {
		if !m.settings.EnabledRoles[name] {
			continue
		}
		counts[name] = n
		total += n
	}

	for i := len(dealOrder) - 1; i >= 0 && total > playerCount; i-- {
		name := dealOrder[i]
		for counts[name] > 0 && total > playerCount {
			counts[name]--
			total--
		}
	}

	minMafia := max(1, playerCount/5)
	maxMafia := max(1, playerCount/3)
	if counts[RoleMafia] < minMafia {
		counts[RoleMafia] = minMafia
	} else if counts[RoleMafia] > maxMafia {
		counts[RoleMafia] = maxMafia
	}

	return counts
}

func (m *RoleManager) dealMafiaSubRole(mafia *Mafia) {
	subRoles := []string{RoleReporter, RoleAgitator, RoleCitizen}
	mafia.SetSubRole(subRoles[m.rng.Intn(len(subRoles))])
}

// assignPsycho marks about a fifth of the citizen team, at least one
// player, as psycho. Their abilities never take effect and the
// whispered results are fabricated.
func (m *RoleManager) assignPsycho(players map[int64]*Player) {
	var citizens []int64
	for id, p := range players {
		if p.Role != nil && p.Role.Team() == TeamCitizen {
			citizens = append(citizens, id)
		}
	}
	if len(citizens) == 0 {
		return
	}

	m.rng.Shuffle(len(citizens), func(i, j int) { citizens[i], citizens[j] = citizens[j], citizens[i] })

	count := max(1, len(citizens)/5)
	if count > len(citizens) {
		count = len(citizens)
	}
	for _, id := range citizens[:count] {
		players[id].Psycho = true
	}
}

// TeamPlayers lists player IDs on the given team.
func TeamPlayers(players map[int64]*Player, team Team) []int64 {
	var ids []int64
	for id, p := range players {
		if p.Role != nil && p.Role.Team() == team {
			ids = append(ids, id)
		}
	}
	return ids
}
