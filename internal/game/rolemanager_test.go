package game

import (
	"math/rand"
	"testing"
)

func testPlayers(n int) map[int64]*Player {
	players := make(map[int64]*Player, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		players[id] = NewPlayer(id, "", id)
	}
	return players
}

func countRole(players map[int64]*Player, name string) int {
	count := 0
	for _, p := range players {
		if p.Role != nil && p.Role.Name() == name {
			count++
		}
	}
	return count
}

func TestAssignRolesEveryoneGetsOne(t *testing.T) {
	players := testPlayers(8)
	rm := NewRoleManager(DefaultSettings(), rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	for id, p := range players {
		if p.Role == nil {
			t.Errorf("player %d has no role", id)
		}
	}
}

func TestAssignRolesMafiaClamp(t *testing.T) {
	settings := DefaultSettings()
	settings.RoleCounts[RoleMafia] = 0

	players := testPlayers(10)
	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	// 10 players: at least 10/5 = 2 mafia, at most 10/3 = 3.
	mafia := countRole(players, RoleMafia)
	if mafia < 2 || mafia > 3 {
		t.Errorf("mafia count = %d, want between 2 and 3", mafia)
	}
}

func TestAssignRolesDisabledRoleSkipped(t *testing.T) {
	settings := DefaultSettings()
	settings.EnabledRoles[RoleDetective] = false

	players := testPlayers(8)
	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	if n := countRole(players, RoleDetective); n != 0 {
		t.Errorf("detective count = %d, want 0", n)
	}
}

func TestAssignRolesLeftoversBecomeCitizens(t *testing.T) {
	settings := DefaultSettings()
	for name := range settings.RoleCounts {
		settings.RoleCounts[name] = 0
	}
	settings.RoleCounts[RoleMafia] = 1

	players := testPlayers(6)
	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	citizens := countRole(players, RoleCitizen)
	mafia := countRole(players, RoleMafia)
	if citizens+mafia != 6 {
		t.Errorf("citizens %d + mafia %d = %d, want 6", citizens, mafia, citizens+mafia)
	}
	if citizens == 0 {
		t.Error("expected leftover players to become citizens")
	}
}

func TestAssignRolesPsychoMarked(t *testing.T) {
	settings := DefaultSettings()
	settings.SubRoleEnabled = true

	players := testPlayers(10)
	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	psychos := 0
	for _, p := range players {
		if p.Psycho {
			psychos++
			if p.Role.Team() != TeamCitizen {
				t.Errorf("psycho %s is on team %s, want citizen team", p.Role.Name(), p.Role.Team())
			}
		}
	}
	if psychos == 0 {
		t.Error("expected at least one psycho with sub-role system enabled")
	}
}

func TestAssignRolesNoPsychoWhenDisabled(t *testing.T) {
	settings := DefaultSettings()
	settings.SubRoleEnabled = false

	players := testPlayers(10)
	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	for _, p := range players {
		if p.Psycho {
			t.Fatal("psycho marked with sub-role system disabled")
		}
	}
}

func TestAdjustRolesTrimsFromBottom(t *testing.T) {
	settings := DefaultSettings()
	for name := range settings.RoleCounts {
		settings.RoleCounts[name] = 1
	}

	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	counts := rm.adjustRoles(4)

	// The deal order trims neutrals before core roles.
	if counts[RoleArchitect] != 0 {
		t.Errorf("architect count = %d, want 0 after trim", counts[RoleArchitect])
	}
	if counts[RoleMafia] == 0 {
		t.Error("mafia trimmed to zero, clamp should keep at least one")
	}
}

func TestAssignRolesCultistsShareCult(t *testing.T) {
	settings := DefaultSettings()
	for name := range settings.RoleCounts {
		settings.RoleCounts[name] = 0
	}
	settings.RoleCounts[RoleCultist] = 2
	settings.RoleCounts[RoleMafia] = 1

	players := testPlayers(8)
	rm := NewRoleManager(settings, rand.New(rand.NewSource(1)))
	rm.AssignRoles(players)

	var cultists []*Cultist
	for _, p := range players {
		if c, ok := p.Role.(*Cultist); ok {
			cultists = append(cultists, c)
		}
	}
	if len(cultists) != 2 {
		t.Fatalf("cultist count = %d, want 2", len(cultists))
	}
	if cultists[0].cult != cultists[1].cult {
		t.Error("cultists do not share one cult")
	}
	for _, p := range players {
		if c, ok := p.Role.(*Cultist); ok && !c.InCult(p.UserID) {
			t.Errorf("cultist %d not registered in the cult", p.UserID)
		}
	}
}
