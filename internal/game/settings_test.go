package game

import "testing"

func TestDefaultSettingsCoverAllRoles(t *testing.T) {
	s := DefaultSettings()

	for _, team := range []Team{TeamMafia, TeamCitizen, TeamNeutral} {
		for _, name := range RolesByTeam(team) {
			if _, ok := s.EnabledRoles[name]; !ok {
				t.Errorf("role %s missing from EnabledRoles", name)
			}
			if _, ok := s.RoleCounts[name]; !ok {
				t.Errorf("role %s missing from RoleCounts", name)
			}
		}
	}
}

func TestSettingsCloneIsIndependent(t *testing.T) {
	original := DefaultSettings()
	clone := original.Clone()

	clone.NightDuration = 99
	clone.EnabledRoles[RoleMafia] = false
	clone.RoleCounts[RoleCitizen] = 42

	if original.NightDuration == 99 {
		t.Error("clone shares duration fields")
	}
	if !original.EnabledRoles[RoleMafia] {
		t.Error("clone shares the enabled-roles map")
	}
	if original.RoleCounts[RoleCitizen] == 42 {
		t.Error("clone shares the role-counts map")
	}
}
