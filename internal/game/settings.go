package game

// Mafia night attack coordination modes.
const (
	KillModeTeam       = "team"
	KillModeIndividual = "individual"
)

// Settings holds the per-chat game configuration. Durations are in
// seconds to keep the settings menu and the cached JSON simple.
type Settings struct {
	OpenDuration   int    `json:"open_duration"`
	NightDuration  int    `json:"night_duration"`
	DayDuration    int    `json:"day_duration"`
	VoteDuration   int    `json:"vote_duration"`
	MafiaKillMode  string `json:"mafia_kill_mode"`
	SubRoleEnabled bool   `json:"sub_role_enabled"`

	EnabledRoles map[string]bool `json:"enabled_roles"`
	RoleCounts   map[string]int  `json:"role_counts"`
}

// DefaultSettings mirrors the stock rule set: one of each core special
// role, two vanilla citizens, neutrals disabled until turned on.
func DefaultSettings() *Settings {
	return &Settings{
		OpenDuration:   60,
		NightDuration:  30,
		DayDuration:    60,
		VoteDuration:   30,
		MafiaKillMode:  KillModeTeam,
		SubRoleEnabled: true,
		EnabledRoles: map[string]bool{
			RoleMafia:        true,
			RoleDetective:    true,
			RoleDoctor:       true,
			RoleReporter:     true,
			RoleAgitator:     true,
			RoleCitizen:      true,
			RoleBusDriver:    true,
			RoleBomber:       true,
			RoleWitch:        true,
			RoleSerialKiller: true,
			RoleCultist:      true,
			RoleCupid:        true,
			RoleThief:        true,
			RoleArchitect:    true,
		},
		RoleCounts: map[string]int{
			RoleMafia:        1,
			RoleDetective:    1,
			RoleDoctor:       1,
			RoleReporter:     1,
			RoleAgitator:     1,
			RoleCitizen:      2,
			RoleBusDriver:    0,
			RoleBomber:       0,
			RoleWitch:        0,
			RoleSerialKiller: 0,
			RoleCultist:      0,
			RoleCupid:        0,
			RoleThief:        0,
			RoleArchitect:    0,
		},
	}
}

// Clone returns a deep copy so per-chat edits never leak into the defaults.
func (s *Settings) Clone() *Settings {
	out := *s
	out.EnabledRoles = make(map[string]bool, len(s.EnabledRoles))
	for k, v := range s.EnabledRoles {
		out.EnabledRoles[k] = v
	}
	out.RoleCounts = make(map[string]int, len(s.RoleCounts))
	for k, v := range s.RoleCounts {
		out.RoleCounts[k] = v
	}
	return &out
}
