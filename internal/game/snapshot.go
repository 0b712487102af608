package game

import "sort"

// PlayerSnapshot is the cached view of one participant.
type PlayerSnapshot struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Team   string `json:"team,omitempty"`
	Alive  bool   `json:"alive"`
	Psycho bool   `json:"psycho,omitempty"`
}

// Snapshot is the serializable state cached in Redis so /status keeps
// working across bot restarts and the admin export sees live games.
type Snapshot struct {
	ChatID   int64            `json:"chat_id"`
	Started  bool             `json:"started"`
	Phase    string           `json:"phase"`
	DayCount int              `json:"day_count"`
	Players  []PlayerSnapshot `json:"players"`
}

// Snapshot captures the current game state.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{
		ChatID:   m.chatID,
		Started:  m.started,
		Phase:    string(m.clock.Current()),
		DayCount: m.clock.DayCount(),
	}

	ids := make([]int64, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p := m.players[id]
		ps := PlayerSnapshot{
			UserID: p.UserID,
			Name:   p.Name,
			Alive:  p.Alive,
			Psycho: p.Psycho,
		}
		if p.Role != nil {
			ps.Role = p.Role.Name()
			ps.Team = string(p.Role.Team())
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
