package game

import "fmt"

// Player is one participant of a running game. ChatID is the private
// chat used for whispers; test players without a private chat carry 0.
type Player struct {
	UserID int64
	Name   string
	ChatID int64

	Role      Role
	Alive     bool
	Psycho    bool
	Protected bool
	Silenced  bool

	VotedFor  int64
	VoteCount int

	Lovers   map[int64]struct{}
	LastWill string
}

func NewPlayer(userID int64, name string, chatID int64) *Player {
	return &Player{
		UserID: userID,
		Name:   name,
		ChatID: chatID,
		Alive:  true,
		Lovers: make(map[int64]struct{}),
	}
}

func (p *Player) AssignRole(r Role) {
	p.Role = r
}

// AddLover binds this player to another; the bond is symmetric and the
// caller sets both sides.
func (p *Player) AddLover(loverID int64) {
	p.Lovers[loverID] = struct{}{}
}

// ResetVote clears the player's ballot between days.
func (p *Player) ResetVote() {
	p.VoteCount = 0
	p.VotedFor = 0
}

// ResetNightStatus clears one-night effects before the next resolution.
func (p *Player) ResetNightStatus() {
	p.Protected = false
	p.Silenced = false
}

// Kill marks the player dead and returns the public announcements this
// produced. Protection cancels the kill. A bomber takes the killer down
// with them, and a dead lover drags their partner along.
func (p *Player) Kill(players map[int64]*Player, killerID int64) []string {
	if !p.Alive {
		return nil
	}

	if p.Protected {
		return []string{fmt.Sprintf("%s이(가) 공격을 받았지만 의사의 치료로 살아남았습니다.", p.Name)}
	}

	p.Alive = false
	messages := []string{}

	if p.Role != nil && p.Role.Name() == RoleBomber && killerID != 0 {
		if killer, ok := players[killerID]; ok && killer.Alive {
			messages = append(messages, fmt.Sprintf("폭탄이 폭발했습니다! %s이(가) 함께 사망했습니다.", killer.Name))
			messages = append(messages, killer.Kill(players, 0)...)
		}
	}

	for loverID := range p.Lovers {
		if lover, ok := players[loverID]; ok && lover.Alive {
			messages = append(messages, fmt.Sprintf("%s이(가) 연인의 죽음을 따라 사망했습니다.", lover.Name))
			messages = append(messages, lover.Kill(players, 0)...)
		}
	}

	return messages
}

// RoleCard is the private text a player receives when roles are dealt.
func (p *Player) RoleCard() string {
	if p.Role == nil {
		return "역할이 아직 할당되지 않았습니다."
	}

	text := fmt.Sprintf("%s\n\n팀: %s\n", p.Role.Description(), p.Role.Team())

	if p.Psycho {
		text += "\n⚠️ 당신은 정신병자입니다. 실제 능력은 발동하지 않습니다."
	}
	if len(p.Lovers) > 0 {
		text += "\n\n💘 당신은 연인 관계입니다. 연인이 죽으면 함께 죽습니다."
	}

	return text
}
