package game

import "fmt"

// winChecker is implemented by neutral roles with their own victory
// condition, checked for each alive owner after deaths resolve.
type winChecker interface {
	CheckWin(players map[int64]*Player, selfID int64) bool
}

// SerialKiller kills alone and wins by being the last one standing.
type SerialKiller struct {
	baseRole
}

func NewSerialKiller() *SerialKiller {
	return &SerialKiller{baseRole{
		name:        RoleSerialKiller,
		description: "🔪 **연쇄 살인마**\n독자적으로 암살합니다.",
		team:        TeamNeutral,
		nightAction: true,
		priority:    40,
	}}
}

func (r *SerialKiller) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return aliveTargets(players, actorID)
}

func (r *SerialKiller) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.SerialKill != nil {
		return
	}
	acts.SerialKill = &KillAction{KillerID: actorID, TargetID: targetID}
}

func (r *SerialKiller) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	if acts.SerialKill == nil || acts.SerialKill.KillerID != actorID {
		return "공격에 실패했습니다."
	}
	return fmt.Sprintf("당신은 %s을(를) 공격했습니다.", nameOf(players, acts.SerialKill.TargetID))
}

func (r *SerialKiller) CheckWin(players map[int64]*Player, selfID int64) bool {
	for id, p := range players {
		if p.Alive && id != selfID {
			return false
		}
	}
	self, ok := players[selfID]
	return ok && self.Alive
}

// cult is the membership list shared by every cultist role instance in
// one game, converts included.
type cult struct {
	members map[int64]struct{}
}

// Cultist converts one player per night; mafia resist. The cult wins
// once it holds at least half of the living.
type Cultist struct {
	baseRole
	cult *cult
}

func NewCultist() *Cultist {
	return &Cultist{
		baseRole: baseRole{
			name:        RoleCultist,
			description: "🙏 **숭배자**\n다른 플레이어를 숭배자로 전환합니다.",
			team:        TeamNeutral,
			nightAction: true,
			priority:    20,
		},
		cult: &cult{members: make(map[int64]struct{})},
	}
}

// newConvert joins an existing cult.
func newConvert(c *cult) *Cultist {
	conv := NewCultist()
	conv.cult = c
	return conv
}

// Join adds a player to the cult.
func (r *Cultist) Join(userID int64) {
	r.cult.members[userID] = struct{}{}
}

// InCult reports cult membership.
func (r *Cultist) InCult(userID int64) bool {
	_, ok := r.cult.members[userID]
	return ok
}

func (r *Cultist) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	var targets []int64
	for id, p := range players {
		if !p.Alive || r.InCult(id) || id == actorID {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}

func (r *Cultist) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.CultistConvert != nil {
		return
	}

	convert := &ConvertAction{CultistID: actorID, TargetID: targetID, Success: true}
	if target, ok := players[targetID]; ok && target.Role != nil && target.Role.Team() == TeamMafia {
		convert.Success = false
	}
	acts.CultistConvert = convert
}

func (r *Cultist) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	convert := acts.CultistConvert
	if convert == nil || convert.CultistID != actorID {
		return "전환에 실패했습니다."
	}

	targetName := nameOf(players, convert.TargetID)
	if convert.Success {
		return fmt.Sprintf("%s을(를) 숭배자로 전환했습니다! 현재 숭배자: %d명", targetName, len(r.cult.members))
	}
	return fmt.Sprintf("%s을(를) 전환하는데 실패했습니다.", targetName)
}

func (r *Cultist) CheckWin(players map[int64]*Player, selfID int64) bool {
	alive := 0
	aliveCultists := 0
	for id, p := range players {
		if !p.Alive {
			continue
		}
		alive++
		if r.InCult(id) {
			aliveCultists++
		}
	}
	return aliveCultists > 0 && aliveCultists*2 >= alive
}

// Cupid binds two lovers during the first night. The pair dies
// together, and wins together if they are the last two alive.
type Cupid struct {
	baseRole
	usedAbility bool
	lovers      map[int64]struct{}
}

func NewCupid() *Cupid {
	return &Cupid{
		baseRole: baseRole{
			name:        RoleCupid,
			description: "💘 **큐피드**\n두 명을 연인으로 묶습니다.",
			team:        TeamNeutral,
			nightAction: true,
			priority:    10,
		},
		lovers: make(map[int64]struct{}),
	}
}

func (r *Cupid) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	if r.usedAbility || len(r.lovers) >= 2 {
		return nil
	}
	return aliveTargets(players, 0)
}

func (r *Cupid) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.CupidMatch == nil {
		acts.CupidMatch = &MatchAction{CupidID: actorID}
	}
	if acts.CupidMatch.CupidID != actorID || len(acts.CupidMatch.Lovers) >= 2 {
		return
	}

	for _, id := range acts.CupidMatch.Lovers {
		if id == targetID {
			return
		}
	}

	acts.CupidMatch.Lovers = append(acts.CupidMatch.Lovers, targetID)
	r.lovers[targetID] = struct{}{}
	if len(acts.CupidMatch.Lovers) >= 2 {
		r.usedAbility = true
	}
}

func (r *Cupid) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	match := acts.CupidMatch
	if match == nil || match.CupidID != actorID {
		return "연인 지정에 실패했습니다."
	}

	switch len(match.Lovers) {
	case 2:
		return fmt.Sprintf("%s와(과) %s을(를) 연인으로 지정했습니다.",
			nameOf(players, match.Lovers[0]), nameOf(players, match.Lovers[1]))
	case 1:
		return fmt.Sprintf("%s을(를) 첫 번째 연인으로 지정했습니다. 두 번째 연인을 선택하세요.",
			nameOf(players, match.Lovers[0]))
	}
	return "연인 지정에 실패했습니다."
}

func (r *Cupid) CheckWin(players map[int64]*Player, selfID int64) bool {
	if len(r.lovers) < 2 {
		return false
	}

	alive := 0
	aliveLovers := 0
	for id, p := range players {
		if !p.Alive {
			continue
		}
		alive++
		if _, ok := r.lovers[id]; ok {
			aliveLovers++
		}
	}
	return alive == 2 && aliveLovers == 2
}

// Thief takes over the target's role once, effective at dawn.
type Thief struct {
	baseRole
	usedAbility bool
}

func NewThief() *Thief {
	return &Thief{baseRole: baseRole{
		name:        RoleThief,
		description: "🦹 **도둑**\n타겟의 역할을 대신합니다.",
		team:        TeamNeutral,
		nightAction: true,
		priority:    15,
	}}
}

func (r *Thief) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	if r.usedAbility {
		return nil
	}
	return aliveTargets(players, actorID)
}

func (r *Thief) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.ThiefSteal != nil || r.usedAbility {
		return
	}
	acts.ThiefSteal = &StealAction{ThiefID: actorID, TargetID: targetID}
	r.usedAbility = true
}

func (r *Thief) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	steal := acts.ThiefSteal
	if steal == nil || steal.ThiefID != actorID {
		return "역할 훔치기에 실패했습니다."
	}

	roleName := "알 수 없음"
	if target, ok := players[steal.TargetID]; ok && target.Role != nil {
		roleName = target.Role.Name()
	}
	return fmt.Sprintf("%s의 역할(%s)을 훔쳤습니다. 내일부터 그 역할로 활동합니다.",
		nameOf(players, steal.TargetID), roleName)
}

// Architect names a target and a role. A correct call removes the
// target, a wrong one removes the architect.
type Architect struct {
	baseRole
}

func NewArchitect() *Architect {
	return &Architect{baseRole{
		name:        RoleArchitect,
		description: "🏗️ **설계자**\n직업을 예측하여 성공 시 대상을 게임에서 제거합니다.",
		team:        TeamNeutral,
		nightAction: true,
		priority:    45,
	}}
}

func (r *Architect) NightTargets(players map[int64]*Player, actorID int64) []int64 {
	return aliveTargets(players, actorID)
}

func (r *Architect) Perform(players map[int64]*Player, actorID, targetID int64, acts *NightActions) {
	if acts.ArchitectGuess != nil {
		return
	}
	// RoleName arrives with the follow-up guess callback.
	acts.ArchitectGuess = &GuessAction{ArchitectID: actorID, TargetID: targetID}
}

func (r *Architect) NightResult(players map[int64]*Player, actorID int64, acts *NightActions) string {
	guess := acts.ArchitectGuess
	if guess == nil || guess.ArchitectID != actorID {
		return "예측에 실패했습니다."
	}
	if guess.RoleName == "" {
		return fmt.Sprintf("%s을(를) 지목했습니다. 예측할 직업을 선택하세요.", nameOf(players, guess.TargetID))
	}

	targetName := nameOf(players, guess.TargetID)
	if guess.Success {
		return fmt.Sprintf("예측 성공! %s은(는) %s입니다. 대상은 게임에서 제거됩니다.", targetName, guess.RoleName)
	}
	return fmt.Sprintf("예측 실패! %s은(는) %s이(가) 아닙니다. 당신은 게임에서 제거됩니다.", targetName, guess.RoleName)
}
