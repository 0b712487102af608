package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// MinPlayers is the smallest table a game can start with.
const MinPlayers = 4

var (
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotStarted       = errors.New("game not started")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrWrongPhase       = errors.New("wrong phase for this action")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrDeadPlayer       = errors.New("player is dead")
	ErrSilenced         = errors.New("player is silenced")
	ErrNoNightAction    = errors.New("role has no night action")
)

// Announcer delivers engine output to Telegram. Implementations must
// not call back into the Manager; they are invoked with its lock held.
type Announcer interface {
	// Announce posts to a group chat.
	Announce(chatID int64, text string)
	// Whisper posts to a player's private chat. ChatID 0 is skipped.
	Whisper(chatID int64, text string)
	// PromptNightAction sends the target keyboard for tonight's action.
	PromptNightAction(player *Player, targets []*Player)
	// PromptVote sends the lynch ballot keyboard to the group chat.
	PromptVote(chatID int64, alive []*Player)
}

// Result is the outcome of a finished game.
type Result struct {
	WinningTeam Team
	WinnerID    int64 // neutral winner, 0 for team wins
	DayCount    int
	StartedAt   time.Time
	EndedAt     time.Time
}

// Manager runs one game in one group chat: lobby, role deal, the
// night/day/vote loop and win detection. All public methods are safe
// for concurrent use.
type Manager struct {
	mu sync.Mutex

	chatID   int64
	settings *Settings
	rng      *rand.Rand

	players map[int64]*Player
	acts    NightActions
	clock   *PhaseClock

	started   bool
	startedAt time.Time

	mafiaChatID  int64
	loversChatID int64

	voteResults  map[int64]int
	doubledVotes map[int64]struct{}

	announcer Announcer
	onEnd     func(*Result)
	result    *Result
}

// NewManager wires a game for the given group chat. onEnd runs once
// when the game finishes, after the final announcement, and may be nil.
func NewManager(chatID int64, settings *Settings, announcer Announcer, onEnd func(*Result)) *Manager {
	m := &Manager{
		chatID:       chatID,
		settings:     settings,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		players:      make(map[int64]*Player),
		voteResults:  make(map[int64]int),
		doubledVotes: make(map[int64]struct{}),
		announcer:    announcer,
		onEnd:        onEnd,
	}
	m.clock = NewPhaseClock(m.onPhaseExpired)
	return m
}

func (m *Manager) ChatID() int64       { return m.chatID }
func (m *Manager) Settings() *Settings { return m.settings }
func (m *Manager) Phase() Phase        { return m.clock.Current() }
func (m *Manager) DayCount() int       { return m.clock.DayCount() }

func (m *Manager) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// SetMafiaChat registers the side chat where mafia coordinate.
func (m *Manager) SetMafiaChat(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mafiaChatID = chatID
}

// SetLoversChat registers the side chat for cupid's lovers.
func (m *Manager) SetLoversChat(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loversChatID = chatID
}

// AddPlayer joins a user to the lobby. Fails once the game is running.
func (m *Manager) AddPlayer(userID int64, name string, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if _, ok := m.players[userID]; ok {
		return ErrAlreadyJoined
	}
	m.players[userID] = NewPlayer(userID, name, chatID)
	return nil
}

// RemovePlayer leaves the lobby. Fails once the game is running.
func (m *Manager) RemovePlayer(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if _, ok := m.players[userID]; !ok {
		return ErrUnknownPlayer
	}
	delete(m.players, userID)
	return nil
}

func (m *Manager) PlayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}

// Player returns the participant with the given ID, or nil.
func (m *Manager) Player(userID int64) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[userID]
}

// AlivePlayers lists living participants ordered by user ID.
func (m *Manager) AlivePlayers() []*Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alivePlayersLocked()
}

func (m *Manager) alivePlayersLocked() []*Player {
	var alive []*Player
	for _, p := range m.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	sort.Slice(alive, func(i, j int) bool { return alive[i].UserID < alive[j].UserID })
	return alive
}

// OpenLobby starts the recruiting countdown. When it runs out the game
// starts automatically if enough players joined.
func (m *Manager) OpenLobby() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if m.clock.Current() == PhaseOpen {
		return ErrWrongPhase
	}

	m.clock.Set(PhaseOpen, time.Duration(m.settings.OpenDuration)*time.Second)
	m.announcer.Announce(m.chatID, fmt.Sprintf(
		"🎭 마피아 게임 참가자를 모집합니다!\n/join 으로 참가하세요. %d초 후 게임이 시작됩니다. (최소 %d명)\n밤 능력을 받으려면 봇과의 개인 채팅을 먼저 시작해두세요.",
		m.settings.OpenDuration, MinPlayers))
	return nil
}

// Start deals roles and begins the first night.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked()
}

func (m *Manager) startLocked() error {
	if m.started {
		return ErrAlreadyStarted
	}
	if len(m.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	NewRoleManager(m.settings, m.rng).AssignRoles(m.players)

	m.started = true
	m.startedAt = time.Now()
	m.result = nil

	for _, p := range m.players {
		m.whisper(p, p.RoleCard())
	}
	m.introduceMafia()

	m.announcer.Announce(m.chatID, fmt.Sprintf(
		"🎭 게임이 시작되었습니다! 참가자 %d명. 역할이 비밀리에 전달되었습니다.", len(m.players)))

	m.beginNight()
	return nil
}

// introduceMafia tells each mafia who their teammates are and points
// them at the side chat when one is registered.
func (m *Manager) introduceMafia() {
	mafia := make([]*Player, 0)
	for _, p := range m.players {
		if p.Role != nil && p.Role.Team() == TeamMafia {
			mafia = append(mafia, p)
		}
	}
	if len(mafia) < 2 && m.mafiaChatID == 0 {
		return
	}

	names := make([]string, 0, len(mafia))
	for _, p := range mafia {
		names = append(names, p.Name)
	}
	sort.Strings(names)

	text := "😈 마피아팀: " + strings.Join(names, ", ")
	if m.mafiaChatID != 0 {
		text += "\n마피아 채팅방에서 작전을 상의하세요."
		m.announcer.Announce(m.mafiaChatID, text)
	}
	for _, p := range mafia {
		m.whisper(p, text)
	}
}

// Stop aborts the game without a winner.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started && m.clock.Current() != PhaseOpen {
		return ErrNotStarted
	}

	m.started = false
	m.clock.Stop()
	m.announcer.Announce(m.chatID, "🛑 게임이 중단되었습니다.")
	return nil
}

// onPhaseExpired runs on the clock's timer goroutine.
func (m *Manager) onPhaseExpired(expired Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The timer races a manual advance; the clock's own staleness check
	// runs before this lock is taken, so re-check under it.
	if m.clock.Current() != expired {
		return
	}

	switch expired {
	case PhaseOpen:
		if err := m.startLocked(); err != nil {
			m.clock.Stop()
			m.announcer.Announce(m.chatID, fmt.Sprintf(
				"⏰ 모집이 마감되었지만 인원이 부족합니다. (%d/%d)", len(m.players), MinPlayers))
			m.players = make(map[int64]*Player)
		}
	case PhaseNight:
		m.resolveNight()
	case PhaseDay:
		m.beginVote()
	case PhaseVote:
		m.resolveVotes()
	}
}

// ForceNextPhase skips the rest of the current phase.
func (m *Manager) ForceNextPhase() error {
	phase := m.clock.Current()
	if phase == PhaseEnd {
		return ErrWrongPhase
	}
	m.onPhaseExpired(phase)
	return nil
}

func (m *Manager) beginNight() {
	m.acts.Reset()
	m.doubledVotes = make(map[int64]struct{})

	m.clock.Set(PhaseNight, time.Duration(m.settings.NightDuration)*time.Second)
	m.announcer.Announce(m.chatID, fmt.Sprintf(
		"🌙 밤이 되었습니다. 능력자들은 개인 채팅에서 행동을 선택하세요. (%d초)", m.settings.NightDuration))

	for _, p := range m.alivePlayersLocked() {
		if p.Role == nil || !p.Role.HasNightAction() || p.ChatID == 0 {
			continue
		}
		targets := m.targetPlayers(p.Role.NightTargets(m.players, p.UserID))
		if len(targets) == 0 {
			continue
		}
		m.announcer.PromptNightAction(p, targets)
	}
}

func (m *Manager) targetPlayers(ids []int64) []*Player {
	targets := make([]*Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			targets = append(targets, p)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].UserID < targets[j].UserID })
	return targets
}

// PromptNight re-sends tonight's target keyboard to one player, for
// when the original prompt was dismissed.
func (m *Manager) PromptNight(playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if m.clock.Current() != PhaseNight {
		return ErrWrongPhase
	}

	p, ok := m.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !p.Alive {
		return ErrDeadPlayer
	}
	if p.Role == nil || !p.Role.HasNightAction() {
		return ErrNoNightAction
	}

	targets := m.targetPlayers(p.Role.NightTargets(m.players, playerID))
	if len(targets) == 0 {
		return ErrNoNightAction
	}
	m.announcer.PromptNightAction(p, targets)
	return nil
}

// PerformNightAction records the actor's choice and whispers the
// private outcome back. Psychos get a fabricated outcome instead.
func (m *Manager) PerformNightAction(playerID, targetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if m.clock.Current() != PhaseNight {
		return ErrWrongPhase
	}

	p, ok := m.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if _, ok := m.players[targetID]; !ok {
		return ErrUnknownPlayer
	}
	if !p.Alive {
		return ErrDeadPlayer
	}
	if p.Role == nil || !p.Role.HasNightAction() {
		return ErrNoNightAction
	}

	// A psycho believes the ability fired; nothing reaches the sheet.
	if p.Psycho {
		m.whisper(p, m.fakeNightResult(p))
		return nil
	}

	p.Role.Perform(m.players, playerID, targetID, &m.acts)
	m.whisper(p, p.Role.NightResult(m.players, playerID, &m.acts))
	return nil
}

// SetMafiaAction switches a mafia between the kill and the one-shot
// sub-role ability for tonight.
func (m *Manager) SetMafiaAction(playerID int64, actionType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	mafia, ok := p.Role.(*Mafia)
	if !ok {
		return ErrNoNightAction
	}
	mafia.SetActionType(actionType)
	return nil
}

// SetArchitectGuess completes the architect's two-step action with the
// predicted role name.
func (m *Manager) SetArchitectGuess(playerID int64, roleName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clock.Current() != PhaseNight {
		return ErrWrongPhase
	}

	guess := m.acts.ArchitectGuess
	if guess == nil || guess.ArchitectID != playerID {
		return ErrWrongPhase
	}

	guess.RoleName = roleName
	if target, ok := m.players[guess.TargetID]; ok && target.Role != nil {
		guess.Success = target.Role.Name() == roleName
	}

	if p, ok := m.players[playerID]; ok {
		m.whisper(p, fmt.Sprintf("🏗️ 예측을 등록했습니다: %s은(는) %s. 결과는 아침에 공개됩니다.",
			nameOf(m.players, guess.TargetID), roleName))
	}
	return nil
}

// fakeNightResult fabricates a plausible outcome for a psycho.
func (m *Manager) fakeNightResult(p *Player) string {
	alive := m.alivePlayersLocked()
	victims := make([]*Player, 0, len(alive))
	for _, other := range alive {
		if other.UserID != p.UserID {
			victims = append(victims, other)
		}
	}
	if len(victims) == 0 {
		return "아무 일도 일어나지 않았습니다."
	}
	victim := victims[m.rng.Intn(len(victims))]

	switch p.Role.Name() {
	case RoleDetective:
		teams := []Team{TeamMafia, TeamCitizen, TeamNeutral}
		return fmt.Sprintf("조사 결과: %s은(는) %s입니다.", victim.Name, teams[m.rng.Intn(len(teams))])
	case RoleReporter:
		if m.rng.Intn(2) == 0 {
			return fmt.Sprintf("%s을(를) 방문한 사람이 없습니다.", victim.Name)
		}
		return fmt.Sprintf("%s을(를) 방문한 사람: %s", victim.Name, victims[m.rng.Intn(len(victims))].Name)
	case RoleDoctor:
		return fmt.Sprintf("당신은 %s을(를) 치료했습니다.", victim.Name)
	}
	return "아무 일도 일어나지 않았습니다."
}

// resolveNight applies the action sheet in a fixed order: bus swap
// first, then protection and the curse, then the kills, then the
// architect call and the slower conversions.
func (m *Manager) resolveNight() {
	if !m.started {
		return
	}

	var messages []string

	for _, p := range m.players {
		p.ResetNightStatus()
	}

	if swap := m.acts.BusSwap; swap != nil && swap.SecondID != 0 {
		m.acts.Redirect(swap.FirstID, swap.SecondID)
		messages = append(messages, fmt.Sprintf("🚌 버스기사가 %s와(과) %s의 결과를 바꿨습니다.",
			nameOf(m.players, swap.FirstID), nameOf(m.players, swap.SecondID)))
	}

	if heal := m.acts.DoctorHeal; heal != nil {
		if target, ok := m.players[heal.TargetID]; ok {
			target.Protected = true
		}
	}

	if curse := m.acts.WitchCurse; curse != nil {
		if target, ok := m.players[curse.TargetID]; ok && target.Alive {
			target.Silenced = true
			messages = append(messages, fmt.Sprintf(
				"🧙‍♀️ %s이(가) 마녀의 저주에 걸렸습니다. 하루 동안 행동불능 상태가 됩니다.", target.Name))
		}
	}

	if kill := m.acts.MafiaKill; kill != nil {
		messages = append(messages, m.applyKill(kill.TargetID, kill.KillerID, "마피아")...)
	}
	if kill := m.acts.SerialKill; kill != nil {
		messages = append(messages, m.applyKill(kill.TargetID, kill.KillerID, "연쇄 살인마")...)
	}

	if guess := m.acts.ArchitectGuess; guess != nil && guess.RoleName != "" {
		if guess.Success {
			if target, ok := m.players[guess.TargetID]; ok && target.Alive {
				target.Protected = false
				extra := target.Kill(m.players, 0)
				messages = append(messages, fmt.Sprintf(
					"🏗️ 설계자의 예측이 성공했습니다! %s이(가) 게임에서 제거되었습니다.", target.Name))
				messages = append(messages, extra...)
			}
		} else if architect, ok := m.players[guess.ArchitectID]; ok && architect.Alive {
			architect.Protected = false
			extra := architect.Kill(m.players, 0)
			messages = append(messages, fmt.Sprintf(
				"🏗️ 설계자의 예측이 실패했습니다! %s이(가) 게임에서 제거되었습니다.", architect.Name))
			messages = append(messages, extra...)
		}
	}

	if convert := m.acts.CultistConvert; convert != nil && convert.Success {
		m.applyConvert(convert)
	}

	if match := m.acts.CupidMatch; match != nil && len(match.Lovers) == 2 {
		m.applyLovers(match.Lovers[0], match.Lovers[1])
	}

	if steal := m.acts.ThiefSteal; steal != nil {
		m.applySteal(steal)
	}

	if agitate := m.acts.MafiaAgitate; agitate != nil {
		m.doubledVotes[agitate.TargetID] = struct{}{}
	}

	m.acts.Reset()

	if len(messages) == 0 {
		messages = append(messages, "조용한 밤이었습니다. 아무 일도 일어나지 않았습니다.")
	}
	m.announcer.Announce(m.chatID, "☀️ 아침이 밝았습니다.\n\n"+strings.Join(messages, "\n"))
	m.announceLastWills()

	if m.checkWin() {
		return
	}
	m.beginDay()
}

// applyKill resolves one night attack and returns the public lines.
func (m *Manager) applyKill(targetID, killerID int64, cause string) []string {
	target, ok := m.players[targetID]
	if !ok || !target.Alive {
		return nil
	}

	if target.Protected {
		return target.Kill(m.players, killerID)
	}

	messages := []string{fmt.Sprintf("💀 %s이(가) %s에게 살해당했습니다.", target.Name, cause)}
	return append(messages, target.Kill(m.players, killerID)...)
}

// applyConvert swaps the converted player's role for a cultist sharing
// the recruiter's cult.
func (m *Manager) applyConvert(convert *ConvertAction) {
	target, ok := m.players[convert.TargetID]
	if !ok || !target.Alive {
		return
	}
	recruiter, ok := m.players[convert.CultistID]
	if !ok {
		return
	}
	cultist, ok := recruiter.Role.(*Cultist)
	if !ok {
		return
	}

	joined := newConvert(cultist.cult)
	joined.Join(target.UserID)
	target.AssignRole(joined)
	m.whisper(target, "🙏 당신은 밤사이 숭배자가 되었습니다. 이제 숭배자팀으로 승리합니다.\n\n"+target.RoleCard())
}

// applyLovers binds cupid's pair and tells them about each other.
func (m *Manager) applyLovers(firstID, secondID int64) {
	first, ok1 := m.players[firstID]
	second, ok2 := m.players[secondID]
	if !ok1 || !ok2 {
		return
	}

	first.AddLover(secondID)
	second.AddLover(firstID)

	m.whisper(first, fmt.Sprintf("💘 당신은 %s와(과) 연인이 되었습니다. 연인이 죽으면 함께 죽습니다.", second.Name))
	m.whisper(second, fmt.Sprintf("💘 당신은 %s와(과) 연인이 되었습니다. 연인이 죽으면 함께 죽습니다.", first.Name))
	if m.loversChatID != 0 {
		m.announcer.Announce(m.loversChatID, fmt.Sprintf(
			"💘 %s와(과) %s이(가) 연인이 되었습니다.", first.Name, second.Name))
	}
}

// applySteal hands the thief a fresh copy of the target's role.
func (m *Manager) applySteal(steal *StealAction) {
	thief, ok := m.players[steal.ThiefID]
	if !ok || !thief.Alive {
		return
	}
	target, ok := m.players[steal.TargetID]
	if !ok || target.Role == nil {
		return
	}

	stolen := NewRole(target.Role.Name())
	if stolen == nil {
		return
	}
	thief.AssignRole(stolen)
	m.whisper(thief, "🦹 훔친 역할이 적용되었습니다.\n\n"+thief.RoleCard())
}

// announceLastWills posts the wills of everyone who died this night.
func (m *Manager) announceLastWills() {
	for _, p := range m.players {
		if p.Alive || p.LastWill == "" {
			continue
		}
		m.announcer.Announce(m.chatID, fmt.Sprintf("📜 %s의 유언:\n%s", p.Name, p.LastWill))
		p.LastWill = ""
	}
}

func (m *Manager) beginDay() {
	m.voteResults = make(map[int64]int)
	for _, p := range m.players {
		p.ResetVote()
	}

	m.clock.Set(PhaseDay, time.Duration(m.settings.DayDuration)*time.Second)

	alive := m.alivePlayersLocked()
	names := make([]string, 0, len(alive))
	for _, p := range alive {
		names = append(names, p.Name)
	}
	m.announcer.Announce(m.chatID, fmt.Sprintf(
		"☀️ %d일차 낮입니다. 토론을 시작하세요. (%d초)\n생존자 %d명: %s",
		m.clock.DayCount(), m.settings.DayDuration, len(alive), strings.Join(names, ", ")))
}

func (m *Manager) beginVote() {
	if !m.started {
		return
	}

	m.clock.Set(PhaseVote, time.Duration(m.settings.VoteDuration)*time.Second)
	m.announcer.Announce(m.chatID, fmt.Sprintf(
		"🗳 투표 시간입니다! 처형할 사람을 선택하세요. (%d초)", m.settings.VoteDuration))
	m.announcer.PromptVote(m.chatID, m.alivePlayersLocked())
}

// Vote casts or replaces the voter's ballot. The weight counted comes
// from the target's role, doubled when the mafia agitator marked them.
func (m *Manager) Vote(voterID, targetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if m.clock.Current() != PhaseVote {
		return ErrWrongPhase
	}

	voter, ok := m.players[voterID]
	if !ok {
		return ErrUnknownPlayer
	}
	target, ok := m.players[targetID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !voter.Alive || !target.Alive {
		return ErrDeadPlayer
	}
	if voter.Silenced {
		return ErrSilenced
	}

	if voter.VotedFor != 0 {
		if prev, ok := m.players[voter.VotedFor]; ok {
			weight := m.voteWeight(prev)
			m.voteResults[prev.UserID] -= weight
			prev.VoteCount -= weight
			if m.voteResults[prev.UserID] <= 0 {
				delete(m.voteResults, prev.UserID)
			}
		}
	}

	voter.VotedFor = targetID
	weight := m.voteWeight(target)
	target.VoteCount += weight
	m.voteResults[targetID] += weight
	return nil
}

func (m *Manager) voteWeight(target *Player) int {
	weight := 1
	if target.Role != nil {
		weight = target.Role.VoteWeight()
	}
	if _, ok := m.doubledVotes[target.UserID]; ok {
		weight *= 2
	}
	return weight
}

// resolveVotes executes the single top-voted player; ties and empty
// ballots spare everyone.
func (m *Manager) resolveVotes() {
	if !m.started {
		return
	}

	maxVotes := 0
	var top []int64
	for targetID, votes := range m.voteResults {
		switch {
		case votes > maxVotes:
			maxVotes = votes
			top = []int64{targetID}
		case votes == maxVotes:
			top = append(top, targetID)
		}
	}

	if len(top) == 1 && maxVotes > 0 {
		executed := m.players[top[0]]
		if executed != nil && executed.Alive {
			executed.Protected = false
			extra := executed.Kill(m.players, 0)
			roleName := "알 수 없음"
			if executed.Role != nil {
				roleName = executed.Role.Name()
			}
			m.announcer.Announce(m.chatID, fmt.Sprintf(
				"⚖️ 투표 결과 %s이(가) 처형되었습니다. (%d표)\n역할: %s", executed.Name, maxVotes, roleName))
			for _, line := range extra {
				m.announcer.Announce(m.chatID, line)
			}
			if executed.LastWill != "" {
				m.announcer.Announce(m.chatID, fmt.Sprintf("📜 %s의 유언:\n%s", executed.Name, executed.LastWill))
				executed.LastWill = ""
			}
		}
	} else {
		m.announcer.Announce(m.chatID, "⚖️ 투표가 동률이거나 없어 아무도 처형되지 않았습니다.")
	}

	m.voteResults = make(map[int64]int)

	if m.checkWin() {
		return
	}
	m.beginNight()
}

// checkWin ends the game when a side has won. Neutral conditions are
// the most specific and go first, then mafia parity with the citizen
// team, then the citizens once the mafia are gone.
func (m *Manager) checkWin() bool {
	alive := m.alivePlayersLocked()
	if len(alive) == 0 {
		m.endGame(&Result{})
		return true
	}

	// Dead owners still count: cupid's lovers and a recruited cult can
	// outlive their founder. Living owners are checked first so the
	// announced winner is a survivor when one exists.
	checkerIDs := make([]int64, 0, len(m.players))
	for _, p := range alive {
		checkerIDs = append(checkerIDs, p.UserID)
	}
	var dead []int64
	for id, p := range m.players {
		if !p.Alive {
			dead = append(dead, id)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i] < dead[j] })
	checkerIDs = append(checkerIDs, dead...)

	for _, id := range checkerIDs {
		p := m.players[id]
		checker, ok := p.Role.(winChecker)
		if ok && checker.CheckWin(m.players, p.UserID) {
			m.endGame(&Result{WinningTeam: TeamNeutral, WinnerID: p.UserID})
			return true
		}
	}

	mafiaAlive, citizenAlive := 0, 0
	for _, p := range alive {
		if p.Role == nil {
			continue
		}
		switch p.Role.Team() {
		case TeamMafia:
			mafiaAlive++
		case TeamCitizen:
			citizenAlive++
		}
	}

	if mafiaAlive > 0 && mafiaAlive >= citizenAlive {
		m.endGame(&Result{WinningTeam: TeamMafia})
		return true
	}
	if mafiaAlive == 0 && citizenAlive > 0 {
		m.endGame(&Result{WinningTeam: TeamCitizen})
		return true
	}

	return false
}

func (m *Manager) endGame(result *Result) {
	result.DayCount = m.clock.DayCount()
	result.StartedAt = m.startedAt
	result.EndedAt = time.Now()

	m.started = false
	m.result = result
	m.clock.Stop()

	var text strings.Builder
	switch {
	case result.WinningTeam == "":
		text.WriteString("🏁 게임이 종료되었습니다. 승자가 없습니다.\n")
	case result.WinnerID != 0:
		text.WriteString(fmt.Sprintf("🏆 %s 승리! 승자: %s\n", result.WinningTeam, nameOf(m.players, result.WinnerID)))
	default:
		text.WriteString(fmt.Sprintf("🏆 %s 승리!\n", result.WinningTeam))
	}

	text.WriteString("\n최종 역할 공개:\n")
	ids := make([]int64, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p := m.players[id]
		roleName := "알 수 없음"
		if p.Role != nil {
			roleName = p.Role.Name()
		}
		status := "생존"
		if !p.Alive {
			status = "사망"
		}
		text.WriteString(fmt.Sprintf("• %s — %s (%s)\n", p.Name, roleName, status))
	}

	m.announcer.Announce(m.chatID, text.String())

	// On its own goroutine so the callback can call back into the
	// manager without deadlocking.
	if m.onEnd != nil {
		go m.onEnd(result)
	}
}

// Result returns the finished game's outcome, nil while running.
func (m *Manager) Result() *Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// SetLastWill stores the will revealed when the player dies.
func (m *Manager) SetLastWill(playerID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !p.Alive {
		return ErrDeadPlayer
	}
	p.LastWill = text
	return nil
}

// Status renders the current game state for the group chat.
func (m *Manager) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	phase := m.clock.Current()
	if !m.started && phase != PhaseOpen {
		return "진행 중인 게임이 없습니다. /open 으로 게임을 시작하세요."
	}

	alive := m.alivePlayersLocked()
	mafiaAlive, citizenAlive, neutralAlive := 0, 0, 0
	for _, p := range alive {
		if p.Role == nil {
			continue
		}
		switch p.Role.Team() {
		case TeamMafia:
			mafiaAlive++
		case TeamCitizen:
			citizenAlive++
		case TeamNeutral:
			neutralAlive++
		}
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📋 게임 상태\n단계: %s", phase.Display()))
	if phase != PhaseOpen {
		text.WriteString(fmt.Sprintf(" (%d일차)", m.clock.DayCount()))
	}
	if remaining := m.clock.Remaining(); remaining > 0 {
		text.WriteString(fmt.Sprintf("\n남은 시간: %d초", int(remaining.Seconds())))
	}
	text.WriteString(fmt.Sprintf("\n참가자: %d명, 생존자: %d명", len(m.players), len(alive)))
	if m.started {
		text.WriteString(fmt.Sprintf("\n마피아팀 %d / 시민팀 %d / 중립팀 %d", mafiaAlive, citizenAlive, neutralAlive))
	}
	return text.String()
}

// PlayerList renders the lobby roster.
func (m *Manager) PlayerList() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.players) == 0 {
		return "참가자가 없습니다."
	}

	ids := make([]int64, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var text strings.Builder
	text.WriteString(fmt.Sprintf("👥 참가자 %d명:\n", len(m.players)))
	for _, id := range ids {
		p := m.players[id]
		mark := "🙂"
		if m.started && !p.Alive {
			mark = "💀"
		}
		text.WriteString(fmt.Sprintf("%s %s\n", mark, p.Name))
	}
	return text.String()
}

func (m *Manager) whisper(p *Player, text string) {
	if p.ChatID == 0 {
		return
	}
	m.announcer.Whisper(p.ChatID, text)
}
