package game

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recordingAnnouncer collects engine output instead of sending it to
// Telegram. It never calls back into the manager.
type recordingAnnouncer struct {
	announced   []string
	whispered   map[int64][]string
	prompted    []int64
	votePrompts int
}

func newRecordingAnnouncer() *recordingAnnouncer {
	return &recordingAnnouncer{whispered: make(map[int64][]string)}
}

func (a *recordingAnnouncer) Announce(chatID int64, text string) {
	a.announced = append(a.announced, text)
}

func (a *recordingAnnouncer) Whisper(chatID int64, text string) {
	a.whispered[chatID] = append(a.whispered[chatID], text)
}

func (a *recordingAnnouncer) PromptNightAction(player *Player, targets []*Player) {
	a.prompted = append(a.prompted, player.UserID)
}

func (a *recordingAnnouncer) PromptVote(chatID int64, alive []*Player) {
	a.votePrompts++
}

func (a *recordingAnnouncer) announcedContains(substr string) bool {
	for _, text := range a.announced {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func (a *recordingAnnouncer) lastWhisperTo(chatID int64) string {
	msgs := a.whispered[chatID]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func untimedSettings() *Settings {
	s := DefaultSettings()
	s.OpenDuration = 0
	s.NightDuration = 0
	s.DayDuration = 0
	s.VoteDuration = 0
	return s
}

// startedManager assembles a running game with the given roles dealt,
// bypassing the lobby. Player chat IDs equal user IDs.
func startedManager(a Announcer, roles map[int64]Role) *Manager {
	m := NewManager(100, untimedSettings(), a, nil)
	for id, role := range roles {
		p := NewPlayer(id, fmt.Sprintf("p%d", id), id)
		p.AssignRole(role)
		m.players[id] = p
	}
	m.started = true
	m.startedAt = time.Now()
	return m
}

func TestStartRequiresMinPlayers(t *testing.T) {
	m := NewManager(100, untimedSettings(), newRecordingAnnouncer(), nil)

	for i := 1; i < MinPlayers; i++ {
		if err := m.AddPlayer(int64(i), fmt.Sprintf("p%d", i), int64(i)); err != nil {
			t.Fatalf("AddPlayer: %v", err)
		}
	}
	if err := m.Start(); err != ErrNotEnoughPlayers {
		t.Fatalf("Start with %d players = %v, want ErrNotEnoughPlayers", MinPlayers-1, err)
	}

	if err := m.AddPlayer(int64(MinPlayers), "last", int64(MinPlayers)); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if m.Phase() != PhaseNight {
		t.Errorf("phase after start = %s, want night", m.Phase())
	}

	if err := m.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
	if err := m.AddPlayer(99, "late", 99); err != ErrAlreadyStarted {
		t.Errorf("AddPlayer after start = %v, want ErrAlreadyStarted", err)
	}
}

func TestLobbyJoinAndLeave(t *testing.T) {
	m := NewManager(100, untimedSettings(), newRecordingAnnouncer(), nil)

	if err := m.AddPlayer(1, "a", 1); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if err := m.AddPlayer(1, "a", 1); err != ErrAlreadyJoined {
		t.Errorf("duplicate join = %v, want ErrAlreadyJoined", err)
	}
	if err := m.RemovePlayer(2); err != ErrUnknownPlayer {
		t.Errorf("unknown leave = %v, want ErrUnknownPlayer", err)
	}
	if err := m.RemovePlayer(1); err != nil {
		t.Errorf("leave: %v", err)
	}
	if m.PlayerCount() != 0 {
		t.Errorf("player count = %d, want 0", m.PlayerCount())
	}
}

func TestPerformNightActionChecks(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewDetective(),
		2: NewMafia(),
		3: NewCitizen(),
		4: NewCitizen(),
	})

	if err := m.PerformNightAction(1, 2); err != ErrWrongPhase {
		t.Errorf("action outside night = %v, want ErrWrongPhase", err)
	}

	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(99, 2); err != ErrUnknownPlayer {
		t.Errorf("unknown actor = %v, want ErrUnknownPlayer", err)
	}
	if err := m.PerformNightAction(3, 2); err != ErrNoNightAction {
		t.Errorf("citizen acting = %v, want ErrNoNightAction", err)
	}

	m.players[1].Alive = false
	if err := m.PerformNightAction(1, 2); err != ErrDeadPlayer {
		t.Errorf("dead actor = %v, want ErrDeadPlayer", err)
	}
	m.players[1].Alive = true

	if err := m.PerformNightAction(1, 2); err != nil {
		t.Fatalf("PerformNightAction: %v", err)
	}
	if !strings.Contains(a.lastWhisperTo(1), "마피아팀") {
		t.Errorf("detective whisper %q does not reveal the team", a.lastWhisperTo(1))
	}
}

func TestResolveNightHealBlocksKill(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewDoctor(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("mafia kill: %v", err)
	}
	if err := m.PerformNightAction(2, 3); err != nil {
		t.Fatalf("doctor heal: %v", err)
	}

	m.resolveNight()

	if !m.players[3].Alive {
		t.Error("healed player died")
	}
	if !a.announcedContains("살아남았습니다") {
		t.Error("missing survival announcement")
	}
	if m.Phase() != PhaseDay {
		t.Errorf("phase = %s, want day", m.Phase())
	}
	if m.DayCount() != 1 {
		t.Errorf("day count = %d, want 1", m.DayCount())
	}
}

func TestResolveNightKillAndLastWill(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	if err := m.SetLastWill(3, "범인은 p1"); err != nil {
		t.Fatalf("SetLastWill: %v", err)
	}
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("mafia kill: %v", err)
	}
	m.resolveNight()

	if m.players[3].Alive {
		t.Error("victim survived an unblocked kill")
	}
	if !a.announcedContains("살해당했습니다") {
		t.Error("missing kill announcement")
	}
	if !a.announcedContains("범인은 p1") {
		t.Error("last will not revealed")
	}
}

func TestResolveNightBusSwapRedirectsKill(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewBusDriver(),
		3: NewCitizen(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(2, 3); err != nil {
		t.Fatalf("first passenger: %v", err)
	}
	if err := m.PerformNightAction(2, 4); err != nil {
		t.Fatalf("second passenger: %v", err)
	}
	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("mafia kill: %v", err)
	}

	m.resolveNight()

	if !m.players[3].Alive {
		t.Error("original target died despite the swap")
	}
	if m.players[4].Alive {
		t.Error("swapped target survived")
	}
}

func TestResolveNightWitchCurseBlocksVote(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewWitch(),
		3: NewCitizen(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(2, 3); err != nil {
		t.Fatalf("witch curse: %v", err)
	}
	m.resolveNight()

	if !m.players[3].Silenced {
		t.Fatal("cursed player not silenced")
	}

	m.clock.Set(PhaseVote, 0)
	if err := m.Vote(3, 1); err != ErrSilenced {
		t.Errorf("silenced vote = %v, want ErrSilenced", err)
	}
	if err := m.Vote(4, 1); err != nil {
		t.Errorf("normal vote: %v", err)
	}
}

func TestResolveNightCultConvert(t *testing.T) {
	a := newRecordingAnnouncer()
	cultist := NewCultist()
	cultist.Join(1)
	m := startedManager(a, map[int64]Role{
		1: cultist,
		2: NewMafia(),
		3: NewCitizen(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("convert: %v", err)
	}
	m.resolveNight()

	converted, ok := m.players[3].Role.(*Cultist)
	if !ok {
		t.Fatalf("converted role = %T, want *Cultist", m.players[3].Role)
	}
	if !converted.InCult(3) {
		t.Error("converted player not registered in the cult")
	}
	if !cultist.InCult(3) {
		t.Error("recruiter's cult does not list the convert")
	}
	if !strings.Contains(a.lastWhisperTo(3), "숭배자") {
		t.Error("convert was not told about the new role")
	}
}

func TestResolveNightArchitectGuess(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewArchitect(),
		2: NewMafia(),
		3: NewDetective(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("architect pick: %v", err)
	}
	if err := m.SetArchitectGuess(1, RoleDetective); err != nil {
		t.Fatalf("SetArchitectGuess: %v", err)
	}
	m.resolveNight()

	if m.players[3].Alive {
		t.Error("correctly guessed target survived")
	}
	if !m.players[1].Alive {
		t.Error("architect died on a correct guess")
	}
	if !a.announcedContains("예측이 성공했습니다") {
		t.Error("missing success announcement")
	}
}

func TestResolveNightArchitectWrongGuess(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewArchitect(),
		2: NewMafia(),
		3: NewDetective(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("architect pick: %v", err)
	}
	if err := m.SetArchitectGuess(1, RoleDoctor); err != nil {
		t.Fatalf("SetArchitectGuess: %v", err)
	}
	m.resolveNight()

	if !m.players[3].Alive {
		t.Error("target died on a wrong guess")
	}
	if m.players[1].Alive {
		t.Error("architect survived a wrong guess")
	}
	if !a.announcedContains("예측이 실패했습니다") {
		t.Error("missing failure announcement")
	}
}

func TestResolveNightCupidLovers(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewCupid(),
		2: NewMafia(),
		3: NewCitizen(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("first lover: %v", err)
	}
	if err := m.PerformNightAction(1, 4); err != nil {
		t.Fatalf("second lover: %v", err)
	}
	m.resolveNight()

	if _, ok := m.players[3].Lovers[4]; !ok {
		t.Error("first lover not bound to the second")
	}
	if _, ok := m.players[4].Lovers[3]; !ok {
		t.Error("second lover not bound to the first")
	}
	if !strings.Contains(a.lastWhisperTo(3), "연인") {
		t.Error("lover was not told about the bond")
	}
}

func TestResolveNightThiefSteal(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewThief(),
		2: NewMafia(),
		3: NewDetective(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("steal: %v", err)
	}
	m.resolveNight()

	if got := m.players[1].Role.Name(); got != RoleDetective {
		t.Errorf("thief role after dawn = %s, want detective", got)
	}
	if got := m.players[3].Role.Name(); got != RoleDetective {
		t.Errorf("victim role changed to %s", got)
	}
}

func TestPsychoActionHasNoEffect(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewWitch(),
		2: NewMafia(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	m.players[1].Psycho = true
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("psycho action: %v", err)
	}
	if m.acts.WitchCurse != nil {
		t.Error("psycho action reached the night sheet")
	}

	m.resolveNight()
	if m.players[3].Silenced {
		t.Error("psycho curse took real effect")
	}
}

func TestVoteWeightsAndRevote(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewAgitator(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewMafia(),
	})
	m.clock.Set(PhaseVote, 0)

	// Votes against the agitator count for three.
	if err := m.Vote(2, 1); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got := m.voteResults[1]; got != 3 {
		t.Errorf("agitator tally = %d, want 3", got)
	}

	// A revote takes the old ballot back first.
	if err := m.Vote(2, 4); err != nil {
		t.Fatalf("revote: %v", err)
	}
	if _, ok := m.voteResults[1]; ok {
		t.Errorf("stale tally against the agitator: %d", m.voteResults[1])
	}
	if got := m.voteResults[4]; got != 1 {
		t.Errorf("mafia tally = %d, want 1", got)
	}
}

func TestMafiaAgitateDoublesVotes(t *testing.T) {
	a := newRecordingAnnouncer()
	mafia := NewMafia()
	mafia.SetSubRole(RoleAgitator)
	mafia.SetActionType(MafiaActionSubRole)
	m := startedManager(a, map[int64]Role{
		1: mafia,
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewCitizen(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("agitate: %v", err)
	}
	m.resolveNight()

	m.clock.Set(PhaseVote, 0)
	if err := m.Vote(2, 3); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got := m.voteResults[3]; got != 2 {
		t.Errorf("marked tally = %d, want doubled 2", got)
	}
}

func TestResolveVotesExecutesTop(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	m.clock.Set(PhaseVote, 0)

	if err := m.Vote(2, 1); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := m.Vote(3, 1); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := m.Vote(1, 2); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	m.resolveVotes()

	if m.players[1].Alive {
		t.Error("top-voted player survived")
	}
	if !a.announcedContains("처형되었습니다") {
		t.Error("missing execution announcement")
	}

	// The last mafia died, so the citizens win on the spot.
	result := m.Result()
	if result == nil || result.WinningTeam != TeamCitizen {
		t.Fatalf("result = %+v, want citizen team win", result)
	}
}

func TestResolveVotesTieSparesEveryone(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	m.clock.Set(PhaseVote, 0)

	if err := m.Vote(2, 3); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := m.Vote(3, 2); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	m.resolveVotes()

	for id, p := range m.players {
		if !p.Alive {
			t.Errorf("player %d died in a tie", id)
		}
	}
	if !a.announcedContains("처형되지 않았습니다") {
		t.Error("missing tie announcement")
	}
	if m.Phase() != PhaseNight {
		t.Errorf("phase after tie = %s, want night", m.Phase())
	}
}

func TestWinMafiaParity(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
		3: NewCitizen(),
	})
	m.clock.Set(PhaseVote, 0)

	if err := m.Vote(1, 2); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	m.resolveVotes()

	// One mafia versus one citizen is parity: mafia win.
	result := m.Result()
	if result == nil || result.WinningTeam != TeamMafia {
		t.Fatalf("result = %+v, want mafia team win", result)
	}
	if m.Started() {
		t.Error("game still running after a win")
	}
	if !a.announcedContains("최종 역할 공개") {
		t.Error("missing final role reveal")
	}
}

func TestWinSerialKiller(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewSerialKiller(),
		2: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 2); err != nil {
		t.Fatalf("serial kill: %v", err)
	}
	m.resolveNight()

	result := m.Result()
	if result == nil || result.WinningTeam != TeamNeutral {
		t.Fatalf("result = %+v, want neutral win", result)
	}
	if result.WinnerID != 1 {
		t.Errorf("winner = %d, want the serial killer", result.WinnerID)
	}
}

func TestWinLoversLastTwoStanding(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewCupid(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewMafia(),
		5: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.PerformNightAction(1, 2); err != nil {
		t.Fatalf("first lover: %v", err)
	}
	if err := m.PerformNightAction(1, 3); err != nil {
		t.Fatalf("second lover: %v", err)
	}
	m.resolveNight()

	// The pair outlives everyone, the dead cupid included.
	m.players[1].Alive = false
	m.players[4].Alive = false
	m.players[5].Alive = false

	m.mu.Lock()
	won := m.checkWin()
	m.mu.Unlock()

	if !won {
		t.Fatal("last two lovers did not end the game")
	}
	result := m.Result()
	if result.WinningTeam != TeamNeutral || result.WinnerID != 1 {
		t.Fatalf("result = %+v, want neutral win for the cupid", result)
	}
}

func TestDrawWhenNobodyAlive(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
	})
	m.players[1].Alive = false
	m.players[2].Alive = false

	m.mu.Lock()
	won := m.checkWin()
	m.mu.Unlock()

	if !won {
		t.Fatal("empty table did not end the game")
	}
	result := m.Result()
	if result == nil || result.WinningTeam != "" {
		t.Fatalf("result = %+v, want a draw", result)
	}
	if !a.announcedContains("승자가 없습니다") {
		t.Error("missing draw announcement")
	}
}

func TestPhaseExpiryIgnoredAfterAdvance(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	m.onPhaseExpired(PhaseNight)
	// A timer that lost the race delivers the old phase again.
	m.onPhaseExpired(PhaseNight)

	dawns := 0
	for _, text := range a.announced {
		if strings.Contains(text, "아침이 밝았습니다") {
			dawns++
		}
	}
	if dawns != 1 {
		t.Errorf("dawn announced %d times, want 1", dawns)
	}
	if m.Phase() != PhaseDay {
		t.Errorf("phase = %s, want day", m.Phase())
	}
}

func TestPromptNightResends(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewDetective(),
		2: NewMafia(),
		3: NewCitizen(),
		4: NewCitizen(),
	})

	if err := m.PromptNight(1); err != ErrWrongPhase {
		t.Errorf("prompt outside night = %v, want ErrWrongPhase", err)
	}

	m.clock.Set(PhaseNight, 0)

	if err := m.PromptNight(3); err != ErrNoNightAction {
		t.Errorf("prompt for a citizen = %v, want ErrNoNightAction", err)
	}
	if err := m.PromptNight(1); err != nil {
		t.Fatalf("PromptNight: %v", err)
	}

	found := false
	for _, id := range a.prompted {
		if id == 1 {
			found = true
		}
	}
	if !found {
		t.Error("detective never received the re-sent prompt")
	}
}

func TestStopAbortsGame(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		1: NewMafia(),
		2: NewCitizen(),
		3: NewCitizen(),
		4: NewCitizen(),
	})
	m.clock.Set(PhaseNight, 0)

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if m.Started() {
		t.Error("game still running after stop")
	}
	if m.Phase() != PhaseEnd {
		t.Errorf("phase = %s, want end", m.Phase())
	}
	if err := m.Stop(); err != ErrNotStarted {
		t.Errorf("second Stop = %v, want ErrNotStarted", err)
	}
}

func TestOnEndCallbackReceivesResult(t *testing.T) {
	a := newRecordingAnnouncer()
	done := make(chan *Result, 1)
	m := NewManager(100, untimedSettings(), a, func(r *Result) { done <- r })
	for id := int64(1); id <= 2; id++ {
		p := NewPlayer(id, fmt.Sprintf("p%d", id), id)
		m.players[id] = p
	}
	m.players[1].AssignRole(NewMafia())
	m.players[2].AssignRole(NewCitizen())
	m.started = true
	m.startedAt = time.Now()

	m.mu.Lock()
	m.checkWin()
	m.mu.Unlock()

	select {
	case result := <-done:
		if result.WinningTeam != TeamMafia {
			t.Errorf("callback team = %s, want mafia", result.WinningTeam)
		}
	case <-time.After(time.Second):
		t.Fatal("end callback never ran")
	}
}

func TestSnapshotListsPlayersInOrder(t *testing.T) {
	a := newRecordingAnnouncer()
	m := startedManager(a, map[int64]Role{
		3: NewMafia(),
		1: NewCitizen(),
		2: NewDetective(),
		4: NewCitizen(),
	})
	m.players[4].Alive = false
	m.clock.Set(PhaseNight, 0)

	snap := m.Snapshot()

	if snap.ChatID != 100 || !snap.Started || snap.Phase != string(PhaseNight) {
		t.Errorf("snapshot header = %+v", snap)
	}
	if len(snap.Players) != 4 {
		t.Fatalf("player count = %d, want 4", len(snap.Players))
	}
	for i := 1; i < len(snap.Players); i++ {
		if snap.Players[i-1].UserID > snap.Players[i].UserID {
			t.Fatal("players not ordered by user ID")
		}
	}
	if snap.Players[3].Alive {
		t.Error("dead player marked alive in the snapshot")
	}
	if snap.Players[2].Role != RoleMafia {
		t.Errorf("player 3 role = %s, want mafia", snap.Players[2].Role)
	}
}
