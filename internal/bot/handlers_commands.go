package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mafia-bot/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.sendMessage(tgbotapi.NewMessage(chatID, welcomeText))
	case "help":
		b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
	case "menu":
		reply := tgbotapi.NewMessage(chatID, "🎭 마피아 게임 메뉴")
		reply.ReplyMarkup = b.menuKeyboard()
		b.sendMessage(reply)

	case "open":
		b.handleOpen(ctx, msg)
	case "join":
		b.handleJoin(ctx, msg)
	case "leave":
		b.handleLeave(ctx, msg)
	case "players":
		if m := b.existingGame(chatID); m != nil {
			b.sendMessage(tgbotapi.NewMessage(chatID, m.PlayerList()))
		} else {
			b.sendError(chatID, "진행 중인 게임이 없습니다.")
		}
	case "game":
		b.handleStartNow(ctx, msg)
	case "stop":
		b.handleStop(ctx, msg)
	case "status":
		b.sendStatus(ctx, chatID)
	case "night":
		if msg.Chat.IsPrivate() {
			b.handleNightPrompt(msg)
		} else {
			b.handleForcePhase(ctx, msg)
		}

	case "settings":
		b.handleSettings(ctx, msg)
	case "setmafiachat":
		b.handleSetSideChat(ctx, msg, args, true)
	case "setloverschat":
		b.handleSetSideChat(ctx, msg, args, false)

	case "lastwill":
		b.handleLastWill(msg, args)
	case "addbots":
		b.handleAddBots(ctx, msg, args)

	case "export", "stats":
		b.handleAdminCommand(ctx, chatID, userID, msg.Command())

	default:
		b.sendError(chatID, "알 수 없는 명령어입니다. /help 를 확인하세요.")
	}
}

func isGroup(chat *tgbotapi.Chat) bool {
	return chat.IsGroup() || chat.IsSuperGroup()
}

func (b *Bot) handleOpen(ctx context.Context, msg *tgbotapi.Message) {
	b.openLobby(ctx, msg.Chat)
}

// openLobby is shared by the /open command and the menu button.
func (b *Bot) openLobby(ctx context.Context, chat *tgbotapi.Chat) {
	chatID := chat.ID
	if !isGroup(chat) {
		b.sendError(chatID, "그룹 채팅에서만 게임을 열 수 있습니다.")
		return
	}

	m := b.gameFor(ctx, chatID)
	if err := m.OpenLobby(); err != nil {
		b.sendError(chatID, "이미 모집 중이거나 게임이 진행 중입니다.")
		return
	}

	reply := tgbotapi.NewMessage(chatID, "버튼으로도 참가할 수 있습니다.")
	reply.ReplyMarkup = b.joinKeyboard()
	b.sendMessage(reply)
	b.saveSnapshot(ctx, m)
}

func (b *Bot) handleJoin(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !isGroup(msg.Chat) {
		b.sendError(chatID, "그룹 채팅에서만 참가할 수 있습니다.")
		return
	}
	b.joinUser(ctx, chatID, msg.From)
}

// joinUser is shared by the /join command and the join button.
func (b *Bot) joinUser(ctx context.Context, chatID int64, from *tgbotapi.User) {
	limited, err := b.rate.CheckRateLimit(ctx, from.ID, "join", 10, time.Minute)
	if err != nil {
		b.logger.Warn("Rate limit check failed", zap.Error(err))
	}
	if limited {
		return
	}

	m := b.existingGame(chatID)
	if m == nil {
		b.sendError(chatID, "모집 중인 게임이 없습니다. /open 으로 게임을 여세요.")
		return
	}

	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}

	// A user's private chat shares their user ID.
	if err := m.AddPlayer(from.ID, name, from.ID); err != nil {
		switch err {
		case game.ErrAlreadyJoined:
			b.sendError(chatID, fmt.Sprintf("%s님은 이미 참가했습니다.", name))
		case game.ErrAlreadyStarted:
			b.sendError(chatID, "게임이 이미 시작되어 참가할 수 없습니다.")
		default:
			b.sendError(chatID, "참가에 실패했습니다.")
		}
		return
	}

	b.bindUser(from.ID, chatID)
	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ %s님이 참가했습니다. (현재 %d명)", name, m.PlayerCount())))

	// Probe the DM now so a missing role card surfaces at join, not at
	// the first night.
	if _, err := b.bot.Send(tgbotapi.NewMessage(from.ID, joinWhisperText)); err != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(dmWarningText, name)))
	}

	b.saveSnapshot(ctx, m)
}

func (b *Bot) handleLeave(ctx context.Context, msg *tgbotapi.Message) {
	b.leaveUser(ctx, msg.Chat.ID, msg.From)
}

// leaveUser is shared by the /leave command and the menu button.
func (b *Bot) leaveUser(ctx context.Context, chatID int64, from *tgbotapi.User) {
	m := b.existingGame(chatID)
	if m == nil {
		b.sendError(chatID, "진행 중인 게임이 없습니다.")
		return
	}

	if err := m.RemovePlayer(from.ID); err != nil {
		if err == game.ErrAlreadyStarted {
			b.sendError(chatID, "게임이 이미 시작되어 나갈 수 없습니다.")
		} else {
			b.sendError(chatID, "참가자 목록에 없습니다.")
		}
		return
	}

	b.unbindUser(from.ID)
	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"👋 %s님이 참가를 취소했습니다. (현재 %d명)", from.FirstName, m.PlayerCount())))
	b.saveSnapshot(ctx, m)
}

func (b *Bot) handleStartNow(ctx context.Context, msg *tgbotapi.Message) {
	b.startGame(ctx, msg.Chat.ID)
}

// startGame is shared by the /game command and the menu button.
func (b *Bot) startGame(ctx context.Context, chatID int64) {
	m := b.existingGame(chatID)
	if m == nil {
		b.sendError(chatID, "모집 중인 게임이 없습니다. /open 으로 게임을 여세요.")
		return
	}

	if err := m.Start(); err != nil {
		switch err {
		case game.ErrNotEnoughPlayers:
			b.sendError(chatID, fmt.Sprintf(
				"게임을 시작하려면 최소 %d명의 플레이어가 필요합니다. (현재 %d명)",
				game.MinPlayers, m.PlayerCount()))
		case game.ErrAlreadyStarted:
			b.sendError(chatID, "게임이 이미 시작되었습니다.")
		default:
			b.sendError(chatID, "게임 시작에 실패했습니다.")
		}
		return
	}
	b.saveSnapshot(ctx, m)
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) {
	b.stopGame(ctx, msg.Chat.ID)
}

// stopGame is shared by the /stop command and the menu button.
func (b *Bot) stopGame(ctx context.Context, chatID int64) {
	m := b.existingGame(chatID)
	if m == nil {
		b.sendError(chatID, "진행 중인 게임이 없습니다.")
		return
	}

	if err := m.Stop(); err != nil {
		b.sendError(chatID, "진행 중인 게임이 없습니다.")
		return
	}

	if err := b.store.DropGameSnapshot(ctx, chatID); err != nil {
		b.logger.Warn("Failed to drop game snapshot",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.dropGame(chatID)
}

// sendStatus renders the live game state, falling back to the cached
// snapshot when the bot restarted and holds no manager for the chat.
func (b *Bot) sendStatus(ctx context.Context, chatID int64) {
	if m := b.existingGame(chatID); m != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID, m.Status()))
		return
	}

	snap, err := b.store.GetGameSnapshot(ctx, chatID)
	if err != nil {
		b.logger.Warn("Failed to load game snapshot",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if snap != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID, snapshotStatus(snap)))
		return
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, "진행 중인 게임이 없습니다. /open 으로 게임을 시작하세요."))
}

// handleNightPrompt re-sends the caller's night-action keyboard after
// the original one was dismissed.
func (b *Bot) handleNightPrompt(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	m := b.gameOfUser(msg.From.ID)
	if m == nil {
		b.sendError(chatID, "참가 중인 게임이 없습니다.")
		return
	}

	if err := m.PromptNight(msg.From.ID); err != nil {
		switch err {
		case game.ErrWrongPhase:
			b.sendError(chatID, "지금은 밤이 아닙니다.")
		case game.ErrDeadPlayer:
			b.sendError(chatID, "사망한 플레이어는 행동할 수 없습니다.")
		case game.ErrNoNightAction:
			b.sendError(chatID, "오늘 밤 선택할 행동이 없습니다.")
		default:
			b.sendError(chatID, "행동 선택지를 보내지 못했습니다.")
		}
	}
}

func (b *Bot) handleForcePhase(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.cfg.IsAdmin(msg.From.ID) {
		return
	}

	m := b.existingGame(chatID)
	if m == nil {
		b.sendError(chatID, "진행 중인 게임이 없습니다.")
		return
	}

	if err := m.ForceNextPhase(); err != nil {
		b.sendError(chatID, "넘길 단계가 없습니다.")
		return
	}
	b.saveSnapshot(ctx, m)
}

func (b *Bot) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !isGroup(msg.Chat) {
		b.sendError(chatID, "그룹 채팅에서만 설정을 변경할 수 있습니다.")
		return
	}

	settings, err := b.store.GetChatSettings(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to load chat settings",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "설정을 불러오지 못했습니다.")
		return
	}

	reply := tgbotapi.NewMessage(chatID, settingsOverview(settings))
	reply.ReplyMarkup = b.settingsKeyboard(settings)
	b.sendMessage(reply)
}

// handleSetSideChat registers the issuing chat as the mafia or lovers
// side chat of the user's running game.
func (b *Bot) handleSetSideChat(ctx context.Context, msg *tgbotapi.Message, args []string, mafia bool) {
	chatID := msg.Chat.ID

	var m *game.Manager
	if len(args) > 0 {
		gameChatID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendError(chatID, "잘못된 채팅 ID입니다.")
			return
		}
		m = b.existingGame(gameChatID)
	} else {
		m = b.gameOfUser(msg.From.ID)
	}

	if m == nil {
		b.sendError(chatID, "연결할 게임을 찾지 못했습니다. 먼저 게임에 참가하세요.")
		return
	}

	if mafia {
		m.SetMafiaChat(chatID)
		b.sendMessage(tgbotapi.NewMessage(chatID, "😈 이 채팅이 마피아 채팅방으로 등록되었습니다."))
	} else {
		m.SetLoversChat(chatID)
		b.sendMessage(tgbotapi.NewMessage(chatID, "💘 이 채팅이 연인 채팅방으로 등록되었습니다."))
	}
}

func (b *Bot) handleLastWill(msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID
	if !msg.Chat.IsPrivate() {
		b.sendError(chatID, "유언은 개인 채팅에서만 남길 수 있습니다.")
		return
	}

	m := b.gameOfUser(msg.From.ID)
	if m == nil {
		b.sendError(chatID, "참가 중인 게임이 없습니다.")
		return
	}

	if len(args) == 0 {
		b.mu.Lock()
		b.wills[msg.From.ID] = m.ChatID()
		b.mu.Unlock()
		b.sendMessage(tgbotapi.NewMessage(chatID, "📜 남길 유언을 입력하세요."))
		return
	}

	b.storeLastWill(msg.From.ID, chatID, m, strings.Join(args, " "))
}

// handleLastWillText consumes the pending /lastwill follow-up message.
func (b *Bot) handleLastWillText(msg *tgbotapi.Message) {
	b.mu.Lock()
	gameChatID, pending := b.wills[msg.From.ID]
	if pending {
		delete(b.wills, msg.From.ID)
	}
	b.mu.Unlock()

	if !pending || msg.Text == "" {
		return
	}

	m := b.existingGame(gameChatID)
	if m == nil {
		return
	}
	b.storeLastWill(msg.From.ID, msg.Chat.ID, m, msg.Text)
}

func (b *Bot) storeLastWill(userID, chatID int64, m *game.Manager, text string) {
	if err := m.SetLastWill(userID, text); err != nil {
		b.sendError(chatID, "유언을 저장하지 못했습니다.")
		return
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, "📜 유언이 저장되었습니다. 사망 시 공개됩니다."))
}

// handleAddBots fills the lobby with test players for local games.
func (b *Bot) handleAddBots(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		return
	}

	count := 3
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 && n <= 15 {
			count = n
		}
	}
	b.addBots(ctx, msg.Chat.ID, count)
}

// addBots is shared by the /addbots command and the menu button.
func (b *Bot) addBots(ctx context.Context, chatID int64, count int) {
	m := b.existingGame(chatID)
	if m == nil {
		b.sendError(chatID, "모집 중인 게임이 없습니다.")
		return
	}

	added := 0
	for i := 1; added < count && i <= 100; i++ {
		// Negative IDs cannot collide with Telegram users; ChatID 0
		// suppresses whispers.
		if err := m.AddPlayer(int64(-i), fmt.Sprintf("봇%d", i), 0); err == nil {
			added++
		}
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🤖 테스트 봇 %d명이 참가했습니다. (현재 %d명)", added, m.PlayerCount())))
	b.saveSnapshot(ctx, m)
}
