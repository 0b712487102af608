package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mafia-bot/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))

	switch {
	case data == "join":
		b.joinUser(ctx, chatID, callback.From)
		b.answerCallback(callback, "")

	case data == "menu_open":
		b.openLobby(ctx, callback.Message.Chat)
		b.answerCallback(callback, "")
	case data == "menu_join":
		b.joinUser(ctx, chatID, callback.From)
		b.answerCallback(callback, "")
	case data == "menu_leave":
		b.leaveUser(ctx, chatID, callback.From)
		b.answerCallback(callback, "")
	case data == "menu_game":
		b.startGame(ctx, chatID)
		b.answerCallback(callback, "")
	case data == "menu_stop":
		b.stopGame(ctx, chatID)
		b.answerCallback(callback, "")
	case data == "menu_status":
		b.sendStatus(ctx, chatID)
		b.answerCallback(callback, "")
	case data == "menu_addbots":
		if b.cfg.IsAdmin(callback.From.ID) {
			b.addBots(ctx, chatID, 3)
		}
		b.answerCallback(callback, "")
	case data == "menu_back":
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, callback.Message.MessageID,
			"🎭 마피아 게임 메뉴", b.menuKeyboard())
		if _, err := b.bot.Send(edit); err != nil {
			reply := tgbotapi.NewMessage(chatID, "🎭 마피아 게임 메뉴")
			reply.ReplyMarkup = b.menuKeyboard()
			b.sendMessage(reply)
		}
		b.answerCallback(callback, "")

	case data == "menu_rules":
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(rulesText, game.MinPlayers)))
		b.answerCallback(callback, "")
	case data == "menu_roles":
		reply := tgbotapi.NewMessage(chatID, "팀을 선택하세요.")
		reply.ReplyMarkup = b.teamKeyboard()
		b.sendMessage(reply)
		b.answerCallback(callback, "")
	case strings.HasPrefix(data, "team_"):
		team := game.Team(strings.TrimPrefix(data, "team_"))
		b.sendMessage(tgbotapi.NewMessage(chatID, rolesOverview(team)))
		b.answerCallback(callback, "")

	case data == "menu_settings" || strings.HasPrefix(data, "settings_") || strings.HasPrefix(data, "role_"):
		b.handleSettingsCallback(ctx, callback)

	case strings.HasPrefix(data, "action_"):
		b.handleNightActionCallback(ctx, callback)
	case strings.HasPrefix(data, "guess_"):
		b.handleGuessCallback(callback)
	case data == "mafia_kill" || data == "mafia_sub":
		b.handleMafiaModeCallback(callback)

	case strings.HasPrefix(data, "vote_"):
		b.handleVoteCallback(ctx, callback)

	default:
		b.answerCallback(callback, "")
	}
}

func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		b.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

// nextDuration cycles a phase timer through the preset steps.
func nextDuration(current int) int {
	switch {
	case current < 30:
		return 30
	case current < 60:
		return 60
	case current < 90:
		return 90
	case current < 120:
		return 120
	}
	return 30
}

func (b *Bot) handleSettingsCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	settings, err := b.store.GetChatSettings(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to load chat settings",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.answerCallback(callback, "설정을 불러오지 못했습니다.")
		return
	}

	note := "다음 게임부터 적용됩니다."
	switch {
	case data == "menu_settings":
		note = ""
	case data == "settings_night":
		settings.NightDuration = nextDuration(settings.NightDuration)
	case data == "settings_day":
		settings.DayDuration = nextDuration(settings.DayDuration)
	case data == "settings_vote":
		settings.VoteDuration = nextDuration(settings.VoteDuration)
	case data == "settings_killmode":
		if settings.MafiaKillMode == game.KillModeTeam {
			settings.MafiaKillMode = game.KillModeIndividual
		} else {
			settings.MafiaKillMode = game.KillModeTeam
		}
	case data == "settings_subrole":
		settings.SubRoleEnabled = !settings.SubRoleEnabled
	case data == "settings_reset":
		if err := b.store.DropChatSettings(ctx, chatID); err != nil {
			b.logger.Warn("Failed to drop chat settings",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
		settings = game.DefaultSettings()
		note = "설정을 기본값으로 되돌렸습니다."
	case data == "settings_roles":
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, callback.Message.MessageID,
			"🃏 직업을 눌러 인원을 조절하세요. (0이 되면 비활성화됩니다)", b.roleToggleKeyboard(settings))
		if _, err := b.bot.Send(edit); err != nil {
			b.logger.Warn("Failed to edit settings message", zap.Error(err))
		}
		b.answerCallback(callback, "")
		return
	case strings.HasPrefix(data, "role_"):
		name := strings.TrimPrefix(data, "role_")
		if _, ok := settings.RoleCounts[name]; !ok {
			b.answerCallback(callback, "")
			return
		}
		settings.RoleCounts[name] = (settings.RoleCounts[name] + 1) % 4
		settings.EnabledRoles[name] = settings.RoleCounts[name] > 0

		if err := b.store.SetChatSettings(ctx, chatID, settings); err != nil {
			b.logger.Error("Failed to save chat settings", zap.Error(err))
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, callback.Message.MessageID,
			"🃏 직업을 눌러 인원을 조절하세요. (0이 되면 비활성화됩니다)", b.roleToggleKeyboard(settings))
		if _, err := b.bot.Send(edit); err != nil {
			b.logger.Warn("Failed to edit settings message", zap.Error(err))
		}
		b.answerCallback(callback, note)
		return
	}

	if data != "menu_settings" && data != "settings_reset" {
		if err := b.store.SetChatSettings(ctx, chatID, settings); err != nil {
			b.logger.Error("Failed to save chat settings",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			b.answerCallback(callback, "설정 저장에 실패했습니다.")
			return
		}
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, callback.Message.MessageID,
		settingsOverview(settings), b.settingsKeyboard(settings))
	if _, err := b.bot.Send(edit); err != nil {
		// menu_settings may arrive from the menu message, which has
		// different text; fall back to a fresh message.
		reply := tgbotapi.NewMessage(chatID, settingsOverview(settings))
		reply.ReplyMarkup = b.settingsKeyboard(settings)
		b.sendMessage(reply)
	}
	b.answerCallback(callback, note)
}

func (b *Bot) handleNightActionCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID

	targetID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, "action_"), 10, 64)
	if err != nil {
		b.answerCallback(callback, "")
		return
	}

	m := b.gameOfUser(userID)
	if m == nil {
		b.answerCallback(callback, "참가 중인 게임이 없습니다.")
		return
	}

	if err := m.PerformNightAction(userID, targetID); err != nil {
		switch err {
		case game.ErrWrongPhase:
			b.answerCallback(callback, "지금은 밤이 아닙니다.")
		case game.ErrDeadPlayer:
			b.answerCallback(callback, "사망한 플레이어는 행동할 수 없습니다.")
		default:
			b.answerCallback(callback, "행동에 실패했습니다.")
		}
		return
	}
	b.answerCallback(callback, "")

	// The architect still owes a role prediction for the chosen target.
	if p := m.Player(userID); p != nil && p.Role != nil && p.Role.Name() == game.RoleArchitect {
		reply := tgbotapi.NewMessage(callback.Message.Chat.ID, "예측할 직업을 선택하세요.")
		reply.ReplyMarkup = b.guessKeyboard()
		b.sendMessage(reply)
	}

	b.saveSnapshot(ctx, m)
}

func (b *Bot) handleGuessCallback(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	roleName := strings.TrimPrefix(callback.Data, "guess_")

	m := b.gameOfUser(userID)
	if m == nil {
		b.answerCallback(callback, "참가 중인 게임이 없습니다.")
		return
	}

	if err := m.SetArchitectGuess(userID, roleName); err != nil {
		b.answerCallback(callback, "예측을 등록하지 못했습니다.")
		return
	}
	b.answerCallback(callback, "예측이 등록되었습니다.")
}

func (b *Bot) handleMafiaModeCallback(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID

	m := b.gameOfUser(userID)
	if m == nil {
		b.answerCallback(callback, "참가 중인 게임이 없습니다.")
		return
	}

	actionType := game.MafiaActionKill
	note := "🔫 암살 모드로 전환했습니다."
	if callback.Data == "mafia_sub" {
		actionType = game.MafiaActionSubRole
		note = "🎭 서브 직업 모드로 전환했습니다. 대상을 선택하세요."
	}

	if err := m.SetMafiaAction(userID, actionType); err != nil {
		b.answerCallback(callback, "모드를 전환하지 못했습니다.")
		return
	}
	b.answerCallback(callback, note)
}

func (b *Bot) handleVoteCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	targetID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, "vote_"), 10, 64)
	if err != nil {
		b.answerCallback(callback, "")
		return
	}

	m := b.existingGame(chatID)
	if m == nil {
		b.answerCallback(callback, "진행 중인 게임이 없습니다.")
		return
	}

	if err := m.Vote(userID, targetID); err != nil {
		switch err {
		case game.ErrWrongPhase:
			b.answerCallback(callback, "지금은 투표 시간이 아닙니다.")
		case game.ErrSilenced:
			b.answerCallback(callback, "저주에 걸려 투표할 수 없습니다.")
		case game.ErrDeadPlayer:
			b.answerCallback(callback, "사망한 플레이어는 투표할 수 없습니다.")
		default:
			b.answerCallback(callback, "투표에 실패했습니다.")
		}
		return
	}

	b.answerCallback(callback, "투표했습니다.")
	b.saveSnapshot(ctx, m)
}
