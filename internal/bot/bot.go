package bot

import (
	"context"
	"fmt"
	"sync"

	"mafia-bot/internal/config"
	"mafia-bot/internal/game"
	"mafia-bot/internal/storage"
	redisstore "mafia-bot/internal/storage/redis"
	"mafia-bot/pkg/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot runs the Telegram side of the game: one Manager per group chat,
// commands and callbacks routed into it, results persisted afterwards.
type Bot struct {
	bot     *tgbotapi.BotAPI
	logger  *zap.Logger
	cfg     *config.Config
	storage *storage.PostgresStorage
	store   *redisstore.Storage
	rate    *redis.Client

	mu        sync.Mutex
	games     map[int64]*game.Manager
	userGames map[int64]int64 // user ID -> group chat of their running game
	wills     map[int64]int64 // user ID -> group chat awaiting last-will text
}

func New(
	token string,
	rateClient *redis.Client,
	store *redisstore.Storage,
	pgStorage *storage.PostgresStorage,
	logger *zap.Logger,
	cfg *config.Config,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return &Bot{
		bot:       botAPI,
		logger:    logger,
		cfg:       cfg,
		storage:   pgStorage,
		store:     store,
		rate:      rateClient,
		games:     make(map[int64]*game.Manager),
		userGames: make(map[int64]int64),
		wills:     make(map[int64]int64),
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update := <-updates:
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.processCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Plain text in a private chat is only meaningful as a pending
	// last will.
	if msg.Chat.IsPrivate() {
		b.handleLastWillText(msg)
	}
}

// gameFor returns the manager of a group chat, creating a lobby with
// the chat's saved settings on first use.
func (b *Bot) gameFor(ctx context.Context, chatID int64) *game.Manager {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m, ok := b.games[chatID]; ok {
		return m
	}

	settings, err := b.store.GetChatSettings(ctx, chatID)
	if err != nil {
		b.logger.Warn("Failed to load chat settings, using defaults",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		settings = game.DefaultSettings()
	}

	m := game.NewManager(chatID, settings, b, func(result *game.Result) {
		b.persistResult(chatID, result)
	})
	b.games[chatID] = m
	return m
}

// existingGame returns the manager of a group chat, nil when none.
func (b *Bot) existingGame(chatID int64) *game.Manager {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.games[chatID]
}

// gameOfUser finds the game a user participates in, for private-chat
// night actions.
func (b *Bot) gameOfUser(userID int64) *game.Manager {
	b.mu.Lock()
	defer b.mu.Unlock()

	chatID, ok := b.userGames[userID]
	if !ok {
		return nil
	}
	return b.games[chatID]
}

func (b *Bot) bindUser(userID, chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userGames[userID] = chatID
}

func (b *Bot) unbindUser(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.userGames, userID)
}

// dropGame removes a finished or aborted game and its user bindings.
func (b *Bot) dropGame(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.games, chatID)
	for userID, gameChat := range b.userGames {
		if gameChat == chatID {
			delete(b.userGames, userID)
		}
	}
}

// persistResult saves a finished game to Postgres and clears the Redis
// snapshot. Runs on its own goroutine via the manager's end callback.
func (b *Bot) persistResult(chatID int64, result *game.Result) {
	ctx := context.Background()

	m := b.existingGame(chatID)
	if m == nil {
		return
	}
	snap := m.Snapshot()

	record := storage.GameRecord{
		ChatID:      chatID,
		WinningTeam: string(result.WinningTeam),
		WinnerID:    result.WinnerID,
		PlayerCount: len(snap.Players),
		DayCount:    result.DayCount,
		StartedAt:   result.StartedAt,
		EndedAt:     result.EndedAt,
	}

	players := make([]storage.GamePlayerRecord, 0, len(snap.Players))
	for _, p := range snap.Players {
		won := p.Team == string(result.WinningTeam)
		if result.WinnerID != 0 {
			won = p.UserID == result.WinnerID
		}
		players = append(players, storage.GamePlayerRecord{
			UserID:   p.UserID,
			Name:     p.Name,
			RoleName: p.Role,
			Team:     p.Team,
			Survived: p.Alive,
			Won:      won,
		})
	}

	if _, err := b.storage.SaveGame(ctx, record, players); err != nil {
		b.logger.Error("Failed to save game result",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	if err := b.store.DropGameSnapshot(ctx, chatID); err != nil {
		b.logger.Warn("Failed to drop game snapshot",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	b.dropGame(chatID)
}

// saveSnapshot refreshes the cached game state after an update touched it.
func (b *Bot) saveSnapshot(ctx context.Context, m *game.Manager) {
	if err := b.store.SetGameSnapshot(ctx, m.Snapshot()); err != nil {
		b.logger.Warn("Failed to save game snapshot",
			zap.Int64("chat_id", m.ChatID()),
			zap.Error(err))
	}
}

// Announce implements game.Announcer.
func (b *Bot) Announce(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.sendMessage(msg)
}

// Whisper implements game.Announcer.
func (b *Bot) Whisper(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.sendMessage(msg)
}

// PromptNightAction implements game.Announcer.
func (b *Bot) PromptNightAction(player *game.Player, targets []*game.Player) {
	msg := tgbotapi.NewMessage(player.ChatID, "🌙 오늘 밤 행동할 대상을 선택하세요.")
	msg.ReplyMarkup = b.nightActionKeyboard(player, targets)
	b.sendMessage(msg)
}

// PromptVote implements game.Announcer.
func (b *Bot) PromptVote(chatID int64, alive []*game.Player) {
	msg := tgbotapi.NewMessage(chatID, "🗳 처형할 사람에게 투표하세요.")
	msg.ReplyMarkup = b.voteKeyboard(alive)
	b.sendMessage(msg)
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if msg.ChatID == 0 {
		return
	}
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.sendMessage(msg)
}
