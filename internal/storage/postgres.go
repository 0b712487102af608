package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"mafia-bot/internal/config"
	"mafia-bot/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type PostgresStorage struct {
	db     *sqlx.DB
	redis  *redis.Client
	logger *zap.Logger
}

// GameRecord is one finished game.
type GameRecord struct {
	ID          int64     `db:"id"`
	ChatID      int64     `db:"chat_id"`
	WinningTeam string    `db:"winning_team"`
	WinnerID    int64     `db:"winner_id"`
	PlayerCount int       `db:"player_count"`
	DayCount    int       `db:"day_count"`
	StartedAt   time.Time `db:"started_at"`
	EndedAt     time.Time `db:"ended_at"`
}

// GamePlayerRecord is one participant of a finished game.
type GamePlayerRecord struct {
	ID       int64  `db:"id"`
	GameID   int64  `db:"game_id"`
	UserID   int64  `db:"user_id"`
	Name     string `db:"name"`
	RoleName string `db:"role_name"`
	Team     string `db:"team"`
	Survived bool   `db:"survived"`
	Won      bool   `db:"won"`
}

func NewPostgresStorage(ctx context.Context, cfg config.Config, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// SaveGame stores a finished game and its roster in one transaction and
// returns the new game ID.
func (s *PostgresStorage) SaveGame(ctx context.Context, game GameRecord, players []GamePlayerRecord) (int64, error) {
	const operation = "storage.SaveGame"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin tx: %w", operation, err)
	}
	defer tx.Rollback()

	const gameQuery = `
        INSERT INTO games (
            chat_id, winning_team, winner_id, player_count,
            day_count, started_at, ended_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	var gameID int64
	err = tx.QueryRowContext(ctx, gameQuery,
		game.ChatID,
		game.WinningTeam,
		game.WinnerID,
		game.PlayerCount,
		game.DayCount,
		game.StartedAt,
		game.EndedAt,
	).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save game: %w", operation, err)
	}

	const playerQuery = `
        INSERT INTO game_players (
            game_id, user_id, name, role_name, team, survived, won
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	for _, p := range players {
		if _, err := tx.ExecContext(ctx, playerQuery,
			gameID, p.UserID, p.Name, p.RoleName, p.Team, p.Survived, p.Won,
		); err != nil {
			return 0, fmt.Errorf("%s: failed to save player: %w", operation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: failed to commit: %w", operation, err)
	}

	// Invalidate statistics cache
	s.redis.Del(ctx, fmt.Sprintf("chat_stats:%d", game.ChatID))

	return gameID, nil
}

// RecentGames lists the latest finished games of a chat.
func (s *PostgresStorage) RecentGames(ctx context.Context, chatID int64, limit int) ([]GameRecord, error) {
	const query = `
        SELECT id, chat_id, winning_team, winner_id, player_count,
               day_count, started_at, ended_at
        FROM games
        WHERE chat_id = $1
        ORDER BY ended_at DESC
        LIMIT $2
    `

	var games []GameRecord
	if err := s.db.SelectContext(ctx, &games, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent games: %w", err)
	}
	return games, nil
}

// GamePlayers lists the roster of one finished game.
func (s *PostgresStorage) GamePlayers(ctx context.Context, gameID int64) ([]GamePlayerRecord, error) {
	const query = `
        SELECT id, game_id, user_id, name, role_name, team, survived, won
        FROM game_players
        WHERE game_id = $1
        ORDER BY id
    `

	var players []GamePlayerRecord
	if err := s.db.SelectContext(ctx, &players, query, gameID); err != nil {
		return nil, fmt.Errorf("failed to get game players: %w", err)
	}
	return players, nil
}

type ChatStatistics struct {
	TotalGames  int            `json:"total_games"`
	MafiaWins   int            `json:"mafia_wins"`
	CitizenWins int            `json:"citizen_wins"`
	NeutralWins int            `json:"neutral_wins"`
	AverageDays float64        `json:"average_days"`
	RolePlayed  map[string]int `json:"role_played"`
}

// GetChatStatistics aggregates the game history of one chat, cached in
// Redis for an hour.
func (s *PostgresStorage) GetChatStatistics(ctx context.Context, chatID int64) (*ChatStatistics, error) {
	cacheKey := fmt.Sprintf("chat_stats:%d", chatID)

	// Try Redis first
	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var stats ChatStatistics
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &ChatStatistics{
		RolePlayed: make(map[string]int),
	}

	type totals struct {
		TotalGames  int     `db:"total_games"`
		MafiaWins   int     `db:"mafia_wins"`
		CitizenWins int     `db:"citizen_wins"`
		NeutralWins int     `db:"neutral_wins"`
		AverageDays float64 `db:"average_days"`
	}

	var t totals
	err := s.db.GetContext(ctx, &t, `
        SELECT
            COUNT(*) as total_games,
            COUNT(*) FILTER (WHERE winning_team = '마피아팀') as mafia_wins,
            COUNT(*) FILTER (WHERE winning_team = '시민팀') as citizen_wins,
            COUNT(*) FILTER (WHERE winning_team = '중립팀') as neutral_wins,
            COALESCE(AVG(day_count), 0) as average_days
        FROM games
        WHERE chat_id = $1
    `, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat totals: %w", err)
	}
	stats.TotalGames = t.TotalGames
	stats.MafiaWins = t.MafiaWins
	stats.CitizenWins = t.CitizenWins
	stats.NeutralWins = t.NeutralWins
	stats.AverageDays = t.AverageDays

	rows, err := s.db.QueryContext(ctx, `
        SELECT gp.role_name, COUNT(*) as count
        FROM game_players gp
        JOIN games g ON g.id = gp.game_id
        WHERE g.chat_id = $1
        GROUP BY gp.role_name
    `, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleName string
		var count int
		if err := rows.Scan(&roleName, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		stats.RolePlayed[roleName] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read role counts: %w", err)
	}

	// Cache the result
	if data, err := json.Marshal(stats); err == nil {
		s.redis.Set(ctx, cacheKey, data, 1*time.Hour)
	}

	return stats, nil
}

// ExportGamesToExcel writes the chat's game history to an xlsx report
// and returns its path.
func (s *PostgresStorage) ExportGamesToExcel(ctx context.Context, chatID int64) (string, error) {
	games, err := s.RecentGames(ctx, chatID, 1000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch games: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet("Games")
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Chat ID", "Winning Team", "Winner ID",
		"Players", "Days", "Started At", "Ended At",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Games", cell, header)
	}

	for row, game := range games {
		data := []interface{}{
			game.ID,
			game.ChatID,
			game.WinningTeam,
			game.WinnerID,
			game.PlayerCount,
			game.DayCount,
			game.StartedAt.Format("2006-01-02 15:04"),
			game.EndedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Games", cell, value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle("Games", "A1", "H1", style)

	if err := s.addPlayersSheet(ctx, f, games, style); err != nil {
		return "", err
	}

	f.SetActiveSheet(index)

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filepath := fmt.Sprintf("reports/games_%d_%s.xlsx", chatID, time.Now().Format("20060102_1504"))
	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}

// addPlayersSheet appends the per-player rosters of the most recent
// games to the report. Capped at 50 games to keep the file small.
func (s *PostgresStorage) addPlayersSheet(ctx context.Context, f *excelize.File, games []GameRecord, headerStyle int) error {
	if _, err := f.NewSheet("Players"); err != nil {
		return fmt.Errorf("failed to create players sheet: %w", err)
	}

	headers := []string{
		"Game ID", "User ID", "Name", "Role", "Team", "Survived", "Won",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Players", cell, header)
	}
	f.SetCellStyle("Players", "A1", "G1", headerStyle)

	if len(games) > 50 {
		games = games[:50]
	}

	row := 2
	for _, game := range games {
		players, err := s.GamePlayers(ctx, game.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch roster for game %d: %w", game.ID, err)
		}

		for _, p := range players {
			data := []interface{}{
				p.GameID,
				p.UserID,
				p.Name,
				p.RoleName,
				p.Team,
				p.Survived,
				p.Won,
			}
			for col, value := range data {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue("Players", cell, value)
			}
			row++
		}
	}

	return nil
}

// PlayerGameCount reports how many recorded games a user played in a chat.
func (s *PostgresStorage) PlayerGameCount(ctx context.Context, chatID, userID int64) (int, error) {
	const query = `
        SELECT COUNT(*)
        FROM game_players gp
        JOIN games g ON g.id = gp.game_id
        WHERE g.chat_id = $1 AND gp.user_id = $2
    `

	var count int
	err := s.db.GetContext(ctx, &count, query, chatID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count player games: %w", err)
	}
	return count, nil
}

// DB exposes the underlying connection for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
