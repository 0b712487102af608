package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mafia-bot/internal/game"

	"github.com/redis/go-redis/v9"
)

const (
	settingsTTL = 30 * 24 * time.Hour
	snapshotTTL = 24 * time.Hour
)

// Storage keeps per-chat game settings and live game snapshots.
type Storage struct {
	client *redis.Client
}

// New creates a new Redis client
func New(addr, password string, db int) *Storage {
	return &Storage{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     100,
			MinIdleConns: 10,
		}),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

// SetChatSettings stores the chat's game configuration.
func (s *Storage) SetChatSettings(ctx context.Context, chatID int64, settings *game.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return s.client.Set(ctx, buildSettingsKey(chatID), data, settingsTTL).Err()
}

// GetChatSettings loads the chat's game configuration, falling back to
// the defaults when none were saved yet.
func (s *Storage) GetChatSettings(ctx context.Context, chatID int64) (*game.Settings, error) {
	data, err := s.client.Get(ctx, buildSettingsKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var settings game.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &settings, nil
}

// DropChatSettings resets the chat back to the defaults.
func (s *Storage) DropChatSettings(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, buildSettingsKey(chatID)).Err()
}

// SetGameSnapshot caches the running game's state.
func (s *Storage) SetGameSnapshot(ctx context.Context, snapshot *game.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.client.Set(ctx, buildSnapshotKey(snapshot.ChatID), data, snapshotTTL).Err()
}

// GetGameSnapshot loads the cached game state, nil when there is none.
func (s *Storage) GetGameSnapshot(ctx context.Context, chatID int64) (*game.Snapshot, error) {
	data, err := s.client.Get(ctx, buildSnapshotKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snapshot game.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &snapshot, nil
}

// DropGameSnapshot removes the cached state when a game ends.
func (s *Storage) DropGameSnapshot(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, buildSnapshotKey(chatID)).Err()
}

func buildSettingsKey(chatID int64) string {
	return fmt.Sprintf("settings:%d", chatID)
}

func buildSnapshotKey(chatID int64) string {
	return fmt.Sprintf("game:%d", chatID)
}
