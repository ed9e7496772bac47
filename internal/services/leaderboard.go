package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "geoquest:leaderboard"

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	Name    string `json:"name"`
	TotalXP int    `json:"total_xp"`
}

// Leaderboard mirrors lifetime XP totals so players can compare runs.
// It is an optional collaborator: requests degrade to an empty board
// when it is down.
type Leaderboard interface {
	Record(ctx context.Context, name string, totalXP int) error
	Top(ctx context.Context, n int) ([]LeaderboardEntry, error)
	Ping(ctx context.Context) error
	Close() error
}

// RedisLeaderboard implements Leaderboard on a Redis sorted set.
type RedisLeaderboard struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Leaderboard = (*RedisLeaderboard)(nil)

// NewRedisLeaderboard creates a leaderboard on the given Redis URL
// (redis://host:port form).
func NewRedisLeaderboard(redisURL string, logger *slog.Logger) (*RedisLeaderboard, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &RedisLeaderboard{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func (l *RedisLeaderboard) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Record sets the player's lifetime XP total. ZADD overwrites the
// score, so totals are idempotent to replay.
func (l *RedisLeaderboard) Record(ctx context.Context, name string, totalXP int) error {
	cmd := l.client.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(totalXP), Member: name})
	if err := cmd.Err(); err != nil {
		l.logger.Error("Leaderboard record failed", "name", name, "error", err)
		return fmt.Errorf("leaderboard record failed: %w", err)
	}
	return nil
}

// Top returns the n highest XP totals, best first.
func (l *RedisLeaderboard) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	cmd := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1))
	rows, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard read failed: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		name, ok := row.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{Name: name, TotalXP: int(row.Score)})
	}
	return entries, nil
}

func (l *RedisLeaderboard) Close() error {
	if err := l.client.Close(); err != nil {
		l.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
