package services

import (
	"context"
	"sort"
	"sync"
)

// MockLeaderboard is an in-memory Leaderboard for testing.
type MockLeaderboard struct {
	RecordFunc func(ctx context.Context, name string, totalXP int) error
	TopFunc    func(ctx context.Context, n int) ([]LeaderboardEntry, error)

	// Track state for testing
	Scores map[string]int

	mu sync.Mutex
}

var _ Leaderboard = (*MockLeaderboard)(nil)

// NewMockLeaderboard creates a new mock leaderboard.
func NewMockLeaderboard() *MockLeaderboard {
	return &MockLeaderboard{Scores: make(map[string]int)}
}

func (m *MockLeaderboard) Record(ctx context.Context, name string, totalXP int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, name, totalXP)
	}
	m.Scores[name] = totalXP
	return nil
}

func (m *MockLeaderboard) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TopFunc != nil {
		return m.TopFunc(ctx, n)
	}

	entries := make([]LeaderboardEntry, 0, len(m.Scores))
	for name, xp := range m.Scores {
		entries = append(entries, LeaderboardEntry{Name: name, TotalXP: xp})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TotalXP > entries[j].TotalXP })
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (m *MockLeaderboard) Ping(ctx context.Context) error { return nil }
func (m *MockLeaderboard) Close() error                   { return nil }
