package services

import (
	"context"
	"sync"

	"github.com/ytsaryk/geoquest/pkg/quest"
)

// MockNarrator is a mock implementation of Narrator for testing.
type MockNarrator struct {
	GenerateQuestFunc   func(ctx context.Context, place quest.Place) (quest.Quest, error)
	RecommendFunc       func(ctx context.Context, q quest.Quest) (string, error)
	EncourageIndoorFunc func(ctx context.Context, from quest.Quest, alt quest.Place, condition string) (string, error)

	// Track calls for testing
	GenerateQuestCalls []quest.Place
	RecommendCalls     []quest.Quest

	mu sync.Mutex
}

var _ Narrator = (*MockNarrator)(nil)

// NewMockNarrator creates a new mock narrator.
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{}
}

func (m *MockNarrator) GenerateQuest(ctx context.Context, place quest.Place) (quest.Quest, error) {
	m.mu.Lock()
	m.GenerateQuestCalls = append(m.GenerateQuestCalls, place)
	fn := m.GenerateQuestFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, place)
	}
	// Default behavior - templated fallback content
	return quest.Fallback(place), nil
}

func (m *MockNarrator) Recommend(ctx context.Context, q quest.Quest) (string, error) {
	m.mu.Lock()
	m.RecommendCalls = append(m.RecommendCalls, q)
	fn := m.RecommendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	return "Your next adventure awaits!", nil
}

func (m *MockNarrator) EncourageIndoor(ctx context.Context, from quest.Quest, alt quest.Place, condition string) (string, error) {
	m.mu.Lock()
	fn := m.EncourageIndoorFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, from, alt, condition)
	}
	return "Weather is " + condition + ". Consider visiting " + alt.Name + " indoors instead.", nil
}
