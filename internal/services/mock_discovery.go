package services

import (
	"context"
	"sync"

	"github.com/ytsaryk/geoquest/pkg/quest"
)

// MockDiscovery is a mock implementation of Discovery for testing.
type MockDiscovery struct {
	FindPlacesFunc func(ctx context.Context, lat, lon float64) ([]quest.Place, error)

	// Track calls for testing
	FindPlacesCalls [][2]float64

	mu sync.Mutex
}

var _ Discovery = (*MockDiscovery)(nil)

// NewMockDiscovery creates a new mock discovery service.
func NewMockDiscovery() *MockDiscovery {
	return &MockDiscovery{}
}

func (m *MockDiscovery) FindPlaces(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
	m.mu.Lock()
	m.FindPlacesCalls = append(m.FindPlacesCalls, [2]float64{lat, lon})
	fn := m.FindPlacesFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, lat, lon)
	}
	return nil, nil
}
