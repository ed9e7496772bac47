package services

import (
	"context"
	"sync"

	"github.com/ytsaryk/geoquest/pkg/weather"
)

// MockWeather is a mock implementation of WeatherService for testing.
type MockWeather struct {
	GetReadingFunc func(ctx context.Context, lat, lon float64) (weather.Reading, error)

	// Track calls for testing
	GetReadingCalls [][2]float64

	mu sync.Mutex
}

var _ WeatherService = (*MockWeather)(nil)

// NewMockWeather creates a new mock weather service.
func NewMockWeather() *MockWeather {
	return &MockWeather{}
}

// FixedReading returns a mock that always reports the given code with
// its decoded label and air status.
func FixedReading(code int, status weather.AirStatus) *MockWeather {
	return &MockWeather{
		GetReadingFunc: func(ctx context.Context, lat, lon float64) (weather.Reading, error) {
			return weather.Reading{
				Code:       code,
				Condition:  weather.ConditionLabel(code),
				AirQuality: &weather.AirQuality{Status: status},
			}, nil
		},
	}
}

func (m *MockWeather) GetReading(ctx context.Context, lat, lon float64) (weather.Reading, error) {
	m.mu.Lock()
	m.GetReadingCalls = append(m.GetReadingCalls, [2]float64{lat, lon})
	fn := m.GetReadingFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, lat, lon)
	}
	// Default behavior - clear sky
	return weather.Reading{Code: 0, Condition: weather.ConditionLabel(0)}, nil
}
