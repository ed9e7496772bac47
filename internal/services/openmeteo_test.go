package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ytsaryk/geoquest/pkg/weather"
)

func TestOpenMeteoService_GetReading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current_weather") != "true" {
			t.Error("Expected current_weather=true in the query")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current_weather": {"temperature": 21.5, "weathercode": 63}}`))
	}))
	defer srv.Close()

	s := NewOpenMeteoService("", 5*time.Second, 5*time.Second, testLogger())
	s.baseURL = srv.URL

	reading, err := s.GetReading(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reading.Code != 63 {
		t.Errorf("Expected code 63, got %d", reading.Code)
	}
	if reading.Temperature != 21.5 {
		t.Errorf("Expected temperature 21.5, got %.1f", reading.Temperature)
	}
	if reading.Condition != weather.ConditionLabel(63) {
		t.Errorf("Expected condition label for code 63, got %q", reading.Condition)
	}
	// No Copernicus token: air quality degrades to unknown.
	if reading.AirQuality == nil || reading.AirQuality.Status != weather.AirUnknown {
		t.Errorf("Expected unknown air quality without a token, got %+v", reading.AirQuality)
	}
}

func TestOpenMeteoService_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewOpenMeteoService("", 5*time.Second, 5*time.Second, testLogger())
	s.baseURL = srv.URL

	if _, err := s.GetReading(context.Background(), 48.72, 21.25); err == nil {
		t.Error("Expected an error on non-200 response")
	}
}

func TestOpenMeteoService_AirQualityFailureDegrades(t *testing.T) {
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_weather": {"temperature": 10, "weathercode": 0}}`))
	}))
	defer weatherSrv.Close()
	airSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer airSrv.Close()

	s := NewOpenMeteoService("some-token", 5*time.Second, 5*time.Second, testLogger())
	s.baseURL = weatherSrv.URL
	s.copernicusURL = airSrv.URL

	reading, err := s.GetReading(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatalf("Expected the weather fetch to survive an air-quality failure, got %v", err)
	}
	if reading.AirQuality == nil || reading.AirQuality.Status != weather.AirUnknown {
		t.Errorf("Expected unknown air quality, got %+v", reading.AirQuality)
	}
}

func TestOpenMeteoService_AirQuality(t *testing.T) {
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_weather": {"temperature": 10, "weathercode": 0}}`))
	}))
	defer weatherSrv.Close()
	airSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer some-token" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte("raster-bytes"))
	}))
	defer airSrv.Close()

	s := NewOpenMeteoService("some-token", 5*time.Second, 5*time.Second, testLogger())
	s.baseURL = weatherSrv.URL
	s.copernicusURL = airSrv.URL

	reading, err := s.GetReading(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// The representative sample value lands in the moderate bucket.
	if reading.AirQuality == nil || reading.AirQuality.Status != weather.AirModerate {
		t.Errorf("Expected moderate air quality, got %+v", reading.AirQuality)
	}
}

func TestClassifyNO2(t *testing.T) {
	tests := []struct {
		value float64
		want  weather.AirStatus
	}{
		{0.0, weather.AirGood},
		{0.0002, weather.AirGood},
		{0.0003, weather.AirModerate},
		{0.0007, weather.AirModerate},
		{0.0008, weather.AirBad},
		{0.0014, weather.AirBad},
		{0.0015, weather.AirVeryBad},
		{0.01, weather.AirVeryBad},
	}
	for _, tc := range tests {
		if got := classifyNO2(tc.value); got.Status != tc.want {
			t.Errorf("classifyNO2(%g) = %s, want %s", tc.value, got.Status, tc.want)
		}
	}
}

func TestMeanNO2(t *testing.T) {
	if got := meanNO2(nil); got != 0 {
		t.Errorf("Expected 0 for an empty raster, got %g", got)
	}
	if got := meanNO2([]byte("raster")); got != 0.0004 {
		t.Errorf("Expected the representative sample value, got %g", got)
	}
}
