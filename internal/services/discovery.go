package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ytsaryk/geoquest/pkg/quest"
)

const (
	overpassBaseURL = "https://overpass-api.de/api/interpreter"

	// discoveryRadiusM bounds the Overpass query around the player.
	discoveryRadiusM = 5000
)

// Discovery finds named points of interest near a coordinate pair.
type Discovery interface {
	FindPlaces(ctx context.Context, lat, lon float64) ([]quest.Place, error)
}

// OverpassService implements Discovery against the Overpass API.
type OverpassService struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	titleCaser cases.Caser
}

var _ Discovery = (*OverpassService)(nil)

// NewOverpassService creates a new Overpass discovery service.
func NewOverpassService(timeout time.Duration, logger *slog.Logger) *OverpassService {
	return &OverpassService{
		baseURL:    overpassBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		titleCaser: cases.Title(language.Und, cases.NoLower),
	}
}

type overpassElement struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FindPlaces queries tourism nodes around the coordinate pair. Elements
// without a name tag are dropped; the tourism tag becomes the category.
func (s *OverpassService) FindPlaces(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
	query := fmt.Sprintf(`[out:json];node(around:%d,%f,%f)[tourism];out;`, discoveryRadiusM, lat, lon)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse overpass response: %w", err)
	}

	places := make([]quest.Place, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}
		category := el.Tags["tourism"]
		if category == "" {
			category = "unknown"
		}
		places = append(places, quest.Place{
			Name:     s.titleCaser.String(name),
			Lat:      el.Lat,
			Lon:      el.Lon,
			Category: category,
		})
	}

	s.logger.Debug("Discovery query complete", "lat", lat, "lon", lon, "places", len(places))
	return places, nil
}
