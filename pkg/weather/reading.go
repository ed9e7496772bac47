// Package weather defines the environmental reading attached to quests:
// an Open-Meteo weather code with its human-readable label, plus an
// air-quality status derived from Sentinel-5P NO2 data.
package weather

// AirStatus classifies the air quality at a coordinate pair.
type AirStatus string

const (
	AirGood     AirStatus = "good"
	AirModerate AirStatus = "moderate"
	AirBad      AirStatus = "bad"
	AirVeryBad  AirStatus = "very bad"
	AirUnknown  AirStatus = "unknown"
)

// AirQuality is the simplified Sentinel-5P NO2 result.
type AirQuality struct {
	Status      AirStatus `json:"status"`
	Description string    `json:"description"`
	NO2Value    float64   `json:"no2_value,omitempty"`
}

// Reading is a point-in-time environmental reading for a coordinate pair.
// Immutable once fetched; a fresh reading is pulled per request.
type Reading struct {
	Code        int         `json:"weathercode"`
	Temperature float64     `json:"temperature"`
	Condition   string      `json:"condition_text"`
	AirQuality  *AirQuality `json:"air_quality,omitempty"`
}

// Unknown is the fallback reading used when the weather collaborator
// is unavailable. Code 0 keeps the reward multiplier at 1.0.
func Unknown() Reading {
	return Reading{Code: 0, Condition: "unknown", AirQuality: &AirQuality{Status: AirUnknown, Description: "unavailable"}}
}

var conditionLabels = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "rime fog",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	61: "light rain",
	63: "moderate rain",
	65: "heavy rain",
	66: "freezing rain",
	67: "freezing rain",
	71: "light snow",
	73: "moderate snow",
	75: "heavy snow",
	80: "light rain showers",
	81: "moderate rain showers",
	82: "heavy rain showers",
	85: "snow showers",
	86: "heavy snow showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
	99: "thunderstorm with hail",
}

// ConditionLabel decodes an Open-Meteo weather code to its label.
// Unrecognized codes decode to "unknown".
func ConditionLabel(code int) string {
	if label, ok := conditionLabels[code]; ok {
		return label
	}
	return "unknown"
}

var adverseCodes = map[int]bool{
	3: true,
	61: true, 63: true, 65: true, 66: true, 67: true,
	71: true, 73: true, 75: true,
	80: true, 81: true, 82: true, 85: true, 86: true,
	95: true, 96: true, 99: true,
}

// IsAdverse reports whether a weather code rules out open-air quests.
// Fog and drizzle are deliberately not adverse: they raise the reward
// multiplier but do not gate the quest.
func IsAdverse(code int) bool {
	return adverseCodes[code]
}

// Status returns the reading's air-quality status, AirUnknown when the
// air-quality collaborator gave nothing back.
func (r Reading) Status() AirStatus {
	if r.AirQuality == nil {
		return AirUnknown
	}
	return r.AirQuality.Status
}
