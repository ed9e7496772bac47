package quest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Zone is a fixed, access-code-gated collection of quests. Zones are
// reference data: loaded once at startup, never created or destroyed
// at runtime.
type Zone struct {
	Code        string      `yaml:"code" json:"code"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Category    string      `yaml:"type" json:"type"`
	Quests      []ZoneQuest `yaml:"quests" json:"quests"`
}

// ZoneQuest is the on-disk form of a zone quest. Each carries a secret
// completion token unique across all zones.
type ZoneQuest struct {
	Place           string  `yaml:"place" json:"place"`
	Lat             float64 `yaml:"lat" json:"lat"`
	Lon             float64 `yaml:"lon" json:"lon"`
	Goal            string  `yaml:"goal" json:"goal"`
	EducationalInfo string  `yaml:"educational_info" json:"educational_info,omitempty"`
	Category        string  `yaml:"type" json:"type"`
	Reward          string  `yaml:"reward" json:"reward"`
	Token           string  `yaml:"qr_key" json:"-"`
}

// Quest converts a zone quest to a runtime Quest with the setting
// derived from its category.
func (zq ZoneQuest) Quest() Quest {
	q := Quest{
		Place:           zq.Place,
		Lat:             zq.Lat,
		Lon:             zq.Lon,
		Goal:            zq.Goal,
		EducationalInfo: zq.EducationalInfo,
		Category:        zq.Category,
		Reward:          zq.Reward,
		Token:           zq.Token,
	}
	q.Normalize()
	return q
}

// LoadZones reads the zone catalog from a YAML file and validates that
// completion tokens are unique across all zones.
func LoadZones(path string) ([]Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	var zones []Zone
	if err := yaml.Unmarshal(data, &zones); err != nil {
		return nil, fmt.Errorf("failed to parse zones file: %w", err)
	}

	seenCodes := make(map[string]bool)
	seenTokens := make(map[string]bool)
	for _, z := range zones {
		if z.Code == "" {
			return nil, fmt.Errorf("zone %q has no access code", z.Name)
		}
		if seenCodes[z.Code] {
			return nil, fmt.Errorf("duplicate zone code %q", z.Code)
		}
		seenCodes[z.Code] = true
		for _, q := range z.Quests {
			if q.Token == "" {
				return nil, fmt.Errorf("zone %q quest %q has no completion token", z.Name, q.Place)
			}
			if seenTokens[q.Token] {
				return nil, fmt.Errorf("duplicate completion token in zone %q", z.Name)
			}
			seenTokens[q.Token] = true
		}
	}
	return zones, nil
}
