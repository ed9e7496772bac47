// Package quest defines places, quests and zones, and the fixed
// category rules that classify a quest as enclosed or open-air.
package quest

import (
	"fmt"
	"strings"

	"github.com/ytsaryk/geoquest/pkg/reward"
	"github.com/ytsaryk/geoquest/pkg/weather"
)

// Setting classifies where a quest takes place. Open-air quests are
// gated against adverse weather; enclosed quests never are.
type Setting string

const (
	SettingEnclosed Setting = "indoor"
	SettingOpenAir  Setting = "outdoor"
)

// DefaultCategory is assigned when a narrative collaborator returns an
// unknown category.
const DefaultCategory = "landmark"

var enclosedCategories = map[string]bool{
	"museum":     true,
	"church":     true,
	"restaurant": true,
	"hotel":      true,
}

var validCategories = map[string]bool{
	"monument":   true,
	"museum":     true,
	"nature":     true,
	"church":     true,
	"castle":     true,
	"restaurant": true,
	"hotel":      true,
	"park":       true,
	"landmark":   true,
}

// NormalizeCategory lowercases a category and folds anything outside
// the known set to DefaultCategory.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if validCategories[c] {
		return c
	}
	return DefaultCategory
}

// SettingFor returns the authoritative setting for a category. This
// mapping overrides whatever setting a collaborator supplied.
func SettingFor(category string) Setting {
	if enclosedCategories[NormalizeCategory(category)] {
		return SettingEnclosed
	}
	return SettingOpenAir
}

// Place is a named point of interest from the discovery collaborator.
// Immutable once fetched.
type Place struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Category string  `json:"type"`
}

// Enclosed reports whether the place's category maps to an enclosed
// setting.
func (p Place) Enclosed() bool {
	return SettingFor(p.Category) == SettingEnclosed
}

// Quest is a single place-bound objective. Created by the generation
// path; mutated only to attach a reading and a reward breakdown.
type Quest struct {
	ID              int               `json:"id,omitempty"`
	Place           string            `json:"place"`
	Lat             float64           `json:"lat"`
	Lon             float64           `json:"lon"`
	Goal            string            `json:"goal"`
	EducationalInfo string            `json:"educational_info,omitempty"`
	Category        string            `json:"type"`
	Setting         Setting           `json:"indoor_outdoor"`
	Reward          string            `json:"reward"`
	Token           string            `json:"-"`
	Weather         *weather.Reading  `json:"weather,omitempty"`
	Breakdown       *reward.Breakdown `json:"reward_info,omitempty"`
}

// Normalize enforces the category set and the category→setting mapping
// on a quest, typically one assembled from collaborator output.
func (q *Quest) Normalize() {
	q.Category = NormalizeCategory(q.Category)
	q.Setting = SettingFor(q.Category)
}

// Fallback returns the deterministic templated quest used when the
// narrative collaborator fails. It never errors.
func Fallback(p Place) Quest {
	q := Quest{
		Place:           p.Name,
		Lat:             p.Lat,
		Lon:             p.Lon,
		Goal:            fmt.Sprintf("Explore %s and learn about its history.", p.Name),
		EducationalInfo: "Local point of interest.",
		Category:        NormalizeCategory(p.Category),
		Reward:          fmt.Sprintf("%d XP", reward.DefaultBaseXP),
	}
	q.Normalize()
	return q
}
