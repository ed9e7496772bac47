// Package reward maps environmental conditions to reward multipliers
// and turns a quest's base reward into a final breakdown.
package reward

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ytsaryk/geoquest/pkg/weather"
)

// DefaultBaseXP is used when a base reward string cannot be parsed.
const DefaultBaseXP = 20

// Breakdown is the structured result of applying a weather multiplier
// to a quest's base reward.
type Breakdown struct {
	BaseReward  string  `json:"base_reward"`
	Multiplier  float64 `json:"multiplier"`
	FinalReward string  `json:"final_reward"`
	BaseXP      int     `json:"base_xp"`
	FinalXP     int     `json:"final_xp"`
	Geobucks    int     `json:"geobucks"`
}

// MultiplierFor returns the reward multiplier for an Open-Meteo weather
// code. Total over all ints: unrecognized codes get 1.0. Bad weather
// only ever raises the reward, never lowers it.
func MultiplierFor(code int) float64 {
	switch code {
	case 0, 1, 2: // clear / partly cloudy
		return 1.0
	case 3: // overcast
		return 1.1
	case 45, 48: // fog
		return 1.2
	case 51, 53, 55: // drizzle
		return 1.2
	case 61, 63, 65, 80, 81, 82: // rain
		return 1.3
	case 66, 67: // freezing rain
		return 1.4
	case 71, 73, 75, 85, 86: // snow
		return 1.4
	case 95, 96, 99: // thunderstorms
		return 1.5
	}
	return 1.0
}

// ParseBaseXP extracts the leading integer from a reward string like
// "40 XP". Malformed input falls back to DefaultBaseXP; this never
// returns an error.
func ParseBaseXP(rewardText string) int {
	fields := strings.Fields(rewardText)
	if len(fields) == 0 {
		return DefaultBaseXP
	}
	base, err := strconv.Atoi(fields[0])
	if err != nil || base < 0 {
		return DefaultBaseXP
	}
	return base
}

// Apply computes the reward breakdown for a base reward string under a
// multiplier. Geobucks are filled in by the flat policy; the
// active-quest completion path overrides them via QualityCurrency.
func Apply(rewardText string, multiplier float64) Breakdown {
	base := ParseBaseXP(rewardText)
	final := int(math.Floor(float64(base) * multiplier))
	return Breakdown{
		BaseReward:  fmt.Sprintf("%d XP", base),
		Multiplier:  math.Round(multiplier*100) / 100,
		FinalReward: fmt.Sprintf("%d XP", final),
		BaseXP:      base,
		FinalXP:     final,
		Geobucks:    FlatCurrency(final),
	}
}

// FlatCurrency is the geobuck policy for quest generation and
// token-gated completions: one geobuck per 10 XP, at least one.
func FlatCurrency(finalXP int) int {
	g := finalXP / 10
	if g < 1 {
		return 1
	}
	return g
}

// QualityCurrency is the geobuck policy for active-quest completion:
// a baseline of one, doubled when the air is notably clean or the
// player pushed through pollution.
func QualityCurrency(status weather.AirStatus) int {
	switch status {
	case weather.AirGood:
		return 2
	case weather.AirBad, weather.AirVeryBad:
		return 2
	default: // moderate, unknown
		return 1
	}
}
