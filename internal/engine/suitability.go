package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ytsaryk/geoquest/internal/services"
	"github.com/ytsaryk/geoquest/pkg/quest"
	"github.com/ytsaryk/geoquest/pkg/reward"
	"github.com/ytsaryk/geoquest/pkg/weather"
)

// SuitabilityResult is the evaluator's verdict on whether a quest is
// currently viable under live conditions.
type SuitabilityResult struct {
	Quest          quest.Quest  `json:"quest"`
	IsOkay         bool         `json:"is_okay"`
	Reason         string       `json:"reason"`
	SuggestedQuest *quest.Quest `json:"suggested_quest,omitempty"`
	Message        string       `json:"ai_message"`
}

// Evaluator decides quest viability against live weather and, when an
// open-air quest is rained out, synthesizes an enclosed substitute.
// The evaluator never mutates the catalog; admitting a suggestion is
// the caller's job.
type Evaluator struct {
	log       *slog.Logger
	discovery services.Discovery
	narrator  services.Narrator
	weather   services.WeatherService
}

// NewEvaluator creates a suitability evaluator.
func NewEvaluator(log *slog.Logger, discovery services.Discovery, narrator services.Narrator, weatherSvc services.WeatherService) *Evaluator {
	return &Evaluator{log: log, discovery: discovery, narrator: narrator, weather: weatherSvc}
}

// fetchReading pulls a fresh reading, degrading to the unknown reading
// when the collaborator is unavailable.
func (ev *Evaluator) fetchReading(ctx context.Context, lat, lon float64) fetched[weather.Reading] {
	r, err := ev.weather.GetReading(ctx, lat, lon)
	if err != nil {
		res := degraded(weather.Unknown(), err)
		ev.log.Warn("Weather unavailable, using fallback reading", "lat", lat, "lon", lon, "error", err)
		return res
	}
	return ok(r)
}

// Evaluate attaches a fresh reading to the quest and applies the
// decision rule: open-air + adverse condition = not okay. Enclosed
// quests are always okay regardless of condition.
func (ev *Evaluator) Evaluate(ctx context.Context, q quest.Quest) SuitabilityResult {
	reading := ev.fetchReading(ctx, q.Lat, q.Lon).value
	q.Weather = &reading
	condition := reading.Condition

	if q.Setting == quest.SettingOpenAir && weather.IsAdverse(reading.Code) {
		return ev.substitute(ctx, q, condition)
	}

	msg := fmt.Sprintf("Weather looks good (%s) for visiting %s!", condition, q.Place)
	if q.Setting == quest.SettingEnclosed {
		msg = fmt.Sprintf("The weather is %s, but no worries — %s is indoors and perfect to visit now!", condition, q.Place)
	}
	return SuitabilityResult{Quest: q, IsOkay: true, Reason: condition, Message: msg}
}

// substitute looks for the first enclosed-setting place near the quest
// and synthesizes a replacement. Deterministic first pick, not a
// ranked one. Narrator failures fall back to templated content and are
// never propagated.
func (ev *Evaluator) substitute(ctx context.Context, q quest.Quest, condition string) SuitabilityResult {
	res := SuitabilityResult{Quest: q, IsOkay: false, Reason: condition}

	places, err := ev.discovery.FindPlaces(ctx, q.Lat, q.Lon)
	if err != nil {
		ev.log.Warn("Discovery unavailable during substitution", "error", err)
		places = nil
	}

	var alt *quest.Place
	for i := range places {
		if places[i].Enclosed() {
			alt = &places[i]
			break
		}
	}
	if alt == nil {
		res.Message = fmt.Sprintf("The weather is %s, so it's not ideal for outdoor exploration at %s.", condition, q.Place)
		return res
	}

	suggested, err := ev.narrator.GenerateQuest(ctx, *alt)
	if err != nil {
		ev.log.Warn("Narrator unavailable during substitution, using fallback quest", "place", alt.Name, "error", err)
		suggested = quest.Fallback(*alt)
	}

	altReading := ev.fetchReading(ctx, suggested.Lat, suggested.Lon).value
	suggested.Weather = &altReading
	breakdown := reward.Apply(suggested.Reward, reward.MultiplierFor(altReading.Code))
	suggested.Breakdown = &breakdown

	msg, err := ev.narrator.EncourageIndoor(ctx, q, *alt, condition)
	if err != nil {
		msg = fmt.Sprintf("Weather is %s. Consider visiting %s indoors instead.", condition, alt.Name)
	}

	res.SuggestedQuest = &suggested
	res.Message = msg
	return res
}
