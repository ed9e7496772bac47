// Package engine is the quest lifecycle and progression core: it turns
// discovered places and live weather into catalogued quests, gates
// completions on proximity, and routes rewards through the player
// ledger.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ytsaryk/geoquest/internal/services"
	"github.com/ytsaryk/geoquest/pkg/geo"
	"github.com/ytsaryk/geoquest/pkg/player"
	"github.com/ytsaryk/geoquest/pkg/quest"
	"github.com/ytsaryk/geoquest/pkg/reward"
	"github.com/ytsaryk/geoquest/pkg/weather"
)

// ErrNotFound marks unknown quest IDs, tokens, zone codes, achievement
// IDs and shop items.
var ErrNotFound = errors.New("not found")

// maxGeneratedQuests bounds one generation batch.
const maxGeneratedQuests = 3

// Statuses of a completion attempt. Too-far is a normal outcome, not
// an error.
const (
	StatusCompleted = "completed"
	StatusTooFar    = "too_far"
)

// Engine wires the collaborators, the catalog and the ledger together.
// It owns no locks of its own: the catalog and ledger synchronize
// their state internally, and no lock is held across a collaborator
// call.
type Engine struct {
	log          *slog.Logger
	discovery    services.Discovery
	narrator     services.Narrator
	weather      services.WeatherService
	leaderboard  services.Leaderboard
	evaluator    *Evaluator
	catalog      *Catalog
	ledger       *player.Ledger
	shop         []player.ShopItem
	achievements []player.Achievement
}

// New creates an engine. leaderboard may be nil to disable the mirror.
func New(log *slog.Logger, discovery services.Discovery, narrator services.Narrator, weatherSvc services.WeatherService,
	leaderboard services.Leaderboard, catalog *Catalog, ledger *player.Ledger,
	achievements []player.Achievement, shop []player.ShopItem) *Engine {
	return &Engine{
		log:          log,
		discovery:    discovery,
		narrator:     narrator,
		weather:      weatherSvc,
		leaderboard:  leaderboard,
		evaluator:    NewEvaluator(log, discovery, narrator, weatherSvc),
		catalog:      catalog,
		ledger:       ledger,
		shop:         shop,
		achievements: achievements,
	}
}

// fetchReading pulls a fresh reading with the documented fallback.
func (e *Engine) fetchReading(ctx context.Context, lat, lon float64) weather.Reading {
	r, err := e.weather.GetReading(ctx, lat, lon)
	if err != nil {
		e.log.Warn("Weather unavailable, using fallback reading", "lat", lat, "lon", lon, "error", err)
		return weather.Unknown()
	}
	return r
}

// GenerationResult is the response of a quest generation request.
type GenerationResult struct {
	ActiveQuest *quest.Quest  `json:"active_quest,omitempty"`
	AIMessage   string        `json:"ai_message"`
	AllQuests   []quest.Quest `json:"all_quests"`
}

// GenerateQuests discovers places near the player, writes quests for
// up to three public ones, attaches live readings and reward
// breakdowns, and replaces the catalog's public batch.
func (e *Engine) GenerateQuests(ctx context.Context, lat, lon float64) (GenerationResult, error) {
	places, err := e.discovery.FindPlaces(ctx, lat, lon)
	if err != nil {
		e.log.Warn("Discovery unavailable", "error", err)
		places = nil
	}
	if len(places) == 0 {
		return GenerationResult{}, fmt.Errorf("no places found nearby: %w", ErrNotFound)
	}

	// Keep private zone places out of the public pool.
	private := e.catalog.PrivateNames()
	public := places[:0:0]
	for _, p := range places {
		if !private[strings.ToLower(p.Name)] {
			public = append(public, p)
		}
	}
	if len(public) == 0 {
		return GenerationResult{}, fmt.Errorf("no public places available: %w", ErrNotFound)
	}
	if len(public) > maxGeneratedQuests {
		public = public[:maxGeneratedQuests]
	}

	quests := make([]quest.Quest, len(public))
	for i, p := range public {
		q, err := e.narrator.GenerateQuest(ctx, p)
		if err != nil {
			e.log.Warn("Narrator unavailable, using fallback quest", "place", p.Name, "error", err)
			q = quest.Fallback(p)
		}
		quests[i] = q
	}

	// Readings are independent per quest; fetch them concurrently.
	// fetchReading never fails, so the group never aborts early.
	g, gctx := errgroup.WithContext(ctx)
	for i := range quests {
		g.Go(func() error {
			r := e.fetchReading(gctx, quests[i].Lat, quests[i].Lon)
			quests[i].Weather = &r
			breakdown := reward.Apply(quests[i].Reward, reward.MultiplierFor(r.Code))
			quests[i].Breakdown = &breakdown
			return nil
		})
	}
	_ = g.Wait()

	batch := e.catalog.Replace(quests)

	active := pickActive(batch)
	msg, err := e.narrator.Recommend(ctx, *active)
	if err != nil {
		msg = "Your next adventure awaits!"
	}

	return GenerationResult{ActiveQuest: active, AIMessage: msg, AllQuests: batch}, nil
}

// pickActive suggests the first quest with a fair condition code
// (below the precipitation range), falling back to the first quest.
func pickActive(batch []quest.Quest) *quest.Quest {
	for i := range batch {
		if batch[i].Weather != nil && batch[i].Weather.Code < 50 {
			q := batch[i]
			return &q
		}
	}
	q := batch[0]
	return &q
}

// ListQuests returns the current public batch.
func (e *Engine) ListQuests() []quest.Quest {
	return e.catalog.Quests()
}

// SetActiveQuest assigns a public quest as the player's active quest.
// The latest assignment wins.
func (e *Engine) SetActiveQuest(id int) (quest.Quest, error) {
	q, found := e.catalog.ResolveByID(id)
	if !found {
		return quest.Quest{}, fmt.Errorf("quest %d: %w", id, ErrNotFound)
	}
	e.ledger.AssignActiveQuest(q)
	return q, nil
}

// CompletionResult is the outcome of a completion attempt.
type CompletionResult struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Quest     quest.Quest       `json:"quest"`
	Breakdown *reward.Breakdown `json:"reward_info,omitempty"`
	LeveledUp bool              `json:"leveled_up"`
	DistanceM float64           `json:"distance_m"`
}

// CompleteActiveQuest gates the player's active quest on the free-roam
// radius and, in range, routes the reward through the ledger: final XP
// from the live multiplier, geobucks from the air-quality policy, and
// the active slot cleared — all in one ledger critical section.
func (e *Engine) CompleteActiveQuest(ctx context.Context, lat, lon float64) (CompletionResult, error) {
	q, hasActive := e.ledger.ActiveQuest()
	if !hasActive {
		return CompletionResult{}, player.ErrNoActiveQuest
	}

	distance := geo.Distance(lat, lon, q.Lat, q.Lon)
	if !geo.Within(distance, geo.FreeRoamRadiusM) {
		return CompletionResult{
			Status:    StatusTooFar,
			Message:   fmt.Sprintf("You are %d m away — get closer!", int(distance)),
			Quest:     q,
			DistanceM: geo.Round1(distance),
		}, nil
	}

	reading := e.fetchReading(ctx, q.Lat, q.Lon)
	q.Weather = &reading
	breakdown := reward.Apply(q.Reward, reward.MultiplierFor(reading.Code))
	breakdown.Geobucks = reward.QualityCurrency(reading.Status())
	q.Breakdown = &breakdown

	leveledUp, err := e.ledger.CompleteActiveQuest(q.ID, breakdown.FinalXP, breakdown.Geobucks)
	if err != nil {
		return CompletionResult{}, err
	}
	e.recordScore(ctx)

	return CompletionResult{
		Status:    StatusCompleted,
		Message:   fmt.Sprintf("You completed %s and earned %s!", q.Place, breakdown.FinalReward),
		Quest:     q,
		Breakdown: &breakdown,
		LeveledUp: leveledUp,
		DistanceM: geo.Round1(distance),
	}, nil
}

// CompleteByToken completes a zone quest proven by its secret token,
// under the stricter token radius. Geobucks follow the flat policy.
func (e *Engine) CompleteByToken(ctx context.Context, token string, lat, lon float64) (CompletionResult, error) {
	q, found := e.catalog.ResolveByToken(token)
	if !found {
		return CompletionResult{}, fmt.Errorf("invalid or expired token: %w", ErrNotFound)
	}

	reading := e.fetchReading(ctx, q.Lat, q.Lon)
	q.Weather = &reading
	breakdown := reward.Apply(q.Reward, reward.MultiplierFor(reading.Code))
	q.Breakdown = &breakdown

	distance := geo.Distance(lat, lon, q.Lat, q.Lon)
	if !geo.Within(distance, geo.TokenRadiusM) {
		return CompletionResult{
			Status:    StatusTooFar,
			Message:   fmt.Sprintf("You are %d m away — move closer to complete it!", int(distance)),
			Quest:     q,
			Breakdown: &breakdown,
			DistanceM: geo.Round1(distance),
		}, nil
	}

	leveledUp := e.ledger.AwardQuest(breakdown.FinalXP, breakdown.Geobucks)
	e.recordScore(ctx)

	return CompletionResult{
		Status:    StatusCompleted,
		Message:   fmt.Sprintf("You completed '%s' at %s and earned %s!", q.Goal, q.Place, breakdown.FinalReward),
		Quest:     q,
		Breakdown: &breakdown,
		LeveledUp: leveledUp,
		DistanceM: geo.Round1(distance),
	}, nil
}

// CheckSuitability evaluates a catalogued quest against live weather.
// A suggested substitute is admitted to the public batch here, with a
// fresh identifier; the evaluator itself never touches the catalog.
func (e *Engine) CheckSuitability(ctx context.Context, questID int) (SuitabilityResult, error) {
	q, found := e.catalog.ResolveByID(questID)
	if !found {
		return SuitabilityResult{}, fmt.Errorf("quest %d: %w", questID, ErrNotFound)
	}

	res := e.evaluator.Evaluate(ctx, q)
	if res.SuggestedQuest != nil {
		admitted := e.catalog.Admit(*res.SuggestedQuest)
		res.SuggestedQuest = &admitted
	}
	return res, nil
}

// ZoneScan is the response of scanning a zone access code.
type ZoneScan struct {
	Zone   ZoneSummary   `json:"zone"`
	Quests []quest.Quest `json:"quests"`
}

// ZoneSummary is the zone header without its quests.
type ZoneSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"type"`
}

// ScanZone resolves a zone by access code and returns its quests with
// live readings and reward breakdowns attached.
func (e *Engine) ScanZone(ctx context.Context, code string) (ZoneScan, error) {
	zone, found := e.catalog.Zone(code)
	if !found {
		return ZoneScan{}, fmt.Errorf("invalid zone code: %w", ErrNotFound)
	}

	quests := make([]quest.Quest, len(zone.Quests))
	g, gctx := errgroup.WithContext(ctx)
	for i, zq := range zone.Quests {
		q := zq.Quest()
		g.Go(func() error {
			r := e.fetchReading(gctx, q.Lat, q.Lon)
			q.Weather = &r
			breakdown := reward.Apply(q.Reward, reward.MultiplierFor(r.Code))
			q.Breakdown = &breakdown
			quests[i] = q
			return nil
		})
	}
	_ = g.Wait()

	return ZoneScan{
		Zone:   ZoneSummary{Name: zone.Name, Description: zone.Description, Category: zone.Category},
		Quests: quests,
	}, nil
}

// ZoneTokenPayload returns the zone access code to encode as a
// check-in image, verifying the zone exists.
func (e *Engine) ZoneTokenPayload(code string) (string, error) {
	if _, found := e.catalog.Zone(code); !found {
		return "", fmt.Errorf("invalid zone code: %w", ErrNotFound)
	}
	return code, nil
}

// QuestTokenPayload returns the quest completion token to encode,
// verifying it resolves to a zone quest.
func (e *Engine) QuestTokenPayload(token string) (string, error) {
	if _, found := e.catalog.ResolveByToken(token); !found {
		return "", fmt.Errorf("invalid token: %w", ErrNotFound)
	}
	return token, nil
}

// Player returns the player snapshot.
func (e *Engine) Player() player.View {
	return e.ledger.Snapshot()
}

// Achievements returns the static achievement catalog.
func (e *Engine) Achievements() []player.Achievement {
	return append([]player.Achievement(nil), e.achievements...)
}

// UnlockAchievement unlocks an achievement and pays its reward once.
func (e *Engine) UnlockAchievement(id string) (player.Achievement, bool, error) {
	a, unlocked, err := e.ledger.UnlockAchievement(id)
	if errors.Is(err, player.ErrUnknownAchievement) {
		return player.Achievement{}, false, fmt.Errorf("achievement %q: %w", id, ErrNotFound)
	}
	return a, unlocked, err
}

// Shop returns the purchasable items.
func (e *Engine) Shop() []player.ShopItem {
	return append([]player.ShopItem(nil), e.shop...)
}

// BuyItem purchases a shop item by name. Items are inert labels; only
// the geobuck balance and the owned list change.
func (e *Engine) BuyItem(name string) error {
	for _, item := range e.shop {
		if item.Name == name {
			return e.ledger.Purchase(item)
		}
	}
	return fmt.Errorf("shop item %q: %w", name, ErrNotFound)
}

// BuyGeobucks credits purchased currency. A trusted internal credit
// operation — there is no payment processor behind it.
func (e *Engine) BuyGeobucks(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return e.ledger.ApplyCurrency(amount)
}

// Leaderboard returns the top XP totals, or an empty board when the
// mirror is disabled or down.
func (e *Engine) Leaderboard(ctx context.Context) []services.LeaderboardEntry {
	if e.leaderboard == nil {
		return []services.LeaderboardEntry{}
	}
	entries, err := e.leaderboard.Top(ctx, 10)
	if err != nil {
		e.log.Warn("Leaderboard unavailable", "error", err)
		return []services.LeaderboardEntry{}
	}
	return entries
}

// recordScore mirrors the player's lifetime XP to the leaderboard.
// Best-effort: failures are logged and swallowed.
func (e *Engine) recordScore(ctx context.Context) {
	if e.leaderboard == nil {
		return
	}
	view := e.ledger.Snapshot()
	if err := e.leaderboard.Record(ctx, view.Name, view.TotalXP()); err != nil {
		e.log.Warn("Leaderboard record failed", "error", err)
	}
}
