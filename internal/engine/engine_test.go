package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ytsaryk/geoquest/internal/services"
	"github.com/ytsaryk/geoquest/pkg/player"
	"github.com/ytsaryk/geoquest/pkg/quest"
	"github.com/ytsaryk/geoquest/pkg/weather"
)

func testAchievements() []player.Achievement {
	return []player.Achievement{
		{ID: "first-steps", Name: "First Steps", Description: "Complete your first quest.", RewardGeobucks: 5},
	}
}

func testShop() []player.ShopItem {
	return []player.ShopItem{
		{Name: "Weather Immunity", Description: "Storms no longer scare you.", Price: 15},
	}
}

func newTestEngine(discovery services.Discovery, narrator services.Narrator, weatherSvc services.WeatherService, lb services.Leaderboard) *Engine {
	ledger := player.NewLedger("Explorer", testAchievements())
	return New(testLogger(), discovery, narrator, weatherSvc, lb, NewCatalog(testZones()), ledger, testAchievements(), testShop())
}

// latOffset converts a ground distance in meters to degrees of latitude.
func latOffset(meters float64) float64 {
	return meters / 6371000.0 * 180 / math.Pi
}

func TestGenerateQuests(t *testing.T) {
	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
		return []quest.Place{
			{Name: "Cathedral", Lat: lat, Lon: lon, Category: "church"}, // zone place, must be filtered
			{Name: "City Park", Lat: lat, Lon: lon, Category: "park"},
			{Name: "City Museum", Lat: lat, Lon: lon, Category: "museum"},
			{Name: "Old Fountain", Lat: lat, Lon: lon, Category: "monument"},
			{Name: "Grand Hotel", Lat: lat, Lon: lon, Category: "hotel"},
		}, nil
	}

	eng := newTestEngine(discovery, services.NewMockNarrator(), services.FixedReading(2, weather.AirGood), nil)

	res, err := eng.GenerateQuests(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(res.AllQuests) != 3 {
		t.Fatalf("Expected a batch of 3 quests, got %d", len(res.AllQuests))
	}
	for _, q := range res.AllQuests {
		if q.Place == "Cathedral" {
			t.Error("Expected zone place to be filtered from the public batch")
		}
		if q.ID == 0 {
			t.Error("Expected every quest to carry a catalog identifier")
		}
		if q.Weather == nil || q.Breakdown == nil {
			t.Errorf("Expected %q to carry a reading and a breakdown", q.Place)
		}
		if q.Breakdown != nil && q.Breakdown.Multiplier != 1.0 {
			t.Errorf("Expected multiplier 1.0 in fair conditions, got %.1f", q.Breakdown.Multiplier)
		}
	}
	if res.ActiveQuest == nil {
		t.Fatal("Expected an active quest suggestion")
	}
	if res.ActiveQuest.ID != res.AllQuests[0].ID {
		t.Errorf("Expected the first fair-weather quest to be suggested, got %d", res.ActiveQuest.ID)
	}
	if res.AIMessage == "" {
		t.Error("Expected a recommendation message")
	}
	if len(eng.ListQuests()) != 3 {
		t.Errorf("Expected catalog to hold the new batch, got %d quests", len(eng.ListQuests()))
	}
}

func TestGenerateQuests_NoPlaces(t *testing.T) {
	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
		return nil, nil
	}

	eng := newTestEngine(discovery, services.NewMockNarrator(), services.FixedReading(0, weather.AirUnknown), nil)

	if _, err := eng.GenerateQuests(context.Background(), 48.72, 21.25); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGenerateQuests_DiscoveryError(t *testing.T) {
	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
		return nil, errors.New("overpass down")
	}

	eng := newTestEngine(discovery, services.NewMockNarrator(), services.FixedReading(0, weather.AirUnknown), nil)

	if _, err := eng.GenerateQuests(context.Background(), 48.72, 21.25); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGenerateQuests_NarratorFallback(t *testing.T) {
	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
		return []quest.Place{{Name: "City Park", Lat: lat, Lon: lon, Category: "park"}}, nil
	}
	narrator := services.NewMockNarrator()
	narrator.GenerateQuestFunc = func(ctx context.Context, place quest.Place) (quest.Quest, error) {
		return quest.Quest{}, errors.New("openai down")
	}
	narrator.RecommendFunc = func(ctx context.Context, q quest.Quest) (string, error) {
		return "", errors.New("openai down")
	}

	eng := newTestEngine(discovery, narrator, services.FixedReading(2, weather.AirGood), nil)

	res, err := eng.GenerateQuests(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatalf("Expected fallback generation, got %v", err)
	}
	if len(res.AllQuests) != 1 {
		t.Fatalf("Expected 1 quest, got %d", len(res.AllQuests))
	}
	if res.AllQuests[0].Goal == "" || res.AllQuests[0].Reward == "" {
		t.Error("Expected fallback quest to carry a goal and a reward")
	}
	if res.AIMessage == "" {
		t.Error("Expected a fallback recommendation message")
	}
}

func TestSetActiveQuest(t *testing.T) {
	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
		return []quest.Place{{Name: "City Park", Lat: lat, Lon: lon, Category: "park"}}, nil
	}

	eng := newTestEngine(discovery, services.NewMockNarrator(), services.FixedReading(2, weather.AirGood), nil)

	res, err := eng.GenerateQuests(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatal(err)
	}

	q, err := eng.SetActiveQuest(res.AllQuests[0].ID)
	if err != nil {
		t.Fatalf("Expected assignment to succeed, got %v", err)
	}
	view := eng.Player()
	if view.ActiveQuest == nil || view.ActiveQuest.ID != q.ID {
		t.Error("Expected the active quest to appear in the player snapshot")
	}

	if _, err := eng.SetActiveQuest(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown quest, got %v", err)
	}
}

func TestCompleteActiveQuest_InRange(t *testing.T) {
	const lat, lon = 48.7204, 21.2576

	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, plat, plon float64) ([]quest.Place, error) {
		return []quest.Place{{Name: "City Park", Lat: lat, Lon: lon, Category: "park"}}, nil
	}
	narrator := services.NewMockNarrator()
	narrator.GenerateQuestFunc = func(ctx context.Context, place quest.Place) (quest.Quest, error) {
		q := quest.Quest{
			Place:    place.Name,
			Lat:      place.Lat,
			Lon:      place.Lon,
			Goal:     "Walk the main alley.",
			Category: place.Category,
			Reward:   "40 XP",
		}
		q.Normalize()
		return q, nil
	}

	lb := services.NewMockLeaderboard()
	// Thunderstorm reading with good air quality.
	eng := newTestEngine(discovery, narrator, services.FixedReading(95, weather.AirGood), lb)

	res, err := eng.GenerateQuests(context.Background(), lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.SetActiveQuest(res.AllQuests[0].ID); err != nil {
		t.Fatal(err)
	}

	out, err := eng.CompleteActiveQuest(context.Background(), lat, lon)
	if err != nil {
		t.Fatalf("Expected completion, got %v", err)
	}
	if out.Status != StatusCompleted {
		t.Fatalf("Expected status %q, got %q", StatusCompleted, out.Status)
	}
	if out.Breakdown == nil {
		t.Fatal("Expected a reward breakdown")
	}
	if out.Breakdown.FinalXP != 60 {
		t.Errorf("Expected 40 XP at x1.5 to yield 60, got %d", out.Breakdown.FinalXP)
	}
	if out.Breakdown.Geobucks != 2 {
		t.Errorf("Expected 2 geobucks for good air quality, got %d", out.Breakdown.Geobucks)
	}
	if out.LeveledUp {
		t.Error("Expected 60 XP not to clear level 1")
	}

	view := eng.Player()
	if view.XP != 60 {
		t.Errorf("Expected ledger XP 60, got %d", view.XP)
	}
	if view.Geobucks != 12 {
		t.Errorf("Expected starting 10 geobucks plus 2, got %d", view.Geobucks)
	}
	if view.ActiveQuest != nil {
		t.Error("Expected the active slot to be cleared")
	}
	if lb.Scores["Explorer"] != 60 {
		t.Errorf("Expected leaderboard mirror at 60, got %d", lb.Scores["Explorer"])
	}

	// The slot is cleared, so a second attempt has nothing to complete.
	if _, err := eng.CompleteActiveQuest(context.Background(), lat, lon); !errors.Is(err, player.ErrNoActiveQuest) {
		t.Errorf("Expected ErrNoActiveQuest on repeat, got %v", err)
	}
}

func TestCompleteActiveQuest_TooFar(t *testing.T) {
	const lat, lon = 48.7204, 21.2576

	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, plat, plon float64) ([]quest.Place, error) {
		return []quest.Place{{Name: "City Park", Lat: lat, Lon: lon, Category: "park"}}, nil
	}

	eng := newTestEngine(discovery, services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	res, err := eng.GenerateQuests(context.Background(), lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.SetActiveQuest(res.AllQuests[0].ID); err != nil {
		t.Fatal(err)
	}

	out, err := eng.CompleteActiveQuest(context.Background(), lat+latOffset(200), lon)
	if err != nil {
		t.Fatalf("Expected a too-far outcome, not an error: %v", err)
	}
	if out.Status != StatusTooFar {
		t.Fatalf("Expected status %q, got %q", StatusTooFar, out.Status)
	}
	if out.DistanceM < 190 || out.DistanceM > 210 {
		t.Errorf("Expected distance near 200 m, got %.1f", out.DistanceM)
	}

	view := eng.Player()
	if view.XP != 0 {
		t.Errorf("Expected no XP awarded, got %d", view.XP)
	}
	if view.ActiveQuest == nil {
		t.Error("Expected the active quest to remain assigned")
	}
}

func TestCompleteActiveQuest_NoActive(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	if _, err := eng.CompleteActiveQuest(context.Background(), 48.72, 21.25); !errors.Is(err, player.ErrNoActiveQuest) {
		t.Errorf("Expected ErrNoActiveQuest, got %v", err)
	}
}

func TestCompleteByToken(t *testing.T) {
	// Zone quest "Cathedral" sits at (48.7204, 21.2576) with a 50 XP reward.
	const lat, lon = 48.7204, 21.2576

	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	out, err := eng.CompleteByToken(context.Background(), "tok-cathedral", lat+latOffset(24.9), lon)
	if err != nil {
		t.Fatalf("Expected completion inside the token radius, got %v", err)
	}
	if out.Status != StatusCompleted {
		t.Fatalf("Expected status %q, got %q", StatusCompleted, out.Status)
	}
	if out.Breakdown.FinalXP != 50 {
		t.Errorf("Expected 50 XP at x1.0, got %d", out.Breakdown.FinalXP)
	}
	if out.Breakdown.Geobucks != 5 {
		t.Errorf("Expected flat 5 geobucks for 50 XP, got %d", out.Breakdown.Geobucks)
	}
	if out.DistanceM < 24.8 || out.DistanceM > 25.0 {
		t.Errorf("Expected distance near 24.9 m, got %.1f", out.DistanceM)
	}

	view := eng.Player()
	if view.XP != 50 {
		t.Errorf("Expected ledger XP 50, got %d", view.XP)
	}
}

func TestCompleteByToken_JustOutsideRadius(t *testing.T) {
	const lat, lon = 48.7204, 21.2576

	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	out, err := eng.CompleteByToken(context.Background(), "tok-cathedral", lat+latOffset(25.1), lon)
	if err != nil {
		t.Fatalf("Expected a too-far outcome, not an error: %v", err)
	}
	if out.Status != StatusTooFar {
		t.Fatalf("Expected status %q, got %q", StatusTooFar, out.Status)
	}
	if eng.Player().XP != 0 {
		t.Error("Expected no XP outside the token radius")
	}
}

func TestCompleteByToken_InvalidToken(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	if _, err := eng.CompleteByToken(context.Background(), "tok-bogus", 48.72, 21.25); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCheckSuitability_AdmitsSuggestion(t *testing.T) {
	discovery := services.NewMockDiscovery()
	discovery.FindPlacesFunc = func(ctx context.Context, lat, lon float64) ([]quest.Place, error) {
		return []quest.Place{
			{Name: "City Park", Lat: lat, Lon: lon, Category: "park"},
			{Name: "City Museum", Lat: lat, Lon: lon, Category: "museum"},
		}, nil
	}

	// Heavy rain keeps the open-air quest unsuitable.
	eng := newTestEngine(discovery, services.NewMockNarrator(), services.FixedReading(65, weather.AirModerate), nil)

	res, err := eng.GenerateQuests(context.Background(), 48.72, 21.25)
	if err != nil {
		t.Fatal(err)
	}
	var parkID int
	for _, q := range res.AllQuests {
		if q.Place == "City Park" {
			parkID = q.ID
		}
	}
	if parkID == 0 {
		t.Fatal("Expected City Park in the batch")
	}

	out, err := eng.CheckSuitability(context.Background(), parkID)
	if err != nil {
		t.Fatalf("Expected evaluation, got %v", err)
	}
	if out.IsOkay {
		t.Fatal("Expected open-air quest in heavy rain to be unsuitable")
	}
	if out.SuggestedQuest == nil {
		t.Fatal("Expected a suggested substitute")
	}
	if out.SuggestedQuest.ID == 0 {
		t.Fatal("Expected the suggestion to receive a catalog identifier")
	}
	// The admitted suggestion is immediately assignable.
	if _, err := eng.SetActiveQuest(out.SuggestedQuest.ID); err != nil {
		t.Errorf("Expected the suggestion to resolve in the catalog, got %v", err)
	}
}

func TestCheckSuitability_UnknownQuest(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	if _, err := eng.CheckSuitability(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestScanZone(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(2, weather.AirGood), nil)

	scan, err := eng.ScanZone(context.Background(), "ZONE-A")
	if err != nil {
		t.Fatalf("Expected zone scan, got %v", err)
	}
	if scan.Zone.Name != "Old Town" {
		t.Errorf("Expected Old Town, got %q", scan.Zone.Name)
	}
	if len(scan.Quests) != 2 {
		t.Fatalf("Expected 2 zone quests, got %d", len(scan.Quests))
	}
	for _, q := range scan.Quests {
		if q.Weather == nil || q.Breakdown == nil {
			t.Errorf("Expected %q to carry a reading and a breakdown", q.Place)
		}
	}

	if _, err := eng.ScanZone(context.Background(), "ZONE-B"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestTokenPayloads(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	if payload, err := eng.ZoneTokenPayload("ZONE-A"); err != nil || payload != "ZONE-A" {
		t.Errorf("Expected zone payload ZONE-A, got %q (%v)", payload, err)
	}
	if _, err := eng.ZoneTokenPayload("ZONE-B"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown zone, got %v", err)
	}
	if payload, err := eng.QuestTokenPayload("tok-tower"); err != nil || payload != "tok-tower" {
		t.Errorf("Expected quest payload tok-tower, got %q (%v)", payload, err)
	}
	if _, err := eng.QuestTokenPayload("tok-bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestUnlockAchievement(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	a, newly, err := eng.UnlockAchievement("first-steps")
	if err != nil {
		t.Fatalf("Expected unlock, got %v", err)
	}
	if !newly {
		t.Error("Expected first unlock to be new")
	}
	if a.Name != "First Steps" {
		t.Errorf("Expected First Steps, got %q", a.Name)
	}
	if eng.Player().Geobucks != 15 {
		t.Errorf("Expected 10 starting geobucks plus 5 reward, got %d", eng.Player().Geobucks)
	}

	// Unlocking again pays nothing.
	_, newly, err = eng.UnlockAchievement("first-steps")
	if err != nil || newly {
		t.Errorf("Expected idempotent repeat unlock, got newly=%v err=%v", newly, err)
	}
	if eng.Player().Geobucks != 15 {
		t.Errorf("Expected balance unchanged on repeat, got %d", eng.Player().Geobucks)
	}

	if _, _, err := eng.UnlockAchievement("no-such"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestShopPurchases(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	if len(eng.Shop()) != 1 {
		t.Fatalf("Expected 1 shop item, got %d", len(eng.Shop()))
	}

	if err := eng.BuyItem("Time Machine"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown item, got %v", err)
	}

	// 15-geobuck item against the starting balance of 10.
	if err := eng.BuyItem("Weather Immunity"); !errors.Is(err, player.ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}

	if err := eng.BuyGeobucks(10); err != nil {
		t.Fatalf("Expected credit to succeed, got %v", err)
	}
	if err := eng.BuyItem("Weather Immunity"); err != nil {
		t.Fatalf("Expected purchase to succeed, got %v", err)
	}

	view := eng.Player()
	if view.Geobucks != 5 {
		t.Errorf("Expected 20-15=5 geobucks, got %d", view.Geobucks)
	}
	if len(view.Items) != 1 || !strings.EqualFold(view.Items[0], "Weather Immunity") {
		t.Errorf("Expected owned item Weather Immunity, got %v", view.Items)
	}

	if err := eng.BuyGeobucks(0); err == nil {
		t.Error("Expected non-positive credit to be rejected")
	}
}

func TestLeaderboard_NilSafe(t *testing.T) {
	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), nil)

	entries := eng.Leaderboard(context.Background())
	if entries == nil || len(entries) != 0 {
		t.Errorf("Expected an empty board with no mirror, got %v", entries)
	}
}

func TestLeaderboard_Degraded(t *testing.T) {
	lb := services.NewMockLeaderboard()
	lb.TopFunc = func(ctx context.Context, n int) ([]services.LeaderboardEntry, error) {
		return nil, errors.New("redis down")
	}

	eng := newTestEngine(services.NewMockDiscovery(), services.NewMockNarrator(), services.FixedReading(0, weather.AirGood), lb)

	entries := eng.Leaderboard(context.Background())
	if len(entries) != 0 {
		t.Errorf("Expected an empty board when the mirror is down, got %v", entries)
	}
}
