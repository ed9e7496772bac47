package quest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingFor(t *testing.T) {
	enclosed := []string{"museum", "church", "restaurant", "hotel"}
	for _, c := range enclosed {
		if SettingFor(c) != SettingEnclosed {
			t.Errorf("Expected %q to be enclosed", c)
		}
	}

	openAir := []string{"nature", "park", "castle", "landmark", "monument", "something-else"}
	for _, c := range openAir {
		if SettingFor(c) != SettingOpenAir {
			t.Errorf("Expected %q to be open-air", c)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Museum", "museum"},
		{"  CASTLE ", "castle"},
		{"viewpoint", DefaultCategory},
		{"", DefaultCategory},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuest_Normalize_OverridesSetting(t *testing.T) {
	// A collaborator-supplied setting that disagrees with the category
	// mapping must be overridden.
	q := Quest{Category: "museum", Setting: SettingOpenAir}
	q.Normalize()
	if q.Setting != SettingEnclosed {
		t.Errorf("Expected museum to normalize to enclosed, got %s", q.Setting)
	}

	q = Quest{Category: "weird-category", Setting: SettingEnclosed}
	q.Normalize()
	if q.Category != DefaultCategory {
		t.Errorf("Expected category to fold to %q, got %q", DefaultCategory, q.Category)
	}
	if q.Setting != SettingOpenAir {
		t.Errorf("Expected landmark to normalize to open-air, got %s", q.Setting)
	}
}

func TestFallback(t *testing.T) {
	p := Place{Name: "Spiš Castle", Lat: 48.9997, Lon: 20.7684, Category: "castle"}
	q := Fallback(p)

	if q.Place != p.Name {
		t.Errorf("Expected place %q, got %q", p.Name, q.Place)
	}
	if q.Lat != p.Lat || q.Lon != p.Lon {
		t.Error("Expected fallback quest to keep the place coordinates")
	}
	if q.Reward != "20 XP" {
		t.Errorf("Expected default reward, got %q", q.Reward)
	}
	if q.Setting != SettingOpenAir {
		t.Errorf("Expected open-air setting for a castle, got %s", q.Setting)
	}
	if q.Goal == "" || q.EducationalInfo == "" {
		t.Error("Expected fallback quest to carry templated text")
	}
}

func TestZoneQuest_Quest(t *testing.T) {
	zq := ZoneQuest{
		Place:    "East Slovak Museum",
		Lat:      48.727,
		Lon:      21.2597,
		Goal:     "Find the gold treasure.",
		Category: "museum",
		Reward:   "40 XP",
		Token:    "museum-4b8d",
	}

	q := zq.Quest()
	if q.Setting != SettingEnclosed {
		t.Errorf("Expected enclosed setting, got %s", q.Setting)
	}
	if q.Token != zq.Token {
		t.Errorf("Expected token to carry over, got %q", q.Token)
	}
}

func writeZonesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zones.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write zones file: %v", err)
	}
	return path
}

func TestLoadZones(t *testing.T) {
	path := writeZonesFile(t, `
- code: TEST-ZONE
  name: Test Zone
  description: A test zone.
  type: landmark
  quests:
    - place: Old Tower
      lat: 48.72
      lon: 21.25
      goal: Climb it.
      type: monument
      reward: 30 XP
      qr_key: tower-1
`)

	zones, err := LoadZones(path)
	if err != nil {
		t.Fatalf("LoadZones failed: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("Expected 1 zone, got %d", len(zones))
	}
	if zones[0].Code != "TEST-ZONE" {
		t.Errorf("Expected code TEST-ZONE, got %q", zones[0].Code)
	}
	if len(zones[0].Quests) != 1 || zones[0].Quests[0].Token != "tower-1" {
		t.Error("Expected one quest with token tower-1")
	}
}

func TestLoadZones_DuplicateToken(t *testing.T) {
	path := writeZonesFile(t, `
- code: A
  name: Zone A
  quests:
    - place: P1
      goal: g
      reward: 10 XP
      qr_key: tok
- code: B
  name: Zone B
  quests:
    - place: P2
      goal: g
      reward: 10 XP
      qr_key: tok
`)

	if _, err := LoadZones(path); err == nil {
		t.Error("Expected duplicate token error")
	}
}

func TestLoadZones_MissingFile(t *testing.T) {
	if _, err := LoadZones(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
