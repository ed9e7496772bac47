package player

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Achievement is a static catalog entry. A player's unlocked set is a
// subset of these IDs.
type Achievement struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description" json:"description"`
	RewardGeobucks int    `yaml:"reward_geobucks" json:"reward_geobucks"`
}

// ShopItem is a purchasable label. Items are inert: buying one moves
// geobucks and records ownership, nothing more.
type ShopItem struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Price       int    `yaml:"price" json:"price"`
}

// LoadAchievements reads the achievement catalog from a YAML file.
func LoadAchievements(path string) ([]Achievement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read achievements file: %w", err)
	}
	var achievements []Achievement
	if err := yaml.Unmarshal(data, &achievements); err != nil {
		return nil, fmt.Errorf("failed to parse achievements file: %w", err)
	}
	seen := make(map[string]bool)
	for _, a := range achievements {
		if a.ID == "" {
			return nil, fmt.Errorf("achievement %q has no id", a.Name)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
	}
	return achievements, nil
}

// LoadShop reads the shop catalog from a YAML file.
func LoadShop(path string) ([]ShopItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shop file: %w", err)
	}
	var items []ShopItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse shop file: %w", err)
	}
	return items, nil
}
