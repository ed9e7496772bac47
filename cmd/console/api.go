package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ytsaryk/geoquest/internal/engine"
	"github.com/ytsaryk/geoquest/internal/services"
	"github.com/ytsaryk/geoquest/pkg/player"
	"github.com/ytsaryk/geoquest/pkg/quest"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON performs a request and decodes the JSON body into out,
// unwrapping the API's error envelope on failure.
func doJSON(client *http.Client, method, url string, out any) error {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func generateQuests(client *http.Client, baseURL string, lat, lon float64) (engine.GenerationResult, error) {
	var result engine.GenerationResult
	url := fmt.Sprintf("%s/v1/quests/generate?lat=%f&lon=%f", baseURL, lat, lon)
	err := doJSON(client, http.MethodGet, url, &result)
	return result, err
}

func listQuests(client *http.Client, baseURL string) ([]quest.Quest, error) {
	var resp struct {
		Quests []quest.Quest `json:"quests"`
	}
	err := doJSON(client, http.MethodGet, baseURL+"/v1/quests", &resp)
	return resp.Quests, err
}

func setActiveQuest(client *http.Client, baseURL string, id int) (quest.Quest, error) {
	var resp struct {
		ActiveQuest quest.Quest `json:"active_quest"`
	}
	url := fmt.Sprintf("%s/v1/quests/active?quest_id=%d", baseURL, id)
	err := doJSON(client, http.MethodPost, url, &resp)
	return resp.ActiveQuest, err
}

func completeActiveQuest(client *http.Client, baseURL string, lat, lon float64) (engine.CompletionResult, error) {
	var result engine.CompletionResult
	url := fmt.Sprintf("%s/v1/quests/active/complete?lat=%f&lon=%f", baseURL, lat, lon)
	err := doJSON(client, http.MethodPost, url, &result)
	return result, err
}

func checkQuestWeather(client *http.Client, baseURL string, id int) (engine.SuitabilityResult, error) {
	var result engine.SuitabilityResult
	url := fmt.Sprintf("%s/v1/quests/%d/weather", baseURL, id)
	err := doJSON(client, http.MethodGet, url, &result)
	return result, err
}

func scanZone(client *http.Client, baseURL string, code string) (engine.ZoneScan, error) {
	var scan engine.ZoneScan
	url := fmt.Sprintf("%s/v1/zones/scan?code=%s", baseURL, code)
	err := doJSON(client, http.MethodGet, url, &scan)
	return scan, err
}

func completeByToken(client *http.Client, baseURL string, token string, lat, lon float64) (engine.CompletionResult, error) {
	var result engine.CompletionResult
	url := fmt.Sprintf("%s/v1/zones/complete?token=%s&lat=%f&lon=%f", baseURL, token, lat, lon)
	err := doJSON(client, http.MethodGet, url, &result)
	return result, err
}

func getPlayer(client *http.Client, baseURL string) (player.View, error) {
	var view player.View
	err := doJSON(client, http.MethodGet, baseURL+"/v1/player", &view)
	return view, err
}

func getLeaderboard(client *http.Client, baseURL string) ([]services.LeaderboardEntry, error) {
	var resp struct {
		Entries []services.LeaderboardEntry `json:"entries"`
	}
	err := doJSON(client, http.MethodGet, baseURL+"/v1/leaderboard", &resp)
	return resp.Entries, err
}
