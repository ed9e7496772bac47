package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ytsaryk/geoquest/pkg/quest"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIService implements Narrator using OpenAI chat completions.
type OpenAIService struct {
	baseURL    string
	apiKey     string
	modelName  string
	httpClient *http.Client
}

var _ Narrator = (*OpenAIService)(nil)

// NewOpenAIService creates a new OpenAI narrator.
func NewOpenAIService(apiKey string, modelName string, timeout time.Duration) *OpenAIService {
	return &OpenAIService{
		baseURL:   openAIBaseURL,
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// chatCompletion makes a single chat completion request and returns the
// first choice's content.
func (s *OpenAIService) chatCompletion(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody, err := json.Marshal(chatCompletionRequest{
		Model:       s.modelName,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// narrativeQuest is the JSON shape the model is asked to return.
type narrativeQuest struct {
	Place           string `json:"place"`
	Goal            string `json:"goal"`
	Reward          string `json:"reward"`
	EducationalInfo string `json:"educational_info"`
	Type            string `json:"type"`
	IndoorOutdoor   string `json:"indoor_outdoor"`
}

// stripCodeFence unwraps content the model wrapped in ``` fences.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	parts := strings.Split(text, "```")
	if len(parts) < 2 {
		return text
	}
	inner := parts[len(parts)-2]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// GenerateQuest asks the model for a short quest at the place. The
// model's category is normalized and its indoor/outdoor answer is
// discarded in favor of the fixed category mapping.
func (s *OpenAIService) GenerateQuest(ctx context.Context, place quest.Place) (quest.Quest, error) {
	prompt := fmt.Sprintf(`Create a short quest for a tourist visiting %s.

Return only valid JSON (no extra text) with fields:
  place, goal, reward, educational_info, type, indoor_outdoor.

Rules:
- "place" is the exact name of the location.
- "goal" is a short, motivational action for the visitor.
- "reward" is an XP value like "20 XP" or "30 XP".
- "educational_info" is one short factual or historical sentence.
- "type" is one of: monument, museum, nature, church, castle, restaurant, hotel, park, landmark.
- "indoor_outdoor" is "indoor" for museum, church, restaurant, hotel; "outdoor" otherwise.`, place.Name)

	text, err := s.chatCompletion(ctx, prompt, 0.7)
	if err != nil {
		return quest.Quest{}, err
	}

	var nq narrativeQuest
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &nq); err != nil {
		return quest.Quest{}, fmt.Errorf("failed to parse quest JSON: %w", err)
	}

	q := quest.Quest{
		Place:           place.Name,
		Lat:             place.Lat,
		Lon:             place.Lon,
		Goal:            nq.Goal,
		EducationalInfo: nq.EducationalInfo,
		Category:        nq.Type,
		Reward:          nq.Reward,
	}
	if q.Goal == "" || q.Reward == "" {
		return quest.Quest{}, fmt.Errorf("quest JSON missing goal or reward")
	}
	q.Normalize()
	return q, nil
}

// Recommend writes one motivational sentence for a quest.
func (s *OpenAIService) Recommend(ctx context.Context, q quest.Quest) (string, error) {
	prompt := fmt.Sprintf(`You are a friendly travel guide. Write one short, fun sentence
inspiring the player to complete this quest: %q at %s, reward %s.`, q.Goal, q.Place, q.Reward)
	return s.chatCompletion(ctx, prompt, 0.8)
}

// EncourageIndoor writes a sentence steering the player indoors.
func (s *OpenAIService) EncourageIndoor(ctx context.Context, from quest.Quest, alt quest.Place, condition string) (string, error) {
	prompt := fmt.Sprintf(`Weather at %s is %s, not great for outdoors.
Write one short sentence encouraging the player to visit %s instead (it's indoors).`, from.Place, condition, alt.Name)
	return s.chatCompletion(ctx, prompt, 0.7)
}
