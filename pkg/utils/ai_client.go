package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector(768) column on poi_embeddings.
const EmbeddingDimensions = 768

// DayThemeInput is the read-only view of one planned day handed to the
// model. IDs are the only part the model may echo back.
type DayThemeInput struct {
	Day        int               `json:"day"`
	Activities []ActivitySummary `json:"activities"`
}

type ActivitySummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// AIClientInterface is everything the pipeline needs from a model
// provider: embeddings for preference retrieval and a JSON-only theming
// call. Both implementations keep prompts tight and validate JSON before
// returning.
type AIClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	GenerateDayThemesJSON(ctx context.Context, destination string, days []DayThemeInput) (string, error)
}

// NewAIClient selects a provider implementation. Gemini is the default
// because its free tier is enough for theming.
func NewAIClient(provider, apiKey, model string) (AIClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini", "":
		return NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s. Use 'openai' or 'gemini'", provider)
	}
}
