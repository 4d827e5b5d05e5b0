package domain

import (
	"context"

	"github.com/google/uuid"
)

// LLMClient drafts debate turns. The core never calls it; only the HTTP
// runtime does, with prompts assembled from context bundles.
type LLMClient interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Evidence is a passage stored for retrieval-augmented context.
type Evidence struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Embedding []float32 `json:"-"`
}

type EvidenceWithScore struct {
	Evidence
	Score float32 `json:"score"`
}

// SearchResult is one credibility-annotated web search hit.
type SearchResult struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Content     string  `json:"content"`
	Tier        string  `json:"tier"`
	Credibility float64 `json:"credibility"`
}

type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}
