package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rostrum-ai/rostrum/internal/domain"
)

const tavilySearchURL = "https://api.tavily.com/search"

// TavilyClient searches the web and filters results below the configured
// credibility tier before they can be offered as debate evidence.
type TavilyClient struct {
	apiKey     string
	minTier    SourceTier
	verifier   *Verifier
	httpClient *http.Client
}

func NewTavilyClient(apiKey string, minTier SourceTier) *TavilyClient {
	// An unknown tier would rank below tier_5 and admit every result,
	// misinformation included, so fall back to the default floor.
	if !ValidSourceTier(string(minTier)) {
		minTier = Tier3
	}
	return &TavilyClient{
		apiKey:     apiKey,
		minTier:    minTier,
		verifier:   NewVerifier(),
		httpClient: &http.Client{},
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns credibility-annotated results, dropping anything below
// the minimum tier.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilySearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result tavilyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	var out []domain.SearchResult
	for _, r := range result.Results {
		tier := c.verifier.DomainTier(r.URL)
		if !tier.AtLeast(c.minTier) {
			continue
		}
		out = append(out, domain.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Content:     r.Content,
			Tier:        string(tier),
			Credibility: tier.Credibility(),
		})
	}
	return out, nil
}
