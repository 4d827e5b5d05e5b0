package handlers

import (
	"net/http"
	"strconv"

	"github.com/rostrum-ai/rostrum/internal/domain"
)

const defaultMaxSearchResults = 5

// ResearchHandler exposes credibility-filtered web search.
type ResearchHandler struct {
	search domain.SearchClient
}

func NewResearchHandler(search domain.SearchClient) *ResearchHandler {
	return &ResearchHandler{search: search}
}

func (h *ResearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		writeError(w, http.StatusServiceUnavailable, "search client not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	maxResults := defaultMaxSearchResults
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid max_results")
			return
		}
		maxResults = n
	}

	results, err := h.search.Search(r.Context(), query, maxResults)
	if err != nil {
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
