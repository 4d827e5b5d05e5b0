package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rostrum-ai/rostrum/internal/domain"
	"github.com/rostrum-ai/rostrum/internal/store"
)

const defaultEvidenceTopK = 5

// EvidenceHandler stores and retrieves embedded evidence passages.
// Routes are only mounted when a database is configured.
type EvidenceHandler struct {
	store    *store.EvidenceStore
	embedder domain.EmbeddingClient
}

func NewEvidenceHandler(store *store.EvidenceStore, embedder domain.EmbeddingClient) *EvidenceHandler {
	return &EvidenceHandler{store: store, embedder: embedder}
}

type createEvidenceRequest struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

func (h *EvidenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.embedder == nil {
		writeError(w, http.StatusServiceUnavailable, "embedding client not configured")
		return
	}

	var req createEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	embedding, err := h.embedder.Embed(r.Context(), req.Content)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to embed content")
		return
	}

	e := &domain.Evidence{
		Content:   req.Content,
		Source:    req.Source,
		Embedding: embedding,
	}
	if err := h.store.Create(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store evidence")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EvidenceHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.embedder == nil {
		writeError(w, http.StatusServiceUnavailable, "embedding client not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	topK := defaultEvidenceTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid top_k")
			return
		}
		topK = n
	}

	embedding, err := h.embedder.Embed(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to embed query")
		return
	}

	results, err := h.store.Search(r.Context(), embedding, topK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search evidence")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
