package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rostrum-ai/rostrum/internal/conversation"
	"github.com/rostrum-ai/rostrum/internal/store"
)

// SnapshotHandler persists and re-hydrates ledger snapshots through the
// snapshot store. Routes are only mounted when a database is configured.
type SnapshotHandler struct {
	registry *conversation.Registry
	store    *store.SnapshotStore
}

func NewSnapshotHandler(registry *conversation.Registry, store *store.SnapshotStore) *SnapshotHandler {
	return &SnapshotHandler{registry: registry, store: store}
}

func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	snapshot, err := m.ExportMemory()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export memory")
		return
	}
	if err := h.store.Save(r.Context(), id, snapshot); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save snapshot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"conversation_id": id, "status": "saved"})
}

func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	snapshot, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	if err := m.ImportMemory(snapshot); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to import snapshot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"conversation_id": id, "status": "restored"})
}
