package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rostrum-ai/rostrum/internal/conversation"
	"github.com/rostrum-ai/rostrum/internal/domain"
	"github.com/rostrum-ai/rostrum/internal/ledger"
)

type ConversationHandler struct {
	registry *conversation.Registry
}

func NewConversationHandler(registry *conversation.Registry) *ConversationHandler {
	return &ConversationHandler{registry: registry}
}

type createConversationRequest struct {
	ConversationID string   `json:"conversation_id,omitempty"`
	Topic          string   `json:"topic"`
	Goals          []string `json:"goals,omitempty"`
}

func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	m, err := h.registry.Create(req.ConversationID, req.Topic, req.Goals)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationExists) {
			writeError(w, http.StatusConflict, "conversation already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conversation.StartResult{
		ConversationID: m.ConversationID(),
		Topic:          req.Topic,
		Goals:          req.Goals,
	})
}

func (h *ConversationHandler) manager(w http.ResponseWriter, r *http.Request) *conversation.Manager {
	m, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return nil
	}
	return m
}

type turnRequest struct {
	Speaker  string               `json:"speaker"`
	Text     string               `json:"text"`
	Metadata *domain.TurnMetadata `json:"metadata,omitempty"`
}

func (h *ConversationHandler) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Speaker == "" {
		writeError(w, http.StatusBadRequest, "speaker is required")
		return
	}

	result, err := m.ProcessResponse(req.Speaker, req.Text, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrUnknownArgumentType):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrNoActiveTopic):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to process turn")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ConversationHandler) Context(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	speaker := r.URL.Query().Get("speaker")
	if speaker == "" {
		writeError(w, http.StatusBadRequest, "speaker is required")
		return
	}
	writeJSON(w, http.StatusOK, m.Context(speaker))
}

type suggestionResponse struct {
	Speaker string `json:"speaker"`
	Action  string `json:"action"`
}

func (h *ConversationHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	speaker := r.URL.Query().Get("speaker")
	if speaker == "" {
		writeError(w, http.StatusBadRequest, "speaker is required")
		return
	}
	writeJSON(w, http.StatusOK, suggestionResponse{
		Speaker: speaker,
		Action:  m.SuggestNextAction(speaker),
	})
}

func (h *ConversationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	writeJSON(w, http.StatusOK, m.Summary())
}

func (h *ConversationHandler) Export(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	export, err := m.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export conversation")
		return
	}
	writeJSON(w, http.StatusOK, export)
}

type addFactRequest struct {
	FactID  string `json:"fact_id"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

func (h *ConversationHandler) AddFact(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	var req addFactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FactID == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "fact_id and content are required")
		return
	}
	m.AddVerifiedFact(req.FactID, req.Content, req.Source)
	writeJSON(w, http.StatusCreated, map[string]string{"fact_id": req.FactID})
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *ConversationHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	m.AddQuestion(req.Question)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConversationHandler) ResolveQuestion(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	m.ResolveQuestion(req.Question)
	w.WriteHeader(http.StatusNoContent)
}

type resolveClaimRequest struct {
	Resolution string `json:"resolution"`
}

func (h *ConversationHandler) ResolveClaim(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)
	if m == nil {
		return
	}
	var req resolveClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Resolution == "" {
		writeError(w, http.StatusBadRequest, "resolution is required")
		return
	}
	m.ResolveClaim(chi.URLParam(r, "claimID"), req.Resolution)
	w.WriteHeader(http.StatusNoContent)
}
