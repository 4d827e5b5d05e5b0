package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rostrum-ai/rostrum/internal/conversation"
	"github.com/rostrum-ai/rostrum/internal/domain"
	"github.com/rostrum-ai/rostrum/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, llmClient domain.LLMClient) (*chi.Mux, *conversation.Registry) {
	t.Helper()
	registry := conversation.NewRegistry(nil)
	conversationHandler := NewConversationHandler(registry)
	agentHandler := NewAgentHandler(registry, llmClient)

	r := chi.NewRouter()
	r.Route("/v1/conversations", func(r chi.Router) {
		r.Post("/", conversationHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/turns", conversationHandler.ProcessTurn)
			r.Get("/context", conversationHandler.Context)
			r.Get("/suggestion", conversationHandler.Suggestion)
			r.Get("/summary", conversationHandler.Summary)
			r.Get("/export", conversationHandler.Export)
			r.Post("/facts", conversationHandler.AddFact)
			r.Post("/questions", conversationHandler.AddQuestion)
			r.Delete("/questions", conversationHandler.ResolveQuestion)
			r.Post("/claims/{claimID}/resolve", conversationHandler.ResolveClaim)
			r.Post("/respond", agentHandler.Respond)
		})
	})
	return r, registry
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestCreateConversation(t *testing.T) {
	r, registry := newTestRouter(t, nil)

	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI in education",
		"goals":           []string{"reach consensus"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	res := decodeBody[conversation.StartResult](t, rec)
	assert.Equal(t, "conv_1", res.ConversationID)
	assert.Equal(t, "AI in education", res.Topic)
	assert.Equal(t, 1, registry.Len())

	// Same id again conflicts.
	rec = doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateConversationGeneratesID(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{"topic": "AI"})
	require.Equal(t, http.StatusCreated, rec.Code)

	res := decodeBody[conversation.StartResult](t, rec)
	assert.NotEmpty(t, res.ConversationID)
}

func TestCreateConversationRequiresTopic(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessTurnFlow(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI in education",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
		"speaker": "barbie",
		"text":    "Claim: AI tutors improve outcomes",
		"metadata": map[string]any{
			"argument_type": "inductive",
			"premises":      []string{"study A shows gains"},
			"evidence_map":  map[string][]string{"study A shows gains": {"A 2024"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[domain.TurnResult](t, rec)
	assert.Equal(t, domain.TurnArgument, res.Type)
	assert.Equal(t, "claim_1", res.ClaimID)
	assert.Equal(t, "arg_1", res.ArgumentID)
	assert.Equal(t, domain.StrengthStrong, res.Strength)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
		"speaker":  "ken",
		"text":     "Counter: the studies are underpowered",
		"metadata": map[string]any{"target_claim": "claim_1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	counter := decodeBody[domain.TurnResult](t, rec)
	assert.Equal(t, domain.TurnCounterArgument, counter.Type)

	rec = doJSON(t, r, http.MethodGet, "/v1/conversations/conv_1/suggestion?speaker=barbie", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggestion := decodeBody[suggestionResponse](t, rec)
	assert.Equal(t, "provide_evidence:claim_1", suggestion.Action)

	rec = doJSON(t, r, http.MethodGet, "/v1/conversations/conv_1/context?speaker=barbie", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ctx := decodeBody[domain.Context](t, rec)
	require.Len(t, ctx.DisputedClaims, 1)
	assert.Equal(t, "claim_1", ctx.DisputedClaims[0].ID)
}

func TestProcessTurnErrors(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("unknown conversation", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/conversations/conv_404/turns", map[string]any{
			"speaker": "barbie", "text": "hello",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing speaker", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
			"text": "hello",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown argument type", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
			"speaker":  "barbie",
			"text":     "claim: X",
			"metadata": map[string]any{"argument_type": "vibes"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFactsQuestionsAndResolution(t *testing.T) {
	r, registry := newTestRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/facts", map[string]any{
		"fact_id": "f1", "content": "a fact", "source": "src",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/questions", map[string]any{
		"question": "what about bias?",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/v1/conversations/conv_1/questions", map[string]any{
		"question": "what about bias?",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
		"speaker": "barbie", "text": "claim: X",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/claims/claim_1/resolve", map[string]any{
		"resolution": "accepted",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	m, err := registry.Get("conv_1")
	require.NoError(t, err)
	s := m.Summary()
	assert.Equal(t, 1, s.SharedFacts)
	assert.Empty(t, s.UnresolvedQuestions)
	assert.Equal(t, 1, s.ResolvedPoints)
}

func TestSummaryAndExportEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
		"speaker": "barbie", "text": "claim: X",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/v1/conversations/conv_1/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[domain.Summary](t, rec)
	assert.Equal(t, "conv_1", summary.ConversationID)
	assert.Equal(t, 1, summary.TotalClaims)

	rec = doJSON(t, r, http.MethodGet, "/v1/conversations/conv_1/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	export := decodeBody[domain.ConversationExport](t, rec)
	require.Len(t, export.Memory.Topics, 1)
	assert.Equal(t, "AI", export.Memory.Topics[0].Title)
}

func TestAgentRespond(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponse = "Claim: tutoring scales better than classrooms"
	r, _ := newTestRouter(t, mock)

	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI in education",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/turns", map[string]any{
		"speaker": "barbie", "text": "claim: AI tutors improve outcomes",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/respond", map[string]any{
		"speaker": "ken",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[respondResponse](t, rec)
	assert.Equal(t, "ken", res.Speaker)
	assert.Equal(t, "Claim: tutoring scales better than classrooms", res.Response)
	assert.Equal(t, "respond_to_claim:claim_1", res.Action)

	// The prompt carried the context bundle to the model.
	require.Len(t, mock.GenerateCalls, 1)
	assert.Contains(t, mock.GenerateCalls[0].Prompt, "respond_to_claim:claim_1")
	assert.Contains(t, mock.GenerateCalls[0].Prompt, "AI tutors improve outcomes")
}

func TestAgentRespondUnavailableWithoutClient(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/respond", map[string]any{
		"speaker": "ken",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAgentRespondUpstreamFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateError = errors.New("rate limited")
	r, _ := newTestRouter(t, mock)

	rec := doJSON(t, r, http.MethodPost, "/v1/conversations", map[string]any{
		"conversation_id": "conv_1",
		"topic":           "AI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/conversations/conv_1/respond", map[string]any{
		"speaker": "ken",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
