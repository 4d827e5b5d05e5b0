package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rostrum-ai/rostrum/internal/conversation"
	"github.com/rostrum-ai/rostrum/internal/domain"
)

const responseSystemPrompt = "You are a debate agent. Respond with a single turn. " +
	"Prefix a new assertion with \"Claim:\", a rebuttal with \"Counter:\" and an " +
	"agreement with \"Agree:\"."

// AgentHandler drafts a reply for a speaker from the conversation context
// using the configured LLM client.
type AgentHandler struct {
	registry *conversation.Registry
	llm      domain.LLMClient
}

func NewAgentHandler(registry *conversation.Registry, llm domain.LLMClient) *AgentHandler {
	return &AgentHandler{registry: registry, llm: llm}
}

type respondRequest struct {
	Speaker string `json:"speaker"`
}

type respondResponse struct {
	Speaker  string `json:"speaker"`
	Response string `json:"response"`
	Action   string `json:"action"`
}

func (h *AgentHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if h.llm == nil {
		writeError(w, http.StatusServiceUnavailable, "LLM client not configured")
		return
	}

	m, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Speaker == "" {
		writeError(w, http.StatusBadRequest, "speaker is required")
		return
	}

	action := m.SuggestNextAction(req.Speaker)
	prompt := buildPrompt(req.Speaker, action, m.Context(req.Speaker))

	response, err := h.llm.Generate(r.Context(), responseSystemPrompt, prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to generate response")
		return
	}

	writeJSON(w, http.StatusOK, respondResponse{
		Speaker:  req.Speaker,
		Response: response,
		Action:   action,
	})
}

// buildPrompt flattens a context bundle into the user prompt. Prompt
// shaping is glue around the core, not part of its contract.
func buildPrompt(speaker, action string, ctx domain.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are speaking as %q. Suggested action: %s.\n", speaker, action)

	if len(ctx.UnaddressedClaims) > 0 {
		b.WriteString("Unaddressed claims from your opponent:\n")
		for _, c := range ctx.UnaddressedClaims {
			fmt.Fprintf(&b, "- [%s] %s\n", c.ID, c.Content)
		}
	}
	if len(ctx.DisputedClaims) > 0 {
		b.WriteString("Disputed claims:\n")
		for _, c := range ctx.DisputedClaims {
			fmt.Fprintf(&b, "- [%s] %s\n", c.ID, c.Content)
		}
	}
	if len(ctx.StrongArguments) > 0 {
		b.WriteString("Strongest arguments so far:\n")
		for _, a := range ctx.StrongArguments {
			fmt.Fprintf(&b, "- [%s] (%s, %s) %s\n", a.ID, a.Speaker, a.Strength, a.Conclusion)
		}
	}
	if len(ctx.UnresolvedQuestions) > 0 {
		b.WriteString("Open questions:\n")
		for _, q := range ctx.UnresolvedQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	if len(ctx.ConversationGoals) > 0 {
		b.WriteString("Conversation goals:\n")
		for _, g := range ctx.ConversationGoals {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}
	if ctx.ShouldChangeTopic {
		b.WriteString("The current topic is exhausted; consider proposing a new one.\n")
	}
	return b.String()
}
