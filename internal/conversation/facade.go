package conversation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rostrum-ai/rostrum/internal/domain"
	"github.com/rostrum-ai/rostrum/internal/ledger"
	"github.com/rostrum-ai/rostrum/internal/tracker"
	"go.uber.org/zap"
)

// Response text markers, matched case-insensitively, first match wins.
const (
	claimMarker   = "claim:"
	counterMarker = "counter:"
	agreeMarker   = "agree:"
)

// Next-action directives returned by SuggestNextAction.
const (
	ActionRespondToClaim       = "respond_to_claim"
	ActionProvideEvidence      = "provide_evidence"
	ActionResolveContradiction = "resolve_contradiction"
	ActionAnswerQuestion       = "answer_question"
	ActionSuggestNewTopic      = "suggest_new_topic"
	ActionMakeNewClaim         = "make_new_claim"
)

const topStrongArguments = 3

var ErrUnknownArgumentType = errors.New("unknown argument type")

// Manager is the conversation facade: it routes agent turns into the
// claim ledger and argument tracker and answers pull queries from the
// agent runtime. It owns neither store's data, just one instance of each.
type Manager struct {
	ledger  *ledger.Ledger
	tracker *tracker.Tracker
	id      string
	logger  *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		ledger:  ledger.New(),
		tracker: tracker.New(),
		logger:  logger,
	}
}

// StartResult echoes the parameters a conversation was started with.
type StartResult struct {
	ConversationID string   `json:"conversation_id"`
	Topic          string   `json:"topic"`
	Goals          []string `json:"goals"`
}

// StartConversation opens the first topic and records goals.
func (m *Manager) StartConversation(conversationID, topic string, goals []string) StartResult {
	m.id = conversationID
	m.ledger.StartTopic("topic_"+conversationID, topic)
	if len(goals) > 0 {
		m.ledger.SetGoals(goals)
	}
	m.logger.Info("conversation started",
		zap.String("conversation_id", conversationID),
		zap.String("topic", topic))
	return StartResult{
		ConversationID: conversationID,
		Topic:          topic,
		Goals:          append([]string(nil), goals...),
	}
}

func (m *Manager) ConversationID() string { return m.id }

// ProcessResponse classifies one inbound turn and applies its mutations.
// Markers are checked in priority order and exactly one result is
// returned: claim, counter-argument (needs target_claim), agreement
// (needs claim_id), else plain statement.
func (m *Manager) ProcessResponse(speaker, text string, meta *domain.TurnMetadata) (domain.TurnResult, error) {
	if meta == nil {
		meta = &domain.TurnMetadata{}
	}
	lower := strings.ToLower(text)

	if idx := strings.LastIndex(lower, claimMarker); idx >= 0 {
		return m.processClaim(speaker, text[idx+len(claimMarker):], meta)
	}

	if idx := strings.LastIndex(lower, counterMarker); idx >= 0 && meta.TargetClaim != "" {
		counterText := strings.TrimSpace(text[idx+len(counterMarker):])
		m.ledger.AddCounterArgument(meta.TargetClaim, counterText)
		if meta.TargetArgument != "" {
			m.tracker.ChallengePremise(meta.TargetArgument, meta.PremiseIndex, counterText)
		}
		return domain.TurnResult{
			Type:    domain.TurnCounterArgument,
			Target:  meta.TargetClaim,
			Counter: counterText,
		}, nil
	}

	if strings.Contains(lower, agreeMarker) && meta.ClaimID != "" {
		m.ledger.ResolveClaim(meta.ClaimID, "accepted")
		return domain.TurnResult{
			Type:    domain.TurnResolution,
			ClaimID: meta.ClaimID,
			Result:  "accepted",
		}, nil
	}

	return domain.TurnResult{Type: domain.TurnStatement, Content: text}, nil
}

func (m *Manager) processClaim(speaker, rest string, meta *domain.TurnMetadata) (domain.TurnResult, error) {
	claimText := strings.TrimSpace(rest)
	claim, err := m.ledger.AddClaim(speaker, claimText, meta.Evidence)
	if err != nil {
		return domain.TurnResult{}, err
	}

	result := domain.TurnResult{Type: domain.TurnArgument, ClaimID: claim.ID}
	if meta.ArgumentType == "" {
		return result, nil
	}

	argType, ok := domain.ParseArgumentType(meta.ArgumentType)
	if !ok {
		return domain.TurnResult{}, fmt.Errorf("%w: %q", ErrUnknownArgumentType, meta.ArgumentType)
	}
	arg := m.tracker.AddArgument(speaker, argType, meta.Premises, claimText, meta.EvidenceMap)
	result.ArgumentID = arg.ID
	result.Strength = m.tracker.EvaluateStrength(arg.ID)
	return result, nil
}

// Context assembles the bundle a speaker needs before composing a turn:
// unaddressed claims from the other side, open disputes, the globally
// strongest arguments, contradictions, shared facts, open questions,
// goals and the topic-change recommendation.
func (m *Manager) Context(forSpeaker string) domain.Context {
	var otherClaims []*domain.Claim
	for _, c := range m.ledger.UnaddressedClaims() {
		if c.Speaker != forSpeaker {
			otherClaims = append(otherClaims, c)
		}
	}

	strongest := m.tracker.StrongestArguments("")
	if len(strongest) > topStrongArguments {
		strongest = strongest[:topStrongArguments]
	}
	refs := make([]domain.ArgumentRef, 0, len(strongest))
	for _, arg := range strongest {
		refs = append(refs, domain.ArgumentRef{
			ID:         arg.ID,
			Speaker:    arg.Speaker,
			Conclusion: arg.Conclusion,
			Strength:   arg.Strength,
		})
	}

	return domain.Context{
		UnaddressedClaims:   otherClaims,
		DisputedClaims:      m.ledger.DisputedClaims(),
		StrongArguments:     refs,
		Contradictions:      m.tracker.FindContradictions(),
		SharedFacts:         m.ledger.Facts(),
		UnresolvedQuestions: m.ledger.UnresolvedQuestions(),
		ConversationGoals:   m.ledger.Goals(),
		ShouldChangeTopic:   m.ledger.ShouldChangeTopic(),
	}
}

// SuggestNextAction walks a strict priority ladder over the context
// bundle; only the first matching rule fires.
func (m *Manager) SuggestNextAction(speaker string) string {
	ctx := m.Context(speaker)

	if len(ctx.UnaddressedClaims) > 0 {
		return fmt.Sprintf("%s:%s", ActionRespondToClaim, ctx.UnaddressedClaims[0].ID)
	}
	if len(ctx.DisputedClaims) > 0 {
		return fmt.Sprintf("%s:%s", ActionProvideEvidence, ctx.DisputedClaims[0].ID)
	}
	for _, c := range ctx.Contradictions {
		if c.Speaker == speaker {
			return fmt.Sprintf("%s:%s,%s", ActionResolveContradiction, c.Arg1, c.Arg2)
		}
	}
	if len(ctx.UnresolvedQuestions) > 0 {
		return fmt.Sprintf("%s:%s", ActionAnswerQuestion, ctx.UnresolvedQuestions[0])
	}
	if ctx.ShouldChangeTopic {
		return ActionSuggestNewTopic
	}
	return ActionMakeNewClaim
}

// AddVerifiedFact records a fact both agents agree on.
func (m *Manager) AddVerifiedFact(id, content, source string) {
	m.ledger.AddFact(id, content, source)
}

// AddQuestion opens a question for the debate to address.
func (m *Manager) AddQuestion(question string) {
	m.ledger.AddQuestion(question)
}

// ResolveQuestion marks a question answered.
func (m *Manager) ResolveQuestion(question string) {
	m.ledger.ResolveQuestion(question)
}

// ResolveClaim settles a claim explicitly (outside the agree: flow).
func (m *Manager) ResolveClaim(claimID, resolution string) {
	m.ledger.ResolveClaim(claimID, resolution)
}

// Summary merges both store summaries with the conversation id.
func (m *Manager) Summary() domain.Summary {
	return domain.Summary{
		LedgerSummary:   m.ledger.Summary(),
		ArgumentSummary: m.tracker.Summary(),
		ConversationID:  m.id,
	}
}

// Export serializes the full conversation state.
func (m *Manager) Export() (domain.ConversationExport, error) {
	return domain.ConversationExport{
		Memory:    m.ledger.Snapshot(),
		Arguments: m.tracker.Export(),
		Summary:   m.Summary(),
	}, nil
}

// ExportMemory serializes just the ledger snapshot.
func (m *Manager) ExportMemory() ([]byte, error) {
	return m.ledger.Export()
}

// ImportMemory re-hydrates the ledger from an exported snapshot.
// Arguments are not re-imported: the argument export record is lossy
// (premise contents only), so rebuilding tracker state from it would
// fabricate evidence and challenge flags.
func (m *Manager) ImportMemory(data []byte) error {
	return m.ledger.Import(data)
}
