package domain

// TurnMetadata is the structured side-channel accompanying a turn's raw
// text. Every field is optional; the zero value carries no signal.
type TurnMetadata struct {
	Evidence       []string            `json:"evidence,omitempty"`
	ArgumentType   string              `json:"argument_type,omitempty"`
	Premises       []string            `json:"premises,omitempty"`
	EvidenceMap    map[string][]string `json:"evidence_map,omitempty"`
	TargetClaim    string              `json:"target_claim,omitempty"`
	TargetArgument string              `json:"target_argument,omitempty"`
	PremiseIndex   int                 `json:"premise_index,omitempty"`
	ClaimID        string              `json:"claim_id,omitempty"`
}

type TurnType string

const (
	TurnArgument        TurnType = "argument"
	TurnCounterArgument TurnType = "counter_argument"
	TurnResolution      TurnType = "resolution"
	TurnStatement       TurnType = "statement"
)

// TurnResult is the tagged classification of one processed turn. Which
// fields are populated depends on Type.
type TurnResult struct {
	Type       TurnType `json:"type"`
	ClaimID    string   `json:"claim_id,omitempty"`
	ArgumentID string   `json:"argument_id,omitempty"`
	Strength   Strength `json:"strength,omitempty"`
	Target     string   `json:"target,omitempty"`
	Counter    string   `json:"counter,omitempty"`
	Result     string   `json:"result,omitempty"`
	Content    string   `json:"content,omitempty"`
}

// ArgumentRef is the abbreviated argument shape surfaced in context bundles.
type ArgumentRef struct {
	ID         string   `json:"id"`
	Speaker    string   `json:"speaker"`
	Conclusion string   `json:"conclusion"`
	Strength   Strength `json:"strength"`
}

// Context is the bundle an agent runtime pulls before composing its next
// turn. It is the sole input to next-action suggestion.
type Context struct {
	UnaddressedClaims   []*Claim        `json:"unaddressed_claims"`
	DisputedClaims      []*Claim        `json:"disputed_claims"`
	StrongArguments     []ArgumentRef   `json:"strong_arguments"`
	Contradictions      []Contradiction `json:"contradictions"`
	SharedFacts         map[string]Fact `json:"shared_facts"`
	UnresolvedQuestions []string        `json:"unresolved_questions"`
	ConversationGoals   []string        `json:"conversation_goals"`
	ShouldChangeTopic   bool            `json:"should_change_topic"`
}

// Snapshot is the ledger's export format. Question order is not part of
// the contract.
type Snapshot struct {
	Topics              []*Topic            `json:"topics"`
	FactBase            map[string]Fact     `json:"fact_base"`
	SpeakerPositions    map[string][]string `json:"speaker_positions"`
	UnresolvedQuestions []string            `json:"unresolved_questions"`
	ConversationGoals   []string            `json:"conversation_goals"`
}

// ArgumentExport is the per-argument record included in conversation
// exports. Premise evidence and challenge flags are deliberately omitted.
type ArgumentExport struct {
	Speaker    string       `json:"speaker"`
	Type       ArgumentType `json:"type"`
	Premises   []string     `json:"premises"`
	Conclusion string       `json:"conclusion"`
	Strength   Strength     `json:"strength"`
}

type LedgerSummary struct {
	TopicsDiscussed     int      `json:"topics_discussed"`
	CurrentTopic        string   `json:"current_topic"`
	TotalClaims         int      `json:"total_claims"`
	ResolvedPoints      int      `json:"resolved_points"`
	UnresolvedQuestions []string `json:"unresolved_questions"`
	SharedFacts         int      `json:"shared_facts"`
	ConversationGoals   []string `json:"conversation_goals"`
}

type ArgumentSummary struct {
	TotalArguments    int                  `json:"total_arguments"`
	StrongArguments   int                  `json:"strong_arguments"`
	FallaciesDetected int                  `json:"fallacies_detected"`
	Contradictions    int                  `json:"contradictions"`
	ArgumentTypes     map[ArgumentType]int `json:"argument_types"`
}

// Summary merges both store summaries with the conversation id.
type Summary struct {
	LedgerSummary
	ArgumentSummary
	ConversationID string `json:"conversation_id"`
}

// ConversationExport is the full-state export of a conversation.
type ConversationExport struct {
	Memory    Snapshot                  `json:"memory"`
	Arguments map[string]ArgumentExport `json:"arguments"`
	Summary   Summary                   `json:"summary"`
}
