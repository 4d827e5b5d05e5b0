package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rostrum-ai/rostrum/internal/domain"
)

// Topic-change heuristic thresholds. These are tuned for two-agent debates
// and are part of the compatibility contract.
const (
	topicChangeMinClaims  = 5
	resolvedFractionLimit = 0.7
	disputedFractionLimit = 0.5
	disputedClaimFloor    = 10
)

var ErrNoActiveTopic = errors.New("no active topic: start a topic first")

// Ledger owns topics, claims, shared facts, open questions and speaker
// positions for one agent. All methods hold the instance mutex for the
// whole read-modify-write sequence, so a multi-threaded request handler
// can share one instance safely.
type Ledger struct {
	mu                  sync.Mutex
	topics              []*domain.Topic
	current             *domain.Topic
	factBase            map[string]domain.Fact
	speakerPositions    map[string][]string
	unresolvedQuestions []string
	questionSet         map[string]struct{}
	goals               []string
}

func New() *Ledger {
	return &Ledger{
		factBase:         make(map[string]domain.Fact),
		speakerPositions: make(map[string][]string),
		questionSet:      make(map[string]struct{}),
	}
}

// StartTopic creates a topic, appends it to history and makes it current.
func (l *Ledger) StartTopic(id, title string) *domain.Topic {
	l.mu.Lock()
	defer l.mu.Unlock()

	topic := &domain.Topic{
		ID:        id,
		Title:     title,
		StartedAt: time.Now(),
	}
	l.topics = append(l.topics, topic)
	l.current = topic
	return topic
}

// AddClaim registers an assertion against the current topic and records it
// in the speaker's position history. Claim ids are sequential within the
// topic, 1-based. Fails if no topic is current: that is a caller
// sequencing bug, not a soft miss.
func (l *Ledger) AddClaim(speaker, content string, evidence []string) (*domain.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil, ErrNoActiveTopic
	}

	claim := &domain.Claim{
		ID:                 fmt.Sprintf("claim_%d", len(l.current.Claims)+1),
		Speaker:            speaker,
		Content:            content,
		Timestamp:          time.Now(),
		SupportingEvidence: append([]string(nil), evidence...),
		Status:             domain.ClaimPending,
	}
	l.current.Claims = append(l.current.Claims, claim)
	l.speakerPositions[speaker] = append(l.speakerPositions[speaker], content)
	return claim, nil
}

// AddCounterArgument attaches a rebuttal to a claim in the current topic
// and forces its status to disputed, overwriting any prior resolution.
// Last write wins; this is deliberate, not a lattice. No-op on a miss.
func (l *Ledger) AddCounterArgument(claimID, counter string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}
	for _, c := range l.current.Claims {
		if c.ID == claimID {
			c.CounterArguments = append(c.CounterArguments, counter)
			c.Status = domain.ClaimDisputed
			return
		}
	}
}

// ResolveClaim settles a claim: "accepted" supports it, anything else
// refutes it. A resolution note lands on the owning topic either way.
// Counter-arguments are kept for the record. No-op on a miss.
func (l *Ledger) ResolveClaim(claimID, resolution string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}
	for _, c := range l.current.Claims {
		if c.ID == claimID {
			if resolution == "accepted" {
				c.Status = domain.ClaimSupported
			} else {
				c.Status = domain.ClaimRefuted
			}
			l.current.ResolvedPoints = append(l.current.ResolvedPoints,
				fmt.Sprintf("%s - %s", c.Content, resolution))
			return
		}
	}
}

// AddFact upserts into the shared fact base. Facts never expire.
func (l *Ledger) AddFact(id, content, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.factBase[id] = domain.Fact{
		Content: content,
		Source:  source,
		AddedAt: time.Now(),
	}
}

// Facts returns a copy of the shared fact base.
func (l *Ledger) Facts() map[string]domain.Fact {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]domain.Fact, len(l.factBase))
	for k, v := range l.factBase {
		out[k] = v
	}
	return out
}

// UnaddressedClaims returns copies of the current topic's pending claims.
func (l *Ledger) UnaddressedClaims() []*domain.Claim {
	return l.claimsByStatus(domain.ClaimPending)
}

// DisputedClaims returns copies of the current topic's disputed claims.
func (l *Ledger) DisputedClaims() []*domain.Claim {
	return l.claimsByStatus(domain.ClaimDisputed)
}

// claimsByStatus copies each matching claim so callers can read (and the
// HTTP layer can encode) outside the lock without racing later mutations.
func (l *Ledger) claimsByStatus(status domain.ClaimStatus) []*domain.Claim {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil
	}
	var out []*domain.Claim
	for _, c := range l.current.Claims {
		if c.Status == status {
			out = append(out, c.Clone())
		}
	}
	return out
}

// AddQuestion opens a question on the current topic (if any) and in the
// process-wide unresolved set.
func (l *Ledger) AddQuestion(question string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		l.current.KeyQuestions = append(l.current.KeyQuestions, question)
	}
	if _, ok := l.questionSet[question]; !ok {
		l.questionSet[question] = struct{}{}
		l.unresolvedQuestions = append(l.unresolvedQuestions, question)
	}
}

// ResolveQuestion removes a question from the unresolved set. Topic
// question lists keep their history.
func (l *Ledger) ResolveQuestion(question string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.questionSet[question]; !ok {
		return
	}
	delete(l.questionSet, question)
	for i, q := range l.unresolvedQuestions {
		if q == question {
			l.unresolvedQuestions = append(l.unresolvedQuestions[:i], l.unresolvedQuestions[i+1:]...)
			break
		}
	}
}

// UnresolvedQuestions returns the open questions. Order is unspecified by
// contract, though this implementation preserves insertion order.
func (l *Ledger) UnresolvedQuestions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.unresolvedQuestions...)
}

func (l *Ledger) SetGoals(goals []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.goals = append([]string(nil), goals...)
}

func (l *Ledger) Goals() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.goals...)
}

// CurrentTopic returns a copy of the current topic, or nil before the
// first StartTopic call.
func (l *Ledger) CurrentTopic() *domain.Topic {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	return l.current.Clone()
}

// ShouldChangeTopic is the anti-stagnation heuristic: with no current
// topic it is trivially true; below six claims it never fires; beyond
// that it fires when over 70% of claims are resolved, or when over half
// are disputed and the topic has run past ten claims.
func (l *Ledger) ShouldChangeTopic() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return true
	}

	var resolved, disputed int
	for _, c := range l.current.Claims {
		switch c.Status {
		case domain.ClaimSupported, domain.ClaimRefuted:
			resolved++
		case domain.ClaimDisputed:
			disputed++
		}
	}
	total := len(l.current.Claims)

	if total > topicChangeMinClaims {
		if float64(resolved)/float64(total) > resolvedFractionLimit {
			return true
		}
		if float64(disputed)/float64(total) > disputedFractionLimit && total > disputedClaimFloor {
			return true
		}
	}
	return false
}

// Summary reports aggregate ledger state across all topics.
func (l *Ledger) Summary() domain.LedgerSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var totalClaims, resolvedPoints int
	for _, t := range l.topics {
		totalClaims += len(t.Claims)
		resolvedPoints += len(t.ResolvedPoints)
	}
	currentTitle := ""
	if l.current != nil {
		currentTitle = l.current.Title
	}
	return domain.LedgerSummary{
		TopicsDiscussed:     len(l.topics),
		CurrentTopic:        currentTitle,
		TotalClaims:         totalClaims,
		ResolvedPoints:      resolvedPoints,
		UnresolvedQuestions: append([]string(nil), l.unresolvedQuestions...),
		SharedFacts:         len(l.factBase),
		ConversationGoals:   append([]string(nil), l.goals...),
	}
}

// Snapshot captures a deep copy of the full ledger state in the export
// shape, detached from live mutations.
func (l *Ledger) Snapshot() domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() domain.Snapshot {
	positions := make(map[string][]string, len(l.speakerPositions))
	for k, v := range l.speakerPositions {
		positions[k] = append([]string(nil), v...)
	}
	facts := make(map[string]domain.Fact, len(l.factBase))
	for k, v := range l.factBase {
		facts[k] = v
	}
	topics := make([]*domain.Topic, len(l.topics))
	for i, t := range l.topics {
		topics[i] = t.Clone()
	}
	return domain.Snapshot{
		Topics:              topics,
		FactBase:            facts,
		SpeakerPositions:    positions,
		UnresolvedQuestions: append([]string(nil), l.unresolvedQuestions...),
		ConversationGoals:   append([]string(nil), l.goals...),
	}
}

// Export serializes the ledger to indented JSON.
func (l *Ledger) Export() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return json.MarshalIndent(l.snapshotLocked(), "", "  ")
}

// Import replaces the ledger state with a previously exported snapshot.
// The last topic in the snapshot becomes current, matching the invariant
// that starting a topic supersedes the previous one.
func (l *Ledger) Import(data []byte) error {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.topics = snap.Topics
	l.current = nil
	if len(l.topics) > 0 {
		l.current = l.topics[len(l.topics)-1]
	}

	l.factBase = snap.FactBase
	if l.factBase == nil {
		l.factBase = make(map[string]domain.Fact)
	}
	l.speakerPositions = snap.SpeakerPositions
	if l.speakerPositions == nil {
		l.speakerPositions = make(map[string][]string)
	}

	l.unresolvedQuestions = nil
	l.questionSet = make(map[string]struct{})
	for _, q := range snap.UnresolvedQuestions {
		if _, ok := l.questionSet[q]; !ok {
			l.questionSet[q] = struct{}{}
			l.unresolvedQuestions = append(l.unresolvedQuestions, q)
		}
	}
	l.goals = snap.ConversationGoals
	return nil
}
