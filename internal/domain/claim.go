package domain

import "time"

type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimSupported ClaimStatus = "supported"
	ClaimRefuted   ClaimStatus = "refuted"
	ClaimDisputed  ClaimStatus = "disputed"
)

func ValidClaimStatus(s string) bool {
	switch ClaimStatus(s) {
	case ClaimPending, ClaimSupported, ClaimRefuted, ClaimDisputed:
		return true
	}
	return false
}

// Claim is a single assertion made by a speaker within a topic.
// IDs are sequential per topic ("claim_1", "claim_2", ...).
type Claim struct {
	ID                 string      `json:"id"`
	Speaker            string      `json:"speaker"`
	Content            string      `json:"content"`
	Timestamp          time.Time   `json:"timestamp"`
	SupportingEvidence []string    `json:"supporting_evidence"`
	CounterArguments   []string    `json:"counter_arguments"`
	Status             ClaimStatus `json:"status"`
}

// Clone returns a deep copy detached from ledger-owned state.
func (c *Claim) Clone() *Claim {
	out := *c
	out.SupportingEvidence = append([]string(nil), c.SupportingEvidence...)
	out.CounterArguments = append([]string(nil), c.CounterArguments...)
	return &out
}

// Topic is a bounded discussion unit. Topics are never deleted, only
// superseded as "current" when a new one starts.
type Topic struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	StartedAt      time.Time `json:"started_at"`
	Claims         []*Claim  `json:"claims"`
	KeyQuestions   []string  `json:"key_questions"`
	ResolvedPoints []string  `json:"resolved_points"`
}

// Clone returns a deep copy of the topic and its claims.
func (t *Topic) Clone() *Topic {
	out := *t
	out.Claims = make([]*Claim, len(t.Claims))
	for i, c := range t.Claims {
		out.Claims[i] = c.Clone()
	}
	out.KeyQuestions = append([]string(nil), t.KeyQuestions...)
	out.ResolvedPoints = append([]string(nil), t.ResolvedPoints...)
	return &out
}

// Fact is a verified statement both speakers accept, independent of topic.
type Fact struct {
	Content string    `json:"content"`
	Source  string    `json:"source"`
	AddedAt time.Time `json:"added_at"`
}
