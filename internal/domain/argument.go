package domain

import "strings"

type ArgumentType string

const (
	ArgumentDeductive  ArgumentType = "deductive"
	ArgumentInductive  ArgumentType = "inductive"
	ArgumentAbductive  ArgumentType = "abductive"
	ArgumentAnalogical ArgumentType = "analogical"
	ArgumentCausal     ArgumentType = "causal"
)

// ArgumentTypes lists every type in a fixed order, used for exhaustive
// per-type tallies.
func ArgumentTypes() []ArgumentType {
	return []ArgumentType{
		ArgumentDeductive,
		ArgumentInductive,
		ArgumentAbductive,
		ArgumentAnalogical,
		ArgumentCausal,
	}
}

// ParseArgumentType resolves a case-insensitive type name.
func ParseArgumentType(s string) (ArgumentType, bool) {
	t := ArgumentType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ArgumentDeductive, ArgumentInductive, ArgumentAbductive, ArgumentAnalogical, ArgumentCausal:
		return t, true
	}
	return "", false
}

type Strength string

const (
	StrengthStrong     Strength = "strong"
	StrengthModerate   Strength = "moderate"
	StrengthWeak       Strength = "weak"
	StrengthFallacious Strength = "fallacious"
)

// Premise is one atomic proposition inside an argument. Accepted is kept
// for future premise resolution; nothing reads it yet.
type Premise struct {
	Content    string   `json:"content"`
	Evidence   []string `json:"evidence"`
	Accepted   bool     `json:"accepted"`
	Challenged bool     `json:"challenged"`
}

// Clone returns a deep copy of the premise.
func (p *Premise) Clone() *Premise {
	out := *p
	out.Evidence = append([]string(nil), p.Evidence...)
	return &out
}

// Argument is a structured inference: premises supporting a conclusion.
// Strength is derived and recomputed on demand, never authoritative as stored.
type Argument struct {
	ID                  string       `json:"id"`
	Speaker             string       `json:"speaker"`
	Type                ArgumentType `json:"type"`
	Premises            []*Premise   `json:"premises"`
	Conclusion          string       `json:"conclusion"`
	Strength            Strength     `json:"strength"`
	Rebuttals           []string     `json:"rebuttals"`
	SupportingArguments []string     `json:"supporting_arguments"`
}

// Clone returns a deep copy detached from tracker-owned state.
func (a *Argument) Clone() *Argument {
	out := *a
	out.Premises = make([]*Premise, len(a.Premises))
	for i, p := range a.Premises {
		out.Premises[i] = p.Clone()
	}
	out.Rebuttals = append([]string(nil), a.Rebuttals...)
	out.SupportingArguments = append([]string(nil), a.SupportingArguments...)
	return &out
}

// Valid reports whether every premise has been accepted.
func (a *Argument) Valid() bool {
	for _, p := range a.Premises {
		if !p.Accepted {
			return false
		}
	}
	return true
}

// UnchallengedPremises returns the premises no counter-party has disputed.
func (a *Argument) UnchallengedPremises() []*Premise {
	var out []*Premise
	for _, p := range a.Premises {
		if !p.Challenged {
			out = append(out, p)
		}
	}
	return out
}

// Fallacy associates an argument with an externally asserted defect label.
// Its presence pins the argument's strength to fallacious.
type Fallacy struct {
	ArgumentID  string `json:"argument_id"`
	Category    string `json:"fallacy_type"`
	Explanation string `json:"explanation"`
}

// Contradiction is a derived pair of same-speaker arguments whose
// conclusions are literal negations of one another. Never stored.
type Contradiction struct {
	Speaker       string `json:"speaker"`
	Arg1          string `json:"arg1"`
	Arg2          string `json:"arg2"`
	Contradiction string `json:"contradiction"`
}
