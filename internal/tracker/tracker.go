package tracker

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rostrum-ai/rostrum/internal/domain"
)

// Strength scoring constants. Downstream consumers depend on the
// classification boundaries, so treat these as part of the contract.
const (
	rebuttalPenaltyStep = 0.1
	rebuttalPenaltyCap  = 0.5
	strongThreshold     = 0.7
	moderateThreshold   = 0.4
)

const negationPrefix = "not "

// Tracker owns arguments, premises and fallacy records for one agent.
// Like the ledger it serializes every operation on the instance mutex.
type Tracker struct {
	mu        sync.Mutex
	arguments map[string]*domain.Argument
	order     []string
	chains    map[string][]string
	fallacies []domain.Fallacy
}

func New() *Tracker {
	return &Tracker{
		arguments: make(map[string]*domain.Argument),
		chains:    make(map[string][]string),
	}
}

// AddArgument registers a structured inference. One premise is built per
// input string, picking up evidence from the evidence map when present.
// Ids are sequential tracker-wide; strength starts moderate until evaluated.
func (t *Tracker) AddArgument(speaker string, argType domain.ArgumentType, premises []string, conclusion string, evidence map[string][]string) *domain.Argument {
	t.mu.Lock()
	defer t.mu.Unlock()

	built := make([]*domain.Premise, 0, len(premises))
	for _, p := range premises {
		built = append(built, &domain.Premise{
			Content:  p,
			Evidence: append([]string(nil), evidence[p]...),
		})
	}

	arg := &domain.Argument{
		ID:         fmt.Sprintf("arg_%d", len(t.arguments)+1),
		Speaker:    speaker,
		Type:       argType,
		Premises:   built,
		Conclusion: conclusion,
		Strength:   domain.StrengthModerate,
	}
	t.arguments[arg.ID] = arg
	t.order = append(t.order, arg.ID)
	return arg
}

// ChallengePremise marks one premise disputed and records the challenge as
// a rebuttal. No-op when the argument is unknown or the index is out of
// bounds.
func (t *Tracker) ChallengePremise(argID string, premiseIndex int, challenge string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	arg, ok := t.arguments[argID]
	if !ok {
		return
	}
	if premiseIndex < 0 || premiseIndex >= len(arg.Premises) {
		return
	}
	arg.Premises[premiseIndex].Challenged = true
	arg.Rebuttals = append(arg.Rebuttals, challenge)
}

// SupportArgument records a one-directional supports edge. No-op unless
// both arguments exist.
func (t *Tracker) SupportArgument(argID, supportingArgID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	arg, ok := t.arguments[argID]
	if !ok {
		return
	}
	if _, ok := t.arguments[supportingArgID]; !ok {
		return
	}
	arg.SupportingArguments = append(arg.SupportingArguments, supportingArgID)
	t.chains[argID] = append(t.chains[argID], supportingArgID)
}

// DetectFallacy records an externally asserted fallacy and pins the
// argument's strength to fallacious. No-op on an unknown id.
func (t *Tracker) DetectFallacy(argID, category, explanation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	arg, ok := t.arguments[argID]
	if !ok {
		return
	}
	t.fallacies = append(t.fallacies, domain.Fallacy{
		ArgumentID:  argID,
		Category:    category,
		Explanation: explanation,
	})
	arg.Strength = domain.StrengthFallacious
}

// EvaluateStrength recomputes an argument's strength from its current
// fallacy, evidence and rebuttal state. Unknown ids evaluate weak.
func (t *Tracker) EvaluateStrength(argID string) domain.Strength {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evaluateLocked(argID)
}

func (t *Tracker) evaluateLocked(argID string) domain.Strength {
	arg, ok := t.arguments[argID]
	if !ok {
		return domain.StrengthWeak
	}

	for _, f := range t.fallacies {
		if f.ArgumentID == argID {
			return domain.StrengthFallacious
		}
	}

	if len(arg.Premises) == 0 {
		return domain.StrengthWeak
	}
	supported := 0
	for _, p := range arg.Premises {
		if len(p.Evidence) > 0 {
			supported++
		}
	}
	supportRatio := float64(supported) / float64(len(arg.Premises))

	penalty := float64(len(arg.Rebuttals)) * rebuttalPenaltyStep
	if penalty > rebuttalPenaltyCap {
		penalty = rebuttalPenaltyCap
	}

	score := supportRatio - penalty
	switch {
	case score > strongThreshold:
		return domain.StrengthStrong
	case score > moderateThreshold:
		return domain.StrengthModerate
	default:
		return domain.StrengthWeak
	}
}

// StrongestArguments returns copies of arguments ordered strong first,
// then moderate, then by how many arguments support them; ties keep
// insertion order. An empty speaker means no filter. Every returned
// argument's Strength field is freshly recomputed, and the copies are
// detached so callers can encode them outside the lock.
func (t *Tracker) StrongestArguments(speaker string) []*domain.Argument {
	t.mu.Lock()
	defer t.mu.Unlock()

	var args []*domain.Argument
	for _, id := range t.order {
		arg := t.arguments[id]
		if speaker != "" && arg.Speaker != speaker {
			continue
		}
		arg.Strength = t.evaluateLocked(id)
		args = append(args, arg)
	}

	sort.SliceStable(args, func(i, j int) bool {
		si := args[i].Strength == domain.StrengthStrong
		sj := args[j].Strength == domain.StrengthStrong
		if si != sj {
			return si
		}
		mi := args[i].Strength == domain.StrengthModerate
		mj := args[j].Strength == domain.StrengthModerate
		if mi != mj {
			return mi
		}
		return len(args[i].SupportingArguments) > len(args[j].SupportingArguments)
	})

	out := make([]*domain.Argument, len(args))
	for i, arg := range args {
		out[i] = arg.Clone()
	}
	return out
}

// FindContradictions scans every unordered pair of same-speaker arguments
// for conclusions that are literal "not "-prefixed negations of each
// other, lowercased and trimmed. Pure string matching; paraphrased
// negations are out of scope.
func (t *Tracker) FindContradictions() []domain.Contradiction {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []domain.Contradiction
	for i := 0; i < len(t.order); i++ {
		arg1 := t.arguments[t.order[i]]
		for j := i + 1; j < len(t.order); j++ {
			arg2 := t.arguments[t.order[j]]
			if arg1.Speaker != arg2.Speaker {
				continue
			}
			c1 := strings.ToLower(strings.TrimSpace(arg1.Conclusion))
			c2 := strings.ToLower(strings.TrimSpace(arg2.Conclusion))

			negated := (strings.HasPrefix(c1, negationPrefix) && c2 == c1[len(negationPrefix):]) ||
				(strings.HasPrefix(c2, negationPrefix) && c1 == c2[len(negationPrefix):])
			if negated {
				out = append(out, domain.Contradiction{
					Speaker:       arg1.Speaker,
					Arg1:          arg1.ID,
					Arg2:          arg2.ID,
					Contradiction: fmt.Sprintf("%s vs %s", arg1.Conclusion, arg2.Conclusion),
				})
			}
		}
	}
	return out
}

// Summary reports aggregate counts, recomputing strength for the
// strong-argument tally.
func (t *Tracker) Summary() domain.ArgumentSummary {
	contradictions := len(t.FindContradictions())

	t.mu.Lock()
	defer t.mu.Unlock()

	strong := 0
	types := make(map[domain.ArgumentType]int, len(domain.ArgumentTypes()))
	for _, at := range domain.ArgumentTypes() {
		types[at] = 0
	}
	for _, id := range t.order {
		if t.evaluateLocked(id) == domain.StrengthStrong {
			strong++
		}
		types[t.arguments[id].Type]++
	}
	return domain.ArgumentSummary{
		TotalArguments:    len(t.arguments),
		StrongArguments:   strong,
		FallaciesDetected: len(t.fallacies),
		Contradictions:    contradictions,
		ArgumentTypes:     types,
	}
}

// Export produces the per-argument export records keyed by id.
func (t *Tracker) Export() map[string]domain.ArgumentExport {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]domain.ArgumentExport, len(t.arguments))
	for id, arg := range t.arguments {
		premises := make([]string, 0, len(arg.Premises))
		for _, p := range arg.Premises {
			premises = append(premises, p.Content)
		}
		out[id] = domain.ArgumentExport{
			Speaker:    arg.Speaker,
			Type:       arg.Type,
			Premises:   premises,
			Conclusion: arg.Conclusion,
			Strength:   arg.Strength,
		}
	}
	return out
}

// Argument looks up an argument by id, returning a detached copy.
func (t *Tracker) Argument(id string) (*domain.Argument, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	arg, ok := t.arguments[id]
	if !ok {
		return nil, false
	}
	return arg.Clone(), true
}
