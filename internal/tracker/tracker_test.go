package tracker

import (
	"fmt"
	"testing"

	"github.com/rostrum-ai/rostrum/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentIDsSequential(t *testing.T) {
	tr := New()

	for i := 1; i <= 3; i++ {
		arg := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, fmt.Sprintf("c%d", i), nil)
		assert.Equal(t, fmt.Sprintf("arg_%d", i), arg.ID)
		assert.Equal(t, domain.StrengthModerate, arg.Strength)
	}
}

func TestAddArgumentAttachesEvidence(t *testing.T) {
	tr := New()
	arg := tr.AddArgument("barbie", domain.ArgumentInductive,
		[]string{"studies show X", "X implies Y"},
		"therefore Y",
		map[string][]string{"studies show X": {"study A", "study B"}},
	)

	require.Len(t, arg.Premises, 2)
	assert.Equal(t, []string{"study A", "study B"}, arg.Premises[0].Evidence)
	assert.Empty(t, arg.Premises[1].Evidence)
}

func TestEvaluateStrength(t *testing.T) {
	tests := []struct {
		name      string
		premises  []string
		evidence  map[string][]string
		rebuttals int
		want      domain.Strength
	}{
		{
			name:     "full evidence no rebuttals is strong",
			premises: []string{"p1", "p2"},
			evidence: map[string][]string{"p1": {"e1"}, "p2": {"e2"}},
			want:     domain.StrengthStrong,
		},
		{
			name:     "no evidence is weak",
			premises: []string{"p1"},
			want:     domain.StrengthWeak,
		},
		{
			name:     "half evidence is moderate",
			premises: []string{"p1", "p2"},
			evidence: map[string][]string{"p1": {"e1"}},
			want:     domain.StrengthModerate,
		},
		{
			name:      "rebuttals drag full evidence to moderate",
			premises:  []string{"p1", "p2"},
			evidence:  map[string][]string{"p1": {"e1"}, "p2": {"e2"}},
			rebuttals: 3,
			want:      domain.StrengthModerate,
		},
		{
			name:      "rebuttal penalty caps at half",
			premises:  []string{"p1"},
			evidence:  map[string][]string{"p1": {"e1"}},
			rebuttals: 10,
			want:      domain.StrengthModerate,
		},
		{
			name: "no premises is weak",
			want: domain.StrengthWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			arg := tr.AddArgument("barbie", domain.ArgumentDeductive, tt.premises, "conclusion", tt.evidence)
			for i := 0; i < tt.rebuttals; i++ {
				tr.ChallengePremise(arg.ID, 0, fmt.Sprintf("rebuttal %d", i))
			}
			assert.Equal(t, tt.want, tr.EvaluateStrength(arg.ID))
		})
	}
}

func TestEvaluateStrengthUnknownIDIsWeak(t *testing.T) {
	assert.Equal(t, domain.StrengthWeak, New().EvaluateStrength("arg_404"))
}

func TestFallacyPinsStrength(t *testing.T) {
	tr := New()
	arg := tr.AddArgument("barbie", domain.ArgumentCausal,
		[]string{"p1", "p2"},
		"conclusion",
		map[string][]string{"p1": {"e1"}, "p2": {"e2"}},
	)
	require.Equal(t, domain.StrengthStrong, tr.EvaluateStrength(arg.ID))

	tr.DetectFallacy(arg.ID, "post hoc", "correlation mistaken for causation")

	assert.Equal(t, domain.StrengthFallacious, tr.EvaluateStrength(arg.ID))
	assert.Equal(t, domain.StrengthFallacious, arg.Strength)
}

func TestDetectFallacyUnknownIDIsNoOp(t *testing.T) {
	tr := New()
	tr.DetectFallacy("arg_404", "straw man", "nope")
	assert.Zero(t, tr.Summary().FallaciesDetected)
}

func TestChallengePremise(t *testing.T) {
	tr := New()
	arg := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p1", "p2"}, "c", nil)

	tr.ChallengePremise(arg.ID, 1, "p2 is unsupported")

	assert.False(t, arg.Premises[0].Challenged)
	assert.True(t, arg.Premises[1].Challenged)
	assert.Equal(t, []string{"p2 is unsupported"}, arg.Rebuttals)
	require.Len(t, arg.UnchallengedPremises(), 1)

	// Out-of-bounds index and unknown id are no-ops.
	tr.ChallengePremise(arg.ID, 5, "nope")
	tr.ChallengePremise("arg_404", 0, "nope")
	assert.Len(t, arg.Rebuttals, 1)
}

func TestSupportArgument(t *testing.T) {
	tr := New()
	a1 := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "c1", nil)
	a2 := tr.AddArgument("barbie", domain.ArgumentInductive, []string{"p"}, "c2", nil)

	tr.SupportArgument(a1.ID, a2.ID)
	assert.Equal(t, []string{a2.ID}, a1.SupportingArguments)

	// Either id missing is a no-op.
	tr.SupportArgument(a1.ID, "arg_404")
	tr.SupportArgument("arg_404", a2.ID)
	assert.Len(t, a1.SupportingArguments, 1)
}

func TestStrongestArgumentsOrdering(t *testing.T) {
	tr := New()
	ev := map[string][]string{"p": {"e"}}

	weak := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "weak one", nil)
	strong := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "strong one", ev)
	modA := tr.AddArgument("ken", domain.ArgumentInductive, []string{"p", "q"}, "moderate a", ev)
	modB := tr.AddArgument("ken", domain.ArgumentInductive, []string{"p", "q"}, "moderate b", ev)
	tr.SupportArgument(modB.ID, strong.ID)

	got := tr.StrongestArguments("")
	require.Len(t, got, 4)
	// Strong first, then moderates by support count, weak last.
	assert.Equal(t, strong.ID, got[0].ID)
	assert.Equal(t, modB.ID, got[1].ID)
	assert.Equal(t, modA.ID, got[2].ID)
	assert.Equal(t, weak.ID, got[3].ID)

	// Strength fields were recomputed on the way out.
	assert.Equal(t, domain.StrengthStrong, got[0].Strength)
	assert.Equal(t, domain.StrengthWeak, got[3].Strength)
}

func TestStrongestArgumentsStableForTies(t *testing.T) {
	tr := New()
	ev := map[string][]string{"p": {"e"}}

	first := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "c1", ev)
	second := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "c2", ev)

	got := tr.StrongestArguments("")
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestStrongestArgumentsSpeakerFilter(t *testing.T) {
	tr := New()
	tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "c1", nil)
	kens := tr.AddArgument("ken", domain.ArgumentDeductive, []string{"p"}, "c2", nil)

	got := tr.StrongestArguments("ken")
	require.Len(t, got, 1)
	assert.Equal(t, kens.ID, got[0].ID)
}

func TestStrongestArgumentsReturnsDetachedCopies(t *testing.T) {
	tr := New()
	arg := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "c",
		map[string][]string{"p": {"e"}})

	got := tr.StrongestArguments("")
	require.Len(t, got, 1)

	// Later mutations must not leak into previously returned results.
	tr.ChallengePremise(arg.ID, 0, "late rebuttal")

	assert.Empty(t, got[0].Rebuttals)
	assert.False(t, got[0].Premises[0].Challenged)

	lookup, ok := tr.Argument(arg.ID)
	require.True(t, ok)
	lookup.Conclusion = "scribbled over"
	fresh, ok := tr.Argument(arg.ID)
	require.True(t, ok)
	assert.Equal(t, "c", fresh.Conclusion)
}

func TestFindContradictions(t *testing.T) {
	tr := New()
	a1 := tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "AI is beneficial", nil)
	a2 := tr.AddArgument("barbie", domain.ArgumentInductive, []string{"p"}, "Not AI is beneficial", nil)

	got := tr.FindContradictions()
	require.Len(t, got, 1)
	assert.Equal(t, "barbie", got[0].Speaker)
	assert.Equal(t, a1.ID, got[0].Arg1)
	assert.Equal(t, a2.ID, got[0].Arg2)
	assert.Equal(t, "AI is beneficial vs Not AI is beneficial", got[0].Contradiction)
}

func TestFindContradictionsIgnoresCrossSpeaker(t *testing.T) {
	tr := New()
	tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "AI is beneficial", nil)
	tr.AddArgument("ken", domain.ArgumentDeductive, []string{"p"}, "Not AI is beneficial", nil)

	assert.Empty(t, tr.FindContradictions())
}

func TestFindContradictionsLiteralPrefixOnly(t *testing.T) {
	tr := New()
	// Paraphrased negation does not match the literal "not " prefix rule.
	tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "AI is beneficial", nil)
	tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "AI is harmful", nil)

	assert.Empty(t, tr.FindContradictions())
}

func TestSummary(t *testing.T) {
	tr := New()
	ev := map[string][]string{"p": {"e"}}
	tr.AddArgument("barbie", domain.ArgumentDeductive, []string{"p"}, "AI is beneficial", ev)
	tr.AddArgument("barbie", domain.ArgumentCausal, []string{"p"}, "Not AI is beneficial", nil)
	bad := tr.AddArgument("ken", domain.ArgumentDeductive, []string{"p"}, "something else", ev)
	tr.DetectFallacy(bad.ID, "ad hominem", "attacks the speaker")

	s := tr.Summary()
	assert.Equal(t, 3, s.TotalArguments)
	assert.Equal(t, 1, s.StrongArguments) // the fallacious one no longer counts
	assert.Equal(t, 1, s.FallaciesDetected)
	assert.Equal(t, 1, s.Contradictions)
	assert.Equal(t, 2, s.ArgumentTypes[domain.ArgumentDeductive])
	assert.Equal(t, 1, s.ArgumentTypes[domain.ArgumentCausal])
	assert.Equal(t, 0, s.ArgumentTypes[domain.ArgumentAnalogical])
}

func TestExport(t *testing.T) {
	tr := New()
	ev := map[string][]string{"p1": {"e1"}}
	arg := tr.AddArgument("barbie", domain.ArgumentAbductive, []string{"p1", "p2"}, "best explanation", ev)
	tr.EvaluateStrength(arg.ID)

	out := tr.Export()
	require.Contains(t, out, arg.ID)
	assert.Equal(t, "barbie", out[arg.ID].Speaker)
	assert.Equal(t, domain.ArgumentAbductive, out[arg.ID].Type)
	assert.Equal(t, []string{"p1", "p2"}, out[arg.ID].Premises)
	assert.Equal(t, "best explanation", out[arg.ID].Conclusion)
}
