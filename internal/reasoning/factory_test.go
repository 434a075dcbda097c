package reasoning

import (
	"fmt"
	"testing"
	"time"
)

// seqIDs hands out "id-1", "id-2", ...
type seqIDs struct{ n int }

func (g *seqIDs) Next() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func TestFactory_UsesInjectedGenerator(t *testing.T) {
	f := NewFactory(&seqIDs{}, nil)

	a := f.NewStep(StepHypothesis, "x", StepOptions{})
	b := f.NewStep(StepAnalysis, "y", StepOptions{})
	if a.ID != "id-1" || b.ID != "id-2" {
		t.Errorf("ids = %q, %q", a.ID, b.ID)
	}
	if got := f.NewBranchID(); got != "id-3" {
		t.Errorf("NewBranchID = %q, want id-3", got)
	}
}

func TestFactory_TimestampsNeverGoBackwards(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour), base.Add(time.Minute)}
	i := 0
	clock := func() time.Time {
		t := ticks[i]
		i++
		return t
	}

	f := NewFactory(&seqIDs{}, clock)
	s1 := f.NewStep(StepHypothesis, "a", StepOptions{})
	s2 := f.NewStep(StepHypothesis, "b", StepOptions{})
	s3 := f.NewStep(StepHypothesis, "c", StepOptions{})

	if !s2.CreatedAt.Equal(s1.CreatedAt) {
		t.Errorf("clock skew not clamped: %v then %v", s1.CreatedAt, s2.CreatedAt)
	}
	if !s3.CreatedAt.After(s2.CreatedAt) {
		t.Errorf("s3 %v should be after s2 %v", s3.CreatedAt, s2.CreatedAt)
	}
}

func TestFactory_DetachesOptionSlices(t *testing.T) {
	deps := []string{"a", "b"}
	step := NewFactory(&seqIDs{}, nil).NewStep(StepInference, "x", StepOptions{Dependencies: deps})
	deps[0] = "changed"
	if step.Dependencies[0] != "a" {
		t.Error("step aliases caller's dependency slice")
	}
}

func TestFactory_DefaultGeneratorIsUUID(t *testing.T) {
	f := NewFactory(nil, nil)
	id := f.NewStep(StepQuestion, "q", StepOptions{}).ID
	if len(id) != 36 {
		t.Errorf("id %q does not look like a UUID", id)
	}
}
