package reasoning

import (
	"time"

	"github.com/google/uuid"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// IDGenerator mints identifiers for steps and branches.
type IDGenerator interface {
	Next() string
}

// UUIDGenerator mints random (v4) UUIDs.
type UUIDGenerator struct{}

// Next returns a fresh random UUID string.
func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// StepOptions carries the optional fields a new step may start with.
type StepOptions struct {
	Dependencies     []string
	Evidence         []string
	Confidence       *float64
	SequenceNumber   int
	TotalSteps       int
	FocusAreas       []string
	Perspective      string
	Criteria         []string
	BranchID         string
	BranchFromStepID string
}

// Factory is the only place step ids, branch ids and creation timestamps
// are minted. It does not validate the step type; callers do that first.
// Not safe for concurrent use on its own.
type Factory struct {
	ids  IDGenerator
	now  func() time.Time
	last time.Time
}

// NewFactory creates a Factory. A nil generator defaults to UUIDGenerator
// and a nil clock to time.Now.
func NewFactory(ids IDGenerator, now func() time.Time) *Factory {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if now == nil {
		now = timeNow
	}
	return &Factory{ids: ids, now: now}
}

// NewStep returns a fully populated step with a fresh id and a creation
// timestamp that never goes backwards relative to earlier calls.
func (f *Factory) NewStep(typ StepType, content string, opts StepOptions) *Step {
	step := &Step{
		ID:               f.ids.Next(),
		Type:             typ,
		Content:          content,
		CreatedAt:        f.stamp(),
		Dependencies:     opts.Dependencies,
		Evidence:         opts.Evidence,
		Confidence:       opts.Confidence,
		SequenceNumber:   opts.SequenceNumber,
		TotalSteps:       opts.TotalSteps,
		FocusAreas:       opts.FocusAreas,
		Perspective:      opts.Perspective,
		Criteria:         opts.Criteria,
		BranchID:         opts.BranchID,
		BranchFromStepID: opts.BranchFromStepID,
	}
	// Detach from the caller's slices.
	return step.Clone()
}

// NewBranchID returns a fresh branch identifier.
func (f *Factory) NewBranchID() string {
	return f.ids.Next()
}

func (f *Factory) stamp() time.Time {
	t := f.now().UTC()
	if t.Before(f.last) {
		t = f.last
	}
	f.last = t
	return t
}
