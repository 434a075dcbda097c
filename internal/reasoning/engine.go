package reasoning

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HendryAvila/Nexus/internal/apperr"
	"github.com/HendryAvila/Nexus/internal/validation"
)

// DefaultMaxChainLength caps analyze depth and sequential initialSteps when
// no explicit limit is configured.
const DefaultMaxChainLength = 50

// Default chain lengths for Analyze and SequentialReasoning.
const (
	DefaultAnalyzeDepth       = 3
	DefaultSequentialStepsLen = 3
)

// Observer is notified after each step is committed. Used for metrics.
type Observer interface {
	StepCreated(t StepType)
}

// Options configures an Engine.
type Options struct {
	MaxChainLength int
	Logger         *zap.Logger
	Observer       Observer
}

// Engine runs the reasoning operations over a StepStore and BranchIndex.
//
// One mutex is held for the whole of every public method, so each call is
// an atomic transaction over both collections. Every method validates its
// input before touching state; a failed validation mutates nothing.
// Returned steps are copies.
type Engine struct {
	mu       sync.Mutex
	steps    *StepStore
	branches *BranchIndex
	factory  *Factory
	validate *validator.Validate
	maxChain int
	log      *zap.Logger
	observer Observer
}

// NewEngine wires an Engine around the given collections and factory.
func NewEngine(steps *StepStore, branches *BranchIndex, factory *Factory, opts Options) *Engine {
	if opts.MaxChainLength <= 0 {
		opts.MaxChainLength = DefaultMaxChainLength
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if factory == nil {
		factory = NewFactory(nil, nil)
	}

	v := validation.New()
	v.RegisterAlias("step_type", "oneof="+strings.Join(StepTypeNames(), " "))

	return &Engine{
		steps:    steps,
		branches: branches,
		factory:  factory,
		validate: v,
		maxChain: opts.MaxChainLength,
		log:      opts.Logger.Named("reasoning"),
		observer: opts.Observer,
	}
}

// ─── Parameters ─────────────────────────────────────────────────────────────

// CreateStepParams are the inputs of CreateStep.
type CreateStepParams struct {
	Type         StepType `json:"type" validate:"required,step_type"`
	Content      string   `json:"content" validate:"notblank"`
	Dependencies []string `json:"dependencies" validate:"omitempty,dive,notblank"`
	Evidence     []string `json:"evidence"`
	Confidence   *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

// AnalyzeParams are the inputs of Analyze. A nil Depth means the default.
type AnalyzeParams struct {
	Prompt     string   `json:"prompt" validate:"notblank"`
	Depth      *int     `json:"depth" validate:"omitempty,gte=1"`
	FocusAreas []string `json:"focus_areas"`
}

// SynthesizeParams are the inputs of Synthesize.
type SynthesizeParams struct {
	StepIDs     []string `json:"step_ids" validate:"required,min=1,dive,notblank"`
	Perspective string   `json:"perspective"`
}

// ValidateParams are the inputs of Validate.
type ValidateParams struct {
	StepID   string   `json:"step_id" validate:"notblank"`
	Criteria []string `json:"criteria"`
}

// SequentialParams are the inputs of SequentialReasoning.
type SequentialParams struct {
	Prompt           string   `json:"prompt" validate:"notblank"`
	InitialSteps     *int     `json:"initialSteps" validate:"omitempty,gte=1"`
	FocusAreas       []string `json:"focusAreas"`
	BranchID         string   `json:"branchId"`
	BranchFromStepID string   `json:"branchFromStepId"`
}

// UpdateStepParams amend a stored step. Nil fields are left untouched.
type UpdateStepParams struct {
	StepID           string    `json:"step_id" validate:"notblank"`
	Dependencies     *[]string `json:"dependencies" validate:"omitempty,dive,notblank"`
	Evidence         *[]string `json:"evidence"`
	Confidence       *float64  `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	FocusAreas       *[]string `json:"focus_areas"`
	Perspective      *string   `json:"perspective"`
	Criteria         *[]string `json:"criteria"`
	BranchID         *string   `json:"branchId" validate:"omitempty,notblank"`
	BranchFromStepID *string   `json:"branchFromStepId"`
	SequenceNumber   *int      `json:"sequenceNumber" validate:"omitempty,gte=1"`
	TotalSteps       *int      `json:"totalSteps" validate:"omitempty,gte=1"`
}

// ─── Operations ─────────────────────────────────────────────────────────────

// CreateStep records a single free-standing step. Every dependency must
// name an existing step.
func (e *Engine) CreateStep(p CreateStepParams) (*Step, error) {
	if err := validation.Struct(e.validate, p); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireSteps(p.Dependencies); err != nil {
		return nil, err
	}

	step := e.factory.NewStep(p.Type, p.Content, StepOptions{
		Dependencies: p.Dependencies,
		Evidence:     p.Evidence,
		Confidence:   p.Confidence,
	})
	e.commit(step)

	e.log.Debug("step created", zap.String("id", step.ID), zap.String("type", string(step.Type)))
	return step.Clone(), nil
}

// Analyze builds a linear chain of depth steps under a fresh branch:
// decomposition, analysis steps, then a conclusion. A depth of one yields a
// lone conclusion and a depth of two skips the analysis steps.
func (e *Engine) Analyze(p AnalyzeParams) (ChainResult, error) {
	if err := validation.Struct(e.validate, p); err != nil {
		return ChainResult{}, err
	}
	depth := DefaultAnalyzeDepth
	if p.Depth != nil {
		depth = *p.Depth
	}
	if depth > e.maxChain {
		return ChainResult{}, apperr.InvalidArgument("'depth' must be <= %d", e.maxChain)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	branchID := e.factory.NewBranchID()
	steps := e.buildChain(depth, analysisStepType, func(pos int) string {
		switch {
		case pos == depth:
			return "Final synthesis: " + p.Prompt
		case pos == 1:
			return "Initial decomposition: " + p.Prompt
		default:
			return fmt.Sprintf("Analysis step %d: %s", pos-1, p.Prompt)
		}
	}, StepOptions{FocusAreas: p.FocusAreas, BranchID: branchID})

	e.branches.Append(branchID, stepIDs(steps)...)

	e.log.Debug("analysis chain created", zap.String("branch", branchID), zap.Int("depth", depth))
	return ChainResult{BranchID: branchID, Steps: cloneAll(steps)}, nil
}

// Synthesize records one synthesis step over existing steps. A single
// unknown id fails the whole call and nothing is created.
func (e *Engine) Synthesize(p SynthesizeParams) (*Step, error) {
	if err := validation.Struct(e.validate, p); err != nil {
		return nil, err
	}
	perspective := p.Perspective
	if strings.TrimSpace(perspective) == "" {
		perspective = DefaultPerspective
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireSteps(p.StepIDs); err != nil {
		return nil, err
	}

	step := e.factory.NewStep(StepSynthesis, "Synthesis of steps: "+strings.Join(p.StepIDs, ", "), StepOptions{
		Dependencies: p.StepIDs,
		Perspective:  perspective,
	})
	e.commit(step)

	e.log.Debug("synthesis created", zap.String("id", step.ID), zap.Int("inputs", len(p.StepIDs)))
	return step.Clone(), nil
}

// Validate records that stepID was evaluated against criteria. No verdict
// is computed.
func (e *Engine) Validate(p ValidateParams) (*Step, error) {
	if err := validation.Struct(e.validate, p); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.steps.Get(p.StepID); err != nil {
		return nil, err
	}

	step := e.factory.NewStep(StepValidation, "Validation of step: "+p.StepID, StepOptions{
		Dependencies: []string{p.StepID},
		Criteria:     p.Criteria,
	})
	e.commit(step)

	e.log.Debug("validation created", zap.String("id", step.ID), zap.String("target", p.StepID))
	return step.Clone(), nil
}

// SequentialReasoning builds a hypothesis, analysis..., conclusion chain and
// appends it to the given branch, or to a fresh one when none is given.
// The first step carries BranchFromStepID as an unchecked fork marker.
func (e *Engine) SequentialReasoning(p SequentialParams) (ChainResult, error) {
	if err := validation.Struct(e.validate, p); err != nil {
		return ChainResult{}, err
	}
	n := DefaultSequentialStepsLen
	if p.InitialSteps != nil {
		n = *p.InitialSteps
	}
	if n > e.maxChain {
		return ChainResult{}, apperr.InvalidArgument("'initialSteps' must be <= %d", e.maxChain)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	branchID := normalizeBranchID(p.BranchID)
	if branchID == "" {
		branchID = e.factory.NewBranchID()
	}

	steps := e.buildChain(n, sequentialStepType, func(pos int) string {
		if pos == 1 {
			return p.Prompt
		}
		return fmt.Sprintf("Step %d for: %s", pos, p.Prompt)
	}, StepOptions{
		FocusAreas:       p.FocusAreas,
		BranchID:         branchID,
		BranchFromStepID: p.BranchFromStepID,
	})

	e.branches.Append(branchID, stepIDs(steps)...)

	e.log.Debug("sequential chain created", zap.String("branch", branchID), zap.Int("steps", n))
	return ChainResult{BranchID: branchID, Steps: cloneAll(steps)}, nil
}

// GetStep returns one step by id.
func (e *Engine) GetStep(id string) (*Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	step, err := e.steps.Get(id)
	if err != nil {
		return nil, err
	}
	return step.Clone(), nil
}

// BranchSteps returns the steps of a branch in the order they were added.
func (e *Engine) BranchSteps(branchID string) ([]*Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	branchID = normalizeBranchID(branchID)
	ids, err := e.branches.StepIDs(branchID)
	if err != nil {
		return nil, err
	}
	out := make([]*Step, 0, len(ids))
	for _, id := range ids {
		step, err := e.steps.Get(id)
		if err != nil {
			return nil, apperr.Internal(err, "branch %q references a missing step", branchID)
		}
		out = append(out, step.Clone())
	}
	return out, nil
}

// StepsByType returns every step of the given type in creation order.
func (e *Engine) StepsByType(t StepType) ([]*Step, error) {
	if err := ValidateType(t); err != nil {
		return nil, apperr.InvalidArgument("%v", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := []*Step{}
	for _, step := range e.steps.All() {
		if step.Type == t {
			out = append(out, step.Clone())
		}
	}
	return out, nil
}

// UpdateStep amends the mutable fields of a step. ID, type, content and
// creation time never change. New dependencies must exist and must not
// close a cycle. Changing the branch appends the step to that branch;
// earlier memberships are kept.
func (e *Engine) UpdateStep(p UpdateStepParams) (*Step, error) {
	if err := validation.Struct(e.validate, p); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	stored, err := e.steps.Get(p.StepID)
	if err != nil {
		return nil, err
	}

	if p.Dependencies != nil {
		deps := *p.Dependencies
		if err := e.requireSteps(deps); err != nil {
			return nil, err
		}
		for _, dep := range deps {
			if dep == p.StepID || e.reaches(dep, p.StepID) {
				return nil, apperr.InvalidArgument("dependency %q would create a cycle through step %q", dep, p.StepID)
			}
		}
	}

	next := stored.Clone()
	if p.Dependencies != nil {
		next.Dependencies = slices.Clone(*p.Dependencies)
	}
	if p.Evidence != nil {
		next.Evidence = slices.Clone(*p.Evidence)
	}
	if p.Confidence != nil {
		v := *p.Confidence
		next.Confidence = &v
	}
	if p.FocusAreas != nil {
		next.FocusAreas = slices.Clone(*p.FocusAreas)
	}
	if p.Perspective != nil {
		next.Perspective = *p.Perspective
	}
	if p.Criteria != nil {
		next.Criteria = slices.Clone(*p.Criteria)
	}
	if p.BranchFromStepID != nil {
		next.BranchFromStepID = *p.BranchFromStepID
	}
	if p.SequenceNumber != nil {
		next.SequenceNumber = *p.SequenceNumber
	}
	if p.TotalSteps != nil {
		next.TotalSteps = *p.TotalSteps
	}
	if p.BranchID != nil {
		if id := normalizeBranchID(*p.BranchID); id != stored.BranchID {
			next.BranchID = id
			e.branches.Append(next.BranchID, next.ID)
		}
	}

	e.steps.Put(next)

	e.log.Debug("step updated", zap.String("id", next.ID))
	return next.Clone(), nil
}

// normalizeBranchID trims surrounding whitespace so " x" and "x" name the
// same branch.
func normalizeBranchID(id string) string {
	return strings.TrimSpace(id)
}

// Summary returns aggregate counts over all steps and branches.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{
		TotalSteps: e.steps.Len(),
		Branches:   e.branches.Len(),
		ByType:     make(map[StepType]int),
	}
	for _, step := range e.steps.All() {
		s.ByType[step.Type]++
	}
	return s
}

// ─── Internals (caller holds e.mu) ──────────────────────────────────────────

// buildChain mints and stores n steps, each depending on its predecessor.
// Only the first step keeps base.BranchFromStepID.
func (e *Engine) buildChain(n int, typeAt func(pos, total int) StepType, contentAt func(pos int) string, base StepOptions) []*Step {
	steps := make([]*Step, 0, n)
	for pos := 1; pos <= n; pos++ {
		opts := base
		opts.SequenceNumber = pos
		opts.TotalSteps = n
		if pos > 1 {
			opts.Dependencies = []string{steps[pos-2].ID}
			opts.BranchFromStepID = ""
		}
		step := e.factory.NewStep(typeAt(pos, n), contentAt(pos), opts)
		e.commit(step)
		steps = append(steps, step)
	}
	return steps
}

func (e *Engine) commit(step *Step) {
	e.steps.Put(step)
	if e.observer != nil {
		e.observer.StepCreated(step.Type)
	}
}

// requireSteps returns NotFound for the first id not in the store.
func (e *Engine) requireSteps(ids []string) error {
	for _, id := range ids {
		if !e.steps.Has(id) {
			return apperr.NotFound("step %q not found", id)
		}
	}
	return nil
}

// reaches reports whether target is reachable from start by following
// dependency edges.
func (e *Engine) reaches(start, target string) bool {
	seen := map[string]bool{}
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		step, err := e.steps.Get(id)
		if err != nil {
			continue
		}
		stack = append(stack, step.Dependencies...)
	}
	return false
}

// analysisStepType places the conclusion last, so a one-step chain is a
// lone conclusion.
func analysisStepType(pos, total int) StepType {
	switch {
	case pos == total:
		return StepConclusion
	case pos == 1:
		return StepDecomposition
	default:
		return StepAnalysis
	}
}

// sequentialStepType places the hypothesis first, so a one-step chain is a
// lone hypothesis.
func sequentialStepType(pos, total int) StepType {
	switch {
	case pos == 1:
		return StepHypothesis
	case pos == total:
		return StepConclusion
	default:
		return StepAnalysis
	}
}

func stepIDs(steps []*Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}

func cloneAll(steps []*Step) []*Step {
	out := make([]*Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}
