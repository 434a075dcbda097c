// Package reasoning implements the reasoning step graph: typed steps linked
// by dependency edges, grouped into append-only branches, and the derived
// chain/synthesis/validation operations built on top of them.
//
// Layout follows the leaf-first split:
//   - types.go: step model and the closed StepType enum
//   - store.go: StepStore and BranchIndex (pure keyed collections)
//   - factory.go: the single point of id/timestamp minting
//   - engine.go: the operations, their validation and locking
//
// Steps live in memory for the lifetime of the process only.
package reasoning

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// --- Step type enum ---

// StepType tags what role a step plays in an argument. It is descriptive
// only: no operation dispatches on it beyond choosing which type to mint.
type StepType string

const (
	StepHypothesis      StepType = "hypothesis"
	StepAnalysis        StepType = "analysis"
	StepInference       StepType = "inference"
	StepConclusion      StepType = "conclusion"
	StepCounterargument StepType = "counterargument"
	StepSynthesis       StepType = "synthesis"
	StepDecomposition   StepType = "decomposition"
	StepValidation      StepType = "validation"
	StepRevision        StepType = "revision"
	StepBranch          StepType = "branch"
	StepQuestion        StepType = "question"
	StepRealization     StepType = "realization"
)

// StepTypes lists every known step type in schema order.
var StepTypes = []StepType{
	StepHypothesis,
	StepAnalysis,
	StepInference,
	StepConclusion,
	StepCounterargument,
	StepSynthesis,
	StepDecomposition,
	StepValidation,
	StepRevision,
	StepBranch,
	StepQuestion,
	StepRealization,
}

// validTypes is the set of allowed step types.
var validTypes = func() map[StepType]bool {
	m := make(map[StepType]bool, len(StepTypes))
	for _, t := range StepTypes {
		m[t] = true
	}
	return m
}()

// ValidateType returns an error if the type is not recognized.
func ValidateType(t StepType) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid step type %q: must be one of: %s", t, typeList())
	}
	return nil
}

// StepTypeNames returns the enum values as plain strings, for tool schemas.
func StepTypeNames() []string {
	names := make([]string, len(StepTypes))
	for i, t := range StepTypes {
		names[i] = string(t)
	}
	return names
}

func typeList() string {
	return strings.Join(StepTypeNames(), ", ")
}

// DefaultPerspective labels a synthesis made without an explicit perspective.
const DefaultPerspective = "general"

// --- Core data structures ---

// Step is one node in the reasoning graph.
//
// ID, Type, Content and CreatedAt are fixed at creation. Every other field
// can be amended through Engine.UpdateStep.
type Step struct {
	ID               string    `json:"id"`
	Type             StepType  `json:"type"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
	Dependencies     []string  `json:"dependencies,omitempty"`
	Confidence       *float64  `json:"confidence,omitempty"`
	Evidence         []string  `json:"evidence,omitempty"`
	SequenceNumber   int       `json:"sequenceNumber,omitempty"`
	TotalSteps       int       `json:"totalSteps,omitempty"`
	FocusAreas       []string  `json:"focus_areas,omitempty"`
	Perspective      string    `json:"perspective,omitempty"`
	Criteria         []string  `json:"criteria,omitempty"`
	BranchID         string    `json:"branchId,omitempty"`
	BranchFromStepID string    `json:"branchFromStepId,omitempty"`
}

// Clone returns a deep copy so callers never alias stored state.
func (s *Step) Clone() *Step {
	c := *s
	c.Dependencies = slices.Clone(s.Dependencies)
	c.Evidence = slices.Clone(s.Evidence)
	c.FocusAreas = slices.Clone(s.FocusAreas)
	c.Criteria = slices.Clone(s.Criteria)
	if s.Confidence != nil {
		v := *s.Confidence
		c.Confidence = &v
	}
	return &c
}

// ChainResult is the output of Analyze and SequentialReasoning: the branch
// the chain was recorded under and its steps in creation order.
type ChainResult struct {
	BranchID string  `json:"branch_id"`
	Steps    []*Step `json:"steps"`
}

// Summary holds aggregate counts over the step graph.
type Summary struct {
	TotalSteps int              `json:"total_steps"`
	Branches   int              `json:"branches"`
	ByType     map[StepType]int `json:"by_type"`
}
