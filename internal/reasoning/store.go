package reasoning

import (
	"github.com/HendryAvila/Nexus/internal/apperr"
)

// StepStore holds every step by id and remembers creation order.
// It has no locking of its own; Engine serializes access.
type StepStore struct {
	steps map[string]*Step
	order []string
}

// NewStepStore creates an empty StepStore.
func NewStepStore() *StepStore {
	return &StepStore{steps: make(map[string]*Step)}
}

// Put inserts or overwrites a step by id.
func (s *StepStore) Put(step *Step) {
	if _, exists := s.steps[step.ID]; !exists {
		s.order = append(s.order, step.ID)
	}
	s.steps[step.ID] = step
}

// Get returns the stored step, or a NotFound error.
func (s *StepStore) Get(id string) (*Step, error) {
	step, ok := s.steps[id]
	if !ok {
		return nil, apperr.NotFound("step %q not found", id)
	}
	return step, nil
}

// Has reports whether a step with the given id exists.
func (s *StepStore) Has(id string) bool {
	_, ok := s.steps[id]
	return ok
}

// Len returns the number of stored steps.
func (s *StepStore) Len() int {
	return len(s.steps)
}

// All returns every step in creation order.
func (s *StepStore) All() []*Step {
	out := make([]*Step, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.steps[id])
	}
	return out
}

// BranchIndex maps a branch id to the ordered ids of the steps recorded
// under it. Entries are only ever appended to.
type BranchIndex struct {
	branches map[string][]string
}

// NewBranchIndex creates an empty BranchIndex.
func NewBranchIndex() *BranchIndex {
	return &BranchIndex{branches: make(map[string][]string)}
}

// Append creates the branch entry if absent, then appends ids in order.
func (b *BranchIndex) Append(branchID string, ids ...string) {
	b.branches[branchID] = append(b.branches[branchID], ids...)
}

// StepIDs returns a copy of the branch's step ids, or NotFound if the
// branch was never created.
func (b *BranchIndex) StepIDs(branchID string) ([]string, error) {
	ids, ok := b.branches[branchID]
	if !ok {
		return nil, apperr.NotFound("branch %q not found", branchID)
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

// Has reports whether the branch exists.
func (b *BranchIndex) Has(branchID string) bool {
	_, ok := b.branches[branchID]
	return ok
}

// Len returns the number of branches.
func (b *BranchIndex) Len() int {
	return len(b.branches)
}
