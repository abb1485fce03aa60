package flow

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnmatchedBranch is matched by errors from a conditional chain whose
	// discriminator produced a key with no registered branch.
	ErrUnmatchedBranch = errors.New("unmatched branch")
	// ErrIncompleteMerge is matched by errors from a strict merge that saw a
	// failed upstream slot.
	ErrIncompleteMerge = errors.New("incomplete merge")
	// ErrTimeout is matched by errors from a node that exceeded its time bound.
	ErrTimeout = errors.New("node timed out")
)

// LeafError reports a failed leaf transformation.
type LeafError struct {
	Node  string
	Cause error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("node %q: %v", e.Node, e.Cause)
}

func (e *LeafError) Unwrap() error {
	return e.Cause
}

// StageError reports the position at which a serial chain, pipe or loop
// stopped. For loops Stage is the 0-based iteration whose body failed and
// Iterations the number of bodies that completed before it.
type StageError struct {
	Chain      string
	Kind       Kind
	Stage      int
	Node       string
	Iterations int
	Cause      error
}

func (e *StageError) Error() string {
	if e.Kind == KindLoop {
		return fmt.Sprintf("loop %q: iteration %d (%q) failed after %d iterations: %v",
			e.Chain, e.Stage, e.Node, e.Iterations, e.Cause)
	}
	return fmt.Sprintf("%s %q: stage %d (%q) failed: %v", e.Kind, e.Chain, e.Stage, e.Node, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// UnmatchedBranchError carries the discriminator key that had no branch.
type UnmatchedBranchError struct {
	Chain string
	Key   any
}

func (e *UnmatchedBranchError) Error() string {
	return fmt.Sprintf("conditional %q: no branch for key %v", e.Chain, e.Key)
}

func (e *UnmatchedBranchError) Is(target error) bool {
	return target == ErrUnmatchedBranch
}

// IncompleteMergeError lists the upstream slots that did not succeed and
// their errors, in slot order.
type IncompleteMergeError struct {
	Chain  string
	Failed []int
	Errs   []error
}

func (e *IncompleteMergeError) Error() string {
	return fmt.Sprintf("merge %q: %d of the upstream slots failed %v: %v",
		e.Chain, len(e.Failed), e.Failed, errors.Join(e.Errs...))
}

func (e *IncompleteMergeError) Is(target error) bool {
	return target == ErrIncompleteMerge
}

func (e *IncompleteMergeError) Unwrap() []error {
	return e.Errs
}

// TimeoutError reports a node that did not return within its bound.
type TimeoutError struct {
	Node  string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("node %q: no result after %s", e.Node, e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
