package planner

import (
	"errors"
	"fmt"

	"github.com/kilianp07/chargeplan/core/milp"
)

var (
	// ErrInfeasible is returned when no deployment satisfies the budget and
	// minimum station constraints.
	ErrInfeasible = errors.New("no feasible deployment")
	// ErrSolverTimeout is returned when the solver hit its time limit before
	// proving optimality.
	ErrSolverTimeout = errors.New("solver time limit reached")
	// ErrNoSolution covers every other non-optimal solver outcome.
	ErrNoSolution = errors.New("solver returned no solution")
)

// StatusError carries the solver status of a run that did not reach an
// optimum.
type StatusError struct {
	Status milp.Status
	err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v (solver status %s)", e.err, e.Status)
}

func (e *StatusError) Unwrap() error { return e.err }

// StatusName returns the solver status label.
func (e *StatusError) StatusName() string { return e.Status.String() }

// NewStatusError maps a non-optimal status to its sentinel.
func NewStatusError(st milp.Status) *StatusError {
	switch st {
	case milp.StatusInfeasible, milp.StatusUnbounded:
		return &StatusError{Status: st, err: ErrInfeasible}
	case milp.StatusTimeLimit:
		return &StatusError{Status: st, err: ErrSolverTimeout}
	default:
		return &StatusError{Status: st, err: ErrNoSolution}
	}
}
