package milp

import (
	"context"
	"time"
)

// Status is the outcome reported by a solver.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
)

// String returns the label used in reports.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusTimeLimit:
		return "TimeLimit"
	default:
		return "Not Solved"
	}
}

// Solution is the raw solver output. Values holds one entry per model
// variable and is only set when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
	Nodes     int
	Elapsed   time.Duration
}

// Value returns the value of variable v, or 0 when no values are present.
func (s Solution) Value(v int) float64 {
	if v < 0 || v >= len(s.Values) {
		return 0
	}
	return s.Values[v]
}

// Solver solves binary linear programs. A context deadline is the wall-clock
// limit; reaching it yields StatusTimeLimit rather than an error. Errors are
// reserved for failures of the solver itself.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Solution, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, m *Model) (Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, m *Model) (Solution, error) { return f(ctx, m) }
