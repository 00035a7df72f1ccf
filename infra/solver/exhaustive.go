package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/chargeplan/core/milp"
)

// MaxExhaustiveVars bounds the model size accepted by Exhaustive.
const MaxExhaustiveVars = 22

// Exhaustive enumerates every 0/1 assignment. It is only practical for tiny
// models and serves as a reference for the branch and bound solver.
type Exhaustive struct {
	Tolerance float64
}

// Solve implements milp.Solver. Ties keep the first assignment in
// enumeration order.
func (e Exhaustive) Solve(ctx context.Context, m *milp.Model) (milp.Solution, error) {
	start := time.Now()
	if err := m.Validate(); err != nil {
		return milp.Solution{}, err
	}
	n := m.NumVars()
	if n > MaxExhaustiveVars {
		return milp.Solution{}, fmt.Errorf("exhaustive solver: %d variables exceeds limit of %d", n, MaxExhaustiveVars)
	}
	tol := e.Tolerance
	if tol <= 0 {
		tol = 1e-9
	}

	var (
		best     []float64
		bestObj  float64
		vals     = make([]float64, n)
		total    = uint64(1) << uint(n)
		examined int
	)
	for mask := uint64(0); mask < total; mask++ {
		if mask&0xfff == 0 && ctx.Err() != nil {
			return milp.Solution{Status: milp.StatusTimeLimit, Nodes: examined, Elapsed: time.Since(start)}, nil
		}
		for v := 0; v < n; v++ {
			vals[v] = float64((mask >> uint(v)) & 1)
		}
		examined++
		if !m.Feasible(vals, tol) {
			continue
		}
		obj := m.Evaluate(vals)
		if best == nil || m.Better(obj, bestObj) {
			best = append([]float64(nil), vals...)
			bestObj = obj
		}
	}
	sol := milp.Solution{Nodes: examined, Elapsed: time.Since(start)}
	if best == nil {
		sol.Status = milp.StatusInfeasible
		return sol, nil
	}
	sol.Status = milp.StatusOptimal
	sol.Values = best
	sol.Objective = bestObj
	return sol, nil
}
