package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/chargeplan/core/milp"
)

const (
	free   int8 = -1
	fixed0 int8 = 0
	fixed1 int8 = 1
)

// lpSolve points to the simplex routine used for node relaxations. It can be
// overridden in tests to simulate solver failures.
var lpSolve = lp.Simplex

var errNodeInfeasible = errors.New("node infeasible")

// BranchAndBound solves binary programs by depth-first branch and bound.
// Models with the station siting structure are searched combinatorially over
// the build decisions; any other model is bounded by LP relaxations.
type BranchAndBound struct {
	// Tolerance is the integrality and feasibility tolerance.
	Tolerance float64
	// MaxNodes stops the search after this many nodes. Zero means no limit.
	MaxNodes int
	// LPOnly disables the combinatorial search.
	LPOnly bool
}

// NewBranchAndBound returns a solver with default tolerances.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{Tolerance: 1e-6}
}

// leRow is a constraint normalised to Σ terms <= rhs.
type leRow struct {
	terms []milp.Term
	rhs   float64
}

func normalize(m *milp.Model) []leRow {
	rows := make([]leRow, 0, len(m.Constraints))
	neg := func(ts []milp.Term) []milp.Term {
		out := make([]milp.Term, len(ts))
		for i, t := range ts {
			out[i] = milp.Term{Var: t.Var, Coef: -t.Coef}
		}
		return out
	}
	for _, c := range m.Constraints {
		terms := make([]milp.Term, 0, len(c.Terms))
		for _, t := range c.Terms {
			if t.Coef != 0 {
				terms = append(terms, t)
			}
		}
		switch c.Op {
		case milp.LessEq:
			rows = append(rows, leRow{terms: terms, rhs: c.RHS})
		case milp.GreaterEq:
			rows = append(rows, leRow{terms: neg(terms), rhs: -c.RHS})
		case milp.Equal:
			rows = append(rows, leRow{terms: terms, rhs: c.RHS}, leRow{terms: neg(terms), rhs: -c.RHS})
		}
	}
	return rows
}

type bnbState struct {
	ctx   context.Context
	m     *milp.Model
	rows  []leRow
	obj   []float64 // objective in maximisation form
	tol   float64
	integ bool

	interrupted bool

	have     bool
	best     float64
	bestVals []float64
}

// Solve implements milp.Solver.
func (s *BranchAndBound) Solve(ctx context.Context, m *milp.Model) (milp.Solution, error) {
	start := time.Now()
	if err := m.Validate(); err != nil {
		return milp.Solution{}, err
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = 1e-6
	}
	if !s.LPOnly {
		if cm, ok := detectCoverage(m, tol); ok {
			return s.solveCoverage(ctx, cm, tol, start)
		}
	}
	st := &bnbState{ctx: ctx, m: m, rows: normalize(m), obj: make([]float64, m.NumVars()), tol: tol, integ: m.IntegralObjective()}
	for _, t := range m.Objective {
		if m.Sense == milp.Maximize {
			st.obj[t.Var] += t.Coef
		} else {
			st.obj[t.Var] -= t.Coef
		}
	}

	root := make([]int8, m.NumVars())
	for i := range root {
		root[i] = free
	}
	stack := [][]int8{root}
	nodes := 0
	for len(stack) > 0 {
		if ctx.Err() != nil {
			return milp.Solution{Status: milp.StatusTimeLimit, Nodes: nodes, Elapsed: time.Since(start)}, nil
		}
		if s.MaxNodes > 0 && nodes >= s.MaxNodes {
			return milp.Solution{Status: milp.StatusNotSolved, Nodes: nodes, Elapsed: time.Since(start)}, nil
		}
		fx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		fx, v, ok := st.process(fx)
		if st.interrupted {
			return milp.Solution{Status: milp.StatusTimeLimit, Nodes: nodes, Elapsed: time.Since(start)}, nil
		}
		if !ok {
			continue
		}
		zero := append([]int8(nil), fx...)
		one := append([]int8(nil), fx...)
		zero[v] = fixed0
		one[v] = fixed1
		// The one-branch is explored first so feasible deployments are found early.
		stack = append(stack, zero, one)
	}

	sol := milp.Solution{Nodes: nodes, Elapsed: time.Since(start)}
	if !st.have {
		sol.Status = milp.StatusInfeasible
		return sol, nil
	}
	sol.Status = milp.StatusOptimal
	sol.Values = st.bestVals
	sol.Objective = m.Evaluate(st.bestVals)
	return sol, nil
}

// process evaluates a node and returns its propagated fixings together with
// the variable to branch on. ok is false when the node is pruned or fully
// resolved.
func (st *bnbState) process(in []int8) ([]int8, int, bool) {
	fx, feasible := propagate(st.rows, in, st.tol)
	if !feasible {
		return nil, 0, false
	}
	var freeVars []int
	for v, f := range fx {
		if f == free {
			freeVars = append(freeVars, v)
		}
	}
	if len(freeVars) == 0 {
		st.offer(valuesOf(fx, nil, nil))
		return nil, 0, false
	}

	bound, x, err := st.relax(fx, freeVars)
	if errors.Is(err, errNodeInfeasible) {
		return nil, 0, false
	}
	if st.ctx.Err() != nil {
		st.interrupted = true
		return nil, 0, false
	}
	if err != nil {
		// Numerical trouble in the relaxation: keep the node with an
		// unbounded estimate and branch on the first free variable.
		return fx, freeVars[0], true
	}
	if st.have && !st.canImprove(bound) {
		return nil, 0, false
	}

	branch, worst := -1, 0.0
	for k, v := range freeVars {
		frac := math.Abs(x[k] - math.Round(x[k]))
		if frac > st.tol && frac > worst {
			branch, worst = v, frac
		}
	}
	if branch >= 0 {
		return fx, branch, true
	}
	vals := valuesOf(fx, freeVars, x)
	if st.m.Feasible(vals, st.tol) {
		st.offer(vals)
		return nil, 0, false
	}
	return fx, freeVars[0], true
}

func (st *bnbState) offer(vals []float64) {
	if !st.m.Feasible(vals, st.tol) {
		return
	}
	var obj float64
	for v, c := range st.obj {
		obj += c * vals[v]
	}
	if !st.have || obj > st.best+st.tol {
		st.have = true
		st.best = obj
		st.bestVals = vals
	}
}

func (st *bnbState) canImprove(bound float64) bool {
	return improves(bound, st.best, st.tol, st.integ)
}

func valuesOf(fx []int8, freeVars []int, x []float64) []float64 {
	vals := make([]float64, len(fx))
	for v, f := range fx {
		if f == fixed1 {
			vals[v] = 1
		}
	}
	for k, v := range freeVars {
		vals[v] = math.Round(x[k])
	}
	return vals
}

// propagate fixes variables implied by activity bounds on each row until no
// further change occurs. It reports false when a row cannot be satisfied.
func propagate(rows []leRow, in []int8, tol float64) ([]int8, bool) {
	fx := append([]int8(nil), in...)
	for changed := true; changed; {
		changed = false
		for _, r := range rows {
			minAct := 0.0
			for _, t := range r.terms {
				switch fx[t.Var] {
				case fixed1:
					minAct += t.Coef
				case free:
					if t.Coef < 0 {
						minAct += t.Coef
					}
				}
			}
			if minAct > r.rhs+tol {
				return nil, false
			}
			for _, t := range r.terms {
				if fx[t.Var] != free {
					continue
				}
				if t.Coef > 0 && minAct+t.Coef > r.rhs+tol {
					fx[t.Var] = fixed0
					changed = true
				} else if t.Coef < 0 && minAct-t.Coef > r.rhs+tol {
					fx[t.Var] = fixed1
					changed = true
				}
			}
		}
	}
	return fx, true
}

// relax solves the LP relaxation of the node in standard form and returns the
// objective bound in maximisation form plus the free variable values.
func (st *bnbState) relax(fx []int8, freeVars []int) (float64, []float64, error) {
	col := make(map[int]int, len(freeVars))
	for k, v := range freeVars {
		col[v] = k
	}
	constant := 0.0
	for v, f := range fx {
		if f == fixed1 {
			constant += st.obj[v]
		}
	}

	type lpRow struct {
		coefs map[int]float64
		rhs   float64
	}
	var rows []lpRow
	bounded := make([]bool, len(freeVars))
	for _, r := range st.rows {
		rhs := r.rhs
		coefs := make(map[int]float64)
		maxAct := 0.0
		nonNeg := true
		for _, t := range r.terms {
			switch fx[t.Var] {
			case fixed1:
				rhs -= t.Coef
			case free:
				coefs[col[t.Var]] += t.Coef
			}
		}
		for _, a := range coefs {
			if a > 0 {
				maxAct += a
			} else if a < 0 {
				nonNeg = false
			}
		}
		if len(coefs) == 0 || maxAct <= rhs+st.tol {
			continue
		}
		if nonNeg {
			for k, a := range coefs {
				if a > 0 && rhs/a <= 1+st.tol {
					bounded[k] = true
				}
			}
		}
		rows = append(rows, lpRow{coefs: coefs, rhs: rhs})
	}
	for k := range freeVars {
		if !bounded[k] {
			rows = append(rows, lpRow{coefs: map[int]float64{k: 1}, rhs: 1})
		}
	}

	nf := len(freeVars)
	if len(rows) == 0 {
		x := make([]float64, nf)
		bound := constant
		for k, v := range freeVars {
			if st.obj[v] > 0 {
				x[k] = 1
				bound += st.obj[v]
			}
		}
		return bound, x, nil
	}

	nr := len(rows)
	a := mat.NewDense(nr, nf+nr, nil)
	b := make([]float64, nr)
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
		}
		for k, c := range r.coefs {
			a.Set(i, k, sign*c)
		}
		a.Set(i, nf+i, sign)
		b[i] = sign * r.rhs
	}
	c := make([]float64, nf+nr)
	for k, v := range freeVars {
		c[k] = -st.obj[v]
	}

	optF, optX, err := solveLP(st.ctx, c, a, b)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, nil, errNodeInfeasible
		}
		return 0, nil, err
	}
	x := make([]float64, nf)
	for k := range x {
		x[k] = math.Min(1, math.Max(0, optX[k]))
	}
	return constant - optF, x, nil
}

type lpResult struct {
	opt float64
	x   []float64
	err error
}

// solveLP runs the simplex in its own goroutine so that a stalled relaxation
// cannot hold the search past the context deadline. An abandoned goroutine
// exits once the simplex returns.
func solveLP(ctx context.Context, c []float64, a mat.Matrix, b []float64) (float64, []float64, error) {
	simplex := lpSolve
	done := make(chan lpResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- lpResult{err: fmt.Errorf("simplex: %v", r)}
			}
		}()
		opt, x, err := simplex(c, a, b, 1e-10, nil)
		done <- lpResult{opt: opt, x: x, err: err}
	}()
	select {
	case r := <-done:
		return r.opt, r.x, r.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}
