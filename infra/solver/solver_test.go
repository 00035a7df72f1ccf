package solver

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/chargeplan/core/factory"
	"github.com/kilianp07/chargeplan/core/milp"
)

func knapsack() *milp.Model {
	m := milp.New("knapsack", milp.Maximize)
	weights := []float64{5, 4, 3, 2}
	values := []float64{10, 7, 5, 3}
	var obj, load []milp.Term
	for i := range weights {
		v := m.AddBinary("x")
		obj = append(obj, milp.Term{Var: v, Coef: values[i]})
		load = append(load, milp.Term{Var: v, Coef: weights[i]})
	}
	m.SetObjective(obj)
	m.AddConstraint("cap", load, milp.LessEq, 9)
	return m
}

func randomModel(r *rand.Rand, n int) *milp.Model {
	m := milp.New("random", milp.Maximize)
	if r.Intn(4) == 0 {
		m.Sense = milp.Minimize
	}
	for i := 0; i < n; i++ {
		m.AddBinary("v")
	}
	var obj []milp.Term
	for i := 0; i < n; i++ {
		obj = append(obj, milp.Term{Var: i, Coef: float64(r.Intn(13) - 3)})
	}
	m.SetObjective(obj)
	rows := 1 + r.Intn(4)
	for k := 0; k < rows; k++ {
		var terms []milp.Term
		var sum float64
		for i := 0; i < n; i++ {
			if r.Intn(2) == 0 {
				c := float64(r.Intn(9) - 2)
				terms = append(terms, milp.Term{Var: i, Coef: c})
				sum += c
			}
		}
		op := milp.LessEq
		limit := int(sum)/2 + 3
		if limit < 1 {
			limit = 1
		}
		rhs := float64(r.Intn(limit))
		if r.Intn(3) == 0 {
			op = milp.GreaterEq
			rhs = float64(r.Intn(4))
		}
		m.AddConstraint("row", terms, op, rhs)
	}
	return m
}

func TestBranchAndBound_Knapsack(t *testing.T) {
	sol, err := NewBranchAndBound().Solve(context.Background(), knapsack())
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, sol.Status)
	assert.Equal(t, 17.0, sol.Objective)
	assert.Equal(t, []float64{1, 1, 0, 0}, sol.Values)
}

func TestBranchAndBound_MatchesExhaustive(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		m := randomModel(r, 4+r.Intn(7))
		want, err := Exhaustive{}.Solve(ctx, m)
		require.NoError(t, err)
		got, err := NewBranchAndBound().Solve(ctx, m)
		require.NoError(t, err)
		require.Equal(t, want.Status, got.Status, "model %d", i)
		if want.Status == milp.StatusOptimal {
			assert.InDelta(t, want.Objective, got.Objective, 1e-6, "model %d", i)
			assert.True(t, m.Feasible(got.Values, 1e-6), "model %d", i)
		}
	}
}

func TestBranchAndBound_Infeasible(t *testing.T) {
	m := milp.New("infeasible", milp.Maximize)
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.SetObjective([]milp.Term{{Var: x, Coef: 1}})
	m.AddConstraint("min", []milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}}, milp.GreaterEq, 2)
	m.AddConstraint("max", []milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}}, milp.LessEq, 1)
	sol, err := NewBranchAndBound().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, milp.StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Values)
}

func TestBranchAndBound_EqualityRows(t *testing.T) {
	m := milp.New("pick-two", milp.Minimize)
	var terms, obj []milp.Term
	for i, c := range []float64{4, 1, 3, 2} {
		v := m.AddBinary("x")
		terms = append(terms, milp.Term{Var: v, Coef: 1})
		obj = append(obj, milp.Term{Var: i, Coef: c})
	}
	m.SetObjective(obj)
	m.AddConstraint("two", terms, milp.Equal, 2)
	sol, err := NewBranchAndBound().Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, sol.Status)
	assert.Equal(t, 3.0, sol.Objective)
}

func TestBranchAndBound_LPFailureStillSolves(t *testing.T) {
	old := lpSolve
	lpSolve = func([]float64, mat.Matrix, []float64, float64, []int) (float64, []float64, error) {
		return 0, nil, errors.New("singular")
	}
	defer func() { lpSolve = old }()

	sol, err := NewBranchAndBound().Solve(context.Background(), knapsack())
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, sol.Status)
	assert.Equal(t, 17.0, sol.Objective)
}

func TestBranchAndBound_LPPanicStillSolves(t *testing.T) {
	old := lpSolve
	lpSolve = func([]float64, mat.Matrix, []float64, float64, []int) (float64, []float64, error) {
		panic("degenerate basis")
	}
	defer func() { lpSolve = old }()

	sol, err := NewBranchAndBound().Solve(context.Background(), knapsack())
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, sol.Status)
	assert.Equal(t, 17.0, sol.Objective)
}

// A relaxation that never returns must not hold the search past the deadline.
func TestBranchAndBound_DeadlineDuringRelaxation(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	old := lpSolve
	lpSolve = func([]float64, mat.Matrix, []float64, float64, []int) (float64, []float64, error) {
		entered <- struct{}{}
		<-release
		return 0, nil, errors.New("released")
	}
	t.Cleanup(func() {
		close(release)
		lpSolve = old
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	sol, err := NewBranchAndBound().Solve(ctx, knapsack())
	require.NoError(t, err)
	assert.Equal(t, milp.StatusTimeLimit, sol.Status)
	assert.Nil(t, sol.Values)
	assert.Equal(t, 1, sol.Nodes)
	assert.Less(t, time.Since(start), 2*time.Second)
	select {
	case <-entered:
	default:
		t.Fatal("relaxation was never started")
	}
}

func TestBranchAndBound_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sol, err := NewBranchAndBound().Solve(ctx, knapsack())
	require.NoError(t, err)
	assert.Equal(t, milp.StatusTimeLimit, sol.Status)
	assert.Nil(t, sol.Values)
}

func TestBranchAndBound_NodeLimit(t *testing.T) {
	s := NewBranchAndBound()
	s.MaxNodes = 1
	old := lpSolve
	lpSolve = func([]float64, mat.Matrix, []float64, float64, []int) (float64, []float64, error) {
		return 0, nil, errors.New("singular")
	}
	defer func() { lpSolve = old }()
	sol, err := s.Solve(context.Background(), knapsack())
	require.NoError(t, err)
	assert.Equal(t, milp.StatusNotSolved, sol.Status)
}

func TestExhaustive(t *testing.T) {
	sol, err := Exhaustive{}.Solve(context.Background(), knapsack())
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, sol.Status)
	assert.Equal(t, 17.0, sol.Objective)
	assert.Equal(t, 16, sol.Nodes)

	big := milp.New("big", milp.Maximize)
	for i := 0; i <= MaxExhaustiveVars; i++ {
		big.AddBinary("x")
	}
	_, err = Exhaustive{}.Solve(context.Background(), big)
	assert.Error(t, err)
}

func TestSolverFactory(t *testing.T) {
	s, err := New(factory.ModuleConfig{})
	require.NoError(t, err)
	assert.IsType(t, &BranchAndBound{}, s)

	s, err = New(factory.ModuleConfig{Type: "bnb", Conf: map[string]any{"max_nodes": 10}})
	require.NoError(t, err)
	assert.Equal(t, 10, s.(*BranchAndBound).MaxNodes)

	assert.False(t, s.(*BranchAndBound).LPOnly)

	s, err = New(factory.ModuleConfig{Type: "lp", Conf: map[string]any{"tolerance": 1e-4}})
	require.NoError(t, err)
	assert.True(t, s.(*BranchAndBound).LPOnly)
	assert.Equal(t, 1e-4, s.(*BranchAndBound).Tolerance)

	s, err = New(factory.ModuleConfig{Type: "exhaustive"})
	require.NoError(t, err)
	assert.IsType(t, Exhaustive{}, s)

	_, err = New(factory.ModuleConfig{Type: "cbc"})
	assert.Error(t, err)
	assert.Equal(t, []string{"bnb", "exhaustive", "lp"}, Names())
}
