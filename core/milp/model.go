// Package milp describes binary linear programs and the contract a solver
// must satisfy to be used by the planner.
package milp

import (
	"fmt"
	"math"
)

// Sense is the optimisation direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

// Op is a constraint comparison operator.
type Op int

const (
	LessEq Op = iota
	GreaterEq
	Equal
)

func (o Op) String() string {
	switch o {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Term is a coefficient applied to a variable.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a named linear row: Σ Terms Op RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

// LHS evaluates the left-hand side for the given values.
func (c Constraint) LHS(values []float64) float64 {
	var s float64
	for _, t := range c.Terms {
		s += t.Coef * values[t.Var]
	}
	return s
}

// Satisfied reports whether values meet the constraint within tol.
func (c Constraint) Satisfied(values []float64, tol float64) bool {
	lhs := c.LHS(values)
	switch c.Op {
	case LessEq:
		return lhs <= c.RHS+tol
	case GreaterEq:
		return lhs >= c.RHS-tol
	default:
		return math.Abs(lhs-c.RHS) <= tol
	}
}

// Model is a pure binary linear program. All variables take values in {0,1}.
type Model struct {
	Name        string
	Sense       Sense
	Vars        []string
	Objective   []Term
	Constraints []Constraint
}

// New returns an empty model.
func New(name string, sense Sense) *Model {
	return &Model{Name: name, Sense: sense}
}

// AddBinary declares a binary variable and returns its index.
func (m *Model) AddBinary(name string) int {
	m.Vars = append(m.Vars, name)
	return len(m.Vars) - 1
}

// SetObjective replaces the objective terms.
func (m *Model) SetObjective(terms []Term) { m.Objective = terms }

// AddConstraint appends a named row.
func (m *Model) AddConstraint(name string, terms []Term, op Op, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Terms: terms, Op: op, RHS: rhs})
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.Vars) }

// Evaluate returns the objective value for the given values.
func (m *Model) Evaluate(values []float64) float64 {
	var s float64
	for _, t := range m.Objective {
		s += t.Coef * values[t.Var]
	}
	return s
}

// Feasible reports whether values satisfy every constraint and are binary.
func (m *Model) Feasible(values []float64, tol float64) bool {
	if len(values) != len(m.Vars) {
		return false
	}
	for _, v := range values {
		if math.Abs(v) > tol && math.Abs(v-1) > tol {
			return false
		}
	}
	for _, c := range m.Constraints {
		if !c.Satisfied(values, tol) {
			return false
		}
	}
	return true
}

// Better reports whether objective a improves on b under the model sense.
func (m *Model) Better(a, b float64) bool {
	if m.Sense == Maximize {
		return a > b
	}
	return a < b
}

// IntegralObjective reports whether every objective coefficient is an
// integer, in which case any feasible objective value is integral too.
func (m *Model) IntegralObjective() bool {
	for _, t := range m.Objective {
		if t.Coef != math.Trunc(t.Coef) {
			return false
		}
	}
	return true
}

// Validate checks that every term references a declared variable.
func (m *Model) Validate() error {
	n := len(m.Vars)
	for _, t := range m.Objective {
		if t.Var < 0 || t.Var >= n {
			return fmt.Errorf("objective references unknown variable %d", t.Var)
		}
	}
	for _, c := range m.Constraints {
		for _, t := range c.Terms {
			if t.Var < 0 || t.Var >= n {
				return fmt.Errorf("constraint %s references unknown variable %d", c.Name, t.Var)
			}
		}
	}
	return nil
}
