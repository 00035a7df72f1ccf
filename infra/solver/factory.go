// Package solver provides MILP solver implementations for the planner.
package solver

import (
	"github.com/kilianp07/chargeplan/core/factory"
	"github.com/kilianp07/chargeplan/core/milp"
)

var registry = factory.NewRegistry[milp.Solver]()

func init() {
	_ = registry.Register("bnb", branchAndBound(false))
	_ = registry.Register("lp", branchAndBound(true))
	_ = registry.Register("exhaustive", func(conf map[string]any) (milp.Solver, error) {
		var c struct {
			Tolerance float64 `json:"tolerance"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return Exhaustive{Tolerance: c.Tolerance}, nil
	})
	registry.SetDefault("bnb")
}

func branchAndBound(lpOnly bool) factory.Factory[milp.Solver] {
	return func(conf map[string]any) (milp.Solver, error) {
		var c struct {
			Tolerance float64 `json:"tolerance"`
			MaxNodes  int     `json:"max_nodes"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s := NewBranchAndBound()
		if c.Tolerance > 0 {
			s.Tolerance = c.Tolerance
		}
		s.MaxNodes = c.MaxNodes
		s.LPOnly = lpOnly
		return s, nil
	}
}

// Register adds a solver factory identified by name.
func Register(name string, f factory.Factory[milp.Solver]) error {
	return registry.Register(name, f)
}

// New creates the solver described by cfg. An empty type selects "bnb".
func New(cfg factory.ModuleConfig) (milp.Solver, error) {
	return registry.Create(cfg)
}

// Names lists the registered solvers.
func Names() []string { return registry.Names() }
