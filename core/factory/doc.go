// Package factory provides the generic registry used to pick module
// implementations, such as the MILP solver or metrics sinks, by name from
// configuration.
//
//	reg := factory.NewRegistry[milp.Solver]()
//	reg.Register("exhaustive", func(map[string]any) (milp.Solver, error) {
//	    return solver.Exhaustive{}, nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "exhaustive"})
package factory
