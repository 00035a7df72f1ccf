package placement

import (
	"fmt"

	"github.com/kilianp07/chargeplan/core/milp"
	"github.com/kilianp07/chargeplan/core/model"
)

// Interpret turns an optimal solver assignment into a SolutionResult. The
// coverage percentages and corridor figures are left to the coverage
// package.
func Interpret(p *Problem, sol milp.Solution) (*model.SolutionResult, error) {
	if sol.Status != milp.StatusOptimal {
		return nil, fmt.Errorf("cannot interpret %s solution", sol.Status)
	}
	if len(sol.Values) != p.Model.NumVars() {
		return nil, fmt.Errorf("solution has %d values for %d variables", len(sol.Values), p.Model.NumVars())
	}
	cat := p.Catalog
	res := &model.SolutionResult{
		Status:      sol.Status.String(),
		Budget:      p.Params.Budget,
		TotalDemand: p.TotalDemand(),
		Assignments: make(map[int]int),
		Objective:   sol.Objective,
		SolveTime:   sol.Elapsed,
	}
	for i, s := range cat.Sites {
		if sol.Value(p.BuildVars[i]) > 0.5 {
			res.Selected = append(res.Selected, s.ID)
			res.TotalCost += s.Cost
		}
	}
	res.BudgetRemaining = p.Params.Budget - res.TotalCost

	for _, pr := range p.Pairs {
		if sol.Value(pr.Var) <= 0.5 {
			continue
		}
		j := cat.Sites[pr.Demand].ID
		if prev, dup := res.Assignments[j]; dup {
			return nil, fmt.Errorf("demand point %d assigned to both %d and %d", j, prev, cat.Sites[pr.Site].ID)
		}
		if sol.Value(p.BuildVars[pr.Site]) <= 0.5 {
			return nil, fmt.Errorf("demand point %d assigned to unbuilt site %d", j, cat.Sites[pr.Site].ID)
		}
		res.Assignments[j] = cat.Sites[pr.Site].ID
		res.DemandServed += p.Demand[pr.Demand]
	}
	for _, s := range cat.Sites {
		if _, ok := res.Assignments[s.ID]; !ok {
			res.Uncovered = append(res.Uncovered, s.ID)
		}
	}
	res.CitiesCovered = len(res.Assignments)
	return res, nil
}
