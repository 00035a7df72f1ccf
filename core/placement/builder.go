// Package placement builds the station siting model and interprets solver
// output.
//
// Every candidate site doubles as a demand point. The model has one build
// decision x_i per site and one assignment decision z_ij per eligible pair,
// i.e. a site i within coverage range of demand point j:
//
//	maximise   Σ demand_j · z_ij
//	subject to Σ cost_i · x_i <= budget        (BudgetCap)
//	           Σ x_i >= min stations          (MinStations)
//	           z_ij - x_i <= 0                (Link_i_j)
//	           Σ_i z_ij <= 1  for each j      (SingleAssign_j)
//
// Pairs outside the coverage range get no variable at all.
package placement

import (
	"fmt"
	"math"

	"github.com/kilianp07/chargeplan/core/geo"
	"github.com/kilianp07/chargeplan/core/milp"
	"github.com/kilianp07/chargeplan/core/model"
)

// Pair is an eligible (site, demand point) combination. Site and Demand are
// catalog indices.
type Pair struct {
	Site   int
	Demand int
	Var    int
}

// Problem is a built model together with the data needed to interpret it.
type Problem struct {
	Catalog   *model.Catalog
	Params    Params
	Demand    []float64 // effective demand per catalog index
	Distances *geo.DistanceMatrix
	Model     *milp.Model
	BuildVars []int // build variable per catalog index
	Pairs     []Pair

	byDemand map[int][]int // demand index -> positions in Pairs
}

// EffectiveDemand scales a baseline demand and rounds half to even.
func EffectiveDemand(baseline, multiplier float64) float64 {
	return math.RoundToEven(baseline * multiplier)
}

// Build constructs the optimisation model for the catalog and parameters.
func Build(cat *model.Catalog, p Params) (*Problem, error) {
	if cat == nil {
		return nil, fmt.Errorf("nil catalog")
	}
	p.SetDefaults()
	if err := p.Validate(cat.Len()); err != nil {
		return nil, err
	}
	n := cat.Len()
	prob := &Problem{
		Catalog:   cat,
		Params:    p,
		Demand:    make([]float64, n),
		Distances: geo.NewDistanceMatrix(cat.Points()),
		Model:     milp.New("charging_station_siting", milp.Maximize),
		BuildVars: make([]int, n),
		byDemand:  make(map[int][]int),
	}
	for j, s := range cat.Sites {
		prob.Demand[j] = EffectiveDemand(s.Demand, p.DemandMultiplier)
	}

	m := prob.Model
	for i, s := range cat.Sites {
		prob.BuildVars[i] = m.AddBinary(fmt.Sprintf("build_%d", s.ID))
	}
	// Ordered pairs: eligibility of (i, j) says nothing about (j, i).
	for i, si := range cat.Sites {
		for j, sj := range cat.Sites {
			if prob.Distances.At(i, j) > p.CoverageRangeKm {
				continue
			}
			v := m.AddBinary(fmt.Sprintf("assign_%d_%d", si.ID, sj.ID))
			prob.byDemand[j] = append(prob.byDemand[j], len(prob.Pairs))
			prob.Pairs = append(prob.Pairs, Pair{Site: i, Demand: j, Var: v})
		}
	}

	obj := make([]milp.Term, 0, len(prob.Pairs))
	for _, pr := range prob.Pairs {
		obj = append(obj, milp.Term{Var: pr.Var, Coef: prob.Demand[pr.Demand]})
	}
	m.SetObjective(obj)

	budget := make([]milp.Term, n)
	count := make([]milp.Term, n)
	for i, s := range cat.Sites {
		budget[i] = milp.Term{Var: prob.BuildVars[i], Coef: s.Cost}
		count[i] = milp.Term{Var: prob.BuildVars[i], Coef: 1}
	}
	m.AddConstraint("BudgetCap", budget, milp.LessEq, p.Budget)
	m.AddConstraint("MinStations", count, milp.GreaterEq, float64(p.MinStations))

	for _, pr := range prob.Pairs {
		m.AddConstraint(
			fmt.Sprintf("Link_%d_%d", cat.Sites[pr.Site].ID, cat.Sites[pr.Demand].ID),
			[]milp.Term{{Var: pr.Var, Coef: 1}, {Var: prob.BuildVars[pr.Site], Coef: -1}},
			milp.LessEq, 0,
		)
	}
	for j, s := range cat.Sites {
		idx := prob.byDemand[j]
		if len(idx) == 0 {
			continue
		}
		terms := make([]milp.Term, len(idx))
		for k, pi := range idx {
			terms[k] = milp.Term{Var: prob.Pairs[pi].Var, Coef: 1}
		}
		m.AddConstraint(fmt.Sprintf("SingleAssign_%d", s.ID), terms, milp.LessEq, 1)
	}
	return prob, nil
}

// EligibleSites returns the catalog indices of sites able to serve demand
// point j.
func (p *Problem) EligibleSites(j int) []int {
	idx := p.byDemand[j]
	out := make([]int, len(idx))
	for k, pi := range idx {
		out[k] = p.Pairs[pi].Site
	}
	return out
}

// TotalDemand returns the effective demand summed over all demand points.
func (p *Problem) TotalDemand() float64 {
	var sum float64
	for _, d := range p.Demand {
		sum += d
	}
	return sum
}

// NumAssignVars returns the number of assignment variables.
func (p *Problem) NumAssignVars() int { return len(p.Pairs) }
