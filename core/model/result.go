package model

import (
	"sort"
	"time"
)

// CorridorCoverage reports how much of a highway corridor lies within range
// of a built station.
type CorridorCoverage struct {
	Name     string `json:"name"`
	Segments int    `json:"segments"` // segments counted in the denominator
	Covered  int    `json:"covered"`
	Skipped  int    `json:"skipped"` // zero-length segments left out of the ratio
	Percent  int    `json:"coverage"`
}

// SolutionResult is the interpreted outcome of one optimal plan.
type SolutionResult struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`

	Selected        []int   `json:"selected_ids"` // selected site IDs in catalog order
	TotalCost       float64 `json:"total_cost"`
	Budget          float64 `json:"budget"`
	BudgetRemaining float64 `json:"budget_remaining"`

	DemandServed float64 `json:"demand_served"`
	TotalDemand  float64 `json:"total_demand"`
	// Assignments maps a demand point ID to the ID of the site serving it.
	Assignments map[int]int `json:"assignments"`
	Uncovered   []int       `json:"uncovered"`

	CitiesCovered     int                `json:"cities_covered"`
	CityCoveragePct   int                `json:"city_coverage_pct"`
	DemandCoveragePct int                `json:"demand_pct"`
	Corridors         []CorridorCoverage `json:"highway_coverage"`

	Objective float64       `json:"objective"`
	SolveTime time.Duration `json:"solve_time_ns"`
}

// IsSelected reports whether a station is built at the site.
func (r *SolutionResult) IsSelected(id int) bool {
	for _, s := range r.Selected {
		if s == id {
			return true
		}
	}
	return false
}

// CoveredPoints returns the assigned demand point IDs in ascending order.
func (r *SolutionResult) CoveredPoints() []int {
	ids := make([]int, 0, len(r.Assignments))
	for j := range r.Assignments {
		ids = append(ids, j)
	}
	sort.Ints(ids)
	return ids
}

// ServedBy returns the demand point IDs assigned to the given site.
func (r *SolutionResult) ServedBy(site int) []int {
	var ids []int
	for j, i := range r.Assignments {
		if i == site {
			ids = append(ids, j)
		}
	}
	sort.Ints(ids)
	return ids
}
