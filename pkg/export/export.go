// Package export renders plans as JSON, CSV and console reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
)

// HighwayCoverage is the JSON form of one corridor figure.
type HighwayCoverage struct {
	Name     string `json:"name"`
	Coverage int    `json:"coverage"`
}

// Summary is the machine readable outcome of a plan.
type Summary struct {
	RunID            string            `json:"run_id,omitempty"`
	Status           string            `json:"status"`
	SelectedStations []string          `json:"selected_stations"`
	SelectedIDs      []int             `json:"selected_ids"`
	TotalCost        float64           `json:"total_cost"`
	BudgetRemaining  float64           `json:"budget_remaining"`
	CitiesCovered    int               `json:"cities_covered"`
	CoveragePct      int               `json:"coverage_pct"`
	DemandServed     float64           `json:"demand_served"`
	DemandPct        int               `json:"demand_pct"`
	HighwayCoverage  []HighwayCoverage `json:"highway_coverage"`
}

// NewSummary builds the summary of res against its catalog.
func NewSummary(cat *model.Catalog, res *model.SolutionResult) Summary {
	s := Summary{
		RunID:            res.RunID,
		Status:           res.Status,
		SelectedStations: make([]string, 0, len(res.Selected)),
		SelectedIDs:      append(make([]int, 0, len(res.Selected)), res.Selected...),
		TotalCost:        res.TotalCost,
		BudgetRemaining:  res.BudgetRemaining,
		CitiesCovered:    res.CitiesCovered,
		CoveragePct:      res.CityCoveragePct,
		DemandServed:     res.DemandServed,
		DemandPct:        res.DemandCoveragePct,
		HighwayCoverage:  make([]HighwayCoverage, 0, len(res.Corridors)),
	}
	for _, id := range res.Selected {
		if site, ok := cat.Site(id); ok {
			s.SelectedStations = append(s.SelectedStations, site.Name)
		}
	}
	for _, c := range res.Corridors {
		s.HighwayCoverage = append(s.HighwayCoverage, HighwayCoverage{Name: c.Name, Coverage: c.Percent})
	}
	return s
}

// WriteJSON writes the plan summary to w as indented JSON.
func WriteJSON(w io.Writer, cat *model.Catalog, res *model.SolutionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewSummary(cat, res))
}

// WriteCSV writes one row per selected station.
func WriteCSV(w io.Writer, cat *model.Catalog, params placement.Params, res *model.SolutionResult) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "site_id", "name", "region", "type", "cost", "demand", "points_served", "demand_served"}
	if err := cw.Write(header); err != nil {
		return err
	}
	mult := params.DemandMultiplier
	if mult == 0 {
		mult = 1
	}
	for rank, id := range res.Selected {
		site, ok := cat.Site(id)
		if !ok {
			continue
		}
		served := res.ServedBy(id)
		var demand float64
		for _, j := range served {
			if s, ok := cat.Site(j); ok {
				demand += placement.EffectiveDemand(s.Demand, mult)
			}
		}
		rec := []string{
			strconv.Itoa(rank + 1),
			strconv.Itoa(id),
			site.Name,
			site.Region,
			site.Type.String(),
			formatFloat(site.Cost),
			formatFloat(placement.EffectiveDemand(site.Demand, mult)),
			strconv.Itoa(len(served)),
			formatFloat(demand),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
