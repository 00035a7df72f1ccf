package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
)

const (
	barWidth = 20
	ruleLen  = 60
)

// Header describes the run being reported.
type Header struct {
	Params     placement.Params
	Candidates int
	AssignVars int
	Solver     string
	// Currency prefixes monetary amounts, CostUnit follows them.
	Currency string
	CostUnit string
}

func (h Header) money(v float64) string {
	return h.Currency + formatFloat(v) + h.CostUnit
}

// Bar renders a coverage percentage as a 20 cell bar, one filled cell per
// 5 percent.
func Bar(pct int) string {
	filled := pct / 5
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// WriteHeader prints the run parameters and model size.
func WriteHeader(w io.Writer, h Header) error {
	rule := strings.Repeat("=", ruleLen)
	p := h.Params
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "  Charging Station Network Planner")
	if h.Solver != "" {
		fmt.Fprintf(&b, "  MILP facility location (%s solver)\n", h.Solver)
	}
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "\n  Budget:         %s\n", h.money(p.Budget))
	fmt.Fprintf(&b, "  Coverage range: %s km\n", formatFloat(p.CoverageRangeKm))
	fmt.Fprintf(&b, "  Min stations:   %d\n", p.MinStations)
	fmt.Fprintf(&b, "  Demand mult:    %sx\n", formatFloat(p.DemandMultiplier))
	fmt.Fprintf(&b, "  Candidates:     %d cities\n", h.Candidates)
	fmt.Fprintf(&b, "  Variables:      %d binary (build) + %d binary (assign)\n\n", h.Candidates, h.AssignVars)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteReport prints the selected stations, the summary and the corridor
// bars of an optimal plan.
func WriteReport(w io.Writer, cat *model.Catalog, h Header, res *model.SolutionResult) error {
	rule := strings.Repeat("=", ruleLen)
	mult := h.Params.DemandMultiplier
	if mult == 0 {
		mult = 1
	}
	n := cat.Len()
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "  Status: %s\n", res.Status)
	fmt.Fprintf(&b, "  Objective:      %s (demand units served)\n", formatFloat(res.Objective))
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "  SELECTED STATIONS (%d):\n", len(res.Selected))
	fmt.Fprintf(&b, "  %-4s %-22s %-20s %-10s %6s %7s\n", "#", "City", "State", "Type", "Cost", "Demand")
	fmt.Fprintf(&b, "  %s %s %s %s %s %s\n",
		strings.Repeat("-", 4), strings.Repeat("-", 22), strings.Repeat("-", 20),
		strings.Repeat("-", 10), strings.Repeat("-", 6), strings.Repeat("-", 7))
	for rank, id := range res.Selected {
		s, ok := cat.Site(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-4d %-22s %-20s %-10s %s%4s  %5s/day\n",
			rank+1, s.Name, s.Region, s.Type, h.Currency, formatFloat(s.Cost),
			formatFloat(placement.EffectiveDemand(s.Demand, mult)))
	}

	uncovered := make([]string, 0, len(res.Uncovered))
	for _, id := range res.Uncovered {
		if s, ok := cat.Site(id); ok {
			uncovered = append(uncovered, s.Name)
		}
	}
	uncoveredList := strings.Join(uncovered, ", ")
	if uncoveredList == "" {
		uncoveredList = "None"
	}
	fmt.Fprintln(&b, "\n  SUMMARY:")
	fmt.Fprintf(&b, "  ├── Stations built:    %d / %d\n", len(res.Selected), n)
	fmt.Fprintf(&b, "  ├── Total investment:  %s\n", h.money(res.TotalCost))
	fmt.Fprintf(&b, "  ├── Budget remaining:  %s\n", h.money(res.BudgetRemaining))
	fmt.Fprintf(&b, "  ├── Cities covered:    %d / %d (%d%%)\n", res.CitiesCovered, n, res.CityCoveragePct)
	fmt.Fprintf(&b, "  ├── Demand served:     %s / %s (%d%%)\n",
		formatFloat(res.DemandServed), formatFloat(res.TotalDemand), res.DemandCoveragePct)
	fmt.Fprintf(&b, "  └── Uncovered cities:  %s\n", uncoveredList)

	if len(res.Corridors) > 0 {
		fmt.Fprintln(&b, "\n  HIGHWAY CORRIDOR COVERAGE:")
		for _, c := range res.Corridors {
			fmt.Fprintf(&b, "  ├── %-35s %s %d%%\n", c.Name, Bar(c.Percent), c.Percent)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", rule)
	_, err := io.WriteString(w, b.String())
	return err
}

// statusReporter is implemented by errors carrying a solver status.
type statusReporter interface {
	error
	StatusName() string
}

// WriteFailure prints the outcome of a run that produced no plan, with a
// hint when the constraints cannot be met.
func WriteFailure(w io.Writer, err error) error {
	status := "Error"
	var sr statusReporter
	if errors.As(err, &sr) {
		status = sr.StatusName()
	}
	rule := strings.Repeat("=", ruleLen)
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "  Status: %s\n", status)
	fmt.Fprintf(&b, "  Solver did not find an optimal solution: %v\n", err)
	fmt.Fprintln(&b, "  Try increasing the budget or reducing min_stations.")
	_, werr := io.WriteString(w, b.String())
	return werr
}
