package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargeplan/core/milp"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/core/planner"
)

func fixture(t *testing.T) (*model.Catalog, *model.SolutionResult) {
	t.Helper()
	cat, err := model.NewCatalog([]model.CandidateSite{
		model.NewSite(1, "Alpha", 0, 0, model.SiteMetro, 40, 400, "North"),
		model.NewSite(2, "Beta", 0, 1, model.SiteCity, 30, 101, "North"),
		model.NewSite(3, "Gamma", 0, 5, model.SiteHighway, 20, 50, "South"),
	}, []model.HighwayCorridor{{Name: "A-G", Sites: []int{1, 2, 3}}})
	require.NoError(t, err)
	res := &model.SolutionResult{
		RunID:             "r1",
		Status:            "Optimal",
		Selected:          []int{1},
		TotalCost:         40,
		Budget:            100,
		BudgetRemaining:   60,
		DemandServed:      501,
		TotalDemand:       551,
		Assignments:       map[int]int{1: 1, 2: 1},
		Uncovered:         []int{3},
		CitiesCovered:     2,
		CityCoveragePct:   67,
		DemandCoveragePct: 91,
		Corridors:         []model.CorridorCoverage{{Name: "A-G", Segments: 2, Covered: 1, Percent: 50}},
		Objective:         501,
	}
	return cat, res
}

func TestWriteJSON(t *testing.T) {
	cat, res := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, cat, res))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	for _, k := range []string{"status", "selected_stations", "selected_ids", "total_cost", "budget_remaining",
		"cities_covered", "coverage_pct", "demand_served", "demand_pct", "highway_coverage"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, []any{"Alpha"}, m["selected_stations"])
	assert.Equal(t, []any{map[string]any{"name": "A-G", "coverage": 50.0}}, m["highway_coverage"])
	assert.Contains(t, buf.String(), "\n  \"status\"")
}

func TestNewSummaryEmptyPlan(t *testing.T) {
	cat, _ := fixture(t)
	s := NewSummary(cat, &model.SolutionResult{Status: "Optimal"})
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"selected_stations":[]`)
	assert.Contains(t, string(data), `"highway_coverage":[]`)
}

func TestWriteCSV(t *testing.T) {
	cat, res := fixture(t)
	var buf bytes.Buffer
	params := placement.Params{Budget: 100, CoverageRangeKm: 150, DemandMultiplier: 1.5}
	require.NoError(t, WriteCSV(&buf, cat, params, res))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "site_id", rows[0][1])
	// 400*1.5 and 101*1.5=151.5 rounded to even
	assert.Equal(t, []string{"1", "1", "Alpha", "North", "metro", "40", "600", "2", "752"}, rows[1])
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 20), Bar(0))
	assert.Equal(t, strings.Repeat("█", 20), Bar(100))
	assert.Equal(t, strings.Repeat("█", 13)+strings.Repeat("░", 7), Bar(67))
	assert.Equal(t, strings.Repeat("█", 20), Bar(140))
	assert.Equal(t, 20, len([]rune(Bar(-5))))
}

func TestWriteReport(t *testing.T) {
	cat, res := fixture(t)
	h := Header{
		Params:     placement.Params{Budget: 100, CoverageRangeKm: 150, MinStations: 1, DemandMultiplier: 1},
		Candidates: 3,
		AssignVars: 5,
		Solver:     "bnb",
		Currency:   "₹",
		CostUnit:   " Cr",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.NoError(t, WriteReport(&buf, cat, h, res))
	out := buf.String()
	assert.Contains(t, out, "Budget:         ₹100 Cr")
	assert.Contains(t, out, "Variables:      3 binary (build) + 5 binary (assign)")
	assert.Contains(t, out, "SELECTED STATIONS (1):")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Budget remaining:  ₹60 Cr")
	assert.Contains(t, out, "Cities covered:    2 / 3 (67%)")
	assert.Contains(t, out, "Demand served:     501 / 551 (91%)")
	assert.Contains(t, out, "Uncovered cities:  Gamma")
	assert.Contains(t, out, Bar(50)+" 50%")
}

func TestWriteReportNoUncovered(t *testing.T) {
	cat, res := fixture(t)
	res.Uncovered = nil
	res.Corridors = nil
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, cat, Header{}, res))
	assert.Contains(t, buf.String(), "Uncovered cities:  None")
	assert.NotContains(t, buf.String(), "HIGHWAY CORRIDOR COVERAGE")
}

func TestWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	err := planner.NewStatusError(milp.StatusInfeasible)
	require.NoError(t, WriteFailure(&buf, err))
	assert.Contains(t, buf.String(), "Status: Infeasible")
	assert.Contains(t, buf.String(), "Try increasing the budget or reducing min_stations.")

	buf.Reset()
	require.NoError(t, WriteFailure(&buf, errors.New("boom")))
	assert.Contains(t, buf.String(), "Status: Error")
}
