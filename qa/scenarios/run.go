package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/chargeplan/core/factory"
	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/planner"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/infra/metrics"
	"github.com/kilianp07/chargeplan/infra/solver"
)

func RunScenario(t *testing.T, sc *Scenario, solverName string) {
	reg := prometheus.NewRegistry()
	sinkIf, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	sink, ok := sinkIf.(*metrics.PromSink)
	if !ok {
		t.Fatalf("expected *metrics.PromSink, got %T", sinkIf)
	}

	cat, err := sc.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	slv, err := solver.New(factory.ModuleConfig{Type: solverName})
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	p := planner.New(slv, logger.NopLogger{})
	p.SolverName = solverName
	p.Sink = sink

	res, err := p.Plan(context.Background(), cat, sc.Params.ToModel())
	exp := sc.Expected
	if n, gerr := testutil.GatherAndCount(reg, "chargeplan_runs_total"); gerr != nil || n != 1 {
		t.Errorf("scenario %s expected one run series, got %d (%v)", sc.Name, n, gerr)
	}
	if exp.Status != "Optimal" {
		var se *planner.StatusError
		if !errors.As(err, &se) {
			t.Fatalf("scenario %s expected status error, got %v", sc.Name, err)
		}
		if se.StatusName() != exp.Status {
			t.Errorf("scenario %s expected %s, got %s", sc.Name, exp.Status, se.StatusName())
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	checkResult(t, sc, res)
}

func checkResult(t *testing.T, sc *Scenario, res *model.SolutionResult) {
	exp := sc.Expected
	if exp.Selected != nil && !equalInts(exp.Selected, res.Selected) {
		t.Errorf("scenario %s expected selected %v, got %v", sc.Name, exp.Selected, res.Selected)
	}
	if exp.Stations != nil && *exp.Stations != len(res.Selected) {
		t.Errorf("scenario %s expected %d stations, got %d", sc.Name, *exp.Stations, len(res.Selected))
	}
	if exp.DemandServed != nil && *exp.DemandServed != res.DemandServed {
		t.Errorf("scenario %s expected demand served %v, got %v", sc.Name, *exp.DemandServed, res.DemandServed)
	}
	if exp.DemandPct != nil && *exp.DemandPct != res.DemandCoveragePct {
		t.Errorf("scenario %s expected demand coverage %d%%, got %d%%", sc.Name, *exp.DemandPct, res.DemandCoveragePct)
	}
	if exp.CityPct != nil && *exp.CityPct != res.CityCoveragePct {
		t.Errorf("scenario %s expected city coverage %d%%, got %d%%", sc.Name, *exp.CityPct, res.CityCoveragePct)
	}
	if exp.Uncovered != nil && *exp.Uncovered != len(res.Uncovered) {
		t.Errorf("scenario %s expected %d uncovered, got %v", sc.Name, *exp.Uncovered, res.Uncovered)
	}
	for _, site := range res.Assignments {
		if !res.IsSelected(site) {
			t.Errorf("scenario %s assigns demand to unbuilt site %d", sc.Name, site)
		}
	}
	if res.TotalCost > sc.Params.Budget {
		t.Errorf("scenario %s cost %v exceeds budget %v", sc.Name, res.TotalCost, sc.Params.Budget)
	}
	for name, want := range exp.Corridors {
		got, ok := corridorPercent(res, name)
		if !ok {
			t.Errorf("scenario %s missing corridor %s", sc.Name, name)
			continue
		}
		if got != want {
			t.Errorf("scenario %s corridor %s expected %d%%, got %d%%", sc.Name, name, want, got)
		}
	}
}

func corridorPercent(res *model.SolutionResult, name string) (int, bool) {
	for _, c := range res.Corridors {
		if c.Name == name {
			return c.Percent, true
		}
	}
	return 0, false
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
