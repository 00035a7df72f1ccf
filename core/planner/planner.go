// Package planner runs the full siting pipeline: model construction, solve,
// interpretation, coverage analysis and run bookkeeping.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/chargeplan/core/coverage"
	"github.com/kilianp07/chargeplan/core/history"
	"github.com/kilianp07/chargeplan/core/logger"
	"github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/core/milp"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
)

// Publisher delivers finished plans to an external consumer.
type Publisher interface {
	Publish(ctx context.Context, res *model.SolutionResult) error
}

// Planner wires a solver to the placement model and records every run.
type Planner struct {
	Solver     milp.Solver
	SolverName string
	// TimeLimit bounds a single solve. Zero means no limit beyond ctx.
	TimeLimit time.Duration
	Logger    logger.Logger
	Sink      metrics.MetricsSink
	Store     history.Store
	Publisher Publisher

	now   func() time.Time
	newID func() string
}

// New returns a Planner with no-op sinks.
func New(s milp.Solver, log logger.Logger) *Planner {
	return &Planner{
		Solver: s,
		Logger: log,
		Sink:   metrics.NopSink{},
		Store:  history.NopStore{},
	}
}

// statusFailed labels runs that ended in a solver or interpretation error.
const statusFailed = "Error"

// Plan builds, solves and interprets one siting problem. A non-optimal
// solver status yields a *StatusError and no result.
func (p *Planner) Plan(ctx context.Context, cat *model.Catalog, params placement.Params) (*model.SolutionResult, error) {
	prob, err := placement.Build(cat, params)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	return p.PlanProblem(ctx, prob)
}

// PlanProblem solves and interprets a model built by placement.Build. Every
// outcome other than a build failure is recorded to the sink and the store.
func (p *Planner) PlanProblem(ctx context.Context, prob *placement.Problem) (*model.SolutionResult, error) {
	runID := p.id()
	started := p.clock()
	log := p.log()
	cat, params := prob.Catalog, prob.Params

	log.Infow("model built", map[string]any{
		"run_id":      runID,
		"sites":       cat.Len(),
		"build_vars":  len(prob.BuildVars),
		"assign_vars": prob.NumAssignVars(),
		"constraints": len(prob.Model.Constraints),
	})

	solveCtx := ctx
	if p.TimeLimit > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.TimeLimit)
		defer cancel()
	}
	sol, err := p.Solver.Solve(solveCtx, prob.Model)
	log.Debugw("solver finished", map[string]any{
		"run_id":  runID,
		"status":  sol.Status.String(),
		"nodes":   sol.Nodes,
		"elapsed": sol.Elapsed.String(),
	})

	ev := metrics.RunEvent{
		RunID:         runID,
		Status:        sol.Status.String(),
		Time:          started,
		Candidates:    cat.Len(),
		BuildVars:     len(prob.BuildVars),
		AssignVars:    prob.NumAssignVars(),
		Constraints:   len(prob.Model.Constraints),
		Budget:        params.Budget,
		TotalDemand:   prob.TotalDemand(),
		SolveDuration: sol.Elapsed,
		Nodes:         sol.Nodes,
	}
	rec := history.RunRecord{
		ID:        runID,
		Timestamp: started,
		Solver:    p.SolverName,
		Params:    prob.Params,
		Status:    sol.Status.String(),
	}

	if err != nil {
		err = fmt.Errorf("solve: %w", err)
		p.fail(ctx, ev, rec, err)
		return nil, err
	}
	if sol.Status != milp.StatusOptimal {
		serr := NewStatusError(sol.Status)
		log.Warnf("run %s: %v", runID, serr)
		rec.Error = serr.Error()
		p.record(ctx, ev, rec, nil)
		return nil, serr
	}

	res, err := placement.Interpret(prob, sol)
	if err != nil {
		err = fmt.Errorf("interpret solution: %w", err)
		p.fail(ctx, ev, rec, err)
		return nil, err
	}
	res.RunID = runID
	coverage.Analyze(cat, res, prob.Params.CoverageRangeKm)

	ev.Selected = len(res.Selected)
	ev.TotalCost = res.TotalCost
	ev.DemandServed = res.DemandServed
	ev.CityCoveragePct = res.CityCoveragePct
	ev.DemandCoveragePct = res.DemandCoveragePct
	rec.Result = res
	p.record(ctx, ev, rec, res)

	log.Infof("run %s: %d stations, cost %.0f, demand coverage %d%%",
		runID, len(res.Selected), res.TotalCost, res.DemandCoveragePct)
	if p.Publisher != nil {
		if err := p.Publisher.Publish(ctx, res); err != nil {
			log.Errorf("publish run %s: %v", runID, err)
		}
	}
	return res, nil
}

// fail records a run that ended in an error rather than a solver status.
func (p *Planner) fail(ctx context.Context, ev metrics.RunEvent, rec history.RunRecord, err error) {
	p.log().Errorf("run %s: %v", ev.RunID, err)
	ev.Status = statusFailed
	rec.Status = statusFailed
	rec.Error = err.Error()
	p.record(ctx, ev, rec, nil)
}

// record forwards the run to metrics and history. Failures are logged only.
func (p *Planner) record(ctx context.Context, ev metrics.RunEvent, rec history.RunRecord, res *model.SolutionResult) {
	if p.Sink != nil {
		if err := p.Sink.RecordRun(ev); err != nil {
			p.log().Errorf("record run metrics: %v", err)
		}
		if cr, ok := p.Sink.(metrics.CorridorRecorder); ok && res != nil {
			evs := make([]metrics.CorridorEvent, len(res.Corridors))
			for i, c := range res.Corridors {
				evs[i] = metrics.CorridorEvent{
					RunID:    ev.RunID,
					Corridor: c.Name,
					Percent:  c.Percent,
					Covered:  c.Covered,
					Segments: c.Segments,
					Time:     ev.Time,
				}
			}
			if err := cr.RecordCorridorCoverage(evs); err != nil {
				p.log().Errorf("record corridor metrics: %v", err)
			}
		}
	}
	if p.Store != nil {
		if err := p.Store.Append(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
			p.log().Errorf("store run %s: %v", rec.ID, err)
		}
	}
}

func (p *Planner) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Planner) id() string {
	if p.newID != nil {
		return p.newID()
	}
	return uuid.NewString()
}

func (p *Planner) log() logger.Logger {
	if p.Logger == nil {
		return logger.Nop{}
	}
	return p.Logger
}
