package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargeplan/app"
	"github.com/kilianp07/chargeplan/config"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/core/planner"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/pkg/export"
)

type planFlags struct {
	budget      float64
	rangeKm     float64
	minStations int
	multiplier  float64
	asJSON      bool
	csvPath     string
	catalogPath string
	solverName  string
	timeLimit   float64
	serve       bool
}

var pf planFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Solve the station siting problem and print the plan",
	RunE:  runPlan,
}

func init() {
	addPlanFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func addPlanFlags(c *cobra.Command) {
	f := c.Flags()
	def := placement.DefaultParams()
	f.Float64Var(&pf.budget, "budget", def.Budget, "total construction budget")
	f.Float64Var(&pf.rangeKm, "range", def.CoverageRangeKm, "coverage range in km")
	f.IntVar(&pf.minStations, "min-stations", def.MinStations, "minimum number of stations")
	f.Float64Var(&pf.multiplier, "demand-multiplier", def.DemandMultiplier, "demand growth multiplier")
	f.BoolVar(&pf.asJSON, "json", false, "print the plan summary as JSON after the report")
	f.StringVar(&pf.csvPath, "csv", "", "write the selected stations to a CSV file")
	f.StringVar(&pf.catalogPath, "catalog", "", "YAML catalog file (default: built-in dataset)")
	f.StringVar(&pf.solverName, "solver", "", "solver name (bnb, lp, exhaustive)")
	f.Float64Var(&pf.timeLimit, "time-limit", 0, "solver time limit in seconds")
	f.BoolVar(&pf.serve, "serve", false, "keep serving Prometheus metrics after the run")
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("budget") {
		cfg.Planner.Budget = pf.budget
	}
	if f.Changed("range") {
		cfg.Planner.CoverageRangeKm = pf.rangeKm
	}
	if f.Changed("min-stations") {
		cfg.Planner.MinStations = pf.minStations
	}
	if f.Changed("demand-multiplier") {
		cfg.Planner.DemandMultiplier = pf.multiplier
	}
	if f.Changed("catalog") {
		cfg.Catalog.Path = pf.catalogPath
	}
	if f.Changed("solver") {
		cfg.Solver.Type = pf.solverName
	}
	if f.Changed("time-limit") {
		cfg.Solver.TimeLimitSeconds = pf.timeLimit
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	if err := cfg.Planner.Validate(svc.Catalog.Len()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	prob, err := svc.Build(cfg.Planner)
	if err != nil {
		return err
	}
	header := export.Header{
		Params:     prob.Params,
		Candidates: svc.Catalog.Len(),
		AssignVars: prob.NumAssignVars(),
		Solver:     svc.Planner.SolverName,
		Currency:   cfg.Catalog.Currency,
		CostUnit:   cfg.Catalog.CostUnit,
	}
	if err := export.WriteHeader(out, header); err != nil {
		return err
	}

	res, err := svc.PlanProblem(ctx, prob)
	var serr *planner.StatusError
	if errors.As(err, &serr) {
		if werr := export.WriteFailure(out, serr); werr != nil {
			return werr
		}
		return err
	}
	if err != nil {
		return err
	}
	if err := export.WriteReport(out, svc.Catalog, header, res); err != nil {
		return err
	}
	if pf.asJSON {
		fmt.Fprintln(out)
		if err := export.WriteJSON(out, svc.Catalog, res); err != nil {
			return err
		}
	}
	if pf.csvPath != "" {
		if err := writeCSV(pf.csvPath, svc, prob.Params, res); err != nil {
			return err
		}
	}
	if pf.serve {
		return svc.ServeMetrics(ctx)
	}
	return nil
}

func writeCSV(path string, svc *app.Service, params placement.Params, res *model.SolutionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := export.WriteCSV(f, svc.Catalog, params, res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
