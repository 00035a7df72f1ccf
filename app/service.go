package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/chargeplan/config"
	"github.com/kilianp07/chargeplan/core/history"
	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/core/planner"
	"github.com/kilianp07/chargeplan/infra/logger"
	"github.com/kilianp07/chargeplan/infra/metrics"
	"github.com/kilianp07/chargeplan/infra/mqtt"
	"github.com/kilianp07/chargeplan/infra/solver"
	"github.com/kilianp07/chargeplan/pkg/catalog"
)

// Service wires the catalog, solver, sinks and stores behind the planner.
type Service struct {
	Config  *config.Config
	Catalog *model.Catalog
	Planner *planner.Planner
	Store   history.Store

	sink      coremetrics.MetricsSink
	publisher *mqtt.PahoClient
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Console)
	logg := logger.New("service")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	slv, err := solver.New(cfg.Solver.Module())
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.Metrics.PrometheusPort != "" && len(cfg.Metrics.Sinks) == 0 {
		if sink, err = metrics.NewPromSink(cfg.Metrics); err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		closeSink(sink)
		return nil, fmt.Errorf("history store: %w", err)
	}

	p := planner.New(slv, logger.New("planner"))
	p.SolverName = cfg.Solver.Type
	if p.SolverName == "" {
		p.SolverName = "bnb"
	}
	p.TimeLimit = cfg.Solver.TimeLimit()
	p.Sink = sink
	p.Store = store

	svc := &Service{Config: cfg, Catalog: cat, Planner: p, Store: store, sink: sink, log: logg}
	if cfg.Publish.Enabled() {
		pub, err := mqtt.NewPahoClient(cfg.Publish, cat)
		if err != nil {
			closeSink(sink)
			_ = store.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.publisher = pub
		p.Publisher = pub
	}
	return svc, nil
}

// Plan runs one planning pass with the given parameters.
func (s *Service) Plan(ctx context.Context, params placement.Params) (*model.SolutionResult, error) {
	return s.Planner.Plan(ctx, s.Catalog, params)
}

// Build constructs the siting model over the service catalog.
func (s *Service) Build(params placement.Params) (*placement.Problem, error) {
	return placement.Build(s.Catalog, params)
}

// PlanProblem solves a model returned by Build.
func (s *Service) PlanProblem(ctx context.Context, prob *placement.Problem) (*model.SolutionResult, error) {
	return s.Planner.PlanProblem(ctx, prob)
}

// ServeMetrics exposes Prometheus metrics until ctx is cancelled. It returns
// immediately when no port is configured.
func (s *Service) ServeMetrics(ctx context.Context) error {
	if s.Config.Metrics.PrometheusPort == "" {
		return nil
	}
	s.log.Infof("serving metrics on %s", s.Config.Metrics.PrometheusPort)
	return metrics.StartPromServer(ctx, s.Config.Metrics.PrometheusPort)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	closeSink(s.sink)
	var errs []error
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) {
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}
