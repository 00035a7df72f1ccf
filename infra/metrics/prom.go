package metrics

import (
	coremetrics "github.com/kilianp07/chargeplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	nodes     prometheus.Histogram
	selected  prometheus.Gauge
	cost      prometheus.Gauge
	demandPct prometheus.Gauge
	cityPct   prometheus.Gauge
	corridor  *prometheus.GaugeVec
}

// NewPromSink registers planning metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargeplan_runs_total",
			Help: "Total number of planning runs by solver status",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chargeplan_solve_duration_seconds",
			Help:    "Time spent in the solver",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chargeplan_solver_nodes",
			Help:    "Branch and bound nodes explored per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		selected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargeplan_selected_stations",
			Help: "Stations selected by the last optimal run",
		}),
		cost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargeplan_total_cost",
			Help: "Capital cost of the last optimal run",
		}),
		demandPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargeplan_demand_coverage_percent",
			Help: "Demand coverage of the last optimal run",
		}),
		cityPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargeplan_city_coverage_percent",
			Help: "City coverage of the last optimal run",
		}),
		corridor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chargeplan_corridor_coverage_percent",
			Help: "Highway corridor coverage of the last optimal run",
		}, []string{"corridor"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, s.nodes); err != nil {
		return nil, err
	}
	if s.selected, err = register(reg, s.selected); err != nil {
		return nil, err
	}
	if s.cost, err = register(reg, s.cost); err != nil {
		return nil, err
	}
	if s.demandPct, err = register(reg, s.demandPct); err != nil {
		return nil, err
	}
	if s.cityPct, err = register(reg, s.cityPct); err != nil {
		return nil, err
	}
	if s.corridor, err = register(reg, s.corridor); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an already registered collector of the same description.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates counters for every run and gauges for optimal ones.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	s.duration.WithLabelValues(ev.Status).Observe(ev.SolveDuration.Seconds())
	s.nodes.Observe(float64(ev.Nodes))
	if ev.Status != "Optimal" {
		return nil
	}
	s.selected.Set(float64(ev.Selected))
	s.cost.Set(ev.TotalCost)
	s.demandPct.Set(float64(ev.DemandCoveragePct))
	s.cityPct.Set(float64(ev.CityCoveragePct))
	return nil
}

// RecordCorridorCoverage sets the per-corridor gauge.
func (s *PromSink) RecordCorridorCoverage(evs []coremetrics.CorridorEvent) error {
	for _, ev := range evs {
		s.corridor.WithLabelValues(ev.Corridor).Set(float64(ev.Percent))
	}
	return nil
}
