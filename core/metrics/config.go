package metrics

import "github.com/kilianp07/chargeplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort, when set, exposes /metrics on this address for the
	// lifetime of the command.
	PrometheusPort string `json:"prometheus_port"`
}
