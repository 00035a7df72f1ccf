// Package metrics defines the events emitted after each planning run and the
// sink interfaces that record them. Implementations such as the Prometheus
// and InfluxDB sinks live in infra/metrics and are selected by name through
// the sink registry; several configured sinks are combined in a MultiSink.
package metrics
