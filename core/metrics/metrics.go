package metrics

import "time"

// RunEvent summarises one planning run.
type RunEvent struct {
	RunID  string
	Status string
	Time   time.Time

	Candidates  int
	BuildVars   int
	AssignVars  int
	Constraints int

	Selected          int
	TotalCost         float64
	Budget            float64
	DemandServed      float64
	TotalDemand       float64
	CityCoveragePct   int
	DemandCoveragePct int

	SolveDuration time.Duration
	Nodes         int
}

// MetricsSink records planning runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// CorridorEvent is the coverage of one highway corridor in a run.
type CorridorEvent struct {
	RunID    string
	Corridor string
	Percent  int
	Covered  int
	Segments int
	Time     time.Time
}

// CorridorRecorder is implemented by sinks able to record corridor coverage.
type CorridorRecorder interface {
	RecordCorridorCoverage(evs []CorridorEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error                     { return nil }
func (NopSink) RecordCorridorCoverage([]CorridorEvent) error { return nil }
