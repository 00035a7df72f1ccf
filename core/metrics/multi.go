package metrics

// MultiSink fans out events to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to every sink and returns the first error.
// Later sinks still receive the event.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordCorridorCoverage forwards to sinks implementing CorridorRecorder.
func (m *MultiSink) RecordCorridorCoverage(evs []CorridorEvent) error {
	var first error
	for _, s := range m.Sinks {
		rec, ok := s.(CorridorRecorder)
		if !ok {
			continue
		}
		if err := rec.RecordCorridorCoverage(evs); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
