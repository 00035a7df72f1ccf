// Package history persists the outcome of planning runs so that earlier
// plans can be listed and compared.
package history

import (
	"context"
	"time"

	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
)

// RunRecord captures one planning run: its inputs and, when the solver
// reached an optimum, the interpreted result.
type RunRecord struct {
	ID        string                `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Solver    string                `json:"solver"`
	Params    placement.Params      `json:"params"`
	Status    string                `json:"status"`
	Error     string                `json:"error,omitempty"`
	Result    *model.SolutionResult `json:"result,omitempty"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start  time.Time
	End    time.Time
	Status string
	Limit  int
}

// Match reports whether r passes the time and status filters of q.
func (q Query) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                      { return nil }

// limit keeps the most recent n records of a slice sorted by time.
func limit(recs []RunRecord, n int) []RunRecord {
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return recs[len(recs)-n:]
}
