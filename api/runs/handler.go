// Package runs exposes planning over HTTP: on-demand plans and the run
// history.
package runs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/chargeplan/core/history"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/core/planner"
	"github.com/kilianp07/chargeplan/pkg/export"
)

// Planner runs one planning pass.
type Planner interface {
	Plan(ctx context.Context, params placement.Params) (*model.SolutionResult, error)
}

type failure struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error"`
}

func authorized(w http.ResponseWriter, r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	if r.Header.Get("Authorization") != "Bearer "+token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NewHistoryHandler returns an HTTP handler exposing recorded runs via
// GET /api/runs. Supported query parameters are start and end (RFC3339),
// status and limit. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewHistoryHandler(store history.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r, token) {
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := history.Query{Status: r.URL.Query().Get("status")}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			q.Limit = n
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []history.RunRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}

// NewPlanHandler returns an HTTP handler running a plan via POST /api/plan.
// The JSON body overrides fields of defaults. An optimal plan is answered
// with its summary, a non-optimal solver status with 422.
func NewPlanHandler(p Planner, cat *model.Catalog, defaults placement.Params, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r, token) {
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		params := defaults
		if r.ContentLength != 0 {
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&params); err != nil {
				writeJSON(w, http.StatusBadRequest, failure{Error: err.Error()})
				return
			}
		}
		res, err := p.Plan(r.Context(), params)
		var se *planner.StatusError
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, export.NewSummary(cat, res))
		case errors.As(err, &se):
			writeJSON(w, http.StatusUnprocessableEntity, failure{Status: se.StatusName(), Error: err.Error()})
		case errors.Is(err, placement.ErrInvalidParams):
			writeJSON(w, http.StatusBadRequest, failure{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, failure{Error: err.Error()})
		}
	})
}

// NewMux mounts the plan and history handlers together with an extra
// /metrics handler when metrics is non-nil.
func NewMux(p Planner, cat *model.Catalog, defaults placement.Params, store history.Store, token string, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/plan", NewPlanHandler(p, cat, defaults, token))
	mux.Handle("/api/runs", NewHistoryHandler(store, token))
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}
