package runs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/chargeplan/core/history"
	"github.com/kilianp07/chargeplan/core/milp"
	"github.com/kilianp07/chargeplan/core/model"
	"github.com/kilianp07/chargeplan/core/placement"
	"github.com/kilianp07/chargeplan/core/planner"
	"github.com/kilianp07/chargeplan/pkg/export"
)

type memStore struct{ recs []history.RunRecord }

func (m *memStore) Append(ctx context.Context, r history.RunRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(ctx context.Context, q history.Query) ([]history.RunRecord, error) {
	var res []history.RunRecord
	for _, r := range m.recs {
		if q.Match(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

type fakePlanner struct {
	got placement.Params
	res *model.SolutionResult
	err error
}

func (f *fakePlanner) Plan(_ context.Context, p placement.Params) (*model.SolutionResult, error) {
	f.got = p
	return f.res, f.err
}

func testCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	cat, err := model.NewCatalog([]model.CandidateSite{
		model.NewSite(1, "West", 0, 0, model.SiteCity, 50, 100, ""),
		model.NewSite(2, "East", 0, 4.5, model.SiteCity, 60, 200, ""),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestHistoryHandler_AuthAndFilters(t *testing.T) {
	store := &memStore{}
	now := time.Now()
	_ = store.Append(context.Background(), history.RunRecord{ID: "a", Timestamp: now, Status: "Optimal"})
	_ = store.Append(context.Background(), history.RunRecord{ID: "b", Timestamp: now, Status: "Infeasible"})
	h := NewHistoryHandler(store, "tok")

	req := httptest.NewRequest("GET", "/api/runs?status=Optimal", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []history.RunRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("expected run a, got %+v", out)
	}

	req = httptest.NewRequest("GET", "/api/runs", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/runs?limit=x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestHistoryHandler_EmptyStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHistoryHandler(history.NopStore{}, "").ServeHTTP(rr, httptest.NewRequest("GET", "/api/runs", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %q", rr.Body.String())
	}
}

func TestPlanHandler_Optimal(t *testing.T) {
	fp := &fakePlanner{res: &model.SolutionResult{
		Status:            "Optimal",
		Selected:          []int{2},
		TotalCost:         60,
		DemandServed:      200,
		DemandCoveragePct: 67,
	}}
	defaults := placement.DefaultParams()
	h := NewPlanHandler(fp, testCatalog(t), defaults, "")

	req := httptest.NewRequest("POST", "/api/plan", strings.NewReader(`{"budget": 60, "min_stations": 1}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if fp.got.Budget != 60 || fp.got.MinStations != 1 || fp.got.CoverageRangeKm != defaults.CoverageRangeKm {
		t.Fatalf("unexpected params %+v", fp.got)
	}
	var sum export.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sum.SelectedStations) != 1 || sum.SelectedStations[0] != "East" || sum.DemandPct != 67 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestPlanHandler_Errors(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		name string
		err  error
		body string
		code int
	}{
		{"infeasible", planner.NewStatusError(milp.StatusInfeasible), "", http.StatusUnprocessableEntity},
		{"invalid", placement.ErrInvalidParams, "", http.StatusBadRequest},
		{"unknown field", nil, `{"budgett": 1}`, http.StatusBadRequest},
		{"internal", context.Canceled, "", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewPlanHandler(&fakePlanner{err: tc.err}, cat, placement.DefaultParams(), "")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/plan", strings.NewReader(tc.body)))
			if rr.Code != tc.code {
				t.Fatalf("expected %d got %d", tc.code, rr.Code)
			}
		})
	}

	rr := httptest.NewRecorder()
	NewPlanHandler(&fakePlanner{}, cat, placement.DefaultParams(), "").ServeHTTP(rr, httptest.NewRequest("GET", "/api/plan", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestPlanHandler_StatusBody(t *testing.T) {
	h := NewPlanHandler(&fakePlanner{err: planner.NewStatusError(milp.StatusTimeLimit)}, testCatalog(t), placement.DefaultParams(), "")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/plan", nil))
	var f failure
	if err := json.Unmarshal(rr.Body.Bytes(), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Status != "TimeLimit" {
		t.Fatalf("expected TimeLimit, got %+v", f)
	}
}

func TestNewMux(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux := NewMux(&fakePlanner{}, testCatalog(t), placement.DefaultParams(), history.NopStore{}, "", metrics)
	for _, path := range []string{"/api/runs", "/metrics"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rr.Code)
		}
	}
}
