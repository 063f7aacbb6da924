package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/tracegate/internal/domain"
	"github.com/hamed0406/tracegate/internal/probe"
	"github.com/hamed0406/tracegate/internal/state"
)

// ---- test helpers ----

type fakeChecker struct {
	out probe.CheckResult
}

func (f *fakeChecker) Check(_ context.Context, _ string) probe.CheckResult {
	return f.out
}

func setupServer(t *testing.T, chk probe.Checker) (*httptest.Server, *state.Store) {
	t.Helper()
	store := state.New()
	services := []domain.Service{
		{Name: "langfuse", HealthURL: "http://localhost:3001/api/public/health"},
		{Name: "postgres", HealthURL: "http://localhost:5432/"},
	}
	srv := NewServer(zap.NewNop(), services, store, chk, time.Second)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts, _ := setupServer(t, &fakeChecker{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
}

func TestListServices_EmptyStateHasNoLatest(t *testing.T) {
	ts, _ := setupServer(t, &fakeChecker{})

	resp, err := http.Get(ts.URL + "/api/services")
	if err != nil {
		t.Fatalf("GET /api/services: %v", err)
	}
	defer resp.Body.Close()

	var list []struct {
		Service domain.Service      `json:"service"`
		Latest  *domain.ProbeRecord `json:"latest"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 services, got %d", len(list))
	}
	for _, st := range list {
		if st.Latest != nil {
			t.Fatalf("no probes ran yet, want latest=nil, got %+v", st.Latest)
		}
	}
}

func TestCheckNow_StoresAndReturnsRecord(t *testing.T) {
	chk := &fakeChecker{out: probe.CheckResult{
		Success:    true,
		StatusCode: 200,
		LatencyMS:  4.2,
		Message:    "200 OK",
	}}
	ts, store := setupServer(t, chk)

	resp, err := http.Post(ts.URL+"/api/services/langfuse/check", "application/json", nil)
	if err != nil {
		t.Fatalf("POST check: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var rec domain.ProbeRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Service != "langfuse" || !rec.Up || rec.HTTPStatus != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	stored, ok := store.Get("langfuse")
	if !ok || !stored.Up {
		t.Fatalf("record not stored: %+v ok=%v", stored, ok)
	}
}

func TestCheckNow_UnknownServiceIs404(t *testing.T) {
	ts, _ := setupServer(t, &fakeChecker{})

	resp, err := http.Post(ts.URL+"/api/services/nope/check", "application/json", nil)
	if err != nil {
		t.Fatalf("POST check: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}
