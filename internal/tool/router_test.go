package tool

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"crabe/internal/model"
)

type fakeState struct {
	world *model.World
	tools *model.ToolData
	tick  uint64
}

func (f *fakeState) LatestWorld() *model.World    { return f.world }
func (f *fakeState) LatestTools() *model.ToolData { return f.tools }
func (f *fakeState) LatestTick() uint64           { return f.tick }

func newTestRouter() (http.Handler, *fakeState) {
	world := model.NewWorld(model.Blue)
	world.Ball = &model.Ball{}
	state := &fakeState{world: world, tick: 7}
	hub := NewHub(nil)
	r := NewRouter(RouterConfig{Hub: hub, State: state, DisableLogging: true})
	return r, state
}

func TestHealthzReportsTickAndConnections(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDebugFieldPNGReturns503BeforeFirstSnapshot(t *testing.T) {
	hub := NewHub(nil)
	state := &fakeState{}
	r := NewRouter(RouterConfig{Hub: hub, State: state, DisableLogging: true})

	req := httptest.NewRequest(http.MethodGet, "/debug/field.png", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with no snapshot yet, got %d", rec.Code)
	}
}

func TestDebugFieldPNGReturnsImageOnceSnapshotExists(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/debug/field.png", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
}

func TestDebugStateReturnsJSONSnapshot(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/debug/state", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
