package tool

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"crabe/internal/model"
)

// Snapshotter exposes read-only access to the most recent tick's state,
// implemented by the tick loop's owner (typically the main cmd binary).
type Snapshotter interface {
	LatestWorld() *model.World
	LatestTools() *model.ToolData
	LatestTick() uint64
}

// RouterConfig wires the Tool Server's dependencies, mirroring the
// teacher's api.RouterConfig dependency-injection struct.
type RouterConfig struct {
	Hub             *Hub
	State           Snapshotter
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig
	CORSOrigins     []string
	DisableLogging  bool
}

// NewRouter builds the Tool Server's chi router: WebSocket broadcast,
// health, metrics, and a debug field renderer, matching the teacher's
// router.go middleware ordering (Logger, Recoverer, RateLimiter, CORS).
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig()
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(rateLimiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"*"},
	}))

	h := &handlers{hub: cfg.Hub, state: cfg.State}

	r.Get("/ws", cfg.Hub.ServeWS)
	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", MetricsHandler())
	r.Get("/debug/field.png", h.handleFieldPNG)
	r.Get("/debug/nearest", h.handleNearest)
	r.Get("/debug/state", h.handleState)

	return r
}

type handlers struct {
	hub   *Hub
	state Snapshotter
}

func (h *handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"connections": h.hub.ConnectionCount(),
		"tick":        h.state.LatestTick(),
	})
}

func (h *handlers) handleFieldPNG(w http.ResponseWriter, r *http.Request) {
	world := h.state.LatestWorld()
	if world == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	png := RenderField(world, h.state.LatestTools())
	if png == nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *handlers) handleNearest(w http.ResponseWriter, r *http.Request) {
	world := h.state.LatestWorld()
	if world == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	x, _ := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, _ := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	if err != nil || radius <= 0 {
		radius = 1.0
	}
	q := BuildNearestQuery(world)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(q.QueryRadius(x, y, radius))
}

func (h *handlers) handleState(w http.ResponseWriter, r *http.Request) {
	world := h.state.LatestWorld()
	if world == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	snap := BuildSnapshot(h.state.LatestTick(), world, h.state.LatestTools())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}
