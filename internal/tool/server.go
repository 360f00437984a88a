package tool

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"crabe/internal/config"
	"crabe/internal/logging"
	"crabe/internal/model"
)

// Server is the Tool Server side channel (§4.7): it owns the WebSocket
// hub, the HTTP router, and the most recent tick's World/ToolData so HTTP
// handlers can answer without touching the tick loop directly. Grounded on
// the teacher's api.Server Start/Stop/Router() lifecycle.
type Server struct {
	hub   *Hub
	srv   *http.Server
	log   *logging.Logger
	limit *IPRateLimiter

	mu    sync.RWMutex
	world *model.World
	tools *model.ToolData
	tick  uint64
}

// NewServer constructs a Server bound to cfg.Port, not yet listening.
func NewServer(cfg config.ToolServerConfig, log *logging.Logger) *Server {
	s := &Server{hub: NewHub(log), log: log}
	s.limit = NewIPRateLimiter(DefaultRateLimitConfig())

	router := NewRouter(RouterConfig{
		Hub:         s.hub,
		State:       s,
		RateLimiter: s.limit,
	})
	s.srv = &http.Server{
		Addr:         net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the HTTP server's Serve loop in the background, returning
// immediately. Listener errors other than a clean shutdown are logged.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.Errorf("tool: server exited: %v", err)
			}
		}
	}()
}

// Stop shuts the HTTP server down gracefully, closes every WebSocket
// client, and calls the rate limiter's Stop, which is a no-op because the
// limiter evicts stale buckets inline.
func (s *Server) Stop(ctx context.Context) {
	s.hub.CloseAll()
	s.limit.Stop()
	_ = s.srv.Shutdown(ctx)
}

// PushTick records the latest tick's World/ToolData for HTTP handlers and
// broadcasts a snapshot to every connected WebSocket client. Called once
// per tick by the owning cmd binary, after Guard and before/alongside
// Output (§4.7: "observes, never mutates, the pipeline").
func (s *Server) PushTick(tick uint64, world *model.World, tools *model.ToolData) {
	s.mu.Lock()
	s.world = world
	s.tools = tools
	s.tick = tick
	s.mu.Unlock()

	snap := BuildSnapshot(tick, world, tools)
	s.hub.Broadcast(snap)
}

func (s *Server) LatestWorld() *model.World {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world
}

func (s *Server) LatestTools() *model.ToolData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tools
}

func (s *Server) LatestTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}
