package tool

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crabe_tick_duration_seconds",
		Help:    "Wall-clock duration of one Input-Filter-Decision-Guard-Output tick.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	})

	tickCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crabe_ticks_total",
		Help: "Number of ticks executed since process start.",
	})

	commandsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crabe_commands_issued_total",
		Help: "Number of per-robot commands sent to Output across all ticks.",
	})

	collisionWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crabe_collision_warnings_total",
		Help: "Number of CollisionDiagnostic proximity warnings raised by Guard.",
	})

	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crabe_tool_ws_connections",
		Help: "Current number of connected Tool Server WebSocket clients.",
	})

	wsConnectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crabe_tool_ws_connections_rejected_total",
		Help: "WebSocket/HTTP connections rejected by the Tool Server, by reason.",
	}, []string{"reason"})

	gameStateGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crabe_game_state_tier",
		Help: "Current GameState tier (0=Halted, 1=Stopped, 2=Running).",
	})
)

// RecordTick observes one tick's duration and the number of commands it
// produced; grounded on the teacher's observability.go RecordTick helper.
func RecordTick(d time.Duration, numCommands int) {
	tickDuration.Observe(d.Seconds())
	tickCount.Inc()
	commandsIssued.Add(float64(numCommands))
}

func RecordCollisionWarning() {
	collisionWarnings.Inc()
}

func RecordGameStateTier(tier int) {
	gameStateGauge.Set(float64(tier))
}

func recordConnectionRejected(reason string) {
	wsConnectionsRejected.WithLabelValues(reason).Inc()
}

func recordWSConnected() {
	wsConnections.Inc()
}

func recordWSDisconnected() {
	wsConnections.Dec()
}

// MetricsHandler exposes the registered metrics in Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// DebugMux returns a pprof handler mux, meant to be bound to localhost
// only by the caller, matching the teacher's observability.go pattern of
// never exposing pprof on the public listener.
func DebugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
