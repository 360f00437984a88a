package tool

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crabe/internal/logging"
	"crabe/internal/model"
)

// Snapshot is the JSON shape broadcast to every connected viewer once per
// tick: a flattened, serializable projection of World plus the tick's
// ToolData, matching spec.md §4.7's "every connected client receives the
// same tick-coherent snapshot".
type Snapshot struct {
	Tick        uint64                        `json:"tick"`
	TeamColor   string                        `json:"team_color"`
	Allies      []RobotSnapshot               `json:"allies"`
	Enemies     []RobotSnapshot               `json:"enemies"`
	Ball        *BallSnapshot                 `json:"ball,omitempty"`
	Annotations map[string]model.Annotation   `json:"annotations,omitempty"`
	Messages    []model.MessageData           `json:"messages,omitempty"`
}

type RobotSnapshot struct {
	ID          uint8   `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Orientation float64 `json:"orientation"`
	HasBall     bool    `json:"has_ball"`
}

type BallSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BuildSnapshot projects world/tools into the wire format broadcast over
// WebSocket, taking a deep-enough copy so later Filter mutation of the live
// World cannot race with JSON encoding of this tick's snapshot.
func BuildSnapshot(tick uint64, world *model.World, tools *model.ToolData) Snapshot {
	snap := Snapshot{Tick: tick, TeamColor: teamColorName(world.TeamColor)}
	for id, r := range world.AlliesBot {
		snap.Allies = append(snap.Allies, RobotSnapshot{ID: id, X: r.Pose.Position.X, Y: r.Pose.Position.Y, Orientation: r.Pose.Orientation, HasBall: r.HasBall})
	}
	for id, r := range world.EnemiesBot {
		snap.Enemies = append(snap.Enemies, RobotSnapshot{ID: id, X: r.Pose.Position.X, Y: r.Pose.Position.Y, Orientation: r.Pose.Orientation, HasBall: r.HasBall})
	}
	if world.Ball != nil {
		pos := world.Ball.Position2D()
		snap.Ball = &BallSnapshot{X: pos.X, Y: pos.Y}
	}
	if tools != nil {
		if tools.Annotations != nil {
			snap.Annotations = tools.Annotations.All()
		}
		snap.Messages = tools.Messages
	}
	return snap
}

func teamColorName(c model.TeamColor) string {
	if c == model.Yellow {
		return "yellow"
	}
	return "blue"
}

const (
	maxConnectionsPerIP = 4
	maxTotalConnections = 64
	writeWait           = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	ip   string
	send chan []byte
}

// Hub fans out one Snapshot per tick to every connected WebSocket client,
// adapted from the teacher's api.WebSocketHub broadcast-loop pattern.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	connLimit *WSConnLimiter
	log       *logging.Logger
}

func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		connLimit: NewWSConnLimiter(maxConnectionsPerIP),
		log:       log,
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ip := ClientIP(r)
	h.mu.Lock()
	total := len(h.clients)
	h.mu.Unlock()
	if total >= maxTotalConnections {
		recordConnectionRejected("capacity")
		http.Error(w, "Tool Server at capacity", http.StatusServiceUnavailable)
		return
	}
	if !h.connLimit.Allow(ip) {
		recordConnectionRejected("per_ip_limit")
		http.Error(w, "Too many connections from this address", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.connLimit.Release(ip)
		if h.log != nil {
			h.log.Warnf("tool: websocket upgrade failed: %v", err)
		}
		return
	}

	c := &client{conn: conn, ip: ip, send: make(chan []byte, 8)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	recordWSConnected()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.connLimit.Release(c.ip)
	recordWSDisconnected()
}

// Broadcast encodes snap once and fans it out to every connected client,
// dropping clients whose send buffer is full rather than blocking the tick
// loop on a slow reader.
func (h *Hub) Broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		if h.log != nil {
			h.log.Warnf("tool: snapshot marshal failed: %v", err)
		}
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			if h.log != nil {
				h.log.Warnf("tool: dropping slow client %s", c.ip)
			}
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
		delete(h.clients, c)
	}
}
