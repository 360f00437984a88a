// Package input owns the stack's network ingestion: one UDP reader per
// source (SSL-Vision, optional external tracker, SSL game controller),
// each draining into a lock-free spatial.Queue so Filter never blocks on
// the network. Grounded on spec.md §4.1 and on the receive-task shape
// described by original_source/crabe_io (one async task per league
// transport), translated into one goroutine per socket — the teacher
// repo has no UDP ingestion to imitate directly.
package input

import (
	"net"
	"sync"
	"sync/atomic"

	"crabe/internal/config"
	"crabe/internal/logging"
	"crabe/internal/spatial"
	"crabe/internal/wire"
)

const queueCapacity = 256

// InboundData is the bundle Filter drains from Input once per tick: every
// packet accumulated on every socket since the last call to Step.
type InboundData struct {
	Vision   []*wire.WrapperPacket
	Tracker  []*wire.WrapperPacket
	Referee  []*wire.RefereePacket
	Feedback []*wire.RobotControlResponse
}

// Pipeline owns the receiver goroutines and their queues. Construct with
// New, start with Start, and call Step once per tick from the fixed-rate
// loop; Close tears every socket and goroutine down.
type Pipeline struct {
	log *logging.Logger

	visionQueue   *spatial.Queue[*wire.WrapperPacket]
	trackerQueue  *spatial.Queue[*wire.WrapperPacket]
	refereeQueue  *spatial.Queue[*wire.RefereePacket]
	feedbackQueue *spatial.Queue[*wire.RobotControlResponse]

	visionConn   *net.UDPConn
	trackerConn  *net.UDPConn
	refereeConn  *net.UDPConn
	feedbackConn *net.UDPConn

	wg     sync.WaitGroup
	closed atomic.Bool
}

// New resolves and joins every configured multicast source; a source that
// fails to bind is logged and left nil rather than aborting startup
// (spec.md §7: "a socket failing to open is reported once, and that
// source is treated as permanently silent for the run").
func New(cfg config.AppConfig, log *logging.Logger) *Pipeline {
	p := &Pipeline{
		log:          log,
		visionQueue:  spatial.NewQueue[*wire.WrapperPacket](queueCapacity),
		trackerQueue: spatial.NewQueue[*wire.WrapperPacket](queueCapacity),
		refereeQueue: spatial.NewQueue[*wire.RefereePacket](queueCapacity),
	}
	p.feedbackQueue = spatial.NewQueue[*wire.RobotControlResponse](queueCapacity)

	p.visionConn = dialMulticast(cfg.Vision.Multicast.IP, cfg.Vision.Multicast.Port, log, "vision")
	if cfg.Tracker.Enabled {
		p.trackerConn = dialMulticast(cfg.Tracker.Multicast.IP, cfg.Tracker.Multicast.Port, log, "tracker")
	}
	if cfg.Common.EnableGC {
		p.refereeConn = dialMulticast(cfg.GC.Multicast.IP, cfg.GC.Multicast.Port, log, "referee")
	}
	return p
}

func dialMulticast(ip string, port int, log *logging.Logger, name string) *net.UDPConn {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		log.Errorf("%s: failed to join multicast %s:%d: %v (source disabled for this run)", name, ip, port, err)
		return nil
	}
	conn.SetReadBuffer(1 << 20)
	return conn
}

// Start launches one receiver goroutine per bound socket.
func (p *Pipeline) Start() {
	if p.visionConn != nil {
		p.wg.Add(1)
		go p.recvVision()
	}
	if p.trackerConn != nil {
		p.wg.Add(1)
		go p.recvTracker()
	}
	if p.refereeConn != nil {
		p.wg.Add(1)
		go p.recvReferee()
	}
}

func (p *Pipeline) recvVision() {
	defer p.wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := p.visionConn.Read(buf)
		if p.closed.Load() {
			return
		}
		if err != nil {
			p.log.Warnf("vision: read error: %v", err)
			continue
		}
		pkt, err := wire.DecodeWrapperPacket(buf[:n])
		if err != nil {
			p.log.Warnf("vision: decode error: %v", err)
			continue
		}
		p.visionQueue.TryPush(pkt)
	}
}

func (p *Pipeline) recvTracker() {
	defer p.wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := p.trackerConn.Read(buf)
		if p.closed.Load() {
			return
		}
		if err != nil {
			p.log.Warnf("tracker: read error: %v", err)
			continue
		}
		pkt, err := wire.DecodeWrapperPacket(buf[:n])
		if err != nil {
			p.log.Warnf("tracker: decode error: %v", err)
			continue
		}
		p.trackerQueue.TryPush(pkt)
	}
}

func (p *Pipeline) recvReferee() {
	defer p.wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := p.refereeConn.Read(buf)
		if p.closed.Load() {
			return
		}
		if err != nil {
			p.log.Warnf("referee: read error: %v", err)
			continue
		}
		pkt, err := wire.DecodeRefereePacket(buf[:n])
		if err != nil {
			p.log.Warnf("referee: decode error: %v", err)
			continue
		}
		p.refereeQueue.TryPush(pkt)
	}
}

// PushFeedback is called by Output (which owns the simulator's response
// socket) to hand a decoded feedback packet back into the tick pipeline.
func (p *Pipeline) PushFeedback(resp *wire.RobotControlResponse) {
	p.feedbackQueue.TryPush(resp)
}

// Step drains every queue without blocking, per spec.md §4.1's "try_iter"
// semantics: a tick that arrives before any new packet sees an empty
// InboundData, never a stall.
func (p *Pipeline) Step() InboundData {
	return InboundData{
		Vision:   p.visionQueue.Drain(),
		Tracker:  p.trackerQueue.Drain(),
		Referee:  p.refereeQueue.Drain(),
		Feedback: p.feedbackQueue.Drain(),
	}
}

// Close stops every receiver goroutine and closes its socket. Safe to
// call once during shutdown.
func (p *Pipeline) Close() {
	p.closed.Store(true)
	if p.visionConn != nil {
		p.visionConn.Close()
	}
	if p.trackerConn != nil {
		p.trackerConn.Close()
	}
	if p.refereeConn != nil {
		p.refereeConn.Close()
	}
	p.wg.Wait()
}
