// Package output implements the Output stage of the tick pipeline
// (§4.6): it ships the tick's CommandMap to whichever transport the
// match is configured for and returns a FeedbackMap to seed the next
// Input step. Two concrete transports exist, selected at startup from
// config, matching spec.md §5's "simulator UDP unicast" / "real USB
// serial" split — grounded on
// original_source/crates/crabe_io/src/league/{simulator,real}/output.rs.
package output

import (
	"net"
	"strconv"

	"github.com/pkg/errors"

	"crabe/internal/config"
	"crabe/internal/input"
	"crabe/internal/logging"
	"crabe/internal/model"
	"crabe/internal/wire"
)

// Pipeline is the uniform lifecycle every Output implementation exposes
// (§2's "step (called once per tick) and close (called once at
// shutdown)").
type Pipeline interface {
	Step(team model.TeamColor, cmds model.CommandMap) model.FeedbackMap
	Close()
}

// SimulatorPipeline sends grSim_Packet command frames over UDP unicast
// to the configured host/port pair for the team's color. A background
// goroutine reads response packets from the same socket and hands each
// decoded packet to the Input pipeline's feedback queue via PushFeedback,
// so feedback reaches the next tick through Input rather than through
// Step's return value.
type SimulatorPipeline struct {
	conn   *net.UDPConn
	input  *input.Pipeline
	log    *logging.Logger
	lastFB model.FeedbackMap
}

// NewSimulatorPipeline dials the simulator's command port for cfg and
// reads responses on that same socket, forwarding decoded feedback into in.
func NewSimulatorPipeline(cfg config.SimulatorOutputConfig, team model.TeamColor, in *input.Pipeline, log *logging.Logger) (*SimulatorPipeline, error) {
	port := cfg.BluePort
	if team == model.Yellow {
		port = cfg.YellowPort
	}
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrapf(err, "output: resolving simulator address %s:%d", cfg.Host, port)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, errors.Wrap(err, "output: dialing simulator UDP socket")
	}
	p := &SimulatorPipeline{conn: conn, input: in, log: log, lastFB: model.FeedbackMap{}}
	go p.recvFeedback()
	return p, nil
}

func (p *SimulatorPipeline) recvFeedback() {
	buf := make([]byte, 4096)
	for {
		n, err := p.conn.Read(buf)
		if err != nil {
			return
		}
		resp, err := wire.DecodeRobotControlResponse(buf[:n])
		if err != nil {
			if p.log != nil {
				p.log.Warnf("output: malformed simulator feedback: %v", err)
			}
			continue
		}
		if p.input != nil {
			p.input.PushFeedback(resp)
		}
	}
}

// Step encodes cmds as one grSim_Packet and sends it. The returned
// FeedbackMap is always empty: recvFeedback does not fill it, and decoded
// feedback is available only from the tick's InboundData via Input.
func (p *SimulatorPipeline) Step(team model.TeamColor, cmds model.CommandMap) model.FeedbackMap {
	rc := &wire.RobotControl{IsTeamYellow: team == model.Yellow}
	for id, cmd := range cmds {
		rcmd := wire.RobotCommand{ID: uint32(id), VelocityTangent: float32(cmd.ForwardVelocity), VelocityNormal: float32(cmd.LeftVelocity), VelocityAngular: float32(cmd.AngularVelocity)}
		if cmd.Kick != nil {
			rcmd.KickSpeed = float32(cmd.Kick.Power)
			switch cmd.Kick.Kind {
			case model.StraightKick:
				rcmd.KickAngle = 0
			case model.ChipKick:
				rcmd.KickAngle = 45
			}
		}
		rcmd.SpinnerOn = cmd.Dribbler > 0
		rc.Robots = append(rc.Robots, rcmd)
	}
	if _, err := p.conn.Write(wire.EncodeRobotControl(rc)); err != nil && p.log != nil {
		p.log.Warnf("output: simulator write failed: %v", err)
	}
	return p.lastFB
}

// Close sends a zero command for every possible robot id before closing
// the transport, per spec.md §4.6's graceful-shutdown requirement.
func (p *SimulatorPipeline) Close() {
	rc := &wire.RobotControl{}
	for id := uint8(0); id < maxRobotID; id++ {
		rc.Robots = append(rc.Robots, wire.RobotCommand{ID: uint32(id)})
	}
	_, _ = p.conn.Write(wire.EncodeRobotControl(rc))
	p.conn.Close()
}

// maxRobotID bounds the shutdown sweep; SSL Division B fields at most 11
// robots per side but IDs run 0..15 in the wire protocol.
const maxRobotID = 16
