package output

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"crabe/internal/config"
	"crabe/internal/logging"
	"crabe/internal/model"
	"crabe/internal/wire"
)

// RealPipeline frames PcToBase packets over a USB-serial link to a
// physical base station. No third-party serial library exists anywhere
// in the retrieved example pack (grepped go.mod/go.sum across every repo
// and other_examples/ file); a tty opened via os.OpenFile behaves as a
// plain byte stream once the OS driver has configured it; this stack
// does not itself negotiate baud/parity, matching a common embedded
// pattern where a udev rule or a one-time stty call fixes the line
// discipline out of band. Port is kept as an io.ReadWriteCloser so a test
// double can stand in for real hardware.
type RealPipeline struct {
	port io.ReadWriteCloser
	log  *logging.Logger
}

// NewRealPipeline opens cfg.Device for read/write.
func NewRealPipeline(cfg config.RealOutputConfig, log *logging.Logger) (*RealPipeline, error) {
	f, err := os.OpenFile(cfg.Device, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "output: opening serial device %s", cfg.Device)
	}
	return &RealPipeline{port: f, log: log}, nil
}

// Step sends one PcToBase frame per commanded robot; the base station
// multiplexes per-robot radio links on its own, so there is no team-wide
// framing the way the simulator's grSim_Packet needs.
func (p *RealPipeline) Step(team model.TeamColor, cmds model.CommandMap) model.FeedbackMap {
	for id, cmd := range cmds {
		frame := wire.PcToBase{
			RobotID:         id,
			VelocityTangent: float32(cmd.ForwardVelocity),
			VelocityNormal:  float32(cmd.LeftVelocity),
			VelocityAngular: float32(cmd.AngularVelocity),
			Dribbler:        float32(cmd.Dribbler),
			Charge:          cmd.Charge,
		}
		if cmd.Kick != nil {
			switch cmd.Kick.Kind {
			case model.StraightKick:
				frame.KickStraight = true
			case model.ChipKick:
				frame.KickChip = true
			}
			frame.KickPower = float32(cmd.Kick.Power)
		}
		if _, err := p.port.Write(wire.EncodePcToBase(frame)); err != nil && p.log != nil {
			p.log.Warnf("output: serial write to robot %d failed: %v", id, err)
		}
	}
	// The real base station's feedback telemetry format is out of scope
	// (spec.md names only the command-direction PcToBase framing); an
	// empty FeedbackMap is itself a signal per §7's propagation policy.
	return model.FeedbackMap{}
}

// Close sends a zero command to every possible robot id before closing
// the port, same shutdown contract as SimulatorPipeline.
func (p *RealPipeline) Close() {
	for id := uint8(0); id < maxRobotID; id++ {
		_, _ = p.port.Write(wire.EncodePcToBase(wire.PcToBase{RobotID: id}))
	}
	p.port.Close()
}
