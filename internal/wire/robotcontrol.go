package wire

import "math"

// RobotCommand is one robot's command inside a simulator control packet,
// matching grSim's RobotCommand message for a single team/robot.
type RobotCommand struct {
	ID              uint32
	KickSpeed       float32 // m/s
	KickAngle       float32 // degrees: straight kick = 0, chip kick = 45
	VelocityTangent float32 // m/s, robot-local forward
	VelocityNormal  float32 // m/s, robot-local left
	VelocityAngular float32 // rad/s
	SpinnerOn       bool
	Wheelsspeed     bool
}

// RobotControl is the outbound packet to grSim: one team's full set of
// robot commands for this tick.
type RobotControl struct {
	IsTeamYellow bool
	Robots       []RobotCommand
}

// RobotControl field numbers (grSim_Packet / grSim_Commands / grSim_Robot_Command).
const (
	fieldGrSimCommands = 1

	fieldCmdsTimestamp = 1
	fieldCmdsIsYellow  = 2
	fieldCmdsRobots    = 3

	fieldCmdID              = 1
	fieldCmdKickSpeed       = 2
	fieldCmdKickAngle       = 3
	fieldCmdVelocityTangent = 4
	fieldCmdVelocityNormal  = 5
	fieldCmdVelocityAngular = 6
	fieldCmdSpinner         = 7
	fieldCmdWheelsspeed     = 8
)

// EncodeRobotControl builds a grSim_Packet wrapping one team's robot
// commands for this tick, per spec.md §5's simulator output path.
func EncodeRobotControl(rc *RobotControl) []byte {
	w := NewWriter()
	w.WriteMessage(fieldGrSimCommands, func(cw *Writer) {
		cw.WriteFloat64(fieldCmdsTimestamp, 0)
		cw.WriteBool(fieldCmdsIsYellow, rc.IsTeamYellow)
		for _, rcmd := range rc.Robots {
			cw.WriteMessage(fieldCmdsRobots, func(rw *Writer) {
				encodeRobotCommand(rw, rcmd)
			})
		}
	})
	return w.Bytes()
}

func encodeRobotCommand(w *Writer, c RobotCommand) {
	w.WriteVarintField(fieldCmdID, uint64(c.ID))
	w.WriteFloat32(fieldCmdKickSpeed, c.KickSpeed)
	w.WriteFloat32(fieldCmdKickAngle, c.KickAngle)
	w.WriteFloat32(fieldCmdVelocityTangent, c.VelocityTangent)
	w.WriteFloat32(fieldCmdVelocityNormal, c.VelocityNormal)
	w.WriteFloat32(fieldCmdVelocityAngular, c.VelocityAngular)
	w.WriteBool(fieldCmdSpinner, c.SpinnerOn)
	w.WriteBool(fieldCmdWheelsspeed, c.Wheelsspeed)
}

// RobotControlResponse is grSim's feedback packet (ball/robot state
// echoes); this stack only consumes the dribbler-contact flag per robot.
type RobotControlResponse struct {
	Feedback []RobotFeedback
}

type RobotFeedback struct {
	ID      uint32
	HasBall bool
	Voltage float32
}

const (
	fieldRespFeedback = 1

	fieldFeedbackID      = 1
	fieldFeedbackHasBall = 2
	fieldFeedbackVoltage = 3
)

// DecodeRobotControlResponse parses grSim's feedback packet.
func DecodeRobotControlResponse(data []byte) (*RobotControlResponse, error) {
	r := NewReader(data)
	resp := &RobotControlResponse{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		if field == fieldRespFeedback {
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			fb, err := decodeFeedback(b)
			if err != nil {
				return nil, err
			}
			resp.Feedback = append(resp.Feedback, fb)
		} else if err := r.Skip(wt); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func decodeFeedback(data []byte) (RobotFeedback, error) {
	r := NewReader(data)
	fb := RobotFeedback{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return fb, err
		}
		switch field {
		case fieldFeedbackID:
			v, err := r.ReadVarint()
			if err != nil {
				return fb, err
			}
			fb.ID = uint32(v)
		case fieldFeedbackHasBall:
			v, err := r.ReadVarint()
			if err != nil {
				return fb, err
			}
			fb.HasBall = v != 0
		case fieldFeedbackVoltage:
			v, err := r.ReadFloat32()
			if err != nil {
				return fb, err
			}
			fb.Voltage = v
		default:
			if err := r.Skip(wt); err != nil {
				return fb, err
			}
		}
	}
	return fb, nil
}

// PcToBase is the length-prefixed frame sent over USB serial to a real
// base station: a simpler, non-protobuf framing (spec.md §5's real output
// path), grounded on original_source's crabe_io serial framing.
type PcToBase struct {
	RobotID         uint8
	VelocityTangent float32
	VelocityNormal  float32
	VelocityAngular float32
	KickStraight    bool
	KickChip        bool
	KickPower       float32
	Dribbler        float32
	Charge          bool
}

// EncodePcToBase serializes a command frame as fixed-width little-endian
// fields prefixed with a 1-byte length, matching a typical embedded-serial
// base-station protocol (no varint framing on this link).
func EncodePcToBase(cmd PcToBase) []byte {
	buf := make([]byte, 0, 20)
	buf = append(buf, cmd.RobotID)
	buf = appendFloat32LE(buf, cmd.VelocityTangent)
	buf = appendFloat32LE(buf, cmd.VelocityNormal)
	buf = appendFloat32LE(buf, cmd.VelocityAngular)
	var flags byte
	if cmd.KickStraight {
		flags |= 0x1
	}
	if cmd.KickChip {
		flags |= 0x2
	}
	if cmd.Charge {
		flags |= 0x4
	}
	buf = append(buf, flags)
	buf = appendFloat32LE(buf, cmd.KickPower)
	buf = appendFloat32LE(buf, cmd.Dribbler)
	framed := make([]byte, 0, len(buf)+1)
	framed = append(framed, byte(len(buf)))
	framed = append(framed, buf...)
	return framed
}

func appendFloat32LE(buf []byte, v float32) []byte {
	w := NewWriter()
	w.WriteFixed32(math.Float32bits(v))
	return append(buf, w.Bytes()...)
}
