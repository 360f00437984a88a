package wire

// DetectionRobot is one robot observation inside a detection frame.
type DetectionRobot struct {
	HasID      bool
	ID         uint8
	Confidence float32
	X, Y       float32 // mm, raw vision frame
	Orientation float32 // radians
}

// DetectionBall is one ball observation inside a detection frame.
type DetectionBall struct {
	Confidence float32
	X, Y, Z    float32 // mm
}

// DetectionFrame is one camera's detection payload.
type DetectionFrame struct {
	CameraID    uint32
	FrameNumber uint32
	TCapture    float64 // seconds, as reported by the camera
	Balls       []DetectionBall
	RobotsBlue  []DetectionRobot
	RobotsYellow []DetectionRobot
}

// GeometryFieldSize is the subset of SSL_GeometryFieldSize this stack
// consumes.
type GeometryFieldSize struct {
	FieldLength      float32 // mm
	FieldWidth       float32
	GoalWidth        float32
	GoalDepth        float32
	PenaltyAreaDepth float32
	PenaltyAreaWidth float32
	CenterCircleRadius float32
	BallRadius       float32
	RobotRadius      float32
}

// GeometryData is the geometry half of an SSL-Vision wrapper packet.
type GeometryData struct {
	Field GeometryFieldSize
}

// WrapperPacket is the top-level SSL-Vision wrapper message: at most one
// of Detection/Geometry is present, matching the upstream schema's
// optional sub-messages.
type WrapperPacket struct {
	Detection *DetectionFrame
	Geometry  *GeometryData
}

// Vision wrapper field numbers (SSL_WrapperPacket).
const (
	fieldWrapperDetection = 1
	fieldWrapperGeometry  = 2
)

// Detection frame field numbers (SSL_DetectionFrame).
const (
	fieldDetFrameNumber  = 2
	fieldDetTCapture     = 3
	fieldDetCameraID     = 5
	fieldDetBalls        = 4
	fieldDetRobotsYellow = 6
	fieldDetRobotsBlue   = 7
)

// Detection ball/robot field numbers (SSL_DetectionBall / SSL_DetectionRobot).
const (
	fieldBallConfidence = 1
	fieldBallX          = 3
	fieldBallY           = 4
	fieldBallZ           = 5

	fieldRobotConfidence  = 1
	fieldRobotID          = 2
	fieldRobotX           = 3
	fieldRobotY           = 4
	fieldRobotOrientation = 5
)

// Geometry field numbers (SSL_GeometryData / SSL_GeometryFieldSize).
const (
	fieldGeomFieldSize = 1

	fieldFieldLength        = 1
	fieldFieldWidth         = 2
	fieldGoalWidth          = 3
	fieldGoalDepth          = 4
	fieldPenaltyAreaDepth   = 9
	fieldPenaltyAreaWidth   = 10
	fieldCenterCircleRadius = 11
	fieldBallRadiusField    = 14
	fieldRobotRadiusField   = 18
)

// DecodeWrapperPacket parses an SSL-Vision wrapper packet. Unknown fields
// are skipped, per §7's "decode failure is logged and discarded" policy —
// only a structurally truncated message is an error.
func DecodeWrapperPacket(data []byte) (*WrapperPacket, error) {
	r := NewReader(data)
	pkt := &WrapperPacket{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case fieldWrapperDetection:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			det, err := decodeDetectionFrame(b)
			if err != nil {
				return nil, err
			}
			pkt.Detection = det
		case fieldWrapperGeometry:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			geom, err := decodeGeometryData(b)
			if err != nil {
				return nil, err
			}
			pkt.Geometry = geom
		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}
	return pkt, nil
}

func decodeDetectionFrame(data []byte) (*DetectionFrame, error) {
	r := NewReader(data)
	f := &DetectionFrame{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case fieldDetFrameNumber:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			f.FrameNumber = uint32(v)
		case fieldDetTCapture:
			v, err := r.ReadFloat64()
			if err != nil {
				return nil, err
			}
			f.TCapture = v
		case fieldDetCameraID:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			f.CameraID = uint32(v)
		case fieldDetBalls:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			ball, err := decodeDetectionBall(b)
			if err != nil {
				return nil, err
			}
			f.Balls = append(f.Balls, ball)
		case fieldDetRobotsBlue:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			rob, err := decodeDetectionRobot(b)
			if err != nil {
				return nil, err
			}
			f.RobotsBlue = append(f.RobotsBlue, rob)
		case fieldDetRobotsYellow:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			rob, err := decodeDetectionRobot(b)
			if err != nil {
				return nil, err
			}
			f.RobotsYellow = append(f.RobotsYellow, rob)
		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func decodeDetectionBall(data []byte) (DetectionBall, error) {
	r := NewReader(data)
	b := DetectionBall{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return b, err
		}
		switch field {
		case fieldBallConfidence:
			v, err := r.ReadFloat32()
			if err != nil {
				return b, err
			}
			b.Confidence = v
		case fieldBallX:
			v, err := r.ReadFloat32()
			if err != nil {
				return b, err
			}
			b.X = v
		case fieldBallY:
			v, err := r.ReadFloat32()
			if err != nil {
				return b, err
			}
			b.Y = v
		case fieldBallZ:
			v, err := r.ReadFloat32()
			if err != nil {
				return b, err
			}
			b.Z = v
		default:
			if err := r.Skip(wt); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

func decodeDetectionRobot(data []byte) (DetectionRobot, error) {
	r := NewReader(data)
	rob := DetectionRobot{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return rob, err
		}
		switch field {
		case fieldRobotConfidence:
			v, err := r.ReadFloat32()
			if err != nil {
				return rob, err
			}
			rob.Confidence = v
		case fieldRobotID:
			v, err := r.ReadVarint()
			if err != nil {
				return rob, err
			}
			rob.HasID = true
			rob.ID = uint8(v)
		case fieldRobotX:
			v, err := r.ReadFloat32()
			if err != nil {
				return rob, err
			}
			rob.X = v
		case fieldRobotY:
			v, err := r.ReadFloat32()
			if err != nil {
				return rob, err
			}
			rob.Y = v
		case fieldRobotOrientation:
			v, err := r.ReadFloat32()
			if err != nil {
				return rob, err
			}
			rob.Orientation = v
		default:
			if err := r.Skip(wt); err != nil {
				return rob, err
			}
		}
	}
	return rob, nil
}

func decodeGeometryData(data []byte) (*GeometryData, error) {
	r := NewReader(data)
	g := &GeometryData{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		if field == fieldGeomFieldSize {
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			fs, err := decodeFieldSize(b)
			if err != nil {
				return nil, err
			}
			g.Field = fs
		} else if err := r.Skip(wt); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func decodeFieldSize(data []byte) (GeometryFieldSize, error) {
	r := NewReader(data)
	fs := GeometryFieldSize{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return fs, err
		}
		switch field {
		case fieldFieldLength:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.FieldLength = float32(int32(v))
		case fieldFieldWidth:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.FieldWidth = float32(int32(v))
		case fieldGoalWidth:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.GoalWidth = float32(int32(v))
		case fieldGoalDepth:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.GoalDepth = float32(int32(v))
		case fieldPenaltyAreaDepth:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.PenaltyAreaDepth = float32(int32(v))
		case fieldPenaltyAreaWidth:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.PenaltyAreaWidth = float32(int32(v))
		case fieldCenterCircleRadius:
			v, err := r.ReadVarint()
			if err != nil {
				return fs, err
			}
			fs.CenterCircleRadius = float32(int32(v))
		case fieldBallRadiusField:
			v, err := r.ReadFloat32()
			if err != nil {
				return fs, err
			}
			fs.BallRadius = v
		case fieldRobotRadiusField:
			v, err := r.ReadFloat32()
			if err != nil {
				return fs, err
			}
			fs.RobotRadius = v
		default:
			if err := r.Skip(wt); err != nil {
				return fs, err
			}
		}
	}
	return fs, nil
}
