package wire

// Raw SSL_Referee.Command wire values (upstream referee.proto enum).
const (
	CommandHalt                 = 0
	CommandStop                 = 1
	CommandNormalStart          = 2
	CommandForceStart           = 3
	CommandPrepareKickoffYellow = 4
	CommandPrepareKickoffBlue   = 5
	CommandPreparePenaltyYellow = 6
	CommandPreparePenaltyBlue   = 7
	CommandDirectFreeYellow     = 8
	CommandDirectFreeBlue       = 9
	CommandTimeoutYellow        = 12
	CommandTimeoutBlue          = 13
	CommandBallPlacementYellow  = 16
	CommandBallPlacementBlue    = 17
)

// RefereePacket is the subset of SSL_Referee this stack consumes.
type RefereePacket struct {
	PacketTimestamp uint64
	Stage           int32
	Command         int32
	CommandCounter  uint32
	CommandTimestamp uint64
	Yellow          RefereeTeamInfo
	Blue            RefereeTeamInfo
	DesignatedPosition *RefereePoint
	BlueTeamOnPositiveHalf *bool
	NextCommand     *int32
	GameEvents      []RefereeGameEvent
	CurrentActionTimeRemaining *int32 // microseconds
}

// RefereeTeamInfo mirrors SSL_Referee.TeamInfo.
type RefereeTeamInfo struct {
	Name             string
	Score            uint32
	RedCards         uint32
	YellowCards      uint32
	Timeouts         uint32
	GoalkeeperID     uint32
	FoulCounter      uint32
}

// RefereePoint mirrors SSL_Referee.Point (mm, vision frame).
type RefereePoint struct {
	X, Y float32
}

// RefereeGameEvent is the minimal subset of the game_event.proto oneof
// this stack needs: the event's type tag, plus slots for the offending/
// affected team and field origin. decodeGameEvent fills only Type; Team
// and Origin stay nil for decoded packets.
type RefereeGameEvent struct {
	Type   int32
	Team   *int32 // 0=yellow, 1=blue, matching SSL_Referee.Team
	Origin *RefereePoint
}

// Referee packet field numbers (SSL_Referee).
const (
	fieldRefPacketTimestamp  = 1
	fieldRefStage            = 2
	fieldRefCommand          = 4
	fieldRefCommandCounter   = 5
	fieldRefCommandTimestamp = 6
	fieldRefYellow           = 7
	fieldRefBlue             = 8
	fieldRefDesignatedPos    = 9
	fieldRefBlueOnPositive   = 10
	fieldRefNextCommand      = 12
	fieldRefGameEvents       = 16
	fieldRefActionTimeRemaining = 15
)

// TeamInfo field numbers.
const (
	fieldTeamName        = 1
	fieldTeamScore       = 2
	fieldTeamRedCards    = 3
	fieldTeamYellowCards = 5
	fieldTeamTimeouts    = 4
	fieldTeamGoalkeeper  = 8
	fieldTeamFoulCounter = 11
)

// Point field numbers.
const (
	fieldPointX = 1
	fieldPointY = 2
)

// GameEvent field numbers (flattened: only the type tag is decoded; every
// oneof payload variant is skipped as an unknown field).
const (
	fieldEventType   = 1
	fieldEventTeam   = 100 // placeholder tag; no decoder reads it
)

// DecodeRefereePacket parses an SSL_Referee protobuf message.
func DecodeRefereePacket(data []byte) (*RefereePacket, error) {
	r := NewReader(data)
	pkt := &RefereePacket{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case fieldRefPacketTimestamp:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			pkt.PacketTimestamp = v
		case fieldRefStage:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			pkt.Stage = int32(v)
		case fieldRefCommand:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			pkt.Command = int32(v)
		case fieldRefCommandCounter:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			pkt.CommandCounter = uint32(v)
		case fieldRefCommandTimestamp:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			pkt.CommandTimestamp = v
		case fieldRefYellow:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			ti, err := decodeTeamInfo(b)
			if err != nil {
				return nil, err
			}
			pkt.Yellow = ti
		case fieldRefBlue:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			ti, err := decodeTeamInfo(b)
			if err != nil {
				return nil, err
			}
			pkt.Blue = ti
		case fieldRefDesignatedPos:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			pt, err := decodePoint(b)
			if err != nil {
				return nil, err
			}
			pkt.DesignatedPosition = &pt
		case fieldRefBlueOnPositive:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			b := v != 0
			pkt.BlueTeamOnPositiveHalf = &b
		case fieldRefNextCommand:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			n := int32(v)
			pkt.NextCommand = &n
		case fieldRefActionTimeRemaining:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			n := int32(decodeZigzag(v))
			pkt.CurrentActionTimeRemaining = &n
		case fieldRefGameEvents:
			b, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			ev, err := decodeGameEvent(b)
			if err != nil {
				return nil, err
			}
			pkt.GameEvents = append(pkt.GameEvents, ev)
		default:
			if err := r.Skip(wt); err != nil {
				return nil, err
			}
		}
	}
	return pkt, nil
}

func decodeZigzag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

func decodeTeamInfo(data []byte) (RefereeTeamInfo, error) {
	r := NewReader(data)
	ti := RefereeTeamInfo{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return ti, err
		}
		switch field {
		case fieldTeamName:
			s, err := r.ReadString()
			if err != nil {
				return ti, err
			}
			ti.Name = s
		case fieldTeamScore:
			v, err := r.ReadVarint()
			if err != nil {
				return ti, err
			}
			ti.Score = uint32(v)
		case fieldTeamRedCards:
			v, err := r.ReadVarint()
			if err != nil {
				return ti, err
			}
			ti.RedCards = uint32(v)
		case fieldTeamYellowCards:
			v, err := r.ReadVarint()
			if err != nil {
				return ti, err
			}
			ti.YellowCards = uint32(v)
		case fieldTeamTimeouts:
			v, err := r.ReadVarint()
			if err != nil {
				return ti, err
			}
			ti.Timeouts = uint32(v)
		case fieldTeamGoalkeeper:
			v, err := r.ReadVarint()
			if err != nil {
				return ti, err
			}
			ti.GoalkeeperID = uint32(v)
		case fieldTeamFoulCounter:
			v, err := r.ReadVarint()
			if err != nil {
				return ti, err
			}
			ti.FoulCounter = uint32(v)
		default:
			if err := r.Skip(wt); err != nil {
				return ti, err
			}
		}
	}
	return ti, nil
}

func decodePoint(data []byte) (RefereePoint, error) {
	r := NewReader(data)
	pt := RefereePoint{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return pt, err
		}
		switch field {
		case fieldPointX:
			v, err := r.ReadFloat32()
			if err != nil {
				return pt, err
			}
			pt.X = v
		case fieldPointY:
			v, err := r.ReadFloat32()
			if err != nil {
				return pt, err
			}
			pt.Y = v
		default:
			if err := r.Skip(wt); err != nil {
				return pt, err
			}
		}
	}
	return pt, nil
}

// decodeGameEvent only extracts the event type tag; per-event-type payload
// fields vary by oneof case and are not needed beyond classification
// (spec.md §4.3 only branches on event type and stopping-foul membership).
func decodeGameEvent(data []byte) (RefereeGameEvent, error) {
	r := NewReader(data)
	ev := RefereeGameEvent{}
	for r.Len() > 0 {
		field, wt, err := r.ReadTag()
		if err != nil {
			return ev, err
		}
		if field == fieldEventType {
			v, err := r.ReadVarint()
			if err != nil {
				return ev, err
			}
			ev.Type = int32(v)
		} else if err := r.Skip(wt); err != nil {
			return ev, err
		}
	}
	return ev, nil
}

// EncodeRefereePacket serializes pkt's header, team info, designated
// position and positive-half flag (not NextCommand, GameEvents or
// CurrentActionTimeRemaining). Nothing in the stack calls it; production
// input only decodes.
func EncodeRefereePacket(pkt *RefereePacket) []byte {
	w := NewWriter()
	w.WriteVarintField(fieldRefPacketTimestamp, pkt.PacketTimestamp)
	w.WriteVarintField(fieldRefStage, uint64(pkt.Stage))
	w.WriteVarintField(fieldRefCommand, uint64(pkt.Command))
	w.WriteVarintField(fieldRefCommandCounter, uint64(pkt.CommandCounter))
	w.WriteVarintField(fieldRefCommandTimestamp, pkt.CommandTimestamp)
	w.WriteMessage(fieldRefYellow, func(sw *Writer) { encodeTeamInfo(sw, pkt.Yellow) })
	w.WriteMessage(fieldRefBlue, func(sw *Writer) { encodeTeamInfo(sw, pkt.Blue) })
	if pkt.DesignatedPosition != nil {
		w.WriteMessage(fieldRefDesignatedPos, func(sw *Writer) {
			sw.WriteFloat32(fieldPointX, pkt.DesignatedPosition.X)
			sw.WriteFloat32(fieldPointY, pkt.DesignatedPosition.Y)
		})
	}
	if pkt.BlueTeamOnPositiveHalf != nil {
		w.WriteBool(fieldRefBlueOnPositive, *pkt.BlueTeamOnPositiveHalf)
	}
	return w.Bytes()
}

func encodeTeamInfo(w *Writer, ti RefereeTeamInfo) {
	w.WriteString(fieldTeamName, ti.Name)
	w.WriteVarintField(fieldTeamScore, uint64(ti.Score))
	w.WriteVarintField(fieldTeamRedCards, uint64(ti.RedCards))
	w.WriteVarintField(fieldTeamYellowCards, uint64(ti.YellowCards))
	w.WriteVarintField(fieldTeamTimeouts, uint64(ti.Timeouts))
	w.WriteVarintField(fieldTeamGoalkeeper, uint64(ti.GoalkeeperID))
	w.WriteVarintField(fieldTeamFoulCounter, uint64(ti.FoulCounter))
}
