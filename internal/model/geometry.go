package model

import "crabe/internal/vmath"

// Goal describes one goal's mouth dimensions.
type Goal struct {
	Width float64
	Depth float64
}

// PenaltyArea describes one penalty area's dimensions.
type PenaltyArea struct {
	Width float64
	Depth float64
}

// Geometry is the field description populated from the vision geometry
// packet (§4.2a); it is stable across ticks once received. Filter rewrites
// it on each new geometry frame, except that RobotRadius and BallRadius
// keep their previous values when the frame does not carry them.
type Geometry struct {
	FieldLength float64
	FieldWidth  float64

	// Per-side rectangles, indexed by which side of x=0 they sit on.
	// PositiveGoal/PositivePenalty are on the +x side of the raw vision
	// frame; NegativeGoal/NegativePenalty on the -x side. Filter's
	// coordinate mirror (§4.2c) is applied to robot/ball positions only —
	// Geometry itself is reported in raw vision coordinates. The field is
	// symmetric, so after the mirror the ally goal is always NegativeGoal and
	// the enemy goal PositiveGoal; Decision's strategies use them that way.
	PositiveGoal    vmath.Rectangle
	NegativeGoal    vmath.Rectangle
	PositivePenalty vmath.Rectangle
	NegativePenalty vmath.Rectangle

	CenterCircle vmath.Circle

	RobotRadius float64
	BallRadius  float64

	// Received is false until the first geometry frame arrives; Decision
	// must not assume field dimensions before this is true.
	Received bool
}

// DefaultGeometry returns plausible Division B field dimensions so the
// pipeline has something sane to run against before the first geometry
// packet arrives.
func DefaultGeometry() Geometry {
	return Geometry{
		FieldLength: 9.0,
		FieldWidth:  6.0,
		RobotRadius: 0.09,
		BallRadius:  0.0215,
	}
}
