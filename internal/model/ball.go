package model

import (
	"time"

	"crabe/internal/vmath"
)

// BallTouchInfo records the last robot known to have touched the ball.
type BallTouchInfo struct {
	RobotID   uint8
	TeamColor TeamColor
	Timestamp time.Time
	Position  vmath.Vec3
}

// Ball is the tracked ball state. Position/velocity/acceleration are 3-D
// (z captures chip-kick height); everything else in the data model is
// planar.
type Ball struct {
	Position     vmath.Vec3
	Velocity     vmath.Vec3
	Acceleration vmath.Vec3
	Timestamp    time.Time
	LastTouch    *BallTouchInfo
	Possession   *TeamColor
}

// Position2D projects the ball's position onto the field plane.
func (b *Ball) Position2D() vmath.Vec2 { return b.Position.XY() }

// ClosestRobot returns the id, distance, and ok of the robot in robots
// nearest to the ball, or ok=false if robots is empty.
func ClosestRobot[T any](b *Ball, robots RobotMap[T]) (id uint8, dist float64, ok bool) {
	best := -1.0
	found := false
	ballPos := b.Position2D()
	for rid, r := range robots {
		d := r.Pose.Position.Distance(ballPos)
		if !found || d < best {
			best, id, found = d, rid, true
		}
	}
	return id, best, found
}
