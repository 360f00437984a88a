package model

import (
	"time"

	"crabe/internal/vmath"
)

// AllyInfo carries decision-layer bookkeeping attached to one of our own
// robots (which strategy currently owns it, free-form status for the tool
// viewer). EnemyInfo is intentionally empty: we never need to attach
// decision state to a robot we don't control.
type AllyInfo struct {
	State   string
	Message string
}

type EnemyInfo struct{}

// Pose is a robot's 2-D position and orientation (radians).
type Pose struct {
	Position    vmath.Vec2
	Orientation float64
}

// Velocity is a robot's linear (m/s) and angular (rad/s) velocity.
type Velocity struct {
	Linear  vmath.Vec2
	Angular float64
}

// Acceleration is a robot's linear (m/s^2) and angular (rad/s^2) acceleration.
type Acceleration struct {
	Linear  vmath.Vec2
	Angular float64
}

// Robot is a tracked robot, parameterized over AllyInfo or EnemyInfo so the
// ally and enemy maps carry team-specific bookkeeping without duplicating
// the tracked-state fields. Identity equality is by ID within one team
// color — an AllyInfo robot id 3 and an EnemyInfo robot id 3 are unrelated.
type Robot[T any] struct {
	ID           uint8
	HasBall      bool
	Info         T
	Pose         Pose
	Velocity     Velocity
	Acceleration Acceleration
	Timestamp    time.Time
}

// Distance returns the Euclidean distance from the robot's position to p.
func (r *Robot[T]) Distance(p vmath.Vec2) float64 {
	return r.Pose.Position.Distance(p)
}

// RobotMap maps robot id (0..15) to its tracked state.
type RobotMap[T any] map[uint8]*Robot[T]
