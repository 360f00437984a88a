package action

import (
	"math"
	"time"

	"crabe/internal/model"
	"crabe/internal/vmath"
)

// PID gains and tolerances, translated from
// original_source/crabe_decision/src/action/move_to_pid.rs.
const (
	pidKP = 2.5
	pidKI = 0.9
	pidKD = 1.0

	pidNumErrors = 100

	targetAttainedTol = 0.05
	thetaAttainedTol  = math.Pi / 64 // FRAC_PI_8 / 8
)

type pidError struct {
	err       [3]float64 // x, y, theta
	timestamp time.Time
	valid     bool
}

// pidErrorTracker is a fixed-size ring of past errors used to approximate
// the PID controller's integral (trapezoidal rule) and derivative
// (finite difference) terms without assuming a fixed tick period.
type pidErrorTracker struct {
	errors []pidError
	index  int
}

func newPIDErrorTracker() *pidErrorTracker {
	return &pidErrorTracker{errors: make([]pidError, pidNumErrors)}
}

func (t *pidErrorTracker) previousIndex() int {
	return ((t.index-1)%pidNumErrors + pidNumErrors) % pidNumErrors
}

func (t *pidErrorTracker) nextIndex() int { return (t.index + 1) % pidNumErrors }

func (t *pidErrorTracker) current() pidError  { return t.errors[t.index] }
func (t *pidErrorTracker) previous() pidError { return t.errors[t.previousIndex()] }

func (t *pidErrorTracker) save(err [3]float64, now time.Time) {
	t.errors[t.index] = pidError{err: err, timestamp: now, valid: true}
}

func (t *pidErrorTracker) advance() { t.index = t.nextIndex() }

// sum approximates the integral term over the whole ring via the
// trapezoidal rule, walking backward from the current sample.
func (t *pidErrorTracker) sum() [3]float64 {
	var total [3]float64
	idx := t.index
	for i := 0; i < pidNumErrors; i++ {
		cur := t.errors[idx]
		prevIdx := ((idx-1)%pidNumErrors + pidNumErrors) % pidNumErrors
		prev := t.errors[prevIdx]

		delta := 0.0
		if cur.valid && prev.valid {
			delta = cur.timestamp.Sub(prev.timestamp).Seconds()
		}
		for k := 0; k < 3; k++ {
			total[k] += delta * 0.5 * (cur.err[k] + prev.err[k])
		}
		idx = prevIdx
	}
	return total
}

// derivative estimates the derivative term by finite difference between
// the two most recent samples. It returns zero until two valid samples
// exist, and uses the nominal 16ms tick period when both samples carry the
// same timestamp.
func (t *pidErrorTracker) derivative() [3]float64 {
	cur := t.current()
	prev := t.previous()
	dt := 0.016
	if prev.valid && cur.valid {
		if d := cur.timestamp.Sub(prev.timestamp).Seconds(); d != 0 {
			dt = d
		}
	} else {
		return [3]float64{}
	}
	var out [3]float64
	for k := 0; k < 3; k++ {
		out[k] = (cur.err[k] - prev.err[k]) / dt
	}
	return out
}

// MoveToPID drives a robot to a target pose using a closed-loop PID
// controller instead of MoveTo's proportional-only control, for actions
// needing tighter tracking (ball placement, ball-carry).
type MoveToPID struct {
	state       State
	target      vmath.Vec2
	orientation float64
	dribbler    float64
	charge      bool
	kick        *model.Kick
	avoidance   bool
	tracker     *pidErrorTracker
}

func NewMoveToPID(target vmath.Vec2, orientation float64, dribbler float64, charge bool, kick *model.Kick, avoidance bool) *MoveToPID {
	return &MoveToPID{
		state:       Running,
		target:      target,
		orientation: orientation,
		dribbler:    dribbler,
		charge:      charge,
		kick:        kick,
		avoidance:   avoidance,
		tracker:     newPIDErrorTracker(),
	}
}

func (a *MoveToPID) Name() string { return "MoveToPID" }
func (a *MoveToPID) State() State { return a.state }
func (a *MoveToPID) Cancel()      { a.state = Failed }

func (a *MoveToPID) errorToTarget(robot *model.Robot[model.AllyInfo]) [3]float64 {
	localTarget := a.target.Sub(robot.Pose.Position).Rotate(-robot.Pose.Orientation)
	distToTarget := robot.Pose.Position.Distance(a.target)
	thetaDiff := vmath.AngleDiff(a.orientation, robot.Pose.Orientation)
	errTheta := wrapAngle(thetaDiff + (distToTarget+0.9)*thetaDiff)

	var out [3]float64
	if math.Abs(localTarget.X) > targetAttainedTol {
		out[0] = localTarget.X
	}
	if math.Abs(localTarget.Y) > targetAttainedTol {
		out[1] = localTarget.Y
	}
	if math.Abs(errTheta) > thetaAttainedTol {
		out[2] = errTheta
	}
	return out
}

func wrapAngle(a float64) float64 {
	return math.Mod(a+math.Pi, 2*math.Pi) - math.Pi
}

func (a *MoveToPID) ComputeOrder(id uint8, world *model.World, tools *model.ToolData) model.Command {
	robot, ok := world.AlliesBot[id]
	if !ok {
		return model.Command{}
	}

	now := time.Now()
	currentErr := a.errorToTarget(robot)
	a.tracker.save(currentErr, now)

	norm := math.Sqrt(currentErr[0]*currentErr[0] + currentErr[1]*currentErr[1] + currentErr[2]*currentErr[2])
	if norm <= targetAttainedTol+thetaAttainedTol {
		a.state = Done
		return model.Command{}
	}

	p := scale(currentErr, pidKP)
	i := scale(a.tracker.sum(), pidKI)
	d := scale(a.tracker.derivative(), pidKD)
	cmd := add(add(p, i), d)

	a.tracker.advance()

	return model.Command{
		ForwardVelocity: cmd[0],
		LeftVelocity:    cmd[1],
		AngularVelocity: cmd[2],
		Kick:            a.kick,
		Dribbler:        a.dribbler,
		Charge:          a.charge,
	}
}

func scale(v [3]float64, s float64) [3]float64 { return [3]float64{v[0] * s, v[1] * s, v[2] * s} }
func add(a, b [3]float64) [3]float64           { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
