// Package nav implements R★, the recursive bidirectional obstacle
// avoidance search Decision's movement actions use to pick a short-range
// waypoint around allies, enemies, and the ball. Translated directly from
// original_source/crabe_decision/src/utils/navigation.rs — this is a
// straight port of the original's algorithm into idiomatic Go, not a
// redesign, since spec.md names R★ itself as the required behavior.
package nav

import (
	"math"

	"crabe/internal/model"
	"crabe/internal/vmath"
)

const (
	NoAvoidanceDist        = 0.4
	ExplorationStepsLength = 0.5
	ExplorationStopDist    = 0.4
	ExplorationAngle       = 0.1
	ExplorationIterations  = 8
	AvoidanceMargin        = 0.05
	BallAvoidanceMargin    = 0.03
	OvershootingDist       = 0.5
)

// ObstaclesFor collects every circle the moving robot (excluded by id)
// should avoid this tick: every other ally, every enemy, and the ball.
func ObstaclesFor(w *model.World, movingID uint8) []vmath.Circle {
	var out []vmath.Circle
	for id, r := range w.AlliesBot {
		if id == movingID {
			continue
		}
		out = append(out, vmath.Circle{Center: r.Pose.Position, Radius: w.Geometry.RobotRadius})
	}
	for _, r := range w.EnemiesBot {
		out = append(out, vmath.Circle{Center: r.Pose.Position, Radius: w.Geometry.RobotRadius})
	}
	if w.Ball != nil {
		out = append(out, vmath.Circle{Center: w.Ball.Position2D(), Radius: w.Geometry.BallRadius + BallAvoidanceMargin})
	}
	return out
}

// Avoid returns the next waypoint toward target, routing around objects
// when the direct trajectory is obstructed. robotRadius is the moving
// robot's own footprint; objects should come from ObstaclesFor.
func Avoid(start, target vmath.Vec2, objects []vmath.Circle, robotRadius float64) vmath.Vec2 {
	if start.Distance(target) <= NoAvoidanceDist {
		return target
	}
	avoidanceWidth := robotRadius + AvoidanceMargin

	trajectory := vmath.Line{Start: start, End: target}
	if len(frontObjectsInTrajectory(trajectory, objects, avoidanceWidth)) == 0 {
		return target
	}

	_, path := rStar(objects, avoidanceWidth, start, target, ExplorationIterations)
	path = append(path, start)
	reversePath(path)
	smoothed := smoothPath(path, objects, avoidanceWidth)

	if len(smoothed) > 1 {
		dir := smoothed[1].Sub(start)
		if dir.Norm() < OvershootingDist {
			return start.Add(dir.Normalize().Scale(OvershootingDist))
		}
		return start.Add(dir)
	}
	return target
}

func reversePath(path []vmath.Vec2) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

func frontObjectsInTrajectory(trajectory vmath.Line, circles []vmath.Circle, segmentWidth float64) []vmath.Circle {
	onSegment := trajectory.CirclesOnSegment(circles, segmentWidth)
	trajectoryVec := trajectory.Vector().Normalize()
	out := onSegment[:0:0]
	for _, obj := range onSegment {
		objVec := obj.Center.Sub(trajectory.Start).Normalize()
		if trajectoryVec.Dot(objVec) > 0.1 {
			out = append(out, obj)
		}
	}
	return out
}

// rStar recursively explores left/right detours around start until a
// detour lands within ExplorationStopDist of target, returning the path
// length and the waypoint chain (target-to-start order, matching the
// original's accumulation direction; Avoid reverses it before use).
func rStar(objects []vmath.Circle, segmentWidth float64, start, target vmath.Vec2, iterations int) (float64, []vmath.Vec2) {
	if iterations == 0 {
		return 0, []vmath.Vec2{start}
	}
	_, leftTarget := firstFreeAngle(objects, segmentWidth, start, target, false)
	_, rightTarget := firstFreeAngle(objects, segmentWidth, start, target, true)

	if leftTarget.Distance(target) < ExplorationStopDist || rightTarget.Distance(target) < ExplorationStopDist {
		return target.Distance(start), []vmath.Vec2{target}
	}

	lenLeft, pathLeft := rStar(objects, segmentWidth, leftTarget, target, iterations-1)
	lenRight, pathRight := rStar(objects, segmentWidth, rightTarget, target, iterations-1)

	distLeft := target.Distance(pathLeft[0])
	distRight := target.Distance(pathRight[0])

	const tolerance = 0.01
	switch {
	case distLeft < tolerance && distRight < tolerance:
		if lenLeft < lenRight {
			return lenLeft + leftTarget.Distance(start), append(pathLeft, leftTarget)
		}
		return lenRight + rightTarget.Distance(start), append(pathRight, rightTarget)
	case distLeft < tolerance:
		return lenLeft + leftTarget.Distance(start), append(pathLeft, leftTarget)
	default:
		return lenRight + rightTarget.Distance(start), append(pathRight, rightTarget)
	}
}

// firstFreeAngle rotates the start->target direction, one exploration
// step at a time, until it finds an unobstructed short hop, searching in
// the given rotation direction.
func firstFreeAngle(objects []vmath.Circle, segmentWidth float64, start, target vmath.Vec2, positiveRotation bool) (float64, vmath.Vec2) {
	angle := 0.0
	newTarget := target
	baseDir := target.Sub(start).Normalize()
	for angle < math.Pi && angle > -math.Pi {
		dir := baseDir.Rotate(angle)
		newTarget = start.Add(dir.Normalize().Scale(ExplorationStepsLength))
		trajectory := vmath.Line{Start: start, End: newTarget}
		if len(frontObjectsInTrajectory(trajectory, objects, segmentWidth)) == 0 {
			return angle, newTarget
		}
		if positiveRotation {
			angle += ExplorationAngle
		} else {
			angle -= ExplorationAngle
		}
	}
	return angle, newTarget
}

// smoothPath drops waypoints that a direct, unobstructed line can skip
// over, shortening the R★ detour chain into its minimal form.
func smoothPath(path []vmath.Vec2, objects []vmath.Circle, segmentWidth float64) []vmath.Vec2 {
	if len(path) <= 2 {
		return path
	}
	newPath := []vmath.Vec2{path[0]}
	i := 0
	for i < len(path) {
		j := i + 1
		for j < len(path) && len(frontObjectsInTrajectory(vmath.Line{Start: path[i], End: path[j]}, objects, segmentWidth)) == 0 {
			j++
		}
		newPath = append(newPath, path[j-1])
		i = j
	}
	return newPath
}
