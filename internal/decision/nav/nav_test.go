package nav

import (
	"testing"

	"crabe/internal/vmath"
)

func TestAvoidGoesStraightWhenNoObstacle(t *testing.T) {
	start := vmath.Vec2{X: 0, Y: 0}
	target := vmath.Vec2{X: 2, Y: 0}
	got := Avoid(start, target, nil, 0.09)
	if got != target {
		t.Fatalf("expected direct path to target, got %v", got)
	}
}

func TestAvoidStaysAtTargetWithinNoAvoidanceDist(t *testing.T) {
	start := vmath.Vec2{X: 0, Y: 0}
	target := vmath.Vec2{X: 0.2, Y: 0}
	obstacles := []vmath.Circle{{Center: vmath.Vec2{X: 0.1, Y: 0}, Radius: 0.09}}
	got := Avoid(start, target, obstacles, 0.09)
	if got != target {
		t.Fatalf("expected short hop to bypass avoidance, got %v", got)
	}
}

func TestAvoidRoutesAroundObstacle(t *testing.T) {
	start := vmath.Vec2{X: 0, Y: 0}
	target := vmath.Vec2{X: 2, Y: 0}
	obstacles := []vmath.Circle{{Center: vmath.Vec2{X: 1, Y: 0}, Radius: 0.2}}

	got := Avoid(start, target, obstacles, 0.09)
	if got == target {
		t.Fatalf("expected a detour waypoint, got direct target")
	}
	if got.Distance(start) > ExplorationStepsLength+OvershootingDist+0.01 {
		t.Fatalf("detour waypoint too far from start: %v", got)
	}
}

func TestFrontObjectsInTrajectoryIgnoresBehindRobot(t *testing.T) {
	trajectory := vmath.Line{Start: vmath.Vec2{X: 0, Y: 0}, End: vmath.Vec2{X: 1, Y: 0}}
	behind := []vmath.Circle{{Center: vmath.Vec2{X: -1, Y: 0}, Radius: 0.1}}
	if got := frontObjectsInTrajectory(trajectory, behind, 0.2); len(got) != 0 {
		t.Fatalf("expected no objects behind the robot to count, got %v", got)
	}
}
