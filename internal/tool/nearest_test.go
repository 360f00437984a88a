package tool

import (
	"testing"

	"crabe/internal/model"
	"crabe/internal/vmath"
)

func TestNearestQueryFindsRobotsWithinRadius(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.AlliesBot[1] = &model.Robot[model.AllyInfo]{ID: 1, Pose: model.Pose{Position: vmath.Vec2{X: 0, Y: 0}}}
	world.AlliesBot[2] = &model.Robot[model.AllyInfo]{ID: 2, Pose: model.Pose{Position: vmath.Vec2{X: 3, Y: 0}}}
	world.Ball = &model.Ball{Position: vmath.Vec3{X: 0.1, Y: 0}}

	q := BuildNearestQuery(world)
	near := q.QueryRadius(0, 0, 0.5)

	foundAlly, foundBall := false, false
	for _, e := range near {
		if e.Kind == "ally" && e.ID == 1 {
			foundAlly = true
		}
		if e.Kind == "ball" {
			foundBall = true
		}
	}
	if !foundAlly {
		t.Fatalf("expected ally 1 near origin, got %+v", near)
	}
	if !foundBall {
		t.Fatalf("expected ball near origin, got %+v", near)
	}
	for _, e := range near {
		if e.Kind == "ally" && e.ID == 2 {
			t.Fatalf("did not expect distant ally 2 in result: %+v", near)
		}
	}
}

func TestNearestQueryEmptyWorldReturnsNoCandidates(t *testing.T) {
	world := model.NewWorld(model.Blue)
	q := BuildNearestQuery(world)
	if got := q.QueryRadius(0, 0, 1); len(got) != 0 {
		t.Fatalf("expected no candidates in an empty world, got %+v", got)
	}
}
