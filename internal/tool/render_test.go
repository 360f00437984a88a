package tool

import (
	"bytes"
	"testing"

	"crabe/internal/model"
	"crabe/internal/vmath"
)

func TestRenderFieldProducesAPNG(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.AlliesBot[0] = &model.Robot[model.AllyInfo]{ID: 0, Pose: model.Pose{Position: vmath.Vec2{X: 1, Y: 1}}}
	world.EnemiesBot[1] = &model.Robot[model.EnemyInfo]{ID: 1, Pose: model.Pose{Position: vmath.Vec2{X: -1, Y: -1}}}
	world.Ball = &model.Ball{}
	tools := model.NewToolData()
	tools.Annotations.AddCircle("zone", vmath.Circle{Center: vmath.Vec2{X: 0, Y: 0}, Radius: 0.5})

	png := RenderField(world, &tools)

	if len(png) == 0 {
		t.Fatalf("expected a non-empty PNG")
	}
	if !bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("expected PNG magic header")
	}
}

func TestRenderFieldHandlesZeroGeometry(t *testing.T) {
	world := &model.World{TeamColor: model.Blue, AlliesBot: model.RobotMap[model.AllyInfo]{}, EnemiesBot: model.RobotMap[model.EnemyInfo]{}}
	png := RenderField(world, nil)
	if len(png) == 0 {
		t.Fatalf("expected RenderField to fall back to a default canvas size")
	}
}
