package strategy

import (
	"math"

	"crabe/internal/decision/action"
	"crabe/internal/decision/nav"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// Play is the open-run strategy: the robot closest to the ball chases and
// shoots at the widest open shooting window, every other assigned robot
// holds a supporting spread behind the ball. This stands in for the
// Attacker/Defender/Pivot tactical roles spec.md names as deliberately
// unspecified content — it is a complete, working instance of the
// Manager→Strategy→Action abstraction, not the tactical AI itself.
// Grounded on
// original_source/crabe_decision/src/strategy/offensive.rs's Attacker
// shape (chase-then-shoot) and navigation.rs's shooting-window helper.
type Play struct{ base }

func NewPlay(ids []uint8) *Play { return &Play{base: base{ids: ids}} }

func (*Play) Name() string { return "Play" }

func (p *Play) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	if world.Ball == nil || len(p.ids) == 0 {
		for _, id := range p.ids {
			actions.Clear(id)
		}
		return false
	}
	ball := world.Ball.Position2D()
	chaser, rest := closestToBall(world, p.ids, ball)

	goalX := world.Geometry.FieldLength / 2
	if goalX == 0 {
		goalX = 4.5
	}
	goalHalfWidth := world.Geometry.PositiveGoal.Height / 2
	if goalHalfWidth == 0 {
		goalHalfWidth = 0.5
	}
	goalLine := vmath.Line{
		Start: vmath.Vec2{X: goalX, Y: -goalHalfWidth},
		End:   vmath.Vec2{X: goalX, Y: goalHalfWidth},
	}

	var shadows []vmath.Circle
	for _, e := range world.EnemiesBot {
		shadows = append(shadows, vmath.Circle{
			Center: e.Pose.Position,
			Radius: world.Geometry.RobotRadius + world.Geometry.BallRadius + 0.01,
		})
	}
	windows := nav.ShootingWindows(ball, goalLine, shadows)
	target := goalLine.Start.Add(goalLine.End).Scale(0.5)
	if w, ok := nav.WidestWindow(windows); ok {
		target = w.Center()
	}

	if robot, ok := world.AlliesBot[chaser]; ok {
		kick := &model.Kick{Kind: model.StraightKick, Power: 4.0}
		actions.Clear(chaser)
		actions.Push(chaser, action.NewMoveTo(ball, angleTo(robot.Pose.Position, target), 1.0, true, kick, true))
		if robot.Pose.Position.Distance(ball) < world.Geometry.RobotRadius+world.Geometry.BallRadius+0.03 {
			p.queue(model.MessageData{From: p.Name(), Kind: "shot_taken", Payload: map[string]any{"bot": chaser, "target": target}})
		}
	}

	n := len(rest)
	for i, id := range rest {
		robot, ok := world.AlliesBot[id]
		if !ok {
			continue
		}
		support := vmath.Vec2{X: ball.X - 1.5, Y: spreadY(i, n, world.Geometry.FieldWidth)}
		actions.Clear(id)
		actions.Push(id, action.NewGoTo(support, 0, false, nil, false))
		_ = robot
	}
	return false
}

func angleTo(from, to vmath.Vec2) float64 {
	d := to.Sub(from)
	if d.Norm() < 1e-6 {
		return 0
	}
	return math.Atan2(d.Y, d.X)
}

func closestToBall(world *model.World, ids []uint8, ball vmath.Vec2) (uint8, []uint8) {
	best := ids[0]
	bestDist := -1.0
	for _, id := range ids {
		robot, ok := world.AlliesBot[id]
		if !ok {
			continue
		}
		d := robot.Pose.Position.Distance(ball)
		if bestDist < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	rest := make([]uint8, 0, len(ids)-1)
	for _, id := range ids {
		if id != best {
			rest = append(rest, id)
		}
	}
	return best, rest
}
