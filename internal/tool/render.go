package tool

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"crabe/internal/model"
)

const (
	renderMargin = 40.0
	renderScale  = 80.0 // pixels per meter
)

// RenderField draws a top-down PNG of the current World for the
// /debug/field.png endpoint, grounded on the teacher's
// internal/streaming/stream.go gg.Context drawBackground/drawGrid/
// drawPlayers pipeline (background, field lines, then entities on top).
func RenderField(world *model.World, tools *model.ToolData) []byte {
	w := int(world.Geometry.FieldLength*renderScale + 2*renderMargin)
	h := int(world.Geometry.FieldWidth*renderScale + 2*renderMargin)
	if w <= 0 || h <= 0 {
		w, h = 800, 600
	}
	dc := gg.NewContext(w, h)

	drawBackground(dc, w, h)
	drawFieldLines(dc, world)
	if tools != nil && tools.Annotations != nil {
		drawAnnotations(dc, world, tools)
	}
	for id, r := range world.AlliesBot {
		drawRobot(dc, world, r.Pose.Position.X, r.Pose.Position.Y, r.Pose.Orientation, color.RGBA{30, 120, 220, 255}, id, r.HasBall)
	}
	for id, r := range world.EnemiesBot {
		drawRobot(dc, world, r.Pose.Position.X, r.Pose.Position.Y, r.Pose.Orientation, color.RGBA{230, 200, 20, 255}, id, r.HasBall)
	}
	if world.Ball != nil {
		drawBall(dc, world)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

func drawBackground(dc *gg.Context, w, h int) {
	dc.SetColor(color.RGBA{20, 90, 50, 255})
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
}

func toPixel(world *model.World, x, y float64) (float64, float64) {
	cx := renderMargin + (x+world.Geometry.FieldLength/2)*renderScale
	cy := renderMargin + (y+world.Geometry.FieldWidth/2)*renderScale
	return cx, cy
}

func drawFieldLines(dc *gg.Context, world *model.World) {
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	x0, y0 := toPixel(world, -world.Geometry.FieldLength/2, -world.Geometry.FieldWidth/2)
	x1, y1 := toPixel(world, world.Geometry.FieldLength/2, world.Geometry.FieldWidth/2)
	dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	dc.Stroke()

	cx, cy := toPixel(world, 0, 0)
	r := world.Geometry.CenterCircle.Radius * renderScale
	if r <= 0 {
		r = 0.5 * renderScale
	}
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
}

// drawAnnotations renders every tool annotation on top of the field lines
// and beneath the robots, matching the teacher's draw-order convention of
// background, then field/world decoration, then foreground entities.
func drawAnnotations(dc *gg.Context, world *model.World, tools *model.ToolData) {
	dc.SetLineWidth(1.5)
	for _, a := range tools.Annotations.All() {
		dc.SetColor(color.RGBA{255, 255, 255, 180})
		switch a.Kind {
		case model.AnnotationCircle:
			cx, cy := toPixel(world, a.Circle.Center.X, a.Circle.Center.Y)
			dc.DrawCircle(cx, cy, a.Circle.Radius*renderScale)
			dc.Stroke()
		case model.AnnotationLine:
			x0, y0 := toPixel(world, a.Line.Start.X, a.Line.Start.Y)
			x1, y1 := toPixel(world, a.Line.End.X, a.Line.End.Y)
			dc.DrawLine(x0, y0, x1, y1)
			dc.Stroke()
		case model.AnnotationRectangle:
			x0, y0 := toPixel(world, a.Rectangle.TopLeft.X, a.Rectangle.TopLeft.Y)
			dc.DrawRectangle(x0, y0, a.Rectangle.Width*renderScale, a.Rectangle.Height*renderScale)
			dc.Stroke()
		case model.AnnotationPoint:
			cx, cy := toPixel(world, a.Point.X, a.Point.Y)
			dc.DrawCircle(cx, cy, 3)
			dc.Fill()
		}
	}
}

func drawRobot(dc *gg.Context, world *model.World, x, y, orientation float64, fill color.Color, id uint8, hasBall bool) {
	cx, cy := toPixel(world, x, y)
	radius := world.Geometry.RobotRadius * renderScale
	if radius <= 0 {
		radius = 10
	}
	dc.SetColor(color.RGBA{0, 0, 0, 100})
	dc.DrawCircle(cx+1.5, cy+1.5, radius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.DrawLine(cx, cy, cx+radius*math.Cos(orientation), cy+radius*math.Sin(orientation))
	dc.SetLineWidth(2)
	dc.Stroke()

	if hasBall {
		dc.SetColor(color.RGBA{255, 140, 0, 255})
		dc.DrawCircle(cx, cy, radius*0.3)
		dc.Fill()
	}

	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%d", id), cx, cy, 0.5, 0.5)
}

func drawBall(dc *gg.Context, world *model.World) {
	pos := world.Ball.Position2D()
	cx, cy := toPixel(world, pos.X, pos.Y)
	dc.SetColor(color.RGBA{255, 140, 0, 255})
	dc.DrawCircle(cx, cy, world.Geometry.BallRadius*renderScale+2)
	dc.Fill()
}
