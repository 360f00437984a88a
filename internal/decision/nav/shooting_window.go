package nav

import (
	"math"

	"crabe/internal/vmath"
)

// Window is an unobstructed slice of a goal line segment, described by
// its two endpoints.
type Window struct {
	Start, End vmath.Vec2
}

// Width returns the window's open span.
func (w Window) Width() float64 { return w.Start.Distance(w.End) }

// Center returns the midpoint of the window.
func (w Window) Center() vmath.Vec2 { return w.Start.Add(w.End).Scale(0.5) }

// ShootingWindows cuts goalLine into the segments still visible from
// viewpoint once every obstacle in obstacles (an enemy robot's angular
// shadow, typically) has been subtracted, per SPEC_FULL.md §4's
// standalone shooting-window supplement (crabe_decision's go-to-it-style
// strategies compute this inline; this factors it out as a reusable
// primitive since several strategies need it).
func ShootingWindows(viewpoint vmath.Vec2, goalLine vmath.Line, obstacles []vmath.Circle) []Window {
	windows := []Window{{Start: goalLine.Start, End: goalLine.End}}
	for _, obs := range obstacles {
		windows = cutWindows(windows, viewpoint, goalLine, obs)
	}
	return windows
}

// WidestWindow returns the widest window still open, and whether any
// window remains (an empty result means the goal is fully blocked).
func WidestWindow(windows []Window) (Window, bool) {
	best := Window{}
	found := false
	for _, w := range windows {
		if !found || w.Width() > best.Width() {
			best, found = w, true
		}
	}
	return best, found
}

// cutWindows removes, from every window, the angular shadow obstacle
// casts from viewpoint onto goalLine.
func cutWindows(windows []Window, viewpoint vmath.Vec2, goalLine vmath.Line, obstacle vmath.Circle) []Window {
	shadowStart, shadowEnd, ok := shadowOnLine(viewpoint, goalLine, obstacle)
	if !ok {
		return windows
	}
	var out []Window
	for _, w := range windows {
		out = append(out, subtractSpan(w, shadowStart, shadowEnd, goalLine)...)
	}
	return out
}

// shadowOnLine projects obstacle's silhouette, as seen from viewpoint,
// onto goalLine, returning the two points where the tangent lines through
// the circle cross the goal line.
func shadowOnLine(viewpoint vmath.Vec2, goalLine vmath.Line, obstacle vmath.Circle) (vmath.Vec2, vmath.Vec2, bool) {
	toCenter := obstacle.Center.Sub(viewpoint)
	dist := toCenter.Norm()
	if dist <= obstacle.Radius {
		return vmath.Vec2{}, vmath.Vec2{}, false
	}
	halfAngle := angleAsinSafe(obstacle.Radius / dist)
	dir := toCenter.Normalize()
	farDist := dist + obstacle.Radius*4 + goalLine.Length()
	left := viewpoint.Add(dir.Rotate(halfAngle).Scale(farDist))
	right := viewpoint.Add(dir.Rotate(-halfAngle).Scale(farDist))

	rayLeft := vmath.Line{Start: viewpoint, End: left}
	rayRight := vmath.Line{Start: viewpoint, End: right}

	pLeft, okLeft := intersectInfinite(rayLeft, goalLine)
	pRight, okRight := intersectInfinite(rayRight, goalLine)
	if !okLeft || !okRight {
		return vmath.Vec2{}, vmath.Vec2{}, false
	}
	return pLeft, pRight, true
}

func angleAsinSafe(x float64) float64 {
	if x > 1 {
		x = 1
	}
	if x < -1 {
		x = -1
	}
	return math.Asin(x)
}

// intersectInfinite finds where the ray from ray.Start through ray.End
// crosses the infinite extension of seg, clamped to lie within seg's
// bounds (a shadow edge landing past the goal posts clips to the post).
func intersectInfinite(ray, seg vmath.Line) (vmath.Vec2, bool) {
	r := ray.Vector()
	s := seg.Vector()
	denom := r.X*s.Y - r.Y*s.X
	if denom == 0 {
		return vmath.Vec2{}, false
	}
	qp := seg.Start.Sub(ray.Start)
	u := (qp.X*r.Y - qp.Y*r.X) / denom
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return seg.Start.Add(s.Scale(u)), true
}

// subtractSpan removes the portion of window w lying between shadowStart
// and shadowEnd (measured along goalLine), returning zero, one, or two
// remaining sub-windows.
func subtractSpan(w Window, shadowStart, shadowEnd vmath.Vec2, goalLine vmath.Line) []Window {
	dir := goalLine.Vector().Normalize()
	proj := func(p vmath.Vec2) float64 { return p.Sub(goalLine.Start).Dot(dir) }

	wLo, wHi := proj(w.Start), proj(w.End)
	if wLo > wHi {
		wLo, wHi = wHi, wLo
	}
	sLo, sHi := proj(shadowStart), proj(shadowEnd)
	if sLo > sHi {
		sLo, sHi = sHi, sLo
	}
	if sHi <= wLo || sLo >= wHi {
		return []Window{w}
	}

	var out []Window
	if sLo > wLo {
		out = append(out, Window{Start: pointAt(goalLine, wLo, dir), End: pointAt(goalLine, sLo, dir)})
	}
	if sHi < wHi {
		out = append(out, Window{Start: pointAt(goalLine, sHi, dir), End: pointAt(goalLine, wHi, dir)})
	}
	return out
}

func pointAt(goalLine vmath.Line, t float64, dir vmath.Vec2) vmath.Vec2 {
	return goalLine.Start.Add(dir.Scale(t))
}
