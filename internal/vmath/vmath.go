// Package vmath provides the 2-D geometric primitives shared by the filter,
// decision, and guard pipelines: points/vectors, line segments, circles and
// axis-aligned rectangles, plus the rotation helper used by the obstacle
// avoidance search.
package vmath

import "math"

// Vec2 is a 2-D vector or point. The package uses one type for both roles,
// matching the teacher's preference for small, allocation-free value types
// passed by value through the hot tick path.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Norm() }

// Normalize returns the unit vector in the direction of v, or the zero
// vector if v itself is zero.
func (v Vec2) Normalize() Vec2 {
	n := v.Norm()
	if n == 0 {
		return Vec2{}
	}
	return v.Scale(1 / n)
}

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

// FromAngle returns the unit vector pointing at angle radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// AngleDiff normalizes alpha1-alpha2 into [-pi, pi].
func AngleDiff(alpha1, alpha2 float64) float64 {
	d := alpha1 - alpha2
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// Vec3 is a 3-D vector, used only for the ball's position/velocity/
// acceleration (everything else in the control stack is planar).
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Line is a 2-D segment between Start and End.
type Line struct {
	Start, End Vec2
}

func NewLine(start, end Vec2) Line { return Line{Start: start, End: end} }

func (l Line) Vector() Vec2 { return l.End.Sub(l.Start) }

func (l Line) Length() float64 { return l.Vector().Norm() }

// ClosestPoint returns the point on the segment closest to p.
func (l Line) ClosestPoint(p Vec2) Vec2 {
	seg := l.Vector()
	segLenSq := seg.Dot(seg)
	if segLenSq == 0 {
		return l.Start
	}
	t := p.Sub(l.Start).Dot(seg) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return l.Start.Add(seg.Scale(t))
}

// Intersect reports whether l and o (both treated as segments) cross.
func (l Line) Intersect(o Line) bool {
	_, ok := l.Intersection(o)
	return ok
}

// Intersection returns the point where the two segments cross, if any.
func (l Line) Intersection(o Line) (Vec2, bool) {
	r := l.Vector()
	s := o.Vector()
	denom := r.X*s.Y - r.Y*s.X
	if denom == 0 {
		return Vec2{}, false
	}
	qp := o.Start.Sub(l.Start)
	t := (qp.X*s.Y - qp.Y*s.X) / denom
	u := (qp.X*r.Y - qp.Y*r.X) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, false
	}
	return l.Start.Add(r.Scale(t)), true
}

// Circle is a disc obstacle: an obstacle-avoidance target, a robot's
// collision footprint, or the ball's avoidance margin.
type Circle struct {
	Center Vec2
	Radius float64
}

func NewCircle(center Vec2, radius float64) Circle { return Circle{Center: center, Radius: radius} }

// CirclesOnSegment returns every circle in circles whose center lies within
// width of the segment l.
func (l Line) CirclesOnSegment(circles []Circle, width float64) []Circle {
	var out []Circle
	for _, c := range circles {
		closest := l.ClosestPoint(c.Center)
		if closest.Distance(c.Center) <= width+c.Radius {
			out = append(out, c)
		}
	}
	return out
}

// Rectangle is an axis-aligned rectangle described by its top-left corner
// (largest y, smallest x, matching the field's y-up convention) and its
// width/height.
type Rectangle struct {
	Width, Height float64
	TopLeft       Vec2
	TopRight      Vec2
	BottomLeft    Vec2
	BottomRight   Vec2
	Center        Vec2
}

// NewRectangle builds a Rectangle from its top-left corner, mirroring the
// original implementation's (width, height, top_left) constructor.
func NewRectangle(width, height float64, topLeft Vec2) Rectangle {
	return Rectangle{
		Width:       width,
		Height:      height,
		TopLeft:     topLeft,
		TopRight:    Vec2{topLeft.X + width, topLeft.Y},
		BottomLeft:  Vec2{topLeft.X, topLeft.Y - height},
		BottomRight: Vec2{topLeft.X + width, topLeft.Y - height},
		Center:      Vec2{topLeft.X + width/2, topLeft.Y - height/2},
	}
}

// Contains reports whether p lies within the rectangle's bounds.
func (r Rectangle) Contains(p Vec2) bool {
	minX, maxX := r.TopLeft.X, r.TopRight.X
	minY, maxY := r.BottomLeft.Y, r.TopLeft.Y
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}
