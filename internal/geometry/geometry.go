package geometry

import "math"

// Point is a position in screen coordinates (origin top-left, y down).
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Size is a width/height pair in screen points.
type Size struct {
	Width  float64
	Height float64
}

// Rect is a rectangle in screen coordinates (origin top-left).
type Rect struct {
	Origin Point
	Size   Size
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Vector3 is a position in 3D world space.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// RectNorm is a normalized rectangle in source-image coordinates: all
// components are in [0,1] and the origin is bottom-left, matching the
// convention recognition results are reported in.
type RectNorm struct {
	X      float64 // left edge
	Y      float64 // bottom edge
	Width  float64
	Height float64
}

// Center returns the normalized center of the rectangle.
func (r RectNorm) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Intersects reports whether the two rectangles overlap.
func (r RectNorm) Intersects(o RectNorm) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// ContainedIn reports whether r lies entirely inside o.
func (r RectNorm) ContainedIn(o RectNorm) bool {
	return r.X >= o.X && r.Y >= o.Y &&
		r.X+r.Width <= o.X+o.Width && r.Y+r.Height <= o.Y+o.Height
}

// ToScreen maps the rectangle's center into screen coordinates for the
// given viewport, flipping the vertical axis (normalized space is
// bottom-left origin, screen space is top-left).
func (r RectNorm) ToScreen(viewport Size) Point {
	cx, cy := r.Center()
	return Point{
		X: cx * viewport.Width,
		Y: (1 - cy) * viewport.Height,
	}
}

// CapsuleContains reports whether a point in a label's local normalized
// space ([0,1] on both axes) falls inside the label's rounded-capsule
// outline for a plane of the given width/height aspect. The capsule's
// corner radius is half the plane height, so taps in the square corners
// of the bounding plane are rejected.
func CapsuleContains(local Point, width, height float64) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if local.X < 0 || local.X > 1 || local.Y < 0 || local.Y > 1 {
		return false
	}
	// Work in plane units.
	x := local.X * width
	y := local.Y * height
	radius := height / 2
	if radius > width/2 {
		radius = width / 2
	}
	// Central slab between the two end caps.
	if x >= radius && x <= width-radius {
		return true
	}
	// End caps: distance from the nearest cap center.
	cx := radius
	if x > width-radius {
		cx = width - radius
	}
	dx := x - cx
	dy := y - radius
	return dx*dx+dy*dy <= radius*radius
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
