package scene

import (
	"sync"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

// Fake is an in-memory Scene for tests and the demo binary. Ray-casts
// succeed against a single configurable plane; projection is a simple
// orthographic mapping from world x/y to screen points.
type Fake struct {
	mu sync.Mutex

	nodes map[string]Node

	// RaycastHit, when true, makes ray-casts succeed at RaycastDepth.
	raycastHit   bool
	raycastDepth float32

	// PointsPerUnit scales world units to screen points for projection.
	PointsPerUnit float64
	// ScreenCenter is where world origin projects to.
	ScreenCenter geometry.Point

	tracking TrackingState
}

// NewFake creates a fake scene with ray-casts succeeding at depth -0.5
// and a 200 points-per-unit projection centered on a 390x844 screen.
func NewFake() *Fake {
	return &Fake{
		nodes:         make(map[string]Node),
		raycastHit:    true,
		raycastDepth:  -0.5,
		PointsPerUnit: 200,
		ScreenCenter:  geometry.Point{X: 195, Y: 422},
		tracking:      TrackingNormal,
	}
}

// SetRaycastHit controls whether ray-casts find a surface.
func (f *Fake) SetRaycastHit(hit bool) {
	f.mu.Lock()
	f.raycastHit = hit
	f.mu.Unlock()
}

// SetTrackingState sets the reported tracking quality.
func (f *Fake) SetTrackingState(s TrackingState) {
	f.mu.Lock()
	f.tracking = s
	f.mu.Unlock()
}

// Raycast implements Scene. A hit lands on the plane at the configured
// depth, with world x/y derived from the screen point through the
// inverse of the projection.
func (f *Fake) Raycast(p geometry.Point) (Hit, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.raycastHit {
		return Hit{}, false
	}
	return Hit{WorldPosition: geometry.Vector3{
		X: float32((p.X - f.ScreenCenter.X) / f.PointsPerUnit),
		Y: float32((f.ScreenCenter.Y - p.Y) / f.PointsPerUnit),
		Z: f.raycastDepth,
	}}, true
}

// AddNode implements Scene.
func (f *Fake) AddNode(n Node) {
	f.mu.Lock()
	f.nodes[n.ID()] = n
	f.mu.Unlock()
}

// RemoveNode implements Scene.
func (f *Fake) RemoveNode(n Node) {
	f.mu.Lock()
	delete(f.nodes, n.ID())
	f.mu.Unlock()
}

// ChildCount implements Scene.
func (f *Fake) ChildCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nodes)
}

// ProjectPoint implements Scene.
func (f *Fake) ProjectPoint(w geometry.Vector3) geometry.Point {
	return geometry.Point{
		X: f.ScreenCenter.X + float64(w.X)*f.PointsPerUnit,
		Y: f.ScreenCenter.Y - float64(w.Y)*f.PointsPerUnit,
	}
}

// HitTestPlane implements Scene. Labels are billboards, so the visible
// plane is axis-aligned in screen space: the screen point is mapped into
// the label's local normalized space from the projected center and the
// scaled plane extents.
func (f *Fake) HitTestPlane(p geometry.Point, n Node) (geometry.Point, bool) {
	label, ok := n.(*LabelNode)
	if !ok {
		return geometry.Point{}, false
	}
	center := f.ProjectPoint(label.WorldPosition())
	halfW := label.Width * label.Scale() * f.PointsPerUnit / 2
	halfH := label.Height * label.Scale() * f.PointsPerUnit / 2
	if halfW <= 0 || halfH <= 0 {
		return geometry.Point{}, false
	}
	local := geometry.Point{
		X: (p.X-center.X)/(2*halfW) + 0.5,
		Y: (p.Y-center.Y)/(2*halfH) + 0.5,
	}
	if local.X < 0 || local.X > 1 || local.Y < 0 || local.Y > 1 {
		return geometry.Point{}, false
	}
	return local, true
}

// TrackingState implements Scene.
func (f *Fake) TrackingState() TrackingState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracking
}
