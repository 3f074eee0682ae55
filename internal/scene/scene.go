/**
 * AR scene boundary
 *
 * The pipeline never talks to a rendering engine directly; it works
 * against this interface: ray-casting a screen point onto a detected
 * surface, inserting and removing renderable nodes, and projecting world
 * positions back to the screen for hit-testing.
 */

package scene

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

// TrackingState describes the quality of world tracking.
type TrackingState int

const (
	TrackingNormal TrackingState = iota
	TrackingLimited
	TrackingNotAvailable
)

// Node is a renderable scene object.
type Node interface {
	ID() string
	WorldPosition() geometry.Vector3
	SetScale(scale float64)
}

// Hit is the result of a successful ray-cast.
type Hit struct {
	WorldPosition geometry.Vector3
}

// Scene is the tracking session surface the pipeline depends on.
type Scene interface {
	// Raycast projects a screen point into the scene and returns the
	// nearest surface hit, if any.
	Raycast(p geometry.Point) (Hit, bool)
	AddNode(n Node)
	RemoveNode(n Node)
	// ChildCount reports how many nodes are attached.
	ChildCount() int
	// ProjectPoint maps a world position to screen coordinates.
	ProjectPoint(w geometry.Vector3) geometry.Point
	// HitTestPlane intersects a screen point with a label node's visible
	// plane, returning the intersection in the label's local normalized
	// coordinate space ([0,1] both axes) when the plane is struck.
	HitTestPlane(p geometry.Point, n Node) (geometry.Point, bool)
	TrackingState() TrackingState
}

// LabelNode is a billboard text label: a capsule-shaped plane that
// always faces the camera.
type LabelNode struct {
	id string

	Text   string
	Width  float64 // plane width in world units
	Height float64 // plane height in world units
	Color  string

	mu       sync.Mutex
	position geometry.Vector3
	scale    float64
}

// NewLabelNode creates a billboard label at the given world position.
func NewLabelNode(text string, width, height float64, position geometry.Vector3) *LabelNode {
	return &LabelNode{
		id:       uuid.New().String(),
		Text:     text,
		Width:    width,
		Height:   height,
		position: position,
		scale:    1,
	}
}

// ID implements Node.
func (n *LabelNode) ID() string { return n.id }

// WorldPosition implements Node.
func (n *LabelNode) WorldPosition() geometry.Vector3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.position
}

// SetScale implements Node. Scale applies uniformly to the label plane.
func (n *LabelNode) SetScale(scale float64) {
	n.mu.Lock()
	n.scale = scale
	n.mu.Unlock()
}

// Scale returns the current uniform scale.
func (n *LabelNode) Scale() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scale
}
