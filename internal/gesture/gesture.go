/**
 * Gesture hit-testing
 *
 * Maps a 2D tap or long-press onto the 3D label it was aimed at. A label
 * only counts as hit when the tap lands inside its rounded-capsule
 * outline, not just its bounding plane, so taps in the plane's corners
 * fall through. Overlapping labels resolve to the one whose projected
 * center is closest to the gesture point.
 */

package gesture

import (
	"github.com/bestfriendai/Lingo-lens-sub002/internal/annotation"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/scene"
)

// Suspender pauses active detection while a detail or confirmation view
// is up, so the pipeline stops fighting over the camera feed.
type Suspender interface {
	SuspendDetection()
}

// Handler routes gestures to annotations and translation labels.
type Handler struct {
	sc        scene.Scene
	store     *annotation.Store
	suspender Suspender
	log       *logging.Logger

	// OnShowDetail receives the original text of a tapped label.
	OnShowDetail func(text string)
	// OnRequestDelete receives the index and truncated display name of a
	// long-pressed annotation.
	OnRequestDelete func(index int, displayName string)
}

// NewHandler creates a gesture handler.
func NewHandler(sc scene.Scene, store *annotation.Store, suspender Suspender, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{sc: sc, store: store, suspender: suspender, log: log}
}

// HandleTap hit-tests a tap against every manual annotation plus any
// extra labels (translation billboards). On a match the originating text
// is surfaced for the detail flow and detection is suspended. Returns
// false when nothing was hit.
func (h *Handler) HandleTap(p geometry.Point, extra []*scene.LabelNode) bool {
	labels := h.annotationLabels()
	labels = append(labels, extra...)

	match := h.nearestMatch(p, labels)
	if match == nil {
		h.log.Debug("tap hit nothing", "x", p.X, "y", p.Y)
		return false
	}

	if h.suspender != nil {
		h.suspender.SuspendDetection()
	}
	if h.OnShowDetail != nil {
		h.OnShowDetail(match.Text)
	}
	return true
}

// HandleLongPress hit-tests a long-press against manual annotations only
// and, on a match, suspends detection and requests delete confirmation.
func (h *Handler) HandleLongPress(p geometry.Point) bool {
	match := h.nearestMatch(p, h.annotationLabels())
	if match == nil {
		h.log.Debug("long-press hit nothing", "x", p.X, "y", p.Y)
		return false
	}

	index, ok := h.store.IndexOfNode(match.ID())
	if !ok {
		return false
	}
	displayName, ok := h.store.RequestDelete(index)
	if !ok {
		return false
	}

	if h.suspender != nil {
		h.suspender.SuspendDetection()
	}
	if h.OnRequestDelete != nil {
		h.OnRequestDelete(index, displayName)
	}
	return true
}

func (h *Handler) annotationLabels() []*scene.LabelNode {
	items := h.store.Annotations()
	labels := make([]*scene.LabelNode, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Node)
	}
	return labels
}

// nearestMatch returns the capsule-hit label whose projected center is
// closest to the gesture point.
func (h *Handler) nearestMatch(p geometry.Point, labels []*scene.LabelNode) *scene.LabelNode {
	var best *scene.LabelNode
	var bestDist float64
	for _, label := range labels {
		local, ok := h.sc.HitTestPlane(p, label)
		if !ok {
			continue
		}
		if !geometry.CapsuleContains(local, label.Width, label.Height) {
			continue
		}
		dist := h.sc.ProjectPoint(label.WorldPosition()).Distance(p)
		if best == nil || dist < bestDist {
			best = label
			bestDist = dist
		}
	}
	return best
}
