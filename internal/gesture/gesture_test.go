/**
 * Gesture hit-testing tests
 *
 * Uses the fake scene's orthographic projection: labels placed in world
 * space, gestures delivered in screen points. Verifies rounded-capsule
 * rejection at plane corners and nearest-center resolution for
 * overlapping labels.
 */

package gesture

import (
	"testing"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/annotation"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/scene"
)

type fakeSuspender struct {
	suspended int
}

func (f *fakeSuspender) SuspendDetection() { f.suspended++ }

// placeAnnotation adds an annotation whose capsule is centered at the
// given screen point and returns its projected center.
func placeAnnotation(t *testing.T, store *annotation.Store, text string, at geometry.Point) {
	t.Helper()
	if !store.Add(text, at) {
		t.Fatalf("failed to place %q", text)
	}
}

func TestTapInsideCapsuleShowsDetail(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	susp := &fakeSuspender{}
	h := NewHandler(sc, store, susp, nil)

	var shown string
	h.OnShowDetail = func(text string) { shown = text }

	center := geometry.Point{X: 195, Y: 422}
	placeAnnotation(t, store, "coffee", center)

	if !h.HandleTap(center, nil) {
		t.Fatal("tap at the label center missed")
	}
	if shown != "coffee" {
		t.Errorf("detail text = %q, want %q", shown, "coffee")
	}
	if susp.suspended != 1 {
		t.Errorf("detection suspended %d times, want 1", susp.suspended)
	}
}

func TestTapInPlaneCornerFallsThrough(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	h := NewHandler(sc, store, nil, nil)

	center := geometry.Point{X: 195, Y: 422}
	placeAnnotation(t, store, "coffee", center)

	// The label plane's corner lies inside the bounding rectangle but
	// outside the rounded capsule.
	node := store.Annotations()[0].Node
	halfW := node.Width * 200 / 2
	halfH := node.Height * 200 / 2
	corner := geometry.Point{X: center.X - halfW + 0.5, Y: center.Y - halfH + 0.5}

	if h.HandleTap(corner, nil) {
		t.Error("tap in the squared-off corner should fall through")
	}
}

func TestTapNowhereReturnsFalse(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	susp := &fakeSuspender{}
	h := NewHandler(sc, store, susp, nil)
	placeAnnotation(t, store, "coffee", geometry.Point{X: 195, Y: 422})

	if h.HandleTap(geometry.Point{X: 10, Y: 10}, nil) {
		t.Error("tap far from every label reported a hit")
	}
	if susp.suspended != 0 {
		t.Error("missed tap suspended detection")
	}
}

func TestOverlappingLabelsResolveToNearestCenter(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	h := NewHandler(sc, store, nil, nil)

	var shown string
	h.OnShowDetail = func(text string) { shown = text }

	// Two labels close enough that their capsules overlap.
	placeAnnotation(t, store, "left", geometry.Point{X: 195, Y: 422})
	placeAnnotation(t, store, "right", geometry.Point{X: 210, Y: 422})

	// Tap nearer the right label's center.
	if !h.HandleTap(geometry.Point{X: 205, Y: 422}, nil) {
		t.Fatal("tap inside both capsules missed")
	}
	if shown != "right" {
		t.Errorf("resolved to %q, want the nearest center %q", shown, "right")
	}
}

func TestTapHitsTranslationLabels(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	h := NewHandler(sc, store, nil, nil)

	var shown string
	h.OnShowDetail = func(text string) { shown = text }

	// A translation billboard, not a manual annotation.
	node := scene.NewLabelNode("menú", 0.2, 0.05, geometry.Vector3{X: 0, Y: 0, Z: -0.5})
	sc.AddNode(node)

	if !h.HandleTap(geometry.Point{X: 195, Y: 422}, []*scene.LabelNode{node}) {
		t.Fatal("tap on a translation label missed")
	}
	if shown != "menú" {
		t.Errorf("detail text = %q", shown)
	}
}

func TestLongPressRequestsDelete(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	susp := &fakeSuspender{}
	h := NewHandler(sc, store, susp, nil)

	var gotIndex int
	var gotName string
	h.OnRequestDelete = func(index int, displayName string) {
		gotIndex = index
		gotName = displayName
	}

	placeAnnotation(t, store, "first", geometry.Point{X: 100, Y: 200})
	placeAnnotation(t, store, "second", geometry.Point{X: 300, Y: 600})

	if !h.HandleLongPress(geometry.Point{X: 300, Y: 600}) {
		t.Fatal("long-press on the second annotation missed")
	}
	if gotIndex != 1 {
		t.Errorf("delete index = %d, want 1", gotIndex)
	}
	if gotName != "second" {
		t.Errorf("display name = %q, want %q", gotName, "second")
	}
	if susp.suspended != 1 {
		t.Error("long-press did not suspend detection")
	}

	// The request is pending; confirming deletes the right one.
	done := make(chan struct{})
	if !store.ConfirmDelete(func() { close(done) }) {
		t.Fatal("confirm failed")
	}
	<-done
	items := store.Annotations()
	if len(items) != 1 || items[0].Text != "first" {
		t.Errorf("wrong annotation deleted: %+v", items)
	}
}

func TestLongPressIgnoresTranslationLabels(t *testing.T) {
	sc := scene.NewFake()
	store := annotation.NewStore(sc, nil, nil)
	h := NewHandler(sc, store, nil, nil)

	// Only a translation billboard at the press point.
	node := scene.NewLabelNode("menú", 0.2, 0.05, geometry.Vector3{X: 0, Y: 0, Z: -0.5})
	sc.AddNode(node)

	if h.HandleLongPress(geometry.Point{X: 195, Y: 422}) {
		t.Error("long-press matched a translation label")
	}
}
