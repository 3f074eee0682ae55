package geometry

import (
	"math"
	"testing"
)

func TestCapsuleContains(t *testing.T) {
	// A wide label plane: width 0.3, height 0.1, corner radius 0.05.
	const w, h = 0.3, 0.1

	testCases := []struct {
		name  string
		local Point
		want  bool
	}{
		{name: "center", local: Point{X: 0.5, Y: 0.5}, want: true},
		{name: "central slab top edge", local: Point{X: 0.5, Y: 0.0}, want: true},
		{name: "central slab bottom edge", local: Point{X: 0.5, Y: 1.0}, want: true},
		{name: "left cap center", local: Point{X: 0.05 / w, Y: 0.5}, want: true},
		{name: "right cap center", local: Point{X: (w - 0.05) / w, Y: 0.5}, want: true},
		// The plane's corners are outside the rounded outline.
		{name: "top-left corner", local: Point{X: 0.0, Y: 0.0}, want: false},
		{name: "top-right corner", local: Point{X: 1.0, Y: 0.0}, want: false},
		{name: "bottom-left corner", local: Point{X: 0.0, Y: 1.0}, want: false},
		{name: "bottom-right corner", local: Point{X: 1.0, Y: 1.0}, want: false},
		// Mid-height left edge sits exactly on the cap circle.
		{name: "left edge midpoint", local: Point{X: 0.0, Y: 0.5}, want: true},
		{name: "outside the plane", local: Point{X: 1.2, Y: 0.5}, want: false},
		{name: "negative coordinates", local: Point{X: -0.1, Y: 0.5}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CapsuleContains(tc.local, w, h); got != tc.want {
				t.Errorf("CapsuleContains(%+v) = %v, want %v", tc.local, got, tc.want)
			}
		})
	}
}

func TestCapsuleContainsDegenerate(t *testing.T) {
	if CapsuleContains(Point{X: 0.5, Y: 0.5}, 0, 0.1) {
		t.Error("zero width must not contain anything")
	}
	if CapsuleContains(Point{X: 0.5, Y: 0.5}, 0.3, 0) {
		t.Error("zero height must not contain anything")
	}
}

func TestRectNormToScreen(t *testing.T) {
	viewport := Size{Width: 400, Height: 800}

	// A box whose center is at (0.5, 0.75) in bottom-left normalized
	// space maps to the upper half of a top-left-origin screen.
	box := RectNorm{X: 0.4, Y: 0.7, Width: 0.2, Height: 0.1}
	got := box.ToScreen(viewport)
	if math.Abs(got.X-200) > 1e-9 {
		t.Errorf("screen X = %v, want 200", got.X)
	}
	if math.Abs(got.Y-200) > 1e-9 {
		t.Errorf("screen Y = %v, want 200 (vertical axis flipped)", got.Y)
	}
}

func TestRectNormIntersects(t *testing.T) {
	a := RectNorm{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3}

	testCases := []struct {
		name string
		b    RectNorm
		want bool
	}{
		{name: "overlapping", b: RectNorm{X: 0.3, Y: 0.3, Width: 0.3, Height: 0.3}, want: true},
		{name: "contained", b: RectNorm{X: 0.15, Y: 0.15, Width: 0.1, Height: 0.1}, want: true},
		{name: "disjoint", b: RectNorm{X: 0.6, Y: 0.6, Width: 0.2, Height: 0.2}, want: false},
		{name: "edge touching", b: RectNorm{X: 0.4, Y: 0.1, Width: 0.2, Height: 0.2}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.b); got != tc.want {
				t.Errorf("Intersects = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRectNormContainedIn(t *testing.T) {
	outer := RectNorm{X: 0.1, Y: 0.1, Width: 0.6, Height: 0.6}
	inner := RectNorm{X: 0.2, Y: 0.2, Width: 0.2, Height: 0.2}
	if !inner.ContainedIn(outer) {
		t.Error("inner should be contained in outer")
	}
	if outer.ContainedIn(inner) {
		t.Error("outer should not be contained in inner")
	}
	straddling := RectNorm{X: 0.6, Y: 0.2, Width: 0.3, Height: 0.2}
	if straddling.ContainedIn(outer) {
		t.Error("straddling box should not be contained")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v", got)
	}
}
