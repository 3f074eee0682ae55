/**
 * Region of interest
 *
 * The user-adjustable rectangle that constrains manual/ROI-mode
 * detection. Invariants: never smaller than the minimum usable size,
 * always inside a fixed margin from the container edges, and re-derived
 * (not naively rescaled) when the container changes so the region keeps
 * its aspect ratio and stays centered where the user left it.
 */

package roi

import (
	"math"
	"sync"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

const (
	// MinWidth and MinHeight are the smallest usable region dimensions.
	MinWidth  = 100.0
	MinHeight = 100.0
	// EdgeMargin keeps the region away from the container edges.
	EdgeMargin = 16.0
)

// Region is a mutable screen-space rectangle. Safe for concurrent use.
type Region struct {
	mu        sync.Mutex
	rect      geometry.Rect
	container geometry.Size
}

// NewRegion creates a region centered in the container at roughly half
// its width and a third of its height.
func NewRegion(container geometry.Size) *Region {
	r := &Region{container: container}
	r.rect = defaultRect(container)
	return r
}

func defaultRect(container geometry.Size) geometry.Rect {
	w := geometry.Clamp(container.Width*0.6, MinWidth, container.Width-2*EdgeMargin)
	h := geometry.Clamp(container.Height*0.3, MinHeight, container.Height-2*EdgeMargin)
	return clampRect(geometry.Rect{
		Origin: geometry.Point{
			X: (container.Width - w) / 2,
			Y: (container.Height - h) / 2,
		},
		Size: geometry.Size{Width: w, Height: h},
	}, container)
}

// clampRect enforces the minimum size and the edge margin.
func clampRect(r geometry.Rect, container geometry.Size) geometry.Rect {
	r.Size.Width = geometry.Clamp(r.Size.Width, MinWidth, container.Width-2*EdgeMargin)
	r.Size.Height = geometry.Clamp(r.Size.Height, MinHeight, container.Height-2*EdgeMargin)
	r.Origin.X = geometry.Clamp(r.Origin.X, EdgeMargin, container.Width-EdgeMargin-r.Size.Width)
	r.Origin.Y = geometry.Clamp(r.Origin.Y, EdgeMargin, container.Height-EdgeMargin-r.Size.Height)
	return r
}

// Rect returns the current rectangle.
func (r *Region) Rect() geometry.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rect
}

// Center returns the rectangle's center point.
func (r *Region) Center() geometry.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rect.Center()
}

// SetRect replaces the rectangle, clamped to the invariants.
func (r *Region) SetRect(rect geometry.Rect) {
	r.mu.Lock()
	r.rect = clampRect(rect, r.container)
	r.mu.Unlock()
}

// SetContainer re-derives the region for a new container size (device
// rotation): the region keeps its aspect ratio and relative area and is
// re-centered on its previous relative center, rather than having its
// coordinates scaled axis-by-axis.
func (r *Region) SetContainer(container geometry.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if container.Width <= 0 || container.Height <= 0 {
		return
	}
	old := r.container
	r.container = container
	if old.Width <= 0 || old.Height <= 0 {
		r.rect = defaultRect(container)
		return
	}

	aspect := r.rect.Size.Width / r.rect.Size.Height
	areaFraction := (r.rect.Size.Width * r.rect.Size.Height) / (old.Width * old.Height)
	area := areaFraction * container.Width * container.Height

	newH := MinHeight
	if aspect > 0 && area > 0 {
		newH = math.Sqrt(area / aspect)
	}
	newW := newH * aspect

	center := r.rect.Center()
	relX := center.X / old.Width
	relY := center.Y / old.Height

	r.rect = clampRect(geometry.Rect{
		Origin: geometry.Point{
			X: relX*container.Width - newW/2,
			Y: relY*container.Height - newH/2,
		},
		Size: geometry.Size{Width: newW, Height: newH},
	}, container)
}

// Normalized converts the region to normalized image coordinates
// (bottom-left origin) for the recognizer.
func (r *Region) Normalized() geometry.RectNorm {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.container.Width <= 0 || r.container.Height <= 0 {
		return geometry.RectNorm{}
	}
	return geometry.RectNorm{
		X:      r.rect.Origin.X / r.container.Width,
		Y:      (r.container.Height - r.rect.MaxY()) / r.container.Height,
		Width:  r.rect.Size.Width / r.container.Width,
		Height: r.rect.Size.Height / r.container.Height,
	}
}
