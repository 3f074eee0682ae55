/**
 * Translation overlays
 *
 * A TranslationOverlay binds a translated phrase to a position: a mutable
 * screen position in 2D mode, optionally a world anchor in 3D mode. An
 * overlay not refreshed by re-detection inside the staleness window
 * becomes eligible for eviction.
 */

package overlay

import (
	"time"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/detection"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

// StaleAfter is the staleness window: an overlay unseen for longer is
// removed on the next maintenance pass.
const StaleAfter = 3 * time.Second

// Overlay is a screen-anchored translation result.
type Overlay struct {
	ID             string
	OriginalText   string
	TranslatedText string

	// ScreenPosition tracks the literal detected position; it is
	// overwritten verbatim on re-detection, jitter included.
	ScreenPosition geometry.Point
	// BoundingBox is the detection's box in source coordinates. Fixed at
	// creation.
	BoundingBox geometry.RectNorm
	// WorldPosition is set when the overlay is anchored in 3D.
	WorldPosition *geometry.Vector3

	LastSeen    time.Time
	UpdateCount int

	WordCount int
	TextType  detection.TextType
}

// IsStale reports whether the overlay has outlived the staleness window.
func (o *Overlay) IsStale(now time.Time) bool {
	return now.Sub(o.LastSeen) > StaleAfter
}
