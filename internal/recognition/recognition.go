/**
 * Recognition service boundary
 *
 * Shared types for text recognition. Two modes exist: an accurate mode
 * for scanning a small region of interest, and a fast mode for sustained
 * full-frame scanning. Engines return raw fragments; full-frame
 * post-processing (plausibility filter, case-insensitive dedup) is
 * applied uniformly here so every engine behaves the same.
 */

package recognition

import (
	"context"
	"strings"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/detection"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

// Mode selects the recognition speed/accuracy trade-off.
type Mode int

const (
	// ModeAccurate uses slower settings (higher minimum text height,
	// dictionary correction) for region-of-interest scans.
	ModeAccurate Mode = iota
	// ModeFast uses low-latency settings for full-frame scans.
	ModeFast
)

// ModeFor selects the profile for a Detect call: region-of-interest
// scans run accurate, full-frame scans run fast. Engines derive the
// trade-off from the call, not from construction-time state, so one
// recognizer instance serves both paths.
func ModeFor(roi *geometry.RectNorm) Mode {
	if roi != nil {
		return ModeAccurate
	}
	return ModeFast
}

// Fragment is a raw recognized text fragment before model conversion.
type Fragment struct {
	Text       string
	Confidence float64
	Box        geometry.RectNorm
}

// Recognizer detects text fragments in a frame. A nil roi means the full
// frame. Implementations never return partial results with an error: on
// any failure the fragment list is empty and the error describes why.
type Recognizer interface {
	Detect(ctx context.Context, frame capture.Frame, roi *geometry.RectNorm) ([]Fragment, error)
}

// Classifier is the optional object-classification capability. Engines
// that cannot classify simply do not implement it; text detection is the
// mandatory baseline.
type Classifier interface {
	Classify(ctx context.Context, frame capture.Frame, roi geometry.RectNorm) (label string, confidence float64, err error)
}

// PostprocessFullFrame applies the full-frame contract to raw fragments:
// drop implausible text, then case-insensitive dedup keeping first-seen
// casing.
func PostprocessFullFrame(fragments []Fragment) []Fragment {
	out := make([]Fragment, 0, len(fragments))
	seen := make(map[string]struct{}, len(fragments))
	for _, f := range fragments {
		text := detection.NormalizeText(f.Text)
		if !detection.PlausibleText(text) {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		f.Text = text
		out = append(out, f)
	}
	return out
}

// FilterToROI keeps fragments that overlap or are contained in the
// region of interest.
func FilterToROI(fragments []Fragment, roi geometry.RectNorm) []Fragment {
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Box.Intersects(roi) || f.Box.ContainedIn(roi) {
			out = append(out, f)
		}
	}
	return out
}
