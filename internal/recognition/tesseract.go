/**
 * Tesseract recognition engine
 *
 * Word-level text detection with bounding boxes and confidences via
 * Tesseract. A fresh client is created per call; Tesseract clients are
 * not safe for concurrent reuse and creation is cheap next to inference.
 */

package recognition

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
)

// TesseractConfig holds engine configuration.
type TesseractConfig struct {
	// Languages are Tesseract language codes (e.g. "eng", "spa").
	Languages []string
	// TessdataPrefix overrides the trained-data directory. Empty uses the
	// system default.
	TessdataPrefix string
}

// Tesseract recognizes text fragments using the Tesseract engine.
type Tesseract struct {
	cfg TesseractConfig
	log *logging.Logger
}

// NewTesseract creates a Tesseract-backed recognizer.
func NewTesseract(cfg TesseractConfig, log *logging.Logger) (*Tesseract, error) {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Tesseract{cfg: cfg, log: log}, nil
}

// Detect implements Recognizer. The ROI argument selects the engine
// profile: region scans run accurate settings, full-frame scans run fast
// settings. Failures are returned as an error with an empty fragment
// list; the caller logs and treats them as no detections.
func (t *Tesseract) Detect(ctx context.Context, frame capture.Frame, roi *geometry.RectNorm) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded, err := encodeFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("image conversion failed: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := applyMode(client, ModeFor(roi)); err != nil {
		return nil, err
	}
	if err := client.SetImageFromBytes(encoded); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract detection failed: %w", err)
	}

	fragments := make([]Fragment, 0, len(boxes))
	for _, b := range boxes {
		fragments = append(fragments, Fragment{
			Text:       b.Word,
			Confidence: b.Confidence / 100.0,
			Box:        normalizeBox(b.Box.Min.X, b.Box.Min.Y, b.Box.Max.X, b.Box.Max.Y, frame.Width, frame.Height),
		})
	}

	if roi != nil {
		fragments = FilterToROI(fragments, *roi)
	} else {
		fragments = PostprocessFullFrame(fragments)
	}
	return fragments, nil
}

// applyMode tunes the engine per mode: the accurate path enables
// dictionary correction and a higher minimum text height, the fast path
// disables correction and scans sparsely for throughput.
func applyMode(client *gosseract.Client, mode Mode) error {
	switch mode {
	case ModeAccurate:
		if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
			return fmt.Errorf("set page seg mode: %w", err)
		}
		if err := client.SetVariable("tessedit_enable_dict_correction", "1"); err != nil {
			return fmt.Errorf("enable dict correction: %w", err)
		}
		if err := client.SetVariable("textord_min_xheight", "16"); err != nil {
			return fmt.Errorf("set min xheight: %w", err)
		}
	default:
		if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
			return fmt.Errorf("set page seg mode: %w", err)
		}
		if err := client.SetVariable("tessedit_enable_dict_correction", "0"); err != nil {
			return fmt.Errorf("disable dict correction: %w", err)
		}
		if err := client.SetVariable("textord_min_xheight", "8"); err != nil {
			return fmt.Errorf("set min xheight: %w", err)
		}
	}
	return nil
}

// normalizeBox converts pixel coordinates (top-left origin, y down) into
// the normalized bottom-left-origin convention recognition results use.
func normalizeBox(minX, minY, maxX, maxY, width, height int) geometry.RectNorm {
	if width <= 0 || height <= 0 {
		return geometry.RectNorm{}
	}
	w := float64(width)
	h := float64(height)
	return geometry.RectNorm{
		X:      float64(minX) / w,
		Y:      (h - float64(maxY)) / h,
		Width:  float64(maxX-minX) / w,
		Height: float64(maxY-minY) / h,
	}
}
