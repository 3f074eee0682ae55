package recognition

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
)

// encodeFrame converts a raw RGBA frame into PNG bytes for the OCR
// engine, applying the frame's orientation so text is upright. Returns
// an error on malformed pixel data; callers treat that as an empty
// detection result.
func encodeFrame(frame capture.Frame) ([]byte, error) {
	expected := frame.Width * frame.Height * 4
	if frame.Width <= 0 || frame.Height <= 0 || len(frame.Data) != expected {
		return nil, fmt.Errorf("malformed frame: %dx%d with %d bytes (want %d)",
			frame.Width, frame.Height, len(frame.Data), expected)
	}

	img := &image.NRGBA{
		Pix:    frame.Data,
		Stride: frame.Width * 4,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}

	oriented := reorient(img, frame.Orientation)

	var buf bytes.Buffer
	if err := png.Encode(&buf, oriented); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// reorient rotates the image so recognized text reads upright.
func reorient(img *image.NRGBA, o capture.Orientation) *image.NRGBA {
	switch o {
	case capture.OrientationUp:
		return img
	case capture.OrientationDown:
		return rotate180(img)
	case capture.OrientationRight:
		return rotate90(img)
	default:
		return rotate270(img)
	}
}

func rotate90(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(h-1-y, x, src.NRGBAAt(x, y))
		}
	}
	return dst
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(w-1-x, h-1-y, src.NRGBAAt(x, y))
		}
	}
	return dst
}

func rotate270(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(y, w-1-x, src.NRGBAAt(x, y))
		}
	}
	return dst
}
