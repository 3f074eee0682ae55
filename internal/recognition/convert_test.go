package recognition

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
)

func solidFrame(w, h int, o capture.Orientation) capture.Frame {
	data := make([]byte, w*h*4)
	for i := range data {
		data[i] = 0xff
	}
	return capture.Frame{Width: w, Height: h, Data: data, Orientation: o}
}

func TestEncodeFrameRejectsMalformedData(t *testing.T) {
	testCases := []struct {
		name  string
		frame capture.Frame
	}{
		{name: "short buffer", frame: capture.Frame{Width: 4, Height: 4, Data: make([]byte, 10)}},
		{name: "zero width", frame: capture.Frame{Width: 0, Height: 4, Data: nil}},
		{name: "nil data", frame: capture.Frame{Width: 4, Height: 4, Data: nil}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := encodeFrame(tc.frame); err == nil {
				t.Error("malformed frame encoded without error")
			}
		})
	}
}

func TestEncodeFrameProducesDecodablePNG(t *testing.T) {
	out, err := encodeFrame(solidFrame(8, 4, capture.OrientationUp))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 4) {
		t.Errorf("bounds = %v, want 8x4", img.Bounds())
	}
}

func TestEncodeFrameAppliesOrientation(t *testing.T) {
	// Rotating a landscape frame by 90 degrees swaps its dimensions.
	out, err := encodeFrame(solidFrame(8, 4, capture.OrientationRight))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 8) {
		t.Errorf("bounds = %v, want dimensions swapped to 4x8", img.Bounds())
	}
}
