/**
 * Camera frame source boundary
 *
 * The pipeline consumes frames through the Source interface. A Source
 * delivers tens of frames per second; consumers must never block the
 * delivery path. Frame carries only the minimal payload (pixels,
 * dimensions, timestamp) so holding one does not retain scarce camera
 * resources.
 */

package capture

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Orientation describes how the pixel data is rotated relative to the
// device's natural orientation.
type Orientation int

const (
	OrientationUp Orientation = iota
	OrientationRight
	OrientationDown
	OrientationLeft
)

// Frame is a single camera frame. Data is tightly packed RGBA.
type Frame struct {
	Seq         uint64
	Timestamp   time.Time
	Width       int
	Height      int
	Data        []byte
	Orientation Orientation
}

// Source produces camera frames. Start is non-blocking; frames arrive on
// the channel returned by Frames until Stop or context cancellation.
// Sources drop frames rather than block when the consumer lags.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Frames() <-chan Frame
}

// SyntheticSource generates flat gray frames at a fixed rate. Used by the
// demo binary and tests when no camera is attached.
type SyntheticSource struct {
	width    int
	height   int
	interval time.Duration

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	frames  chan Frame
	wg      sync.WaitGroup
}

// NewSyntheticSource creates a synthetic source producing frames of the
// given dimensions at the given frame rate.
func NewSyntheticSource(width, height int, fps float64) *SyntheticSource {
	if fps <= 0 {
		fps = 30
	}
	return &SyntheticSource{
		width:    width,
		height:   height,
		interval: time.Duration(float64(time.Second) / fps),
		frames:   make(chan Frame, 1),
	}
}

// Start begins frame generation. Safe to call once.
func (s *SyntheticSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("synthetic source already started")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

func (s *SyntheticSource) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			seq++
			frame := Frame{
				Seq:       seq,
				Timestamp: now,
				Width:     s.width,
				Height:    s.height,
				Data:      make([]byte, s.width*s.height*4),
			}
			for i := range frame.Data {
				frame.Data[i] = 0x80
			}
			select {
			case s.frames <- frame:
			default:
				// Consumer busy: latest-frame-wins, drop this one.
			}
		}
	}
}

// Stop halts generation. Idempotent.
func (s *SyntheticSource) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	return nil
}

// Frames returns the frame delivery channel.
func (s *SyntheticSource) Frames() <-chan Frame {
	return s.frames
}
