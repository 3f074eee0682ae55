package recognition

import (
	"context"
	"sync"
	"time"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/capture"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

// StubConfig configures the stub recognizer.
type StubConfig struct {
	// ProcessingDelay simulates inference time.
	ProcessingDelay time.Duration
	// Fragments are returned for every Detect call, after the same
	// per-call post-processing the real engine applies.
	Fragments []Fragment
	// Err, when set, is returned instead of fragments.
	Err error
	// Label and LabelConfidence back the optional Classify capability.
	Label           string
	LabelConfidence float64
}

// Stub is a deterministic recognizer for tests and the demo binary.
type Stub struct {
	cfg StubConfig

	mu    sync.Mutex
	calls int
}

// NewStub creates a stub recognizer.
func NewStub(cfg StubConfig) *Stub {
	return &Stub{cfg: cfg}
}

// Detect implements Recognizer.
func (s *Stub) Detect(ctx context.Context, frame capture.Frame, roi *geometry.RectNorm) ([]Fragment, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.cfg.ProcessingDelay > 0 {
		select {
		case <-time.After(s.cfg.ProcessingDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.cfg.Err != nil {
		return nil, s.cfg.Err
	}

	fragments := make([]Fragment, len(s.cfg.Fragments))
	copy(fragments, s.cfg.Fragments)
	if roi != nil {
		fragments = FilterToROI(fragments, *roi)
	} else {
		fragments = PostprocessFullFrame(fragments)
	}
	return fragments, nil
}

// Classify implements the optional Classifier capability.
func (s *Stub) Classify(ctx context.Context, frame capture.Frame, roi geometry.RectNorm) (string, float64, error) {
	if s.cfg.Err != nil {
		return "", 0, s.cfg.Err
	}
	return s.cfg.Label, s.cfg.LabelConfidence, nil
}

// Calls reports how many Detect calls were made.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
