package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// StubEngineConfig configures the stub engine.
type StubEngineConfig struct {
	// ProcessingDelay simulates translation latency.
	ProcessingDelay time.Duration
	// Dictionary maps [target language][source text] to translated text.
	// Misses fall back to "[target] " + source text.
	Dictionary map[string]map[string]string
	// PrepareCalls before Ready reports true; zero means immediately
	// ready.
	PrepareCalls int
	// Err, when set, fails every Translate call.
	Err error
	// Gate, when non-nil, blocks Translate until the channel is closed.
	// Tests use it to hold a request in flight deterministically.
	Gate chan struct{}
}

// StubEngine is a deterministic in-memory engine for tests and the demo
// binary.
type StubEngine struct {
	cfg StubEngineConfig

	mu         sync.Mutex
	readyPolls int
	translated int
}

// NewStubEngine creates a stub engine.
func NewStubEngine(cfg StubEngineConfig) *StubEngine {
	return &StubEngine{cfg: cfg}
}

// NewSession implements Engine.
func (e *StubEngine) NewSession(source, target string) (Session, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("source and target languages are required")
	}
	return &stubSession{engine: e, source: source, target: target}, nil
}

// Translations reports how many Translate calls completed.
func (e *StubEngine) Translations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.translated
}

type stubSession struct {
	engine *StubEngine
	source string
	target string
}

func (s *stubSession) Translate(ctx context.Context, text string) (string, error) {
	cfg := s.engine.cfg
	if cfg.Gate != nil {
		select {
		case <-cfg.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if cfg.ProcessingDelay > 0 {
		select {
		case <-time.After(cfg.ProcessingDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if cfg.Err != nil {
		return "", cfg.Err
	}

	s.engine.mu.Lock()
	s.engine.translated++
	s.engine.mu.Unlock()

	if byTarget, ok := cfg.Dictionary[s.target]; ok {
		if hit, ok := byTarget[text]; ok {
			return hit, nil
		}
	}
	return "[" + strings.ToUpper(s.target) + "] " + text, nil
}

func (s *stubSession) Prepare(ctx context.Context) error { return nil }

func (s *stubSession) Ready(ctx context.Context) (bool, error) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.engine.readyPolls++
	return s.engine.readyPolls > s.engine.cfg.PrepareCalls, nil
}

func (s *stubSession) Close() error { return nil }
