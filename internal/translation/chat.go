/**
 * Chat translation flow
 *
 * The chat context allows at most one in-flight request and enforces a
 * minimum spacing between accepted requests. A request arriving while
 * one is pending, or inside the spacing window, is dropped silently:
 * spam prevention, not queuing.
 */

package translation

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/bestfriendai/Lingo-lens-sub002/internal/errors"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
)

// DefaultChatInterval is the minimum spacing between accepted chat
// requests.
const DefaultChatInterval = 2 * time.Second

// ChatResult delivers a finished chat translation.
type ChatResult struct {
	Request    Pending
	Translated string
	Err        error
}

// Chat is the rate-limited request/response translation flow.
type Chat struct {
	engine      Engine
	cache       Cache
	minInterval time.Duration
	now         func() time.Time
	log         *logging.Logger

	mu           sync.Mutex
	pending      *Pending
	lastAccepted time.Time
}

// NewChat creates a chat flow. cache may be nil; now may be nil for
// wall-clock time.
func NewChat(engine Engine, cache Cache, minInterval time.Duration, now func() time.Time, log *logging.Logger) *Chat {
	if minInterval <= 0 {
		minInterval = DefaultChatInterval
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Chat{
		engine:      engine,
		cache:       cache,
		minInterval: minInterval,
		now:         now,
		log:         log,
	}
}

// TranslateText submits a text for translation. Returns false when the
// request was dropped by rate limiting or because one is already in
// flight. onResult is invoked from a background goroutine exactly once
// for each accepted request.
func (c *Chat) TranslateText(ctx context.Context, text, source, target string, fromSpeech bool, onResult func(ChatResult)) bool {
	c.mu.Lock()
	nw := c.now()
	if c.pending != nil {
		c.mu.Unlock()
		c.log.Debug("chat request dropped: one already pending")
		return false
	}
	if !c.lastAccepted.IsZero() && nw.Sub(c.lastAccepted) < c.minInterval {
		c.mu.Unlock()
		c.log.Debug("chat request dropped: rate limited")
		return false
	}
	req := NewPending(text, source, target, fromSpeech, nw)
	c.pending = &req
	c.lastAccepted = nw
	c.mu.Unlock()

	go c.run(ctx, req, onResult)
	return true
}

func (c *Chat) run(ctx context.Context, req Pending, onResult func(ChatResult)) {
	translated, err := c.translate(ctx, req)

	c.mu.Lock()
	if c.pending != nil && c.pending.ID == req.ID {
		c.pending = nil
	}
	c.mu.Unlock()

	if onResult != nil {
		onResult(ChatResult{Request: req, Translated: translated, Err: err})
	}
}

func (c *Chat) translate(ctx context.Context, req Pending) (string, error) {
	if c.cache != nil {
		if hit, ok := c.cache.Get(ctx, req.SourceLanguage, req.TargetLanguage, req.Text); ok {
			return hit, nil
		}
	}

	session, err := c.engine.NewSession(req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		return "", apperrors.NewTranslationError(req.Text, err)
	}
	defer session.Close()

	translated, err := session.Translate(ctx, req.Text)
	if err != nil {
		return "", apperrors.NewTranslationError(req.Text, err)
	}
	if c.cache != nil {
		c.cache.Put(ctx, req.SourceLanguage, req.TargetLanguage, req.Text, translated)
	}
	return translated, nil
}

// Pending returns the in-flight request, if any.
func (c *Chat) Pending() *Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}
