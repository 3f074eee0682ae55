/**
 * Translation engine boundary
 *
 * The pipeline treats translation as a black-box service: an Engine
 * yields a Session for a language pair, and a Session translates one
 * text at a time. Sessions may require preparation (an on-device
 * language-pack download) whose completion is independently pollable.
 */

package translation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/bestfriendai/Lingo-lens-sub002/internal/errors"
)

// Pending is a translation request in flight.
type Pending struct {
	ID             string
	Text           string
	SourceLanguage string
	TargetLanguage string
	IsFromSpeech   bool
	CreatedAt      time.Time
}

// NewPending builds a pending request with a fresh id.
func NewPending(text, source, target string, fromSpeech bool, now time.Time) Pending {
	return Pending{
		ID:             uuid.New().String(),
		Text:           text,
		SourceLanguage: source,
		TargetLanguage: target,
		IsFromSpeech:   fromSpeech,
		CreatedAt:      now,
	}
}

// Session translates texts for one language pair, serially.
type Session interface {
	// Translate converts a single text. May fail on network or
	// availability problems.
	Translate(ctx context.Context, text string) (string, error)
	// Prepare triggers the language-pack download for the pair. Returns
	// once the download has been requested, not once it completes.
	Prepare(ctx context.Context) error
	// Ready reports whether the pair is usable without further download.
	Ready(ctx context.Context) (bool, error)
	Close() error
}

// Engine yields translation sessions.
type Engine interface {
	NewSession(source, target string) (Session, error)
}

// AwaitReady polls a session until the language pack is available or the
// deadline passes. A timeout is a user-actionable error carrying the
// language pair; callers present it with a retry action.
func AwaitReady(ctx context.Context, s Session, source, target string, poll, timeout time.Duration) error {
	if poll <= 0 {
		poll = 500 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for {
		ready, err := s.Ready(ctx)
		if err == nil && ready {
			return nil
		}
		if time.Now().After(deadline) {
			return apperrors.NewLanguagePackError(source, target, err)
		}
		select {
		case <-ctx.Done():
			return apperrors.NewLanguagePackError(source, target, ctx.Err())
		case <-time.After(poll):
		}
	}
}

// CacheKey normalizes a text for cache lookups.
func CacheKey(source, target, text string) string {
	return source + "\x00" + target + "\x00" + strings.ToLower(strings.TrimSpace(text))
}
