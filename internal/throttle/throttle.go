/**
 * Frame throttle
 *
 * Bridges a high-frequency camera callback to lower-frequency async
 * recognition work. A dispatch is admitted only when nothing is in
 * flight and the per-mode interval has elapsed; everything else is
 * skipped, never queued. A watchdog force-clears the in-flight flag if a
 * completion callback goes missing so a lost callback cannot stall the
 * pipeline permanently.
 */

package throttle

import (
	"sync"
	"time"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
)

// Throttle gates frame dispatches for one recognition mode. Safe for
// concurrent use: the camera callback and the background completion
// callback race on the in-flight flag.
type Throttle struct {
	interval time.Duration
	watchdog time.Duration
	now      func() time.Time
	log      *logging.Logger

	mu           sync.Mutex
	inFlight     bool
	lastDispatch time.Time
	generation   uint64
	timer        *time.Timer
}

// New creates a throttle. now may be nil for wall-clock time; watchdog
// of zero disables the recovery timer (tests drive time themselves).
func New(interval, watchdog time.Duration, now func() time.Time, log *logging.Logger) *Throttle {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Throttle{
		interval: interval,
		watchdog: watchdog,
		now:      now,
		log:      log,
	}
}

// TryAcquire reports whether a frame may be dispatched now. On true the
// throttle is marked in flight, the dispatch time is recorded, and the
// watchdog is armed; the caller must eventually Release with the
// returned generation.
func (t *Throttle) TryAcquire() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	nw := t.now()
	if t.inFlight {
		return 0, false
	}
	if !t.lastDispatch.IsZero() && nw.Sub(t.lastDispatch) < t.interval {
		return 0, false
	}

	t.inFlight = true
	t.lastDispatch = nw
	t.generation++
	t.armWatchdogLocked(t.generation)
	return t.generation, true
}

// Release clears the in-flight flag after a completion callback. Only
// the generation currently in flight may release: a late completion
// whose dispatch the watchdog already cleared must not release the
// dispatch admitted after it.
func (t *Throttle) Release(generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.inFlight || t.generation != generation {
		return
	}
	t.releaseLocked()
}

func (t *Throttle) releaseLocked() {
	t.inFlight = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// InFlight reports whether a dispatch is currently outstanding.
func (t *Throttle) InFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

func (t *Throttle) armWatchdogLocked(generation uint64) {
	if t.watchdog <= 0 {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.watchdog, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// Only clear the dispatch the timer was armed for.
		if t.inFlight && t.generation == generation {
			t.log.Warn("watchdog cleared stuck in-flight flag",
				"watchdog", t.watchdog.String())
			t.releaseLocked()
		}
	})
}
