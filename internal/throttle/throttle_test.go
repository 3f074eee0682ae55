/**
 * Frame throttle tests
 *
 * Drives the throttle with a fake clock: a stream of N frames over an
 * elapsed window must admit exactly floor(elapsed/interval)+1 dispatches
 * when every dispatch completes instantly, and exactly one while a
 * dispatch stays in flight.
 */

package throttle

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestAdmissionRate(t *testing.T) {
	testCases := []struct {
		name     string
		interval time.Duration
		step     time.Duration
		frames   int
		want     int
	}{
		// 30 frames at ~33ms spacing over ~1s with a 200ms interval:
		// admitted at 0ms, 231ms, 462ms, 693ms, 924ms.
		{name: "camera rate against 200ms", interval: 200 * time.Millisecond, step: 33 * time.Millisecond, frames: 30, want: 5},
		// Every frame exactly on the interval boundary is admitted.
		{name: "frames on the boundary", interval: 100 * time.Millisecond, step: 100 * time.Millisecond, frames: 10, want: 10},
		// Frames faster than the interval: every other one.
		{name: "half-interval spacing", interval: 200 * time.Millisecond, step: 100 * time.Millisecond, frames: 10, want: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(0, 0)}
			th := New(tc.interval, 0, clock.now, nil)

			admitted := 0
			for i := 0; i < tc.frames; i++ {
				if gen, ok := th.TryAcquire(); ok {
					admitted++
					th.Release(gen)
				}
				clock.advance(tc.step)
			}
			if admitted != tc.want {
				t.Errorf("admitted %d dispatches, want %d", admitted, tc.want)
			}
		})
	}
}

func TestInFlightBlocksAdmission(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	th := New(100*time.Millisecond, 0, clock.now, nil)

	gen, ok := th.TryAcquire()
	if !ok {
		t.Fatal("first acquire should succeed")
	}

	// Frames keep arriving while the dispatch is outstanding; all are
	// skipped no matter how much time passes.
	for i := 0; i < 10; i++ {
		clock.advance(time.Second)
		if _, ok := th.TryAcquire(); ok {
			t.Fatal("acquire succeeded while in flight")
		}
	}

	th.Release(gen)
	clock.advance(200 * time.Millisecond)
	if _, ok := th.TryAcquire(); !ok {
		t.Error("acquire should succeed after release and interval")
	}
}

func TestIntervalGatesAfterRelease(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	th := New(200*time.Millisecond, 0, clock.now, nil)

	gen, ok := th.TryAcquire()
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	th.Release(gen)

	// Released immediately, but the interval has not elapsed.
	clock.advance(50 * time.Millisecond)
	if _, ok := th.TryAcquire(); ok {
		t.Error("acquire succeeded inside the interval")
	}

	clock.advance(150 * time.Millisecond)
	if _, ok := th.TryAcquire(); !ok {
		t.Error("acquire should succeed after the interval")
	}
}

func TestReleaseWithoutAcquireIsNoop(t *testing.T) {
	th := New(100*time.Millisecond, 0, nil, nil)
	th.Release(1)
	if th.InFlight() {
		t.Error("release left the throttle in flight")
	}
	if _, ok := th.TryAcquire(); !ok {
		t.Error("acquire should succeed after spurious release")
	}
}

func TestWatchdogClearsStuckFlag(t *testing.T) {
	th := New(time.Millisecond, 20*time.Millisecond, nil, nil)

	if _, ok := th.TryAcquire(); !ok {
		t.Fatal("first acquire should succeed")
	}

	// Simulate a lost completion callback: never Release. The watchdog
	// must clear the flag so later frames get through.
	deadline := time.Now().Add(2 * time.Second)
	for th.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("watchdog did not clear the in-flight flag")
		}
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(5 * time.Millisecond)
	if _, ok := th.TryAcquire(); !ok {
		t.Error("acquire should succeed after watchdog recovery")
	}
}

func TestWatchdogIgnoresCompletedDispatch(t *testing.T) {
	th := New(time.Millisecond, 20*time.Millisecond, nil, nil)

	gen1, ok := th.TryAcquire()
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	th.Release(gen1)

	time.Sleep(5 * time.Millisecond)
	gen2, ok := th.TryAcquire()
	if !ok {
		t.Fatal("second acquire should succeed")
	}

	// The first dispatch's watchdog window passes while the second is in
	// flight; the stale timer must not clear the newer dispatch.
	time.Sleep(30 * time.Millisecond)
	if !th.InFlight() {
		t.Error("stale watchdog cleared a newer dispatch")
	}
	th.Release(gen2)
}

func TestStaleReleaseDoesNotClearNewerDispatch(t *testing.T) {
	th := New(time.Millisecond, 20*time.Millisecond, nil, nil)

	gen1, ok := th.TryAcquire()
	if !ok {
		t.Fatal("first acquire should succeed")
	}

	// The first dispatch hangs until the watchdog clears it.
	deadline := time.Now().Add(2 * time.Second)
	for th.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("watchdog did not clear the in-flight flag")
		}
		time.Sleep(5 * time.Millisecond)
	}

	gen2, ok := th.TryAcquire()
	if !ok {
		t.Fatal("second acquire should succeed after watchdog recovery")
	}

	// The hung dispatch finally completes. Its release belongs to the
	// cleared generation and must not free the second dispatch's slot.
	th.Release(gen1)
	if !th.InFlight() {
		t.Fatal("stale release cleared a newer dispatch")
	}
	if _, ok := th.TryAcquire(); ok {
		t.Error("acquire succeeded while the second dispatch is in flight")
	}

	th.Release(gen2)
	if th.InFlight() {
		t.Error("matching release did not clear the dispatch")
	}
}

func TestModeDefaults(t *testing.T) {
	testCases := []struct {
		name         string
		mode         Mode
		wantKind     Kind
		wantInterval time.Duration
	}{
		{name: "roi text", mode: ROITextMode(TierLow), wantKind: KindROIText, wantInterval: 200 * time.Millisecond},
		{name: "object", mode: ObjectMode(TierLow), wantKind: KindObject, wantInterval: 200 * time.Millisecond},
		{name: "full frame low tier", mode: FullFrameMode(TierLow), wantKind: KindFullFrameWords, wantInterval: 200 * time.Millisecond},
		{name: "full frame high tier", mode: FullFrameMode(TierHigh), wantKind: KindFullFrameWords, wantInterval: 100 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.mode.Kind != tc.wantKind {
				t.Errorf("kind = %v, want %v", tc.mode.Kind, tc.wantKind)
			}
			if tc.mode.Interval != tc.wantInterval {
				t.Errorf("interval = %v, want %v", tc.mode.Interval, tc.wantInterval)
			}
			if tc.mode.Watchdog <= tc.mode.Interval {
				t.Errorf("watchdog %v must exceed interval %v", tc.mode.Watchdog, tc.mode.Interval)
			}
		})
	}
}
