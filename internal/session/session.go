/**
 * AR session lifecycle
 *
 * Owns pause/resume of the underlying tracking session. A resume is not
 * trusted until tracking has been observed normal for a run of
 * consecutive frames; past a maximum wait the loading state is
 * force-cleared and the session proceeds anyway rather than hanging.
 */

package session

import (
	"sync"
	"time"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/scene"
)

// State of the session.
type State int

const (
	StateActive State = iota
	StatePaused
)

// Tracker is the underlying AR tracking session.
type Tracker interface {
	Pause()
	Resume()
}

const (
	// requiredStableFrames is how many consecutive normal-tracking frames
	// clear the loading state.
	requiredStableFrames = 10
	// maxLoadingWait force-clears loading if stability never arrives.
	maxLoadingWait = 3 * time.Second
	// stabilizationDelay ignores frames immediately after a restart while
	// the session settles.
	stabilizationDelay = 300 * time.Millisecond
)

// Loading messages at the defined milestones.
const (
	MessageInitializing = "Initializing AR session…"
	MessageLoading      = "Loading…"
	MessageAlmostReady  = "Almost ready…"
)

// Manager drives the session lifecycle.
type Manager struct {
	tracker Tracker
	now     func() time.Time
	log     *logging.Logger

	// onClearDetection resets detection state when the session pauses.
	onClearDetection func()

	mu              sync.Mutex
	state           State
	resuming        bool
	loading         bool
	loadingMessage  string
	stableFrames    int
	stabilizeUntil  time.Time
	loadingDeadline time.Time
}

// NewManager creates a lifecycle manager. onClearDetection may be nil.
func NewManager(tracker Tracker, onClearDetection func(), now func() time.Time, log *logging.Logger) *Manager {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		tracker:          tracker,
		onClearDetection: onClearDetection,
		now:              now,
		log:              log,
		state:            StatePaused,
	}
}

// Pause stops tracking and clears active detection state. Idempotent.
func (m *Manager) Pause() {
	m.mu.Lock()
	if m.state == StatePaused && !m.resuming {
		m.mu.Unlock()
		return
	}
	m.state = StatePaused
	m.resuming = false
	m.loading = false
	m.loadingMessage = ""
	m.stableFrames = 0
	m.mu.Unlock()

	m.tracker.Pause()
	if m.onClearDetection != nil {
		m.onClearDetection()
	}
	m.log.Info("session paused")
}

// Resume restarts tracking. A no-op when already active or mid-resume.
// The session is marked loading until tracking stabilizes (see
// ObserveFrame) or the maximum wait elapses.
func (m *Manager) Resume() {
	m.mu.Lock()
	if m.state == StateActive || m.resuming {
		m.mu.Unlock()
		return
	}
	nw := m.now()
	m.resuming = true
	m.loading = true
	m.loadingMessage = MessageInitializing
	m.stableFrames = 0
	m.stabilizeUntil = nw.Add(stabilizationDelay)
	m.loadingDeadline = nw.Add(maxLoadingWait)
	m.mu.Unlock()

	// Restart cleanly: pause then resume the underlying session.
	m.tracker.Pause()
	m.tracker.Resume()

	m.mu.Lock()
	m.state = StateActive
	m.loadingMessage = MessageLoading
	m.mu.Unlock()
	m.log.Info("session resuming", "required_stable_frames", requiredStableFrames)
}

// ObserveFrame feeds the tracking quality of each frame while loading.
// Stability requires consecutive normal frames; any other state resets
// the run. Past the deadline, loading is cleared anyway.
func (m *Manager) ObserveFrame(tracking scene.TrackingState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loading {
		return
	}
	nw := m.now()
	if nw.Before(m.stabilizeUntil) {
		return
	}
	if nw.After(m.loadingDeadline) {
		m.log.Warn("tracking never stabilized, proceeding anyway",
			"stable_frames", m.stableFrames, "required", requiredStableFrames)
		m.clearLoadingLocked()
		return
	}

	if tracking == scene.TrackingNormal {
		m.stableFrames++
		if m.stableFrames >= requiredStableFrames {
			m.log.Info("tracking stabilized", "frames", m.stableFrames)
			m.clearLoadingLocked()
			return
		}
		if m.stableFrames >= requiredStableFrames/2 {
			m.loadingMessage = MessageAlmostReady
		}
		return
	}

	m.stableFrames = 0
	m.loadingMessage = MessageLoading
}

func (m *Manager) clearLoadingLocked() {
	m.loading = false
	m.resuming = false
	m.loadingMessage = ""
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsLoading reports whether the session is still stabilizing.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LoadingMessage returns the current milestone message, empty when
// loading is done.
func (m *Manager) LoadingMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadingMessage
}
