/**
 * Spatial overlay manager
 *
 * Owns every translation overlay. Overlays are keyed by normalized text:
 * re-detection of the same phrase refreshes the existing record instead
 * of minting a new one, which keeps labels steady across cycles. Each
 * maintenance pass drops stale overlays, then evicts the
 * oldest-last-seen entries down to the adaptive capacity.
 */

package overlay

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/detection"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/scene"
)

// Manager owns overlays exclusively; nothing else retains them.
type Manager struct {
	sc          scene.Scene
	maxOverlays int
	now         func() time.Time
	log         *logging.Logger

	mu       sync.Mutex
	overlays map[string]*Overlay          // key: normalized text
	nodes    map[string]*scene.LabelNode  // 3D billboard per key, if placed
}

// NewManager creates a manager. sc may be nil when 3D placement is not
// used; now may be nil for wall-clock time.
func NewManager(sc scene.Scene, maxOverlays int, now func() time.Time, log *logging.Logger) *Manager {
	if maxOverlays <= 0 {
		maxOverlays = 25
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		sc:          sc,
		maxOverlays: maxOverlays,
		now:         now,
		log:         log,
		overlays:    make(map[string]*Overlay),
		nodes:       make(map[string]*scene.LabelNode),
	}
}

func overlayKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Upsert binds a translation to its originating detection in 2D mode:
// a new overlay is created, or the existing one for the same text gets
// its screen position overwritten, lastSeen refreshed, and updateCount
// bumped.
func (m *Manager) Upsert(word detection.DetectedWord, translated string, screenPos geometry.Point) *Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := overlayKey(word.Text)
	nw := m.now()
	if existing, ok := m.overlays[key]; ok {
		existing.TranslatedText = translated
		existing.ScreenPosition = screenPos
		existing.LastSeen = nw
		existing.UpdateCount++
		out := *existing
		return &out
	}

	o := &Overlay{
		ID:             word.ID,
		OriginalText:   word.Text,
		TranslatedText: translated,
		ScreenPosition: screenPos,
		BoundingBox:    word.BoundingBox,
		LastSeen:       nw,
		UpdateCount:    1,
		WordCount:      word.WordCount(),
		TextType:       word.TextType(),
	}
	m.overlays[key] = o
	out := *o
	return &out
}

// Place3D anchors a translation in the world: the screen anchor is
// ray-cast into the scene and, on a hit, a camera-facing billboard is
// created (or replaced) at the hit transform. A miss places nothing and
// surfaces nothing; ambient auto-translate failures stay silent.
func (m *Manager) Place3D(word detection.DetectedWord, translated string, anchor geometry.Point) bool {
	if m.sc == nil {
		return false
	}
	hit, ok := m.sc.Raycast(anchor)
	if !ok {
		m.log.Debug("no surface found for overlay", "text", word.Text)
		return false
	}

	o := m.Upsert(word, translated, anchor)

	m.mu.Lock()
	defer m.mu.Unlock()
	key := overlayKey(word.Text)
	if stored, ok := m.overlays[key]; ok {
		pos := hit.WorldPosition
		stored.WorldPosition = &pos
	}
	if old, ok := m.nodes[key]; ok {
		m.sc.RemoveNode(old)
	}
	width := labelPlaneWidth(o.TextType)
	node := scene.NewLabelNode(translated, width, labelPlaneHeight, hit.WorldPosition)
	m.nodes[key] = node
	m.sc.AddNode(node)
	return true
}

// labelPlaneHeight is the billboard height in world units.
const labelPlaneHeight = 0.05

func labelPlaneWidth(t detection.TextType) float64 {
	switch t {
	case detection.ShortWord:
		return 0.12
	case detection.MediumWord:
		return 0.18
	case detection.LongWord:
		return 0.24
	case detection.ShortPhrase:
		return 0.30
	default:
		return 0.40
	}
}

// Maintain runs one cleanup pass: stale overlays go first, then the
// oldest-last-seen entries until the count fits the capacity. Returns
// how many were removed by each rule.
func (m *Manager) Maintain() (stale, evicted int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nw := m.now()
	for key, o := range m.overlays {
		if o.IsStale(nw) {
			m.removeLocked(key)
			stale++
		}
	}

	if excess := len(m.overlays) - m.maxOverlays; excess > 0 {
		type aged struct {
			key      string
			lastSeen time.Time
		}
		order := make([]aged, 0, len(m.overlays))
		for key, o := range m.overlays {
			order = append(order, aged{key: key, lastSeen: o.LastSeen})
		}
		sort.Slice(order, func(i, j int) bool {
			return order[i].lastSeen.Before(order[j].lastSeen)
		})
		for i := 0; i < excess; i++ {
			m.removeLocked(order[i].key)
			evicted++
		}
	}

	if stale > 0 || evicted > 0 {
		m.log.Debug("overlay maintenance",
			"stale_removed", stale, "capacity_evicted", evicted,
			"remaining", len(m.overlays))
	}
	return stale, evicted
}

func (m *Manager) removeLocked(key string) {
	delete(m.overlays, key)
	if node, ok := m.nodes[key]; ok {
		if m.sc != nil {
			m.sc.RemoveNode(node)
		}
		delete(m.nodes, key)
	}
}

// Clear removes every overlay and every translation node in one step.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.overlays {
		m.removeLocked(key)
	}
}

// Get returns the overlay for a text, if present.
func (m *Manager) Get(text string) (Overlay, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.overlays[overlayKey(text)]
	if !ok {
		return Overlay{}, false
	}
	return *o, true
}

// Overlays returns a snapshot of all overlays.
func (m *Manager) Overlays() []Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Overlay, 0, len(m.overlays))
	for _, o := range m.overlays {
		out = append(out, *o)
	}
	return out
}

// Count reports how many overlays exist.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.overlays)
}

// Seed inserts an overlay directly. Tests use it to set up eviction
// scenarios without running detection cycles.
func (m *Manager) Seed(o Overlay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlays[overlayKey(o.OriginalText)] = &o
}
