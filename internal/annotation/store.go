/**
 * Manual annotation store
 *
 * User-placed 3D labels, created by an explicit add action at the center
 * of the region of interest and anchored by ray-cast against a detected
 * plane. Separate from the automatic translation overlays; the two share
 * a scene and the hit-test layer, nothing else.
 */

package annotation

import (
	"sync"
	"time"

	apperrors "github.com/bestfriendai/Lingo-lens-sub002/internal/errors"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
	"github.com/bestfriendai/Lingo-lens-sub002/internal/scene"
)

// placementErrorVisible is how long a placement failure stays on screen.
const placementErrorVisible = 4 * time.Second

// maxDisplayNameRunes bounds the name shown in delete confirmations.
const maxDisplayNameRunes = 15

// Annotation is one user-placed label.
type Annotation struct {
	Node          *scene.LabelNode
	Text          string
	WorldPosition geometry.Vector3
}

// pendingDelete tracks a delete awaiting confirmation. The generation
// pins the store's state: any mutation between request and confirm
// invalidates the confirmation instead of deleting the wrong entry.
type pendingDelete struct {
	index      int
	generation uint64
}

// Store owns the ordered annotation collection.
type Store struct {
	sc           scene.Scene
	presenter    apperrors.Presenter
	log          *logging.Logger
	errorVisible time.Duration

	mu         sync.Mutex
	items      []Annotation
	scale      float64
	generation uint64
	adding     bool
	deleting   bool
	errActive  bool
	pending    *pendingDelete
}

// NewStore creates an annotation store.
func NewStore(sc scene.Scene, presenter apperrors.Presenter, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{
		sc:           sc,
		presenter:    presenter,
		log:          log,
		errorVisible: placementErrorVisible,
		scale:        1,
	}
}

// Add places a label with the given text anchored at the screen point
// (normally the ROI center). Returns false when no surface was found or
// when an add is already in flight; the no-surface case surfaces a
// transient placement error, at most one instance at a time.
func (s *Store) Add(text string, anchor geometry.Point) bool {
	s.mu.Lock()
	if s.adding {
		s.mu.Unlock()
		s.log.Debug("add ignored: one already in flight")
		return false
	}
	s.adding = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.adding = false
		s.mu.Unlock()
	}()

	hit, ok := s.sc.Raycast(anchor)
	if !ok {
		s.showPlacementError()
		return false
	}

	width, height, _ := capsuleSize(text)
	node := scene.NewLabelNode(text, width, height, hit.WorldPosition)

	s.mu.Lock()
	node.SetScale(s.scale)
	s.items = append(s.items, Annotation{
		Node:          node,
		Text:          text,
		WorldPosition: hit.WorldPosition,
	})
	s.generation++
	s.pending = nil
	s.mu.Unlock()

	s.sc.AddNode(node)
	s.log.Info("annotation placed", "text", text, "count", s.Count())
	return true
}

// showPlacementError surfaces one transient, auto-dismissing placement
// error; a second failure while one is visible is not stacked.
func (s *Store) showPlacementError() {
	s.mu.Lock()
	if s.errActive || s.presenter == nil {
		s.mu.Unlock()
		return
	}
	s.errActive = true
	s.mu.Unlock()

	s.presenter.ShowError(apperrors.NewPlacementError(nil).Message, nil)
	time.AfterFunc(s.errorVisible, func() {
		s.mu.Lock()
		s.errActive = false
		s.mu.Unlock()
		s.presenter.Dismiss()
	})
}

// RequestDelete begins a delete for the annotation at index, returning
// the truncated display name for the confirmation prompt. The request is
// pinned to the store's current state; a mutation before ConfirmDelete
// invalidates it.
func (s *Store) RequestDelete(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		s.log.Warn("delete requested for invalid index", "index", index, "count", len(s.items))
		return "", false
	}
	s.pending = &pendingDelete{index: index, generation: s.generation}
	return truncateDisplayName(s.items[index].Text), true
}

// ConfirmDelete executes the pending delete. Deletion is asynchronous;
// IsDeleting reports true until it completes and onDone (optional) fires
// afterwards. Returns false when no delete is pending or the store
// changed since the request.
func (s *Store) ConfirmDelete(onDone func()) bool {
	s.mu.Lock()
	if s.pending == nil || s.pending.generation != s.generation {
		stale := s.pending != nil
		s.pending = nil
		s.mu.Unlock()
		if stale {
			s.log.Warn("delete confirmation invalidated: store changed since request")
		}
		return false
	}
	index := s.pending.index
	s.pending = nil
	s.deleting = true
	s.mu.Unlock()

	go func() {
		s.deleteAt(index)
		s.mu.Lock()
		s.deleting = false
		s.mu.Unlock()
		if onDone != nil {
			onDone()
		}
	}()
	return true
}

// deleteAt removes the entry and its scene node. Out-of-range indexes
// are logged no-ops.
func (s *Store) deleteAt(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		s.log.Warn("delete skipped: index out of range", "index", index)
		return
	}
	item := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.generation++
	s.mu.Unlock()

	s.sc.RemoveNode(item.Node)
	s.log.Info("annotation deleted", "text", item.Text, "remaining", s.Count())
}

// IsDeleting reports whether a delete is in progress.
func (s *Store) IsDeleting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleting
}

// Reset removes every annotation and its node. Used on tab exit, app
// backgrounding, and explicit clear-all.
func (s *Store) Reset() {
	s.mu.Lock()
	items := s.items
	s.items = nil
	s.generation++
	s.pending = nil
	s.mu.Unlock()

	for _, item := range items {
		s.sc.RemoveNode(item.Node)
	}
	if len(items) > 0 {
		s.log.Info("annotations cleared", "removed", len(items))
	}
}

// SetScale applies a uniform render scale to every stored annotation and
// to annotations added later.
func (s *Store) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	s.mu.Lock()
	s.scale = scale
	items := make([]Annotation, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	for _, item := range items {
		item.Node.SetScale(scale)
	}
}

// Count reports the number of stored annotations.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Annotations returns a snapshot of the ordered collection.
func (s *Store) Annotations() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// IndexOfNode finds the index of an annotation by its scene node id.
func (s *Store) IndexOfNode(nodeID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.Node.ID() == nodeID {
			return i, true
		}
	}
	return 0, false
}

// truncateDisplayName bounds a name to 15 visible runes plus an
// ellipsis.
func truncateDisplayName(text string) string {
	runes := []rune(text)
	if len(runes) <= maxDisplayNameRunes {
		return text
	}
	return string(runes[:maxDisplayNameRunes]) + ellipsis
}
