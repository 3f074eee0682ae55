package translation

import (
	"sort"
	"sync"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/detection"
)

// Queue holds the detections awaiting translation for the AR path. Each
// detection cycle replaces the whole queue so items from a superseded
// cycle are discarded rather than translated late. Items are ordered by
// descending confidence: under constrained session throughput the most
// reliable results are translated first.
type Queue struct {
	mu    sync.Mutex
	items []detection.DetectedWord
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Replace swaps the full contents for this cycle's detections, sorted by
// descending confidence. The previous contents are dropped.
func (q *Queue) Replace(words []detection.DetectedWord) {
	items := make([]detection.DetectedWord, len(words))
	copy(items, words)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})

	q.mu.Lock()
	q.items = items
	q.mu.Unlock()
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (detection.DetectedWord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return detection.DetectedWord{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Len reports the number of queued detections.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
