/**
 * Saved-translation storage boundary
 *
 * Users can keep translations they want to revisit. The store is a
 * plain CRUD surface so the rest of the app never knows whether it is
 * talking to Postgres or the in-memory fallback.
 */

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SavedTranslation is one kept translation.
type SavedTranslation struct {
	ID             string
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	IsFromSpeech   bool
	SavedAt        time.Time
}

// NewSavedTranslation builds a record with a fresh id.
func NewSavedTranslation(original, translated, source, target string, fromSpeech bool, now time.Time) SavedTranslation {
	return SavedTranslation{
		ID:             uuid.New().String(),
		OriginalText:   original,
		TranslatedText: translated,
		SourceLanguage: source,
		TargetLanguage: target,
		IsFromSpeech:   fromSpeech,
		SavedAt:        now,
	}
}

// Store persists saved translations.
type Store interface {
	Save(ctx context.Context, t SavedTranslation) error
	// List returns saved translations, newest first.
	List(ctx context.Context) ([]SavedTranslation, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryStore keeps saved translations in process memory. Used when no
// database is configured and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]SavedTranslation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]SavedTranslation)}
}

func (s *MemoryStore) Save(_ context.Context, t SavedTranslation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[t.ID] = t
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]SavedTranslation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedTranslation, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
