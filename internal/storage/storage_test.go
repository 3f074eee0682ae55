package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSaveListDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Unix(1000, 0)

	older := NewSavedTranslation("menu", "menú", "en", "es", false, base)
	newer := NewSavedTranslation("exit", "salida", "en", "es", true, base.Add(time.Minute))
	if err := s.Save(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, newer); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("list length = %d, want 2", len(got))
	}
	if got[0].OriginalText != "exit" {
		t.Errorf("list not newest-first: got %q first", got[0].OriginalText)
	}
	if !got[0].IsFromSpeech {
		t.Error("speech flag lost")
	}

	if err := s.Delete(ctx, older.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = s.List(ctx)
	if len(got) != 1 || got[0].ID != newer.ID {
		t.Errorf("delete removed the wrong record: %+v", got)
	}

	// Deleting a missing id is not an error.
	if err := s.Delete(ctx, "no-such-id"); err != nil {
		t.Errorf("delete of missing id returned %v", err)
	}
}

func TestSaveOverwritesById(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := NewSavedTranslation("menu", "menú", "en", "es", false, time.Unix(1000, 0))
	s.Save(ctx, rec)
	rec.TranslatedText = "carta"
	s.Save(ctx, rec)

	got, _ := s.List(ctx)
	if len(got) != 1 {
		t.Fatalf("list length = %d, want 1", len(got))
	}
	if got[0].TranslatedText != "carta" {
		t.Errorf("translated = %q, want updated value", got[0].TranslatedText)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	p := DefaultPreferences()
	source, target := p.Languages()
	if source != "en" || target != "es" {
		t.Errorf("default languages = %q/%q", source, target)
	}
	if p.AnnotationScale() != 1.0 {
		t.Errorf("default scale = %v", p.AnnotationScale())
	}
}

func TestPreferencesSetLanguagesKeepsOnEmpty(t *testing.T) {
	p := DefaultPreferences()
	p.SetLanguages("fr", "")
	source, target := p.Languages()
	if source != "fr" {
		t.Errorf("source = %q, want fr", source)
	}
	if target != "es" {
		t.Errorf("target = %q, want unchanged es", target)
	}
}

func TestPreferencesScaleClamped(t *testing.T) {
	p := DefaultPreferences()
	p.SetAnnotationScale(10)
	if p.AnnotationScale() != 2.0 {
		t.Errorf("scale = %v, want clamped 2.0", p.AnnotationScale())
	}
	p.SetAnnotationScale(0.1)
	if p.AnnotationScale() != 0.5 {
		t.Errorf("scale = %v, want clamped 0.5", p.AnnotationScale())
	}
}

func TestPreferencesWarningSuppression(t *testing.T) {
	p := DefaultPreferences()
	if p.IsWarningSuppressed("offline-mode") {
		t.Error("warning suppressed before opt-out")
	}
	p.SuppressWarning("offline-mode")
	if !p.IsWarningSuppressed("offline-mode") {
		t.Error("warning not suppressed after opt-out")
	}
	if p.IsWarningSuppressed("low-light") {
		t.Error("unrelated warning suppressed")
	}
}
