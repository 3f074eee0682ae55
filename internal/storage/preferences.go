package storage

import "sync"

// Preferences holds the user-adjustable settings that persist across
// sessions. Access is concurrency-safe; the zero value is unusable, use
// DefaultPreferences.
type Preferences struct {
	mu              sync.Mutex
	sourceLanguage  string
	targetLanguage  string
	annotationScale float64
	suppressed      map[string]bool
}

// DefaultPreferences returns the out-of-box settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		sourceLanguage:  "en",
		targetLanguage:  "es",
		annotationScale: 1.0,
		suppressed:      make(map[string]bool),
	}
}

// Languages returns the selected source and target language codes.
func (p *Preferences) Languages() (source, target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sourceLanguage, p.targetLanguage
}

// SetLanguages updates the language pair. Empty codes keep the current
// value.
func (p *Preferences) SetLanguages(source, target string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if source != "" {
		p.sourceLanguage = source
	}
	if target != "" {
		p.targetLanguage = target
	}
}

// AnnotationScale returns the current annotation label scale factor.
func (p *Preferences) AnnotationScale() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.annotationScale
}

// SetAnnotationScale clamps the factor to a sane range and stores it.
func (p *Preferences) SetAnnotationScale(scale float64) {
	if scale < 0.5 {
		scale = 0.5
	}
	if scale > 2.0 {
		scale = 2.0
	}
	p.mu.Lock()
	p.annotationScale = scale
	p.mu.Unlock()
}

// SuppressWarning records a "don't show again" choice for the given
// warning key.
func (p *Preferences) SuppressWarning(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suppressed == nil {
		p.suppressed = make(map[string]bool)
	}
	p.suppressed[key] = true
}

// IsWarningSuppressed reports whether the user opted out of the given
// warning.
func (p *Preferences) IsWarningSuppressed(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suppressed[key]
}
