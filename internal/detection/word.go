/**
 * Detected text fragments
 *
 * Data model for a single recognized fragment: normalized text, recognizer
 * confidence, and a normalized bounding box in source-image coordinates.
 * The full fragment list is replaced every detection cycle, never merged.
 */

package detection

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/geometry"
)

// Confidence thresholds per recognition mode. The accurate (region of
// interest) mode scans a small area with language correction enabled and
// demands more; the fast full-frame mode trades confidence for throughput.
const (
	ConfidenceThresholdAccurate = 0.2
	ConfidenceThresholdFast     = 0.1
)

// TextType classifies a fragment by length so downstream rendering can
// tune label sizing. It never affects placement.
type TextType int

const (
	ShortWord TextType = iota
	MediumWord
	LongWord
	ShortPhrase
	LongPhrase
)

func (t TextType) String() string {
	switch t {
	case ShortWord:
		return "short_word"
	case MediumWord:
		return "medium_word"
	case LongWord:
		return "long_word"
	case ShortPhrase:
		return "short_phrase"
	default:
		return "long_phrase"
	}
}

// DetectedWord is a recognized text fragment.
type DetectedWord struct {
	ID          string
	Text        string
	Confidence  float64
	BoundingBox geometry.RectNorm
	Translation string
}

// NewDetectedWord builds a fragment from raw recognizer output. The text
// is trimmed and stripped of edge punctuation; an id is assigned at
// detection time.
func NewDetectedWord(text string, confidence float64, box geometry.RectNorm) DetectedWord {
	return DetectedWord{
		ID:          uuid.New().String(),
		Text:        NormalizeText(text),
		Confidence:  confidence,
		BoundingBox: box,
	}
}

// IsConfident reports whether the fragment clears the given threshold.
func (w DetectedWord) IsConfident(threshold float64) bool {
	return w.Confidence > threshold
}

// WordCount returns the number of whitespace-separated words.
func (w DetectedWord) WordCount() int {
	return len(strings.Fields(w.Text))
}

// TextType classifies the fragment for rendering size decisions.
func (w DetectedWord) TextType() TextType {
	words := w.WordCount()
	runes := len([]rune(w.Text))
	switch {
	case words <= 1 && runes <= 5:
		return ShortWord
	case words <= 1 && runes <= 10:
		return MediumWord
	case words <= 1:
		return LongWord
	case words <= 3:
		return ShortPhrase
	default:
		return LongPhrase
	}
}

// NormalizeText trims whitespace and strips punctuation from both edges
// of the fragment. Interior punctuation (hyphens, apostrophes) survives.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// PlausibleText filters recognizer noise in full-frame mode. A fragment
// must contain at least one letter, and non-letter runes (excluding
// digits and interior joiners) may not dominate: single letters, numbers
// mixed with words, and hyphenated compounds pass, symbol strings do not.
func PlausibleText(s string) bool {
	if s == "" {
		return false
	}
	letters, others := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), r == '-', r == '\'', r == ' ':
			// Acceptable inside real text.
		default:
			others++
		}
	}
	if letters == 0 {
		return false
	}
	total := len([]rune(s))
	// More than a third of the fragment being symbol noise is not text.
	return others*3 <= total
}

// Dedupe removes case-insensitive duplicates, keeping the first-seen
// casing and order.
func Dedupe(words []DetectedWord) []DetectedWord {
	seen := make(map[string]struct{}, len(words))
	out := make([]DetectedWord, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(w.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}
