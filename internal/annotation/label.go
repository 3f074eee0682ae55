package annotation

import "unicode"

// Label sizing works against visual text width, not character count:
// a string of wide glyphs wraps sooner than the same number of narrow
// ones, which is what keeps capsules from overflowing.

const (
	labelFontSize = 24.0

	// Capsule width bounds in screen points, before world conversion.
	minCapsuleWidth = 120.0
	maxCapsuleWidth = 340.0

	capsulePadding = 28.0
	ellipsis       = "…"

	// pointsToWorld converts label layout points to world units.
	pointsToWorld = 0.001
)

// glyphWidth approximates the advance of a single rune at the given
// font size. Full-width scripts advance a full em; everything else a
// narrow fraction tuned against the target font.
func glyphWidth(r rune, fontSize float64) float64 {
	switch {
	case r == ' ':
		return fontSize * 0.30
	case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hangul, r),
		unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
		return fontSize
	case unicode.IsUpper(r), unicode.IsDigit(r):
		return fontSize * 0.62
	default:
		return fontSize * 0.52
	}
}

// measureWidth approximates the rendered width of a text run.
func measureWidth(text string, fontSize float64) float64 {
	var w float64
	for _, r := range text {
		w += glyphWidth(r, fontSize)
	}
	return w
}

// layoutLabel wraps text onto at most two lines against a maximum line
// width, truncating the second line with an ellipsis when it overflows.
// Returns the laid-out lines and the widest line's visual width.
func layoutLabel(text string, maxLineWidth float64) (lines []string, widest float64) {
	if measureWidth(text, labelFontSize) <= maxLineWidth {
		return []string{text}, measureWidth(text, labelFontSize)
	}

	first, rest := splitAtWidth(text, maxLineWidth)
	if rest == "" {
		return []string{first}, measureWidth(first, labelFontSize)
	}
	second := rest
	if measureWidth(second, labelFontSize) > maxLineWidth {
		second = truncateToWidth(second, maxLineWidth)
	}
	w1 := measureWidth(first, labelFontSize)
	w2 := measureWidth(second, labelFontSize)
	if w2 > w1 {
		w1 = w2
	}
	return []string{first, second}, w1
}

// splitAtWidth breaks text at the last word boundary that fits the
// width; a single over-wide word is broken mid-word.
func splitAtWidth(text string, maxWidth float64) (head, tail string) {
	var width float64
	lastSpace := -1
	runes := []rune(text)
	for i, r := range runes {
		width += glyphWidth(r, labelFontSize)
		if r == ' ' {
			lastSpace = i
		}
		if width > maxWidth {
			if lastSpace > 0 {
				return string(runes[:lastSpace]), string(runes[lastSpace+1:])
			}
			if i == 0 {
				return string(runes[:1]), string(runes[1:])
			}
			return string(runes[:i]), string(runes[i:])
		}
	}
	return text, ""
}

// truncateToWidth trims text so that it plus an ellipsis fits maxWidth.
func truncateToWidth(text string, maxWidth float64) string {
	budget := maxWidth - measureWidth(ellipsis, labelFontSize)
	var width float64
	runes := []rune(text)
	for i, r := range runes {
		width += glyphWidth(r, labelFontSize)
		if width > budget {
			return string(runes[:i]) + ellipsis
		}
	}
	return text
}

// capsuleSize returns the label plane dimensions in world units for a
// text, after wrapping and clamping.
func capsuleSize(text string) (width, height float64, lines []string) {
	maxLine := maxCapsuleWidth - capsulePadding
	lines, widest := layoutLabel(text, maxLine)

	pixelWidth := widest + capsulePadding
	if pixelWidth < minCapsuleWidth {
		pixelWidth = minCapsuleWidth
	}
	if pixelWidth > maxCapsuleWidth {
		pixelWidth = maxCapsuleWidth
	}

	lineHeight := labelFontSize * 1.4
	pixelHeight := lineHeight*float64(len(lines)) + capsulePadding/2

	return pixelWidth * pointsToWorld, pixelHeight * pointsToWorld, lines
}
