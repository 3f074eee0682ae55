package throttle

import "time"

// Kind is the closed set of detection modes. The boolean mode flags of
// an ad-hoc design are replaced by this tagged variant so illegal mode
// combinations are unrepresentable.
type Kind int

const (
	// KindROIText scans a user-adjustable region for text with accurate
	// recognition settings.
	KindROIText Kind = iota
	// KindObject classifies the dominant object in the region, when the
	// classification capability is present.
	KindObject
	// KindFullFrameWords scans the whole frame for words with fast
	// recognition settings.
	KindFullFrameWords
)

func (k Kind) String() string {
	switch k {
	case KindROIText:
		return "roi_text"
	case KindObject:
		return "object"
	default:
		return "full_frame_words"
	}
}

// Tier reflects device capability; higher tiers sustain faster dispatch.
type Tier int

const (
	TierLow Tier = iota
	TierHigh
)

// Mode bundles a detection kind with its throttle configuration.
type Mode struct {
	Kind     Kind
	Interval time.Duration
	Watchdog time.Duration
}

// ROITextMode returns the region-of-interest text mode for a tier.
func ROITextMode(tier Tier) Mode {
	return Mode{
		Kind:     KindROIText,
		Interval: 200 * time.Millisecond,
		Watchdog: 2 * time.Second,
	}
}

// ObjectMode returns the object-classification mode for a tier.
func ObjectMode(tier Tier) Mode {
	return Mode{
		Kind:     KindObject,
		Interval: 200 * time.Millisecond,
		Watchdog: 3 * time.Second,
	}
}

// FullFrameMode returns the full-frame word mode for a tier. Higher-tier
// devices dispatch twice as often.
func FullFrameMode(tier Tier) Mode {
	interval := 200 * time.Millisecond
	if tier == TierHigh {
		interval = 100 * time.Millisecond
	}
	return Mode{
		Kind:     KindFullFrameWords,
		Interval: interval,
		Watchdog: time.Second,
	}
}
