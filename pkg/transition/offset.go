package transition

import (
	"math"
	"time"
)

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// Linear is the default timing: constant speed.
func Linear(t float64) float64 {
	return t
}

// EaseOutCubic starts fast and slows down towards the target.
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic starts slow, speeds up, and slows down again.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Lerp interpolates between a and b; t=0 yields a and t=1 yields b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Progress returns the linear progress of a motion of the given duration
// after elapsed time, clamped to [0, 1]. A zero duration is complete at once.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(duration)
}

// Offset returns the offset of m at the given progress. A nil ease is Linear.
func Offset(m Motion, progress float64, ease Easing) float64 {
	if ease == nil {
		ease = Linear
	}
	progress = min(max(progress, 0), 1)
	return Lerp(m.From, m.To, ease(progress))
}

// StripOffset converts an inner offset to an offset from the first slot of a
// window of the given width, in percent of one slide. At rest the current
// slide (slot width) is in view: StripOffset(w, RestOffset) == -100*w.
func StripOffset(width int, inner float64) float64 {
	return -100*float64(width-1) + inner
}
