// Package indexmath computes carousel positions. All functions are pure: they
// take the current position, the number of slides and the wraparound flag and
// never touch shared state.
package indexmath

// Movement classifies the change between two consecutive indexes.
type Movement int

const (
	// Jump is a change with no continuous path between the two slides: a
	// non-adjacent SET, an unchanged index, or any change on a deck with fewer
	// than two slides.
	Jump Movement = iota
	// Forward is a step to the following slide, including the wrap from the
	// last slide to the first.
	Forward
	// Backward is a step to the preceding slide, including the wrap from the
	// first slide to the last.
	Backward
)

// String returns the lower-case name of the movement.
func (m Movement) String() string {
	switch m {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "jump"
	}
}

// Animated reports whether the movement has a continuous path to animate.
func (m Movement) Animated() bool {
	return m == Forward || m == Backward
}

// NextIndex returns the index after current. At the last slide it wraps to 0
// when infinite is set and stays put otherwise. An empty deck always yields 0.
func NextIndex(current, length int, infinite bool) int {
	if length <= 0 {
		return 0
	}
	if current+1 < length {
		return current + 1
	}
	if infinite {
		return 0
	}
	return current
}

// PrevIndex returns the index before current. At the first slide it wraps to
// length-1 when infinite is set and stays put otherwise. An empty deck always
// yields 0.
func PrevIndex(current, length int, infinite bool) int {
	if length <= 0 {
		return 0
	}
	if current-1 >= 0 {
		return current - 1
	}
	if infinite {
		return length - 1
	}
	return current
}

// Classify reports how the carousel moved from previous to current.
//
// Forward is checked before Backward, so on a two-slide infinite deck (where
// both neighbours are the same slide) every step is reported as Forward.
func Classify(current, previous, length int, infinite bool) Movement {
	if length <= 1 || current == previous {
		return Jump
	}

	if current == previous+1 || (infinite && previous == length-1 && current == 0) {
		return Forward
	}

	if current == previous-1 || (infinite && previous == 0 && current == length-1) {
		return Backward
	}

	return Jump
}

// Clamp forces index into [0, length-1], or 0 for an empty deck.
func Clamp(index, length int) int {
	if length <= 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

// InRange reports whether index addresses a slide of a deck with length slides.
func InRange(index, length int) bool {
	return index >= 0 && index < length
}
