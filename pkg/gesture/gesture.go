// Package gesture turns directional swipe signals into carousel commands. It
// decouples input recognition from the command surface and holds no state.
package gesture

import (
	"fmt"
	"strings"
)

// Signal is a recognised directional gesture.
type Signal int

const (
	ForwardSwipe Signal = iota
	BackwardSwipe
)

// String returns the wire name of the signal.
func (s Signal) String() string {
	if s == BackwardSwipe {
		return "BACKWARD_SWIPE"
	}
	return "FORWARD_SWIPE"
}

// ParseSignal parses FORWARD_SWIPE or BACKWARD_SWIPE (case-insensitive).
func ParseSignal(s string) (Signal, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FORWARD_SWIPE":
		return ForwardSwipe, nil
	case "BACKWARD_SWIPE":
		return BackwardSwipe, nil
	default:
		return ForwardSwipe, fmt.Errorf("gesture: unknown signal %q", s)
	}
}

// Navigator is the command surface a gesture drives.
type Navigator interface {
	Next()
	Prev()
}

// Adapter forwards signals to a Navigator.
type Adapter struct {
	target Navigator
}

// NewAdapter creates an adapter bound to target.
func NewAdapter(target Navigator) *Adapter {
	return &Adapter{target: target}
}

// Handle forwards a forward swipe to Next and a backward swipe to Prev.
func (a *Adapter) Handle(s Signal) {
	switch s {
	case ForwardSwipe:
		a.target.Next()
	case BackwardSwipe:
		a.target.Prev()
	}
}
