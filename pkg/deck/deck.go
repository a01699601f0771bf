// Package deck holds the slide sequence of a carousel and the wraparound
// policy applied to it. Slide identifiers are opaque: the deck never inspects
// them and does not require them to be unique.
package deck

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownDirection is returned by ParseDirection for unsupported values.
var ErrUnknownDirection = errors.New("deck: unknown direction")

// Axis is the axis slides travel along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// String returns the axis name used in configuration files.
func (a Axis) String() string {
	if a == Vertical {
		return "VERTICAL"
	}
	return "HORIZONTAL"
}

// Policy describes how positions wrap and how the window is laid out. It is
// immutable for the lifetime of a carousel instance configuration.
type Policy struct {
	Infinite bool
	Reverse  bool
	Axis     Axis
}

// Direction returns the configuration string for the policy's axis and
// reverse flag, e.g. "VERTICAL_REVERSE".
func (p Policy) Direction() string {
	if p.Reverse {
		return p.Axis.String() + "_REVERSE"
	}
	return p.Axis.String()
}

// ParseDirection parses HORIZONTAL, HORIZONTAL_REVERSE, VERTICAL or
// VERTICAL_REVERSE (case-insensitive). An empty string means HORIZONTAL.
func ParseDirection(s string) (Axis, bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "HORIZONTAL":
		return Horizontal, false, nil
	case "HORIZONTAL_REVERSE":
		return Horizontal, true, nil
	case "VERTICAL":
		return Vertical, false, nil
	case "VERTICAL_REVERSE":
		return Vertical, true, nil
	default:
		return Horizontal, false, fmt.Errorf("%w %q", ErrUnknownDirection, s)
	}
}

// Deck is an ordered sequence of slide identifiers. The zero value is an
// empty deck.
type Deck struct {
	ids []string
}

// New creates a deck holding a copy of ids.
func New(ids []string) Deck {
	return Deck{ids: slices.Clone(ids)}
}

// Len returns the number of slides.
func (d Deck) Len() int { return len(d.ids) }

// Empty reports whether the deck has no slides.
func (d Deck) Empty() bool { return len(d.ids) == 0 }

// At returns the identifier at index i.
func (d Deck) At(i int) string { return d.ids[i] }

// IDs returns a copy of the identifiers in order.
func (d Deck) IDs() []string { return slices.Clone(d.ids) }

// Equal reports whether both decks hold the same identifiers in the same order.
func (d Deck) Equal(other Deck) bool { return slices.Equal(d.ids, other.ids) }

// HasDuplicates reports whether any identifier appears more than once.
func (d Deck) HasDuplicates() bool {
	seen := make(map[string]struct{}, len(d.ids))
	for _, id := range d.ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
