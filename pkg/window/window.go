// Package window computes the preload window of a carousel: the ordered set
// of slides kept mounted around the current index so that neighbours are
// ready before a transition starts.
package window

import (
	"fmt"
	"strings"

	"github.com/germanamz/slideshow/pkg/deck"
	"github.com/germanamz/slideshow/pkg/indexmath"
)

const (
	// MinWidth and MaxWidth bound the number of neighbours loaded on each
	// side of the current slide.
	MinWidth = 1
	MaxWidth = 5
)

// Slot is one position of the window. Placeholder slots stand for neighbours
// beyond a non-infinite boundary: they carry no slide, must render nothing and
// must not take pointer or focus.
type Slot struct {
	ID    string // slide identifier, empty for placeholders
	Key   string // render key, unique within the window
	Index int    // position in the deck, -1 for placeholders
	Empty bool
}

// Variant selects how many neighbours are preloaded.
type Variant int

const (
	// Slider preloads a configurable number of neighbours per side.
	Slider Variant = iota
	// Basic always preloads exactly one neighbour per side.
	Basic
)

// String returns the configuration name of the variant.
func (v Variant) String() string {
	if v == Basic {
		return "basic"
	}
	return "slider"
}

// ParseVariant parses "slider" or "basic". An empty string means slider.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "slider":
		return Slider, nil
	case "basic":
		return Basic, nil
	default:
		return Slider, fmt.Errorf("window: unknown variant %q", s)
	}
}

// Width returns the neighbour count for the variant given the configured
// slidesToLoad, and whether the configured value had to be clamped.
func (v Variant) Width(slidesToLoad int) (int, bool) {
	if v == Basic {
		return 1, false
	}
	return ClampWidth(slidesToLoad)
}

// ClampWidth forces n into [MinWidth, MaxWidth] and reports whether it
// changed.
func ClampWidth(n int) (int, bool) {
	switch {
	case n < MinWidth:
		return MinWidth, true
	case n > MaxWidth:
		return MaxWidth, true
	default:
		return n, false
	}
}

// Size returns the number of slots in a window of the given width.
func Size(width int) int {
	return 2*width + 1
}

// Build returns width predecessors, the slide at index and width successors
// of order, stepping with the same wraparound rules as indexmath. Slots past
// a non-infinite boundary are placeholders, so the result always holds
// Size(width) slots. When policy.Reverse is set the whole window is reversed.
// An empty deck yields nil.
func Build(index, width int, policy deck.Policy, order deck.Deck) []Slot {
	n := order.Len()
	if n == 0 {
		return nil
	}

	width = max(width, 0)
	index = indexmath.Clamp(index, n)
	slots := make([]Slot, Size(width))

	slots[width] = slideSlot(order, index)

	cur, exhausted := index, false
	for k := width - 1; k >= 0; k-- {
		p := indexmath.PrevIndex(cur, n, policy.Infinite)
		if exhausted || p == cur {
			exhausted = true
			slots[k] = placeholder()
			continue
		}
		slots[k] = slideSlot(order, p)
		cur = p
	}

	cur, exhausted = index, false
	for k := width + 1; k < len(slots); k++ {
		nx := indexmath.NextIndex(cur, n, policy.Infinite)
		if exhausted || nx == cur {
			exhausted = true
			slots[k] = placeholder()
			continue
		}
		slots[k] = slideSlot(order, nx)
		cur = nx
	}

	if policy.Reverse {
		for i, j := 0, len(slots)-1; i < j; i, j = i+1, j-1 {
			slots[i], slots[j] = slots[j], slots[i]
		}
	}

	assignKeys(slots)

	return slots
}

// Center returns the position of the current slide inside a window of the
// given width. The centre does not move when the window is reversed.
func Center(width int) int {
	return width
}

// Keys returns the render keys of all non-placeholder slots in window order.
func Keys(slots []Slot) []string {
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		if !s.Empty {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

func slideSlot(order deck.Deck, i int) Slot {
	return Slot{ID: order.At(i), Index: i}
}

func placeholder() Slot {
	return Slot{Index: -1, Empty: true}
}

// assignKeys uses the bare identifier as key when it is unique in the window
// and identifier plus slot position otherwise.
func assignKeys(slots []Slot) {
	counts := make(map[string]int, len(slots))
	for _, s := range slots {
		if !s.Empty {
			counts[s.ID]++
		}
	}

	for i := range slots {
		if slots[i].Empty {
			continue
		}
		if counts[slots[i].ID] > 1 {
			slots[i].Key = fmt.Sprintf("%s-%d", slots[i].ID, i)
		} else {
			slots[i].Key = slots[i].ID
		}
	}
}
