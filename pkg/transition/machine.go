package transition

import (
	"fmt"
	"strings"
	"time"

	"github.com/germanamz/slideshow/pkg/deck"
	"github.com/germanamz/slideshow/pkg/indexmath"
	"github.com/germanamz/slideshow/pkg/store"
)

// Phase is the state of a transition cycle.
type Phase int

const (
	Idle Phase = iota
	Animating
)

// String returns the lower-case name of the phase.
func (p Phase) String() string {
	if p == Animating {
		return "animating"
	}
	return "idle"
}

// Style is the visual treatment the driver applies to a motion.
type Style int

const (
	Slide Style = iota
	Fade
	Zoom
	Carousel3D
)

// String returns the configuration name of the style.
func (s Style) String() string {
	switch s {
	case Fade:
		return "fade"
	case Zoom:
		return "zoom"
	case Carousel3D:
		return "3d"
	default:
		return "slide"
	}
}

// ParseStyle parses slide, fade, zoom or 3d. An empty string means slide.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "slide":
		return Slide, nil
	case "fade":
		return Fade, nil
	case "zoom":
		return Zoom, nil
	case "3d":
		return Carousel3D, nil
	default:
		return Slide, fmt.Errorf("transition: unknown animation style %q", s)
	}
}

const (
	// RestOffset is the resting offset of the strip, in percent of one slide,
	// with the current slide in view.
	RestOffset = -100.0
	// DefaultSpeed is used when no speed is configured.
	DefaultSpeed = 200 * time.Millisecond
)

// Motion is one animated transition requested from the visual driver. From
// and To are offsets along Axis in percent of one slide.
type Motion struct {
	Seq      uint64
	Movement indexmath.Movement
	Axis     deck.Axis
	Style    Style
	From     float64
	To       float64
	Duration time.Duration
	Index    int // index the carousel settles on
}

// Reason explains why the window was rebuilt.
type Reason int

const (
	// Settled follows the completion of an animated motion.
	Settled Reason = iota
	// Jumped follows a non-adjacent index change.
	Jumped
	// Snapped follows a command that arrived while a motion was in flight.
	Snapped
	// Resized follows a change of the slide count.
	Resized
	// Reconfigured follows a change of the policy, width or slide order.
	Reconfigured
)

// String returns the lower-case name of the reason.
func (r Reason) String() string {
	switch r {
	case Jumped:
		return "jumped"
	case Snapped:
		return "snapped"
	case Resized:
		return "resized"
	case Reconfigured:
		return "reconfigured"
	default:
		return "settled"
	}
}

// Machine is the pure state of a controller.
type Machine struct {
	Phase    Phase
	Baseline int // index the next change is measured from
	Length   int
	Seq      uint64
	Motion   Motion // valid while Animating
}

// EventKind identifies an input of the state machine.
type EventKind int

const (
	// IndexChanged carries a state published by the store.
	IndexChanged EventKind = iota
	// AnimationComplete is the driver's signal that motion Seq finished.
	AnimationComplete
	// ConfigChanged signals a new policy, width, speed, style or order.
	ConfigChanged
)

// Event is one input of the state machine.
type Event struct {
	Kind  EventKind
	State store.State
	Seq   uint64
}

// EffectKind identifies an output of the state machine.
type EffectKind int

const (
	// Animate asks the driver to run Effect.Motion.
	Animate EffectKind = iota
	// Rebuild asks for the window to be rebuilt around Effect.Index.
	Rebuild
)

// Effect is one output of the state machine.
type Effect struct {
	Kind     EffectKind
	Motion   Motion
	Index    int
	Reason   Reason
	Movement indexmath.Movement
}

// Params is the configuration the machine reads.
type Params struct {
	Policy deck.Policy
	Speed  time.Duration
	Style  Style
}

// Step is the transition function of the controller. It never blocks and has
// no side effects: the returned effects are applied by the caller.
func Step(m Machine, ev Event, p Params) (Machine, []Effect) {
	switch ev.Kind {
	case IndexChanged:
		return stepIndex(m, ev.State, p)
	case AnimationComplete:
		if m.Phase != Animating || ev.Seq != m.Seq {
			return m, nil
		}
		idx := m.Motion.Index
		mv := m.Motion.Movement
		m.Phase = Idle
		m.Motion = Motion{}
		return m, []Effect{{Kind: Rebuild, Index: idx, Reason: Settled, Movement: mv}}
	case ConfigChanged:
		m.Phase = Idle
		m.Motion = Motion{}
		return m, []Effect{{Kind: Rebuild, Index: m.Baseline, Reason: Reconfigured}}
	default:
		return m, nil
	}
}

func stepIndex(m Machine, st store.State, p Params) (Machine, []Effect) {
	if st.Length != m.Length {
		return Machine{Phase: Idle, Baseline: st.Index, Length: st.Length, Seq: m.Seq},
			[]Effect{{Kind: Rebuild, Index: st.Index, Reason: Resized}}
	}

	// A deck of zero or one slide never transitions.
	if st.Length <= 1 {
		m.Baseline = st.Index
		return m, nil
	}

	if m.Phase == Animating {
		m.Phase = Idle
		m.Motion = Motion{}
		m.Baseline = st.Index
		return m, []Effect{{Kind: Rebuild, Index: st.Index, Reason: Snapped}}
	}

	mv := indexmath.Classify(st.Index, m.Baseline, st.Length, p.Policy.Infinite)
	if !mv.Animated() {
		changed := st.Index != m.Baseline
		m.Baseline = st.Index
		if !changed {
			return m, nil
		}
		return m, []Effect{{Kind: Rebuild, Index: st.Index, Reason: Jumped, Movement: mv}}
	}

	m.Seq++
	m.Phase = Animating
	m.Baseline = st.Index
	m.Motion = newMotion(m.Seq, mv, st.Index, p)

	return m, []Effect{{Kind: Animate, Motion: m.Motion, Index: st.Index, Movement: mv}}
}

// newMotion computes the physical direction of mv. Moving forward slides the
// strip towards negative offsets; a reversed axis flips that.
func newMotion(seq uint64, mv indexmath.Movement, index int, p Params) Motion {
	towardsNegative := mv == indexmath.Forward
	if p.Policy.Reverse {
		towardsNegative = !towardsNegative
	}

	to := RestOffset + 100
	if towardsNegative {
		to = RestOffset - 100
	}

	speed := p.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}

	return Motion{
		Seq:      seq,
		Movement: mv,
		Axis:     p.Policy.Axis,
		Style:    p.Style,
		From:     RestOffset,
		To:       to,
		Duration: speed,
		Index:    index,
	}
}
