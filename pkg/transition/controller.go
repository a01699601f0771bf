// Package transition drives the visual transition between carousel positions.
// A Controller observes the store, runs the Step state machine and applies
// its effects: it asks a Driver to animate adjacent moves, rebuilds the
// preload window and reports every settle.
//
// The only suspension point is the delay between Driver.Animate and the
// matching Complete call. A new index that arrives in between is not queued:
// the controller snaps to it and measures the next change from there.
package transition

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/germanamz/slideshow/pkg/deck"
	"github.com/germanamz/slideshow/pkg/indexmath"
	"github.com/germanamz/slideshow/pkg/store"
	"github.com/germanamz/slideshow/pkg/window"
)

// Driver runs motions. Implementations must eventually call
// Controller.Complete with the motion's Seq, from any goroutine, unless the
// motion is superseded.
type Driver interface {
	Animate(m Motion)
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(m Motion)

// Animate calls f(m).
func (f DriverFunc) Animate(m Motion) { f(m) }

// Settle reports a rebuilt window.
type Settle struct {
	Index    int
	Length   int
	Reason   Reason
	Movement indexmath.Movement
	Window   []window.Slot
}

// Config is the part of the carousel configuration the controller reads.
type Config struct {
	Policy deck.Policy
	Width  int
	Speed  time.Duration
	Style  Style
	Order  deck.Deck
}

// Options configures a Controller.
type Options struct {
	Config
	// Initial is the store state at creation.
	Initial  store.State
	Driver   Driver
	OnSettle func(Settle)
	Logger   *slog.Logger
}

// Snapshot is a consistent view of a controller.
type Snapshot struct {
	Phase  Phase
	Index  int
	Length int
	Window []window.Slot
	Width  int // neighbour count Window was built with
	Motion Motion
}

// Controller owns the transition state of one carousel instance. It is safe
// for concurrent use; callbacks run outside its lock.
type Controller struct {
	mu       sync.Mutex
	cfg      Config
	machine  Machine
	window   []window.Slot
	width    int
	driver   Driver
	onSettle func(Settle)
	log      *slog.Logger
}

// New creates a controller resting on opts.Initial.
func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	c := &Controller{
		cfg:      opts.Config,
		machine:  Machine{Baseline: opts.Initial.Index, Length: opts.Initial.Length},
		driver:   opts.Driver,
		onSettle: opts.OnSettle,
		log:      log,
	}
	c.rebuild(opts.Initial.Index)

	return c
}

// Observe feeds a state published by the store. It is meant to be passed to
// store.Store.Subscribe.
func (c *Controller) Observe(st store.State) {
	c.dispatch(Event{Kind: IndexChanged, State: st})
}

// Complete is the animation-complete signal for motion seq. Completions of
// superseded motions are ignored.
func (c *Controller) Complete(seq uint64) {
	c.dispatch(Event{Kind: AnimationComplete, Seq: seq})
}

// Reconfigure replaces the configuration and rebuilds the window in full. An
// in-flight motion is abandoned.
func (c *Controller) Reconfigure(cfg Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	c.dispatch(Event{Kind: ConfigChanged})
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.machine.Phase
}

// Window returns a copy of the mounted window.
func (c *Controller) Window() []window.Slot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.window)
}

// Snapshot returns the phase, position, window and in-flight motion.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Phase:  c.machine.Phase,
		Index:  c.machine.Baseline,
		Length: c.machine.Length,
		Window: slices.Clone(c.window),
		Width:  c.width,
		Motion: c.machine.Motion,
	}
}

// Config returns the current configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cfg
}

func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	params := Params{Policy: c.cfg.Policy, Speed: c.cfg.Speed, Style: c.cfg.Style}
	next, effects := Step(c.machine, ev, params)
	c.machine = next

	var (
		motions []Motion
		settles []Settle
	)
	for _, eff := range effects {
		switch eff.Kind {
		case Animate:
			motions = append(motions, eff.Motion)
		case Rebuild:
			c.rebuild(eff.Index)
			settles = append(settles, Settle{
				Index:    eff.Index,
				Length:   c.machine.Length,
				Reason:   eff.Reason,
				Movement: eff.Movement,
				Window:   slices.Clone(c.window),
			})
		}
	}
	driver, onSettle := c.driver, c.onSettle
	c.mu.Unlock()

	for _, m := range motions {
		c.log.Debug("transition started",
			"seq", m.Seq,
			"movement", m.Movement.String(),
			"index", m.Index,
			"from", m.From,
			"to", m.To,
			"duration", m.Duration,
		)
		if driver != nil {
			driver.Animate(m)
		}
	}

	for _, s := range settles {
		c.log.Debug("window rebuilt",
			"reason", s.Reason.String(),
			"index", s.Index,
			"length", s.Length,
		)
		if onSettle != nil {
			onSettle(s)
		}
	}
}

// rebuild must be called with mu held.
func (c *Controller) rebuild(index int) {
	c.window = window.Build(index, c.cfg.Width, c.cfg.Policy, c.cfg.Order)
	c.width = c.cfg.Width
}
