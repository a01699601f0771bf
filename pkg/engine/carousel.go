package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/germanamz/slideshow/pkg/command"
	"github.com/germanamz/slideshow/pkg/deck"
	"github.com/germanamz/slideshow/pkg/gesture"
	"github.com/germanamz/slideshow/pkg/indexmath"
	"github.com/germanamz/slideshow/pkg/store"
	"github.com/germanamz/slideshow/pkg/transition"
	"github.com/germanamz/slideshow/pkg/window"
)

// Mode tells a host how to draw a Frame.
type Mode int

const (
	// ModeEmpty: the carousel has no slides; draw an explicit empty state.
	ModeEmpty Mode = iota
	// ModeSingle: exactly one slide, drawn directly without a strip.
	ModeSingle
	// ModeStrip: draw Window as a strip offset by the in-flight motion.
	ModeStrip
	// ModeStatic: editing mode; draw Selected without motion.
	ModeStatic
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeStrip:
		return "strip"
	case ModeStatic:
		return "static"
	default:
		return "empty"
	}
}

// Frame is a consistent snapshot of a carousel for drawing.
type Frame struct {
	Mode     Mode
	State    store.State
	Phase    transition.Phase
	Motion   transition.Motion // valid while Phase is Animating
	Window   []window.Slot
	Width    int
	Policy   deck.Policy
	Style    transition.Style
	Gap      int
	Selected window.Slot // current slide, or the selected slide in ModeStatic
}

// settings are the mutable presentation flags of a carousel.
type settings struct {
	style    transition.Style
	policy   deck.Policy
	variant  window.Variant
	width    int
	speed    time.Duration
	gap      int
	random   bool
	editing  bool
	selected int
}

// Carousel is one carousel instance: an owned store, its transition
// controller, the mounted slides and a gesture adapter. Instances never share
// state.
type Carousel struct {
	id     string
	name   string
	log    *slog.Logger
	events *EventBus
	rng    *rand.Rand

	store    *store.Store
	ctrl     *transition.Controller
	gestures *gesture.Adapter
	driver   transition.Driver

	mu          sync.Mutex
	set         settings
	source      deck.Deck
	order       deck.Deck
	mounts      *mountSet
	unsubscribe func()
	closed      bool
}

// CarouselOption configures a Carousel.
type CarouselOption func(*carouselOptions)

type carouselOptions struct {
	renderer Renderer
	driver   transition.Driver
}

// WithRenderer sets the slide renderer collaborator.
func WithRenderer(r Renderer) CarouselOption {
	return func(o *carouselOptions) { o.renderer = r }
}

// WithDriver sets the visual driver. Without one, motions are left in flight
// until Complete is called or a new command snaps them.
func WithDriver(d transition.Driver) CarouselOption {
	return func(o *carouselOptions) { o.driver = d }
}

func newCarousel(id string, cc CarouselConfig, log *slog.Logger, events *EventBus, rng *rand.Rand, opts ...CarouselOption) (*Carousel, error) {
	var o carouselOptions
	for _, opt := range opts {
		opt(&o)
	}

	set, warnings, err := buildSettings(cc)
	if err != nil {
		return nil, err
	}

	c := &Carousel{
		id:     id,
		name:   cc.Name,
		log:    log.With("instance", id, "carousel", cc.Name),
		events: events,
		rng:    rng,
		driver: o.driver,
		set:    set,
		source: deck.New(cc.IDs()),
		mounts: newMountSet(o.renderer),
	}
	c.order = c.resolveOrder()

	c.store = store.New(c.order.Len(), set.policy.Infinite)
	c.ctrl = transition.New(transition.Options{
		Config:   c.controllerConfig(),
		Initial:  c.store.State(),
		Driver:   transition.DriverFunc(c.animate),
		OnSettle: c.settled,
		Logger:   c.log,
	})
	c.gestures = gesture.NewAdapter(c)
	c.unsubscribe = c.store.Subscribe(c.observe)

	for _, w := range warnings {
		c.log.Warn("configuration clamped", "field", w.Field, "message", w.Message)
		c.publish(EventWarning, w)
	}

	c.mu.Lock()
	c.mounts.sync(c.visibleLocked(c.ctrl.Window()))
	c.mu.Unlock()

	return c, nil
}

func buildSettings(cc CarouselConfig) (settings, []Warning, error) {
	style, err := transition.ParseStyle(cc.Animation)
	if err != nil {
		return settings{}, nil, fmt.Errorf("engine: carousel %q: %w", cc.Name, err)
	}
	axis, reverse, err := deck.ParseDirection(cc.Direction)
	if err != nil {
		return settings{}, nil, fmt.Errorf("engine: carousel %q: %w", cc.Name, err)
	}
	variant, err := window.ParseVariant(cc.Variant)
	if err != nil {
		return settings{}, nil, fmt.Errorf("engine: carousel %q: %w", cc.Name, err)
	}

	var warnings []Warning

	toLoad := cc.SlidesToLoad
	if toLoad == 0 {
		toLoad = window.MinWidth
	}
	width, clamped := variant.Width(toLoad)
	if clamped {
		warnings = append(warnings, Warning{
			Field:   "slides_to_load",
			Message: fmt.Sprintf("%d is outside [%d,%d], using %d", cc.SlidesToLoad, window.MinWidth, window.MaxWidth, width),
		})
	}

	return settings{
		style:    style,
		policy:   deck.Policy{Infinite: cc.Infinite, Reverse: reverse, Axis: axis},
		variant:  variant,
		width:    width,
		speed:    time.Duration(cc.Speed) * time.Millisecond,
		gap:      cc.Gap,
		random:   cc.Random,
		editing:  cc.Editing,
		selected: cc.SelectedIndex,
	}, warnings, nil
}

// ID returns the instance identifier.
func (c *Carousel) ID() string { return c.id }

// Name returns the configuration name.
func (c *Carousel) Name() string { return c.name }

// State returns the current position.
func (c *Carousel) State() store.State { return c.store.State() }

// Phase returns the transition phase.
func (c *Carousel) Phase() transition.Phase { return c.ctrl.Phase() }

// Events returns the bus this carousel publishes to. It is shared with every
// other instance of the same Engine; filter on Event.Instance.
func (c *Carousel) Events() *EventBus { return c.events }

// Gestures returns the gesture adapter bound to this carousel.
func (c *Carousel) Gestures() *gesture.Adapter { return c.gestures }

// Order returns the canonical slide order: the shuffled order when
// randomisation is active, the configured order otherwise. Indexes used by
// every command refer to this order.
func (c *Carousel) Order() deck.Deck {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order
}

// Next shows the following slide. With the slide style on a reversed axis the
// command moves backwards instead; other styles keep the logical direction.
func (c *Carousel) Next() {
	if !c.accepting() {
		return
	}
	if c.swapsCommands() {
		c.store.Prev()
		return
	}
	c.store.Next()
}

// Prev shows the preceding slide, symmetric with Next: it only moves forwards
// for the slide style on a reversed axis. Fade, zoom and 3d keep the logical
// direction whether or not the axis is reversed.
func (c *Carousel) Prev() {
	if !c.accepting() {
		return
	}
	if c.swapsCommands() {
		c.store.Next()
		return
	}
	c.store.Prev()
}

// Set jumps to index of Order. It fails with *store.OutOfRangeError when the
// index does not address a slide.
func (c *Carousel) Set(index int) error {
	if !c.accepting() {
		return nil
	}
	if err := c.store.Set(index); err != nil {
		c.log.Debug("set rejected", "index", index, "error", err)
		return fmt.Errorf("engine: set: %w", err)
	}
	return nil
}

// Complete is the visual driver's animation-complete signal.
func (c *Carousel) Complete(seq uint64) {
	c.ctrl.Complete(seq)
}

// Dispatch runs a decoded command.
func (c *Carousel) Dispatch(cmd command.Command) error {
	switch cmd.Kind {
	case command.Next:
		c.Next()
	case command.Prev:
		c.Prev()
	case command.Set:
		return c.Set(cmd.Index)
	case command.Swipe:
		c.gestures.Handle(cmd.Signal)
	case command.Complete:
		c.Complete(cmd.Seq)
	default:
		return fmt.Errorf("engine: dispatch: %w %q", command.ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

// SetSlides replaces the slide set after slides were added or removed. The
// position is clamped into the new range.
func (c *Carousel) SetSlides(ids []string) {
	c.mu.Lock()
	next := deck.New(ids)
	if next.Equal(c.source) {
		c.mu.Unlock()
		return
	}
	c.source = next
	c.order = c.resolveOrder()
	cfg := c.controllerConfig()
	length := c.order.Len()
	c.mu.Unlock()

	c.log.Info("slides changed", "length", length)
	c.ctrl.Reconfigure(cfg)
	c.store.Resize(length)
}

// SetRandom toggles randomisation. The order is reshuffled only when the flag
// actually changes.
func (c *Carousel) SetRandom(random bool) {
	c.update(func(s *settings) bool {
		if s.random == random {
			return false
		}
		s.random = random
		return true
	}, true)
}

// SetEditing toggles editing mode. While editing, commands are ignored, the
// configured order is used and the selected slide is shown statically.
func (c *Carousel) SetEditing(editing bool) {
	c.update(func(s *settings) bool {
		if s.editing == editing {
			return false
		}
		s.editing = editing
		return true
	}, true)
}

// SetSelected changes the slide shown in editing mode.
func (c *Carousel) SetSelected(index int) {
	c.update(func(s *settings) bool {
		if s.selected == index {
			return false
		}
		s.selected = index
		return true
	}, false)
}

// SetDirection changes the axis and reverse flag, e.g. "VERTICAL_REVERSE".
func (c *Carousel) SetDirection(direction string) error {
	axis, reverse, err := deck.ParseDirection(direction)
	if err != nil {
		return fmt.Errorf("engine: set direction: %w", err)
	}
	c.update(func(s *settings) bool {
		if s.policy.Axis == axis && s.policy.Reverse == reverse {
			return false
		}
		s.policy.Axis, s.policy.Reverse = axis, reverse
		return true
	}, false)
	return nil
}

// SetInfinite toggles wraparound.
func (c *Carousel) SetInfinite(infinite bool) {
	c.update(func(s *settings) bool {
		if s.policy.Infinite == infinite {
			return false
		}
		s.policy.Infinite = infinite
		return true
	}, false)
	c.store.SetInfinite(infinite)
}

// SetSlidesToLoad changes the preload width, clamping it into range. Zero
// selects the minimum.
func (c *Carousel) SetSlidesToLoad(n int) {
	toLoad := n
	if toLoad == 0 {
		toLoad = window.MinWidth
	}

	var warn *Warning
	c.update(func(s *settings) bool {
		width, clamped := s.variant.Width(toLoad)
		if clamped {
			warn = &Warning{
				Field:   "slides_to_load",
				Message: fmt.Sprintf("%d is outside [%d,%d], using %d", n, window.MinWidth, window.MaxWidth, width),
			}
		}
		if s.width == width {
			return false
		}
		s.width = width
		return true
	}, false)

	if warn != nil {
		c.log.Warn("configuration clamped", "field", warn.Field, "message", warn.Message)
		c.publish(EventWarning, *warn)
	}
}

// Frame returns a snapshot for drawing. Window always holds
// window.Size(Width) slots unless the carousel is empty.
func (c *Carousel) Frame() Frame {
	snap := c.ctrl.Snapshot()
	st := c.store.State()

	c.mu.Lock()
	defer c.mu.Unlock()

	f := Frame{
		State:  st,
		Phase:  snap.Phase,
		Motion: snap.Motion,
		Window: snap.Window,
		Width:  snap.Width,
		Policy: c.set.policy,
		Style:  c.set.style,
		Gap:    c.set.gap,
	}

	switch {
	case st.Length == 0:
		f.Mode = ModeEmpty
		f.Window = nil
	case c.set.editing:
		f.Mode = ModeStatic
		f.Phase = transition.Idle
		f.Motion = transition.Motion{}
		f.Selected = c.selectedSlotLocked()
	case st.Length == 1:
		f.Mode = ModeSingle
		f.Selected = window.Slot{ID: c.order.At(0), Key: c.order.At(0), Index: 0}
	default:
		f.Mode = ModeStrip
		if st.Index < c.order.Len() {
			id := c.order.At(st.Index)
			f.Selected = window.Slot{ID: id, Key: id, Index: st.Index}
		}
	}

	return f
}

// Mounted returns the keys currently mounted on the renderer.
func (c *Carousel) Mounted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mounts.keys()
}

// Close unsubscribes the controller, unmounts every slide and publishes
// EventClosed. It is safe to call more than once.
func (c *Carousel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsub := c.unsubscribe
	c.mounts.clear()
	c.mu.Unlock()

	unsub()
	c.publish(EventClosed, nil)
}

func (c *Carousel) accepting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.set.editing {
		c.log.Debug("command ignored", "closed", c.closed, "editing", c.set.editing)
		return false
	}
	return true
}

func (c *Carousel) swapsCommands() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.set.style == transition.Slide && c.set.policy.Reverse
}

// update applies fn to the settings and, when it reports a change,
// reconfigures the controller. reorder recomputes the canonical order.
func (c *Carousel) update(fn func(*settings) bool, reorder bool) {
	c.mu.Lock()
	if !fn(&c.set) {
		c.mu.Unlock()
		return
	}
	if reorder {
		c.order = c.resolveOrder()
	}
	cfg := c.controllerConfig()
	c.mu.Unlock()

	c.ctrl.Reconfigure(cfg)
}

// resolveOrder must be called with mu held, or before the carousel is shared.
func (c *Carousel) resolveOrder() deck.Deck {
	if c.set.random && !c.set.editing {
		return deck.Shuffle(c.source, c.rng)
	}
	return c.source
}

// controllerConfig must be called with mu held, or before the carousel is
// shared.
func (c *Carousel) controllerConfig() transition.Config {
	return transition.Config{
		Policy: c.set.policy,
		Width:  c.set.width,
		Speed:  c.set.speed,
		Style:  c.set.style,
		Order:  c.order,
	}
}

func (c *Carousel) selectedSlotLocked() window.Slot {
	if c.source.Empty() {
		return window.Slot{Index: -1, Empty: true}
	}
	i := indexmath.Clamp(c.set.selected, c.source.Len())
	return window.Slot{ID: c.source.At(i), Key: c.source.At(i), Index: i}
}

// visibleLocked returns the slots that should be mounted for win.
func (c *Carousel) visibleLocked(win []window.Slot) []window.Slot {
	if c.set.editing {
		s := c.selectedSlotLocked()
		if s.Empty {
			return nil
		}
		return []window.Slot{s}
	}
	return win
}

func (c *Carousel) observe(st store.State) {
	c.ctrl.Observe(st)
	c.log.Debug("state published", "index", st.Index, "length", st.Length)
	c.publish(EventState, st)
}

func (c *Carousel) animate(m transition.Motion) {
	c.publish(EventTransitionStart, m)
	if c.driver != nil {
		c.driver.Animate(m)
	}
}

func (c *Carousel) settled(s transition.Settle) {
	c.mu.Lock()
	if !c.closed {
		c.mounts.sync(c.visibleLocked(s.Window))
	}
	c.mu.Unlock()

	c.publish(EventSettled, s)
}

func (c *Carousel) publish(kind EventKind, data any) {
	if c.events == nil {
		return
	}
	c.events.Publish(Event{
		Kind:      kind,
		Instance:  c.id,
		Carousel:  c.name,
		Timestamp: time.Now(),
		Data:      data,
	})
}
