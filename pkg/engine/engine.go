package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Engine is the composition root that builds carousel instances from
// configuration and exposes them through a frontend-agnostic API.
type Engine struct {
	cfg    Config
	events *EventBus
	log    *slog.Logger
	rng    *rand.Rand

	mu        sync.Mutex
	carousels map[string]*Carousel
	closed    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRand sets the source used to shuffle random carousels.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// New creates an Engine from the given configuration.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		events:    NewEventBus(),
		log:       slog.New(slog.DiscardHandler),
		carousels: make(map[string]*Carousel),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // slide order is not security sensitive
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// NewCarousel creates a carousel instance. If name is empty the config's
// Entry is used. If Entry is also empty, the first carousel in the config is
// used. Each call creates an independent instance with its own state.
func (e *Engine) NewCarousel(name string, opts ...CarouselOption) (*Carousel, error) {
	cc, ok := e.cfg.Find(name)
	if !ok {
		return nil, fmt.Errorf("engine: carousel %q not found", name)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine: closed")
	}
	// *rand.Rand is not safe for concurrent use; each instance gets its own.
	rng := rand.New(rand.NewPCG(e.rng.Uint64(), e.rng.Uint64())) //nolint:gosec // slide order is not security sensitive
	e.mu.Unlock()

	id := uuid.NewString()
	c, err := newCarousel(id, cc, e.log, e.events, rng, opts...)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.carousels[id] = c
	e.mu.Unlock()

	e.log.Info("carousel created", "instance", id, "carousel", cc.Name, "slides", len(cc.Slides))

	return c, nil
}

// Carousel returns an existing carousel by instance ID.
func (e *Engine) Carousel(id string) (*Carousel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carousels[id]
	return c, ok
}

// Carousels returns all live instances ordered by ID.
func (e *Engine) Carousels() []*Carousel {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Carousel, 0, len(e.carousels))
	for _, c := range e.carousels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Release closes one carousel instance and forgets it.
func (e *Engine) Release(id string) {
	e.mu.Lock()
	c, ok := e.carousels[id]
	delete(e.carousels, id)
	e.mu.Unlock()

	if ok {
		c.Close()
	}
}

// Close closes every carousel and then the event bus.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	cs := make([]*Carousel, 0, len(e.carousels))
	for id, c := range e.carousels {
		cs = append(cs, c)
		delete(e.carousels, id)
	}
	e.mu.Unlock()

	for _, c := range cs {
		c.Close()
	}
	e.events.Close()

	return nil
}
