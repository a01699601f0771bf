// Package store holds the position of one carousel instance and the commands
// that move it. Every successful write is published to all subscribers in
// write order.
package store

import (
	"fmt"
	"sync"

	"github.com/germanamz/slideshow/pkg/indexmath"
)

// State is the published position of a carousel. Index is always in
// [0, Length-1] when Length > 0 and 0 otherwise.
type State struct {
	Index  int
	Length int
}

// Empty reports whether the carousel has no slides.
func (s State) Empty() bool { return s.Length == 0 }

// OutOfRangeError is returned by Set for an index outside the deck. The state
// is left unchanged.
type OutOfRangeError struct {
	Index  int
	Length int
}

func (e *OutOfRangeError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("store: index %d out of range: carousel is empty", e.Index)
	}
	return fmt.Sprintf("store: index %d out of range [0, %d]", e.Index, e.Length-1)
}

// Listener receives every state written to the store.
type Listener func(State)

// Store is the owned position record of a carousel instance. It is safe for
// concurrent use. Listeners are invoked outside the lock, one state at a time
// and in write order, so the last state a listener sees is the stored one.
// A write made while another goroutine is publishing is handed to that
// goroutine and the writer returns without waiting for its listeners.
type Store struct {
	mu         sync.Mutex
	state      State
	infinite   bool
	nextID     int
	listeners  map[int]Listener
	order      []int
	pending    []State
	publishing bool
}

// New creates a store for length slides positioned on the first slide.
func New(length int, infinite bool) *Store {
	return &Store{
		state:     State{Length: max(length, 0)},
		infinite:  infinite,
		listeners: make(map[int]Listener),
	}
}

// State returns the current position.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Infinite reports whether positions wrap around.
func (s *Store) Infinite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.infinite
}

// SetInfinite changes the wraparound policy used by Next and Prev. It does
// not move the carousel and publishes nothing.
func (s *Store) SetInfinite(infinite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.infinite = infinite
}

// Subscribe registers l and returns a function that removes it. Listeners are
// called in subscription order.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Next moves to the following slide. At a non-infinite boundary the index is
// unchanged but the state is still published. It is a no-op on an empty
// carousel.
func (s *Store) Next() {
	s.move(indexmath.NextIndex)
}

// Prev moves to the preceding slide, symmetric with Next.
func (s *Store) Prev() {
	s.move(indexmath.PrevIndex)
}

// Set jumps to index. It returns *OutOfRangeError when index does not address
// a slide.
func (s *Store) Set(index int) error {
	s.mu.Lock()
	if !indexmath.InRange(index, s.state.Length) {
		err := &OutOfRangeError{Index: index, Length: s.state.Length}
		s.mu.Unlock()
		return err
	}
	s.state.Index = index
	s.commitLocked()

	return nil
}

// Resize updates the slide count after slides were added or removed and
// clamps the index into range. The new state is always published.
func (s *Store) Resize(length int) {
	s.mu.Lock()
	length = max(length, 0)
	s.state = State{Index: indexmath.Clamp(s.state.Index, length), Length: length}
	s.commitLocked()
}

func (s *Store) move(step func(current, length int, infinite bool) int) {
	s.mu.Lock()
	if s.state.Length == 0 {
		s.mu.Unlock()
		return
	}
	s.state.Index = step(s.state.Index, s.state.Length, s.infinite)
	s.commitLocked()
}

// commitLocked queues the current state for publication and releases mu. If
// no other call is publishing, it drains the queue itself.
func (s *Store) commitLocked() {
	s.pending = append(s.pending, s.state)
	if s.publishing {
		s.mu.Unlock()
		return
	}

	s.publishing = true
	defer func() {
		s.publishing = false
		s.mu.Unlock()
	}()

	for len(s.pending) > 0 {
		st := s.pending[0]
		s.pending = s.pending[1:]
		ls := s.listenersLocked()

		s.mu.Unlock()
		publish(ls, st)
		s.mu.Lock()
	}
}

// listenersLocked must be called with mu held.
func (s *Store) listenersLocked() []Listener {
	ls := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		ls = append(ls, s.listeners[id])
	}
	return ls
}

func publish(ls []Listener, st State) {
	for _, l := range ls {
		l(st)
	}
}
