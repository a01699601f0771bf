package remote

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/germanamz/slideshow/pkg/command"
	"github.com/germanamz/slideshow/pkg/engine"
	"github.com/germanamz/slideshow/pkg/transition"
)

const eventBuffer = 64

// session binds one connection to one carousel.
type session struct {
	c     *engine.Carousel
	log   *slog.Logger
	write func([]byte) error
}

// handle runs one inbound message. Decoding and dispatch failures are
// reported to the peer; only write failures are returned.
func (s *session) handle(msg []byte) error {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return nil
	}

	cmd, err := command.Parse(msg)
	if err == nil {
		err = s.c.Dispatch(cmd)
	}
	if err != nil {
		s.log.Debug("command rejected", "error", err)
		return s.write(command.EncodeError(s.c.ID(), err))
	}
	return nil
}

// hello sends the current position.
func (s *session) hello() error {
	data, err := encodeState(s.c.ID(), s.c.State())
	if err != nil {
		return err
	}
	return s.write(data)
}

// forward copies this carousel's events from sub to the peer until sub is
// closed, a write fails, or ctx is done. On ctx done, events already buffered
// are still flushed.
func (s *session) forward(ctx context.Context, sub *engine.Subscription) {
	for {
		select {
		case e, ok := <-sub.C:
			if !ok || !s.send(e) || !s.resync(sub) {
				return
			}
		case <-ctx.Done():
			for {
				select {
				case e, ok := <-sub.C:
					if !ok || !s.send(e) || !s.resync(sub) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// resync resends the current position, and the motion in flight if any,
// after the bus dropped events for sub. A peer that settles transitions
// itself would otherwise never see the seq it has to complete.
func (s *session) resync(sub *engine.Subscription) bool {
	n := sub.TakeDropped()
	if n == 0 {
		return true
	}

	f := s.c.Frame()
	s.log.Warn("events dropped, resyncing", "dropped", n, "index", f.State.Index, "phase", f.Phase.String())

	data, err := encodeState(s.c.ID(), f.State)
	if err != nil {
		return true
	}
	if err := s.write(data); err != nil {
		s.log.Debug("write event", "error", err)
		return false
	}

	if f.Phase != transition.Animating {
		return true
	}
	return s.send(engine.Event{
		Kind:      engine.EventTransitionStart,
		Instance:  s.c.ID(),
		Carousel:  s.c.Name(),
		Timestamp: time.Now(),
		Data:      f.Motion,
	})
}

func (s *session) send(e engine.Event) bool {
	if e.Instance != s.c.ID() {
		return true
	}

	data, err := EncodeEvent(e)
	if err != nil {
		s.log.Warn("encode event", "kind", string(e.Kind), "error", err)
		return true
	}

	if err := s.write(data); err != nil {
		s.log.Debug("write event", "error", err)
		return false
	}
	return true
}
