package remote

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/germanamz/slideshow/pkg/engine"
)

// Option configures a transport.
type Option func(*options)

type options struct {
	log     *slog.Logger
	origins []string
}

// WithLogger sets the transport logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOriginPatterns allows cross-origin websocket clients matching patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(o *options) { o.origins = patterns }
}

func newOptions(opts []Option) options {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ServeLines reads one command per line from r and writes one event per line
// to w until r is exhausted or ctx is done. The current state is written
// first. r is not closed; a reader blocked in Read outlives the call.
func ServeLines(ctx context.Context, c *engine.Carousel, r io.Reader, w io.Writer, opts ...Option) error {
	o := newOptions(opts)

	var mu sync.Mutex
	s := &session{
		c:   c,
		log: o.log.With("instance", c.ID(), "transport", "lines"),
		write: func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()

			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("remote: write: %w", err)
			}
			return nil
		},
	}

	sub := c.Events().Subscribe(eventBuffer)
	defer c.Events().Unsubscribe(sub)

	if err := s.hello(); err != nil {
		return err
	}

	fwdCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.forward(fwdCtx, sub)
	}()
	defer func() {
		stop()
		<-done
	}()

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- slices.Clone(sc.Bytes()):
			case <-fwdCtx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("remote: read: %w", err)
			}
			s.log.Debug("input closed")
			return nil
		case line := <-lines:
			if err := s.handle(line); err != nil {
				return err
			}
		}
	}
}
