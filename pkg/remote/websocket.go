package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"

	"github.com/germanamz/slideshow/pkg/command"
	"github.com/germanamz/slideshow/pkg/engine"
)

var errBinaryMessage = errors.New("remote: binary messages are not supported")

// Handler serves the protocol over a websocket. Every connection drives the
// same carousel and receives its events.
func Handler(c *engine.Carousel, opts ...Option) http.Handler {
	o := newOptions(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: o.origins,
		})
		if err != nil {
			o.log.Warn("websocket accept", "error", err)
			return
		}
		defer conn.CloseNow() //nolint:errcheck // best effort after the close handshake

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		s := &session{
			c:   c,
			log: o.log.With("instance", c.ID(), "transport", "websocket", "remote", r.RemoteAddr),
			write: func(data []byte) error {
				return conn.Write(ctx, websocket.MessageText, data)
			},
		}
		s.log.Info("client connected")

		sub := c.Events().Subscribe(eventBuffer)
		defer c.Events().Unsubscribe(sub)

		if err := s.hello(); err != nil {
			return
		}
		go s.forward(ctx, sub)

		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					s.log.Info("client disconnected")
				default:
					s.log.Debug("websocket read", "error", err)
				}
				return
			}

			if typ != websocket.MessageText {
				if err := s.write(command.EncodeError(c.ID(), errBinaryMessage)); err != nil {
					return
				}
				continue
			}

			if err := s.handle(data); err != nil {
				return
			}
		}
	})
}
