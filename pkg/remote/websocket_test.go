package remote

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/germanamz/slideshow/pkg/transition"
)

func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn) gjson.Result {
	t.Helper()

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)
	require.True(t, gjson.ValidBytes(data))
	return gjson.ParseBytes(data)
}

func TestHandler(t *testing.T) {
	c := newCarousel(t)
	srv := httptest.NewServer(Handler(c))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow() //nolint:errcheck

	hello := readEvent(ctx, t, conn)
	assert.Equal(t, "state", hello.Get("event").String())
	assert.Equal(t, c.ID(), hello.Get("instance").String())

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"type":"NEXT"}`)))

	start := readEvent(ctx, t, conn)
	assert.Equal(t, "transition_start", start.Get("event").String())
	seq := start.Get("seq").Uint()

	state := readEvent(ctx, t, conn)
	assert.Equal(t, "state", state.Get("event").String())
	assert.Equal(t, int64(1), state.Get("index").Int())

	complete := fmt.Sprintf(`{"type":"COMPLETE","args":{"seq":%d}}`, seq)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(complete)))

	settled := readEvent(ctx, t, conn)
	assert.Equal(t, "settled", settled.Get("event").String())
	assert.Equal(t, transition.Idle, c.Phase())

	require.NoError(t, conn.Write(ctx, websocket.MessageBinary, []byte{0x01}))
	errEv := readEvent(ctx, t, conn)
	assert.Equal(t, "error", errEv.Get("event").String())
	assert.Contains(t, errEv.Get("message").String(), "binary")

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
}
