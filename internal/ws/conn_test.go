package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

// fakeServer mounts handle behind a chi router and returns its ws:// URL.
func fakeServer(t *testing.T, handle func(ctx context.Context, c *websocket.Conn)) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()
		handle(r.Context(), c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// forward copies every frame the server receives into out until the
// connection ends.
func forward(out chan<- []byte) func(context.Context, *websocket.Conn) {
	return func(ctx context.Context, c *websocket.Conn) {
		for {
			_, data, err := c.Read(ctx)
			if err != nil {
				return
			}
			out <- data
		}
	}
}

func recvFrame(t *testing.T, ch <-chan []byte, within time.Duration) protocol.Envelope {
	t.Helper()
	select {
	case data := <-ch:
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(within):
		t.Fatalf("timed out waiting for frame")
		return protocol.Envelope{}
	}
}

func dial(t *testing.T, endpoint string, opts Options) *Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, err := Dial(ctx, endpoint, opts, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(nil) })
	return c
}

func TestDial_RejectsNonWebsocketSchemes(t *testing.T) {
	for _, endpoint := range []string{"http://localhost:1/ws", "tcp://localhost:1", "localhost:1"} {
		_, err := Dial(context.Background(), endpoint, Options{}, zap.NewNop())
		assert.ErrorIs(t, err, ErrUnsupportedTransport, endpoint)
	}
}

func TestDial_FailedHandshakeIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/missing", Options{}, zap.NewNop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedTransport)
}

func TestSendAndRead(t *testing.T) {
	got := make(chan []byte, 1)
	endpoint := fakeServer(t, func(ctx context.Context, c *websocket.Conn) {
		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		got <- data
		_ = c.Write(ctx, websocket.MessageBinary, []byte{0x01})
		_ = c.Write(ctx, websocket.MessageText, []byte(`{"updateType":"pong","participantID":0}`))
		_, _, _ = c.Read(ctx)
	})

	conn := dial(t, endpoint, Options{})
	require.True(t, conn.IsOpen())
	require.NoError(t, conn.Send(context.Background(), protocol.Hello(42, false)))

	env := recvFrame(t, got, time.Second)
	assert.Equal(t, protocol.TypeHello, env.UpdateType)
	assert.Equal(t, protocol.ParticipantID(42), env.ParticipantID)

	// the binary frame is skipped
	frame, err := conn.Read(context.Background())
	require.NoError(t, err)
	u, err := protocol.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypePong, u.Type())
}

func TestRead_CleanClose(t *testing.T) {
	endpoint := fakeServer(t, func(ctx context.Context, c *websocket.Conn) {
		_ = c.Close(websocket.StatusCode(4000), "game over")
	})

	conn := dial(t, endpoint, Options{})
	_, err := conn.Read(context.Background())

	var ce *CloseError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.True(t, ce.Clean)
	assert.Equal(t, websocket.StatusCode(4000), ce.Code)
	assert.Equal(t, "game over", ce.Reason)
	assert.False(t, conn.IsOpen())
}

func TestRead_TimeoutIsUncleanAndDropsSends(t *testing.T) {
	endpoint := fakeServer(t, func(ctx context.Context, c *websocket.Conn) {
		_, _, _ = c.Read(ctx) // say nothing
	})

	conn := dial(t, endpoint, Options{ReadTimeout: 50 * time.Millisecond})
	_, err := conn.Read(context.Background())

	var ce *CloseError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.False(t, ce.Clean)
	assert.False(t, conn.IsOpen())

	err = conn.Send(context.Background(), protocol.Guess(42, 3))
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestHeartbeat(t *testing.T) {
	got := make(chan []byte, 8)
	endpoint := fakeServer(t, forward(got))
	conn := dial(t, endpoint, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- conn.Heartbeat(ctx, 10*time.Millisecond, protocol.Ping(42)) }()

	for range 2 {
		env := recvFrame(t, got, time.Second)
		assert.Equal(t, protocol.TypePing, env.UpdateType)
		assert.Equal(t, protocol.ParticipantID(42), env.ParticipantID)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("heartbeat did not stop")
	}
}

func TestClose_SendsByeOnce(t *testing.T) {
	got := make(chan []byte, 4)
	endpoint := fakeServer(t, forward(got))
	conn := dial(t, endpoint, Options{})

	bye := protocol.Bye(42)
	require.NoError(t, conn.Close(&bye))
	env := recvFrame(t, got, time.Second)
	assert.Equal(t, protocol.TypeBye, env.UpdateType)

	assert.NoError(t, conn.Close(&bye))
	assert.ErrorIs(t, conn.Send(context.Background(), protocol.Ping(42)), ErrNotOpen)

	select {
	case data := <-got:
		t.Fatalf("unexpected frame after close: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}
