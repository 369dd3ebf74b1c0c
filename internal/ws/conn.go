package ws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

var ErrUnsupportedTransport = errors.New("unsupported transport")
var ErrNotOpen = errors.New("connection not open")

const (
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

type Options struct {
	// ReadTimeout bounds the wait for the next frame. A server that stays
	// silent for longer is treated as gone.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	return o
}

// CloseError describes how a connection ended. Clean means the peer sent a
// close frame; Code and Reason come from it.
type CloseError struct {
	Clean  bool
	Code   websocket.StatusCode
	Reason string
	Err    error
}

func (e *CloseError) Error() string {
	if e.Clean {
		return fmt.Sprintf("connection closed (%d %s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("connection lost: %v", e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }

// Conn is the single connection a session talks through. Send, Read and
// Close may be called from different goroutines.
type Conn struct {
	conn *websocket.Conn
	opts Options
	log  *zap.Logger

	open      atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Dial opens the connection. There is no retry: a bad scheme or a failed
// handshake is returned to the caller as is.
func Dial(ctx context.Context, endpoint string, opts Options, log *zap.Logger) (*Conn, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTransport, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTransport, u.Scheme)
	}

	c, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	conn := &Conn{conn: c, opts: opts.withDefaults(), log: log}
	conn.open.Store(true)
	log.Info("connected", zap.String("endpoint", u.Redacted()))
	return conn, nil
}

func (c *Conn) IsOpen() bool { return c.open.Load() }

// Send writes one envelope. A closed connection drops it with ErrNotOpen;
// nothing is queued for later.
func (c *Conn) Send(ctx context.Context, env protocol.Envelope) error {
	if !c.open.Load() {
		c.log.Error("dropped outbound message", zap.String("type", string(env.UpdateType)), zap.Error(ErrNotOpen))
		return ErrNotOpen
	}

	frame, err := protocol.Encode(env)
	if err != nil {
		return err
	}

	wctx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageText, frame); err != nil {
		c.log.Error("send failed", zap.String("type", string(env.UpdateType)), zap.Error(err))
		return fmt.Errorf("send %s: %w", env.UpdateType, err)
	}
	c.log.Debug("sent", zap.ByteString("frame", frame))
	return nil
}

// Read returns the next text frame. Any error ends the connection and is
// returned as a *CloseError.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	for {
		rctx, cancel := context.WithTimeout(ctx, c.opts.ReadTimeout)
		typ, data, err := c.conn.Read(rctx)
		cancel()
		if err != nil {
			return nil, c.lost(err)
		}
		if typ != websocket.MessageText {
			c.log.Warn("ignoring non-text frame", zap.Int("bytes", len(data)))
			continue
		}
		c.log.Debug("received", zap.ByteString("frame", data))
		return data, nil
	}
}

// Heartbeat sends ping every interval until ctx is done. Failed pings are
// logged by Send and do not stop the ticker; the reader notices a dead
// connection on its own.
func (c *Conn) Heartbeat(ctx context.Context, every time.Duration, ping protocol.Envelope) error {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			_ = c.Send(ctx, ping)
		}
	}
}

// Close sends bye when given (best effort, delivery not guaranteed) and
// then closes normally. Repeated calls return the first result.
func (c *Conn) Close(bye *protocol.Envelope) error {
	c.closeOnce.Do(func() {
		wasOpen := c.open.Load()
		if bye != nil && wasOpen {
			ctx, cancel := context.WithTimeout(context.Background(), c.opts.WriteTimeout)
			c.closeErr = multierr.Append(c.closeErr, c.Send(ctx, *bye))
			cancel()
		}
		c.open.Store(false)

		// After a read error the library has already torn the connection
		// down; a second close only reports that.
		if err := c.conn.Close(websocket.StatusNormalClosure, "bye"); err != nil && wasOpen {
			c.closeErr = multierr.Append(c.closeErr, err)
		}
	})
	return c.closeErr
}

// lost marks the connection closed and classifies why.
func (c *Conn) lost(err error) error {
	c.open.Store(false)

	ce := &CloseError{Err: err}
	if code := websocket.CloseStatus(err); code != -1 {
		var cerr websocket.CloseError
		errors.As(err, &cerr)
		ce.Clean = true
		ce.Code = code
		ce.Reason = cerr.Reason
		c.log.Info("connection closed", zap.Int("code", int(code)), zap.String("reason", cerr.Reason))
		return ce
	}
	c.log.Warn("connection lost", zap.Error(err))
	return ce
}
