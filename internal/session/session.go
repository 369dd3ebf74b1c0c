package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/notify"
	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

var ErrHardReset = errors.New("roster no longer contains this session")
var ErrRejected = errors.New("game is full")
var ErrConnectionClosed = errors.New("connection closed")

const DefaultHeartbeat = 20 * time.Second

// Transport is the one connection a session owns. *ws.Conn implements it.
type Transport interface {
	Send(ctx context.Context, env protocol.Envelope) error
	Read(ctx context.Context) ([]byte, error)
	Heartbeat(ctx context.Context, every time.Duration, ping protocol.Envelope) error
	Close(bye *protocol.Envelope) error
}

// View receives every state change. Render is called from the session
// goroutine and must not block for long.
type View interface {
	Render(snap Snapshot, effects []engine.Effect)
}

// Views fans one render out to several views, in order.
type Views []View

func (vs Views) Render(snap Snapshot, effects []engine.Effect) {
	for _, v := range vs {
		v.Render(snap, effects)
	}
}

type Options struct {
	ID            uuid.UUID
	Participant   protocol.ParticipantID
	Heartbeat     time.Duration
	Notifications int
	Logger        *zap.Logger
}

// Session owns one identity, one connection, the game state and the
// notification log. All of them are touched only by the goroutine in Run.
type Session struct {
	id        uuid.UUID
	t         Transport
	view      View
	heartbeat time.Duration
	log       *zap.Logger

	state engine.State
	notes *notify.Log
}

type inbound struct {
	data []byte
	err  error
}

func New(t Transport, view View, opts Options) *Session {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Session{
		id:        opts.ID,
		t:         t,
		view:      view,
		heartbeat: opts.Heartbeat,
		log: opts.Logger.With(
			zap.String("session", opts.ID.String()),
			zap.Int64("participant", int64(opts.Participant)),
		),
		state: engine.NewState(opts.Participant),
		notes: notify.NewLog(opts.Notifications),
	}
}

// Run joins the game and drives the session until it ends. It returns nil
// when ctx is cancelled or actions is closed (after a best-effort bye),
// ErrHardReset when a new game started without this session, ErrRejected
// when the game is full, or an error wrapping ErrConnectionClosed.
func (s *Session) Run(ctx context.Context, actions <-chan engine.Action) error {
	if err := s.t.Send(ctx, protocol.Hello(s.state.LocalID, false)); err != nil {
		_ = s.t.Close(nil)
		return fmt.Errorf("%w: hello: %w", ErrConnectionClosed, err)
	}
	s.log.Info("joined")
	s.render(nil)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	// Only the loop goroutine touches s.state once the group starts.
	ping := protocol.Ping(s.state.LocalID)
	frames := make(chan inbound)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		s.readLoop(gctx, frames)
		return nil
	})
	g.Go(func() error {
		return s.t.Heartbeat(gctx, s.heartbeat, ping)
	})
	g.Go(func() error {
		defer stop()
		return s.loop(gctx, frames, actions)
	})

	return g.Wait()
}

// readLoop hands raw frames to the session goroutine. Reads are not tied to
// ctx so that cancelling does not tear the connection down before bye is
// sent; Close unblocks them instead.
func (s *Session) readLoop(ctx context.Context, frames chan<- inbound) {
	rctx := context.WithoutCancel(ctx)
	for {
		data, err := s.t.Read(rctx)
		select {
		case frames <- inbound{data: data, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) loop(ctx context.Context, frames <-chan inbound, actions <-chan engine.Action) error {
	for {
		select {
		case <-ctx.Done():
			return s.quit()

		case in := <-frames:
			if in.err != nil {
				s.notes.Append(fmt.Sprintf("disconnected: %v", in.err))
				s.render(nil)
				_ = s.t.Close(nil)
				return fmt.Errorf("%w: %w", ErrConnectionClosed, in.err)
			}

			effects := s.handleFrame(in.data)
			switch {
			case engine.ContainsEffect(effects, engine.EffHardReset):
				s.log.Warn("hard reset")
				bye := protocol.Bye(s.state.LocalID)
				_ = s.t.Close(&bye)
				return ErrHardReset
			case engine.ContainsEffect(effects, engine.EffCloseConnection):
				s.log.Warn("rejected, game is full")
				_ = s.t.Close(nil)
				return ErrRejected
			}

		case a, ok := <-actions:
			if !ok {
				return s.quit()
			}
			s.handleAction(ctx, a)
		}
	}
}

func (s *Session) quit() error {
	bye := protocol.Bye(s.state.LocalID)
	if err := s.t.Close(&bye); err != nil {
		s.log.Warn("close", zap.Error(err))
	}
	s.log.Info("left")
	return nil
}

// handleFrame decodes and applies one frame. Failures leave state as it was
// and add a single notification.
func (s *Session) handleFrame(data []byte) []engine.Effect {
	u, err := protocol.Decode(data)
	if err != nil {
		s.log.Error("dropping inbound frame", zap.Error(err), zap.ByteString("frame", data))
		s.notes.Append("ignored a malformed message from the server")
		s.render(nil)
		return nil
	}

	effects, next, err := engine.Apply(s.state, u)
	if err != nil {
		s.log.Error("cannot apply update", zap.String("type", string(u.Type())), zap.Error(err))
		s.notes.Append(fmt.Sprintf("ignored %s update: %v", u.Type(), err))
		s.render(nil)
		return nil
	}

	s.state = next
	for _, msg := range engine.Notifications(effects) {
		s.notes.Append(msg)
	}
	if len(effects) > 0 {
		s.render(effects)
	}
	return effects
}

func (s *Session) handleAction(ctx context.Context, a engine.Action) {
	env, err := engine.BuildCommand(s.state, a)
	if err != nil {
		s.log.Debug("action refused", zap.String("action", string(a.Type)), zap.Error(err))
		s.notes.Append(refusal(err))
		s.render(nil)
		return
	}
	if err := s.t.Send(ctx, env); err != nil {
		s.notes.Append("not connected, your move was not sent")
		s.render(nil)
	}
}

func refusal(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return "it is not your turn"
	case errors.Is(err, engine.ErrCellRevealed):
		return "that word is already revealed"
	case errors.Is(err, engine.ErrCellOutOfRange):
		return "there is no such cell"
	case errors.Is(err, engine.ErrNoBoard):
		return "there is no board yet"
	case errors.Is(err, engine.ErrInvalidClue):
		return "a clue needs a word and a number"
	default:
		return err.Error()
	}
}

func (s *Session) render(effects []engine.Effect) {
	s.view.Render(s.snapshot(), effects)
}
