// Package runner keeps a player in the game across hard resets. Each
// attempt is a brand new session: fresh participant id, fresh connection,
// fresh state. Nothing carries over except the view.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/identity"
	"github.com/DoyleJ11/wordgame-client/internal/protocol"
	"github.com/DoyleJ11/wordgame-client/internal/session"
)

var ErrTooManyResets = errors.New("too many resets")

const DefaultMaxResets = 5

// DialFunc opens the connection for one session.
type DialFunc func(ctx context.Context, log *zap.Logger) (session.Transport, error)

type Options struct {
	MaxResets     int
	Heartbeat     time.Duration
	Notifications int
	Logger        *zap.Logger

	// NewID draws participant ids; identity.New when nil.
	NewID func() (protocol.ParticipantID, error)
}

type Runner struct {
	dial DialFunc
	view session.View
	opts Options
	log  *zap.Logger
}

func New(dial DialFunc, view session.View, opts Options) *Runner {
	if opts.MaxResets <= 0 {
		opts.MaxResets = DefaultMaxResets
	}
	if opts.NewID == nil {
		opts.NewID = identity.New
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{dial: dial, view: view, opts: opts, log: opts.Logger}
}

// Run plays sessions until one ends for a reason other than a hard reset.
// The result is that session's result, or ErrTooManyResets.
func (r *Runner) Run(ctx context.Context, actions <-chan engine.Action) error {
	for resets := 0; ; resets++ {
		err := r.runOnce(ctx, actions)
		if !errors.Is(err, session.ErrHardReset) {
			return err
		}
		if resets >= r.opts.MaxResets {
			return fmt.Errorf("%w: gave up after %d", ErrTooManyResets, resets)
		}
		r.log.Info("starting over", zap.Int("resets", resets+1))
	}
}

func (r *Runner) runOnce(ctx context.Context, actions <-chan engine.Action) error {
	pid, err := r.opts.NewID()
	if err != nil {
		return err
	}
	id := uuid.New()
	log := r.log.With(zap.String("session", id.String()), zap.Int64("participant", int64(pid)))

	t, err := r.dial(ctx, log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	s := session.New(t, r.view, session.Options{
		ID:            id,
		Participant:   pid,
		Heartbeat:     r.opts.Heartbeat,
		Notifications: r.opts.Notifications,
		Logger:        r.log,
	})
	return s.Run(ctx, actions)
}
