package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/wordgame-client/internal/console"
	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/httpapi"
	"github.com/DoyleJ11/wordgame-client/internal/logging"
	"github.com/DoyleJ11/wordgame-client/internal/runner"
	"github.com/DoyleJ11/wordgame-client/internal/session"
	"github.com/DoyleJ11/wordgame-client/internal/ws"
)

const releaseVersion = "0.1.0"

const dialTimeout = 10 * time.Second

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func run(ctx context.Context, cfg *Config, stdin io.Reader, stdout, stderr io.Writer) error {
	logger, err := logging.New(cfg.logLevel, cfg.dev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := httpapi.NewStore()
	views := session.Views{console.NewRenderer(stdout), store}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.statusAddr != "" {
		srv := &http.Server{
			Addr:              cfg.statusAddr,
			Handler:           httpapi.SetupRoutes(store),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("status api listening", zap.String("addr", cfg.statusAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// stdin may block forever, so the reader is not part of the group.
	actions := make(chan engine.Action)
	go func() {
		if err := console.ReadActions(gctx, stdin, stderr, actions); err != nil {
			logger.Warn("reading input", zap.Error(err))
		}
	}()

	r := runner.New(dialer(cfg), views, runner.Options{
		MaxResets:     cfg.maxResets,
		Heartbeat:     cfg.heartbeat,
		Notifications: cfg.notifications,
		Logger:        logger,
	})
	g.Go(func() error {
		defer stop()
		return r.Run(gctx, actions)
	})

	return g.Wait()
}

func dialer(cfg *Config) runner.DialFunc {
	opts := ws.Options{ReadTimeout: cfg.readTimeout, WriteTimeout: cfg.writeTimeout}
	return func(ctx context.Context, log *zap.Logger) (session.Transport, error) {
		dctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		c, err := ws.Dial(dctx, cfg.endpoint, opts, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
