package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
	"github.com/DoyleJ11/wordgame-client/internal/session"
)

func validConfig() Config {
	return Config{
		endpoint:      "ws://localhost:8080/ws",
		heartbeat:     20 * time.Second,
		readTimeout:   60 * time.Second,
		writeTimeout:  5 * time.Second,
		notifications: 8,
		maxResets:     5,
		logLevel:      "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing endpoint", mutate: func(c *Config) { c.endpoint = "" }, wantErr: true},
		{name: "zero heartbeat", mutate: func(c *Config) { c.heartbeat = 0 }, wantErr: true},
		{name: "read timeout not above heartbeat", mutate: func(c *Config) { c.readTimeout = c.heartbeat }, wantErr: true},
		{name: "zero write timeout", mutate: func(c *Config) { c.writeTimeout = 0 }, wantErr: true},
		{name: "no notifications", mutate: func(c *Config) { c.notifications = 0 }, wantErr: true},
		{name: "no resets", mutate: func(c *Config) { c.maxResets = 0 }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCmd_DefaultsAndFlags(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.Flags().Parse([]string{"--endpoint", "wss://game.example/ws", "--max_resets", "2"}))

	assert.Equal(t, "wss://game.example/ws", cfg.endpoint)
	assert.Equal(t, 2, cfg.maxResets)
	assert.Equal(t, 20*time.Second, cfg.heartbeat)
	assert.Equal(t, 60*time.Second, cfg.readTimeout)
	assert.Equal(t, 8, cfg.notifications)
	assert.Equal(t, "info", cfg.logLevel)
}

func TestNewCmd_Environment(t *testing.T) {
	t.Setenv("WORDGAME_ENDPOINT", "ws://from-env/ws")
	t.Setenv("WORDGAME_READ_TIMEOUT", "90s")
	t.Setenv("WORDGAME_NOTIFICATIONS", "3")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "ws://from-env/ws", cfg.endpoint)
	assert.Equal(t, 90*time.Second, cfg.readTimeout)
	assert.Equal(t, 3, cfg.notifications)
}

func TestNewCmd_RejectsInvalidConfig(t *testing.T) {
	cmd := newCmd(&Config{})
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	assert.ErrorContains(t, cmd.Execute(), "--endpoint is required")
}

func TestRun_UnsupportedTransport(t *testing.T) {
	cfg := validConfig()
	cfg.endpoint = "http://localhost:1/ws"
	cfg.logLevel = "error"

	stdin, _ := io.Pipe()
	err := run(context.Background(), &cfg, stdin, io.Discard, io.Discard)
	assert.ErrorContains(t, err, "unsupported transport")
}

// A full game server that answers every hello with gameFull.
func TestRun_RejectedByFullServer(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()

		_, data, err := c.Read(r.Context())
		if err != nil {
			return
		}
		var hello protocol.Envelope
		if json.Unmarshal(data, &hello) != nil || hello.UpdateType != protocol.TypeHello {
			return
		}
		full := fmt.Sprintf(`{"updateType":"gameFull","participantID":%d}`, hello.ParticipantID)
		_ = c.Write(r.Context(), websocket.MessageText, []byte(full))
		_, _, _ = c.Read(r.Context())
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := validConfig()
	cfg.endpoint = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	cfg.logLevel = "error"

	stdin, stdinW := io.Pipe()
	defer stdinW.Close()
	var out bytes.Buffer

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), &cfg, stdin, &out, io.Discard) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, session.ErrRejected)
	case <-time.After(5 * time.Second):
		t.Fatalf("client did not stop")
	}
	assert.Contains(t, out.String(), "cannot join, the game is already full")
}
