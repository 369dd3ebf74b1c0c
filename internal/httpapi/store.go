package httpapi

import (
	"sync"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/session"
)

// Store keeps the latest snapshot for HTTP readers. It is a session.View.
type Store struct {
	mu      sync.RWMutex
	latest  session.Snapshot
	has     bool
	renders int
}

func NewStore() *Store { return &Store{} }

func (s *Store) Render(snap session.Snapshot, _ []engine.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	s.has = true
	s.renders++
}

// Latest returns the most recent snapshot and how many renders produced
// it so far; ok is false before the first render.
func (s *Store) Latest() (snap session.Snapshot, version int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.renders, s.has
}
