package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/wordgame-client/internal/session"
)

type stateResponse struct {
	Version int              `json:"version"`
	State   session.Snapshot `json:"state"`
}

func State(s *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, version, ok := s.Latest()
		if !ok {
			http.Error(w, "no session yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(stateResponse{Version: version, State: snap})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
