package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/protocol"
	"github.com/DoyleJ11/wordgame-client/internal/session"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, SetupRoutes(NewStore()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestState_BeforeFirstRender(t *testing.T) {
	rec := get(t, SetupRoutes(NewStore()), "/state")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestState_ServesLatestSnapshot(t *testing.T) {
	store := NewStore()
	h := SetupRoutes(store)
	id := uuid.New()

	store.Render(session.Snapshot{Session: id, ParticipantID: 42, Phase: engine.PhaseWaiting, Roster: engine.EmptyRoster()}, nil)
	store.Render(session.Snapshot{
		Session:       id,
		ParticipantID: 42,
		Phase:         engine.PhaseInProgress,
		SubPhase:      engine.SubPhaseClueGiving,
		Roster:        engine.EmptyRoster(),
		Turn:          &protocol.Turn{Owner: 7, Role: protocol.RoleClueGiver, Team: protocol.TeamBlue},
		Notifications: []string{"player 7 left"},
	}, nil)

	rec := get(t, h, "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Version int `json:"version"`
		State   struct {
			Session       string          `json:"session"`
			ParticipantID int64           `json:"participantID"`
			Phase         string          `json:"phase"`
			SubPhase      string          `json:"subPhase"`
			Roster        []engine.Slot   `json:"roster"`
			Turn          *protocol.Turn  `json:"turn"`
			Notifications []string        `json:"notifications"`
			Board         [][]engine.Cell `json:"board"`
		} `json:"state"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 2, body.Version)
	assert.Equal(t, id.String(), body.State.Session)
	assert.Equal(t, int64(42), body.State.ParticipantID)
	assert.Equal(t, "IN_PROGRESS", body.State.Phase)
	assert.Equal(t, "CLUE_GIVING", body.State.SubPhase)
	assert.Len(t, body.State.Roster, engine.RequiredPlayers)
	assert.Equal(t, &protocol.Turn{Owner: 7, Role: protocol.RoleClueGiver, Team: protocol.TeamBlue}, body.State.Turn)
	assert.Equal(t, []string{"player 7 left"}, body.State.Notifications)
	assert.Nil(t, body.State.Board)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, SetupRoutes(NewStore()), "/lobbies")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
