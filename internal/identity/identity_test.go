package identity

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

func TestNew_IsPositiveAndBounded(t *testing.T) {
	seen := make(map[protocol.ParticipantID]bool)
	for range 100 {
		id, err := New()
		require.NoError(t, err)
		if id < 1 || id > MaxID {
			t.Fatalf("id %d out of range", id)
		}
		seen[id] = true
	}
	if len(seen) < 99 {
		t.Fatalf("expected distinct ids, got %d unique of 100", len(seen))
	}
}

func TestGenerate_ZeroEntropyStillPositive(t *testing.T) {
	id, err := Generate(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Equal(t, protocol.ParticipantID(1), id)
}

func TestGenerate_ReaderFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := Generate(iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped reader error, got %v", err)
	}
}

func TestPresentIn(t *testing.T) {
	players := []*protocol.Player{
		{ID: 7, Team: protocol.TeamBlue, Role: protocol.RoleClueGiver},
		nil,
		{ID: 42, Team: protocol.TeamRed, Role: protocol.RoleGuesser},
	}
	assert.True(t, PresentIn(42, players))
	assert.False(t, PresentIn(43, players))
	assert.False(t, PresentIn(42, nil))
}
