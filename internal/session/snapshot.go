package session

import (
	"github.com/google/uuid"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

// Snapshot is everything a view may show. It is a copy; views can keep it.
// Board is already filtered for the local role.
type Snapshot struct {
	Session          uuid.UUID              `json:"session"`
	ParticipantID    protocol.ParticipantID `json:"participantID"`
	Team             protocol.Team          `json:"teamColor,omitempty"`
	Role             protocol.Role          `json:"role,omitempty"`
	Phase            engine.Phase           `json:"phase"`
	SubPhase         engine.SubPhase        `json:"subPhase,omitempty"`
	Roster           engine.Roster          `json:"roster"`
	Board            [][]engine.Cell        `json:"board,omitempty"`
	Turn             *protocol.Turn         `json:"turn,omitempty"`
	Clue             *engine.Clue           `json:"clue,omitempty"`
	GuessesRemaining int                    `json:"guessesRemaining"`
	Winner           protocol.Team          `json:"winner,omitempty"`
	Notifications    []string               `json:"notifications"`
	CanGuess         bool                   `json:"canGuess"`
	CanSubmitClue    bool                   `json:"canSubmitClue"`
}

func (s *Session) snapshot() Snapshot {
	st := s.state
	snap := Snapshot{
		Session:          s.id,
		ParticipantID:    st.LocalID,
		Team:             st.LocalTeam,
		Role:             st.LocalRole,
		Phase:            st.Phase,
		SubPhase:         st.SubPhase,
		Roster:           st.Roster,
		GuessesRemaining: st.GuessesRemaining,
		Winner:           st.Winner,
		Notifications:    s.notes.Entries(),
		CanGuess:         engine.CanGuess(st),
		CanSubmitClue:    engine.CanSubmitClue(st),
	}
	if st.Board != nil {
		snap.Board = st.Board.View(st.LocalRole)
	}
	if st.Turn != nil {
		turn := *st.Turn
		snap.Turn = &turn
	}
	if st.Clue != nil {
		clue := *st.Clue
		snap.Clue = &clue
	}
	return snap
}
