package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

var ErrNotYourTurn = errors.New("not your turn")
var ErrCellRevealed = errors.New("cell already revealed")
var ErrInvalidClue = errors.New("invalid clue")
var ErrUnsupportedAction = errors.New("unsupported action")
var ErrSessionOver = errors.New("session is over")

type ActionType string

const (
	ActGuess    ActionType = "Guess"
	ActPass     ActionType = "Pass"
	ActClue     ActionType = "Clue"
	ActStartNew ActionType = "StartNew"
)

/*
	ActGuess    -> guess{index}
	ActPass     -> guess{index: -1}
	ActClue     -> clue{clue, numGuesses}
	ActStartNew -> hello{startNew: true}
	The server answers with guessResult / clue / hello; nothing here changes State.
*/

type Action struct {
	Type       ActionType
	Index      int
	Clue       string
	NumGuesses int
}

// BuildCommand turns a user action into the outbound envelope. It only
// checks what the local mirror can know; the server stays authoritative.
func BuildCommand(s State, a Action) (protocol.Envelope, error) {
	if s.ResetPending || s.Phase == PhaseRejected {
		return protocol.Envelope{}, ErrSessionOver
	}

	switch a.Type {
	case ActGuess:
		if !CanGuess(s) {
			return protocol.Envelope{}, ErrNotYourTurn
		}
		if s.Board == nil {
			return protocol.Envelope{}, ErrNoBoard
		}
		cell, ok := s.Board.Cell(a.Index)
		if !ok {
			return protocol.Envelope{}, fmt.Errorf("%w: %d", ErrCellOutOfRange, a.Index)
		}
		if cell.Revealed {
			return protocol.Envelope{}, fmt.Errorf("%w: %d", ErrCellRevealed, a.Index)
		}
		return protocol.Guess(s.LocalID, a.Index), nil

	case ActPass:
		if !CanGuess(s) {
			return protocol.Envelope{}, ErrNotYourTurn
		}
		return protocol.Pass(s.LocalID), nil

	case ActClue:
		if !CanSubmitClue(s) {
			return protocol.Envelope{}, ErrNotYourTurn
		}
		clue := strings.TrimSpace(a.Clue)
		if clue == "" || a.NumGuesses < 0 {
			return protocol.Envelope{}, ErrInvalidClue
		}
		return protocol.Clue(s.LocalID, clue, a.NumGuesses), nil

	case ActStartNew:
		return protocol.Hello(s.LocalID, true), nil

	default:
		return protocol.Envelope{}, ErrUnsupportedAction
	}
}
