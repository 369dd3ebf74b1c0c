package engine

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/wordgame-client/internal/identity"
	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

var ErrInvalidBoard = errors.New("invalid board")
var ErrCellOutOfRange = errors.New("cell out of range")
var ErrNoBoard = errors.New("no board")
var ErrRosterOverflow = errors.New("roster overflow")
var ErrDuplicateParticipant = errors.New("duplicate participant in roster")
var ErrUnsupportedUpdate = errors.New("unsupported update")

type Phase string

const (
	PhaseWaiting    Phase = "WAITING_FOR_PLAYERS"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseFinished   Phase = "FINISHED"
	PhaseRejected   Phase = "REJECTED"
)

type SubPhase string

const (
	SubPhaseNone       SubPhase = ""
	SubPhaseClueGiving SubPhase = "CLUE_GIVING"
	SubPhaseGuessing   SubPhase = "GUESSING"
)

type Clue struct {
	Text       string `json:"text"`
	NumGuesses int    `json:"numGuesses"`
}

// State is the local mirror of the server's game. It only ever changes
// through Apply.
type State struct {
	LocalID          protocol.ParticipantID
	LocalRole        protocol.Role
	LocalTeam        protocol.Team
	Phase            Phase
	SubPhase         SubPhase
	Roster           Roster
	Board            *Board
	Turn             *protocol.Turn
	Clue             *Clue
	GuessesRemaining int
	Winner           protocol.Team
	ResetPending     bool
}

type EffectType string

const (
	EffRosterReplaced  EffectType = "RosterReplaced"
	EffBoardBuilt      EffectType = "BoardBuilt"
	EffCellRevealed    EffectType = "CellRevealed"
	EffTurnChanged     EffectType = "TurnChanged"
	EffPhaseChanged    EffectType = "PhaseChanged"
	EffClueRecorded    EffectType = "ClueRecorded"
	EffGuessesChanged  EffectType = "GuessesChanged"
	EffNotify          EffectType = "Notify"
	EffHardReset       EffectType = "HardReset"
	EffCloseConnection EffectType = "CloseConnection"
)

/*
	hello        -> RosterReplaced -> (HardReset) | (BoardBuilt -> PhaseChanged) -> (TurnChanged)
	guessResult  -> CellRevealed -> GuessesChanged -> PhaseChanged(FINISHED) | TurnChanged
	clue         -> ClueRecorded -> GuessesChanged -> TurnChanged
	bye          -> RosterReplaced -> (PhaseChanged(WAITING_FOR_PLAYERS))
	gameFull     -> PhaseChanged(REJECTED) -> CloseConnection
	Notify may accompany any of them; rejections produce only Notify.
*/

type Effect struct {
	Type    EffectType
	Index   int
	Message string
}

// Apply interprets one inbound update. It never mutates s; on error the
// returned state is s unchanged.
func Apply(s State, u protocol.Update) ([]Effect, State, error) {
	// A session that is being reset or was rejected is finished; nothing
	// after that point may change what it shows.
	if s.ResetPending || s.Phase == PhaseRejected {
		return nil, s, nil
	}

	switch u := u.(type) {
	case protocol.HelloUpdate:
		return applyHello(s, u)
	case protocol.GuessResultUpdate:
		return applyGuessResult(s, u)
	case protocol.ClueUpdate:
		return applyClue(s, u)
	case protocol.ByeUpdate:
		return applyBye(s, u)
	case protocol.GameFullUpdate:
		return applyGameFull(s, u)
	case protocol.PongUpdate:
		return nil, s, nil
	default:
		return nil, s, fmt.Errorf("%w: %T", ErrUnsupportedUpdate, u)
	}
}

func applyHello(s State, u protocol.HelloUpdate) ([]Effect, State, error) {
	roster, err := NewRoster(u.Players)
	if err != nil {
		return nil, s, err
	}

	if !identity.PresentIn(s.LocalID, u.Players) {
		next := s
		next.ResetPending = true
		return []Effect{
			{Type: EffHardReset},
			notify("a new game started without you, rejoining"),
		}, next, nil
	}

	var board *Board
	if u.Cells != nil {
		if board, err = Build(u.Cells); err != nil {
			return nil, s, err
		}
	}

	me, _ := roster.Find(s.LocalID)
	next := s
	events := []Effect{{Type: EffRosterReplaced}}
	next.Roster = roster
	next.LocalRole = me.Role
	next.LocalTeam = me.Team

	if board != nil {
		next.Board = board
		next.Clue = nil
		next.Winner = ""
		next.GuessesRemaining = 0
		next.Turn = nil
		next.SubPhase = SubPhaseNone
		events = append(events, Effect{Type: EffBoardBuilt})
		events = enterPhase(&next, PhaseInProgress, events)
	}
	if u.Turn != nil {
		events = applyTurn(&next, u.Turn, events)
	}
	return events, next, nil
}

func applyGuessResult(s State, u protocol.GuessResultUpdate) ([]Effect, State, error) {
	if !u.Valid {
		if u.From == s.LocalID {
			return []Effect{notify("your guess was rejected")}, s, nil
		}
		return nil, s, nil
	}

	next := s
	var events []Effect

	if u.Index != protocol.PassIndex {
		if s.Board == nil {
			return nil, s, ErrNoBoard
		}
		board, err := s.Board.Reveal(u.Index, u.Color, u.Correct)
		if err != nil {
			return nil, s, err
		}
		next.Board = board
		cell, _ := board.Cell(u.Index)
		events = append(events,
			Effect{Type: EffCellRevealed, Index: u.Index},
			notify(fmt.Sprintf("%s guessed %q: %s", who(s, u.From), cell.Word, u.Color)),
		)
	} else {
		events = append(events, notify(fmt.Sprintf("%s stopped guessing", who(s, u.From))))
	}

	if next.GuessesRemaining != u.GuessesRemaining {
		next.GuessesRemaining = u.GuessesRemaining
		events = append(events, Effect{Type: EffGuessesChanged})
	}

	if u.Winner != nil {
		next.Winner = *u.Winner
		next.Turn = nil
		next.SubPhase = SubPhaseNone
		events = enterPhase(&next, PhaseFinished, events)
		events = append(events, notify(fmt.Sprintf("%s team wins", *u.Winner)))
		return events, next, nil
	}

	if u.GuessesRemaining == 0 {
		if u.Turn != nil {
			events = applyTurn(&next, u.Turn, events)
		} else if next.Turn != nil {
			next.Turn = nil
			next.SubPhase = SubPhaseNone
			events = append(events, Effect{Type: EffTurnChanged})
		}
	}
	return events, next, nil
}

func applyClue(s State, u protocol.ClueUpdate) ([]Effect, State, error) {
	if !u.Valid {
		if u.From == s.LocalID {
			return []Effect{notify("your clue was rejected, try another")}, s, nil
		}
		return nil, s, nil
	}

	next := s
	next.Clue = &Clue{Text: u.Clue, NumGuesses: u.NumGuesses}
	next.GuessesRemaining = u.NumGuesses
	next.SubPhase = SubPhaseGuessing
	events := []Effect{
		{Type: EffClueRecorded},
		{Type: EffGuessesChanged},
		notify(fmt.Sprintf("%s gave the clue %q for %d", who(s, u.From), u.Clue, u.NumGuesses)),
	}
	if u.Turn != nil {
		events = applyTurn(&next, u.Turn, events)
	}
	return events, next, nil
}

func applyBye(s State, u protocol.ByeUpdate) ([]Effect, State, error) {
	roster, err := NewRoster(u.Players)
	if err != nil {
		return nil, s, err
	}

	next := s
	next.Roster = roster
	if me, ok := roster.Find(s.LocalID); ok {
		next.LocalRole = me.Role
		next.LocalTeam = me.Team
	}
	events := []Effect{{Type: EffRosterReplaced}}

	if !u.StopGame {
		return append(events, notify(fmt.Sprintf("%s left", who(s, u.From)))), next, nil
	}

	hadTurn := s.Turn != nil
	next.Turn = nil
	next.SubPhase = SubPhaseNone
	next.Board = nil
	next.Clue = nil
	next.GuessesRemaining = 0
	next.Winner = ""
	events = enterPhase(&next, PhaseWaiting, events)
	if hadTurn {
		events = append(events, notify(fmt.Sprintf("game aborted: %s left", who(s, u.From))))
	} else {
		events = append(events, notify(fmt.Sprintf("%s left", who(s, u.From))))
	}
	return events, next, nil
}

func applyGameFull(s State, u protocol.GameFullUpdate) ([]Effect, State, error) {
	if u.From != s.LocalID {
		return nil, s, nil
	}

	next := s
	next.SubPhase = SubPhaseNone
	next.Turn = nil
	events := enterPhase(&next, PhaseRejected, nil)
	events = append(events,
		Effect{Type: EffCloseConnection},
		notify("cannot join, the game is already full"),
	)
	return events, next, nil
}

// applyTurn replaces the active turn and enters the sub-phase it implies.
func applyTurn(s *State, t *protocol.Turn, events []Effect) []Effect {
	turn := *t
	s.Turn = &turn
	s.SubPhase = subPhaseFor(turn.Role)
	s.Winner = ""
	if turn.Role == protocol.RoleClueGiver {
		s.Clue = nil
		s.GuessesRemaining = 0
	}
	if s.Phase != PhaseInProgress {
		events = enterPhase(s, PhaseInProgress, events)
	}
	events = append(events, Effect{Type: EffTurnChanged})

	if turn.Owner == s.LocalID {
		if turn.Role == protocol.RoleClueGiver {
			return append(events, notify("your turn to give a clue"))
		}
		return append(events, notify("your turn to guess"))
	}
	return events
}

func enterPhase(s *State, p Phase, events []Effect) []Effect {
	if s.Phase == p {
		return events
	}
	s.Phase = p
	return append(events, Effect{Type: EffPhaseChanged})
}
