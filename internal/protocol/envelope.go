package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed frame")
var ErrUnknownUpdateType = errors.New("unknown update type")

type UpdateType string

const (
	TypeHello       UpdateType = "hello"
	TypePing        UpdateType = "ping"
	TypePong        UpdateType = "pong"
	TypeBye         UpdateType = "bye"
	TypeGuess       UpdateType = "guess"
	TypeClue        UpdateType = "clue"
	TypeGuessResult UpdateType = "guessResult"
	TypeGameFull    UpdateType = "gameFull"
)

// ParticipantID identifies one client session on the server.
type ParticipantID int64

// PassIndex is the guess index meaning "stop guessing", and the
// guessResult index meaning "no cell changed".
const PassIndex = -1

// Envelope is the outer wrapper of every frame, in both directions.
type Envelope struct {
	UpdateType    UpdateType      `json:"updateType"`
	ParticipantID ParticipantID   `json:"participantID"`
	Data          json.RawMessage `json:"data,omitempty"`
}

type helloData struct {
	StartNew bool `json:"startNew"`
}

type guessData struct {
	Index int `json:"index"`
}

type clueData struct {
	Clue       string `json:"clue"`
	NumGuesses int    `json:"numGuesses"`
}

// Hello joins (or rejoins) the game. startNew asks the server to begin a
// fresh game; the field is omitted on a plain join.
func Hello(id ParticipantID, startNew bool) Envelope {
	env := Envelope{UpdateType: TypeHello, ParticipantID: id}
	if startNew {
		env.Data, _ = json.Marshal(helloData{StartNew: true})
	}
	return env
}

func Ping(id ParticipantID) Envelope {
	return Envelope{UpdateType: TypePing, ParticipantID: id}
}

func Bye(id ParticipantID) Envelope {
	return Envelope{UpdateType: TypeBye, ParticipantID: id}
}

func Guess(id ParticipantID, index int) Envelope {
	data, _ := json.Marshal(guessData{Index: index})
	return Envelope{UpdateType: TypeGuess, ParticipantID: id, Data: data}
}

// Pass ends the local team's guessing for this turn.
func Pass(id ParticipantID) Envelope {
	return Guess(id, PassIndex)
}

func Clue(id ParticipantID, clue string, numGuesses int) Envelope {
	data, _ := json.Marshal(clueData{Clue: clue, NumGuesses: numGuesses})
	return Envelope{UpdateType: TypeClue, ParticipantID: id, Data: data}
}

// Encode serializes an outbound envelope into one text frame.
func Encode(env Envelope) ([]byte, error) {
	switch env.UpdateType {
	case TypeHello, TypePing, TypeBye, TypeGuess, TypeClue:
	default:
		return nil, fmt.Errorf("encode %q: %w", env.UpdateType, ErrUnknownUpdateType)
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", env.UpdateType, err)
	}
	return frame, nil
}
