package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

type wireEnvelope struct {
	UpdateType    *string         `json:"updateType"`
	ParticipantID *int64          `json:"participantID"`
	Data          json.RawMessage `json:"data"`
}

type wirePlayer struct {
	ParticipantID *int64  `json:"participantID"`
	TeamColor     *string `json:"teamColor"`
	Role          *string `json:"role"`
}

type wireCell struct {
	Word     *string `json:"word"`
	Color    *string `json:"color"`
	Revealed *bool   `json:"revealed"`
}

type wireHello struct {
	Players *[]*wirePlayer        `json:"players"`
	Data    *map[string]*wireCell `json:"data"`
	Turn    *wirePlayer           `json:"turn"`
}

type wireGuessResult struct {
	Valid            *bool       `json:"valid"`
	Index            *int        `json:"index"`
	Color            *string     `json:"color"`
	Correct          *bool       `json:"correct"`
	GuessesRemaining *int        `json:"guessesRemaining"`
	Winner           *string     `json:"winner"`
	Turn             *wirePlayer `json:"turn"`
}

type wireClue struct {
	Valid      *bool       `json:"valid"`
	Clue       *string     `json:"clue"`
	NumGuesses *int        `json:"numGuesses"`
	Turn       *wirePlayer `json:"turn"`
}

type wireBye struct {
	Players  *[]*wirePlayer `json:"players"`
	StopGame *bool          `json:"stopGame"`
}

// Decode parses one inbound frame. Any structural problem, unknown field
// or missing required field is reported as ErrMalformed; an updateType this
// client does not consume is ErrUnknownUpdateType.
func Decode(frame []byte) (Update, error) {
	var env wireEnvelope
	if err := strictUnmarshal(frame, &env); err != nil {
		return nil, malformed("envelope", err)
	}
	if env.UpdateType == nil {
		return nil, malformed("envelope", missing("updateType"))
	}
	if env.ParticipantID == nil {
		return nil, malformed("envelope", missing("participantID"))
	}
	from := ParticipantID(*env.ParticipantID)
	typ := UpdateType(*env.UpdateType)

	switch typ {
	case TypeHello:
		return decodeHello(from, env.Data)
	case TypeGuessResult:
		return decodeGuessResult(from, env.Data)
	case TypeClue:
		return decodeClue(from, env.Data)
	case TypeBye:
		return decodeBye(from, env.Data)
	case TypeGameFull:
		if !isNull(env.Data) {
			return nil, malformed(string(typ), errors.New("unexpected data"))
		}
		return GameFullUpdate{From: from}, nil
	case TypePong:
		if !isNull(env.Data) {
			return nil, malformed(string(typ), errors.New("unexpected data"))
		}
		return PongUpdate{From: from}, nil
	default:
		return nil, fmt.Errorf("decode %q: %w", typ, ErrUnknownUpdateType)
	}
}

func decodeHello(from ParticipantID, data json.RawMessage) (Update, error) {
	var w wireHello
	if err := payload(data, &w); err != nil {
		return nil, malformed("hello", err)
	}
	if w.Players == nil {
		return nil, malformed("hello", missing("players"))
	}
	players, err := convertPlayers(*w.Players)
	if err != nil {
		return nil, malformed("hello", err)
	}
	u := HelloUpdate{From: from, Players: players}
	if w.Data != nil {
		if u.Cells, err = convertCells(*w.Data); err != nil {
			return nil, malformed("hello", err)
		}
	}
	if u.Turn, err = convertTurn(w.Turn); err != nil {
		return nil, malformed("hello", err)
	}
	return u, nil
}

func decodeGuessResult(from ParticipantID, data json.RawMessage) (Update, error) {
	var w wireGuessResult
	if err := payload(data, &w); err != nil {
		return nil, malformed("guessResult", err)
	}
	if w.Valid == nil {
		return nil, malformed("guessResult", missing("valid"))
	}
	u := GuessResultUpdate{From: from, Valid: *w.Valid, Index: PassIndex}
	if !u.Valid {
		return u, nil
	}
	if w.Index == nil {
		return nil, malformed("guessResult", missing("index"))
	}
	if w.GuessesRemaining == nil {
		return nil, malformed("guessResult", missing("guessesRemaining"))
	}
	u.Index = *w.Index
	u.GuessesRemaining = *w.GuessesRemaining
	if u.Index < PassIndex {
		return nil, malformed("guessResult", fmt.Errorf("index %d", u.Index))
	}
	if u.GuessesRemaining < 0 {
		return nil, malformed("guessResult", fmt.Errorf("guessesRemaining %d", u.GuessesRemaining))
	}
	if u.Index != PassIndex {
		if w.Color == nil {
			return nil, malformed("guessResult", missing("color"))
		}
		if w.Correct == nil {
			return nil, malformed("guessResult", missing("correct"))
		}
		c, ok := parseColor(*w.Color)
		if !ok {
			return nil, malformed("guessResult", fmt.Errorf("color %q", *w.Color))
		}
		u.Color = c
		u.Correct = *w.Correct
	}
	if w.Winner != nil {
		t, ok := parseTeam(*w.Winner)
		if !ok {
			return nil, malformed("guessResult", fmt.Errorf("winner %q", *w.Winner))
		}
		u.Winner = &t
	}
	var err error
	if u.Turn, err = convertTurn(w.Turn); err != nil {
		return nil, malformed("guessResult", err)
	}
	return u, nil
}

func decodeClue(from ParticipantID, data json.RawMessage) (Update, error) {
	var w wireClue
	if err := payload(data, &w); err != nil {
		return nil, malformed("clue", err)
	}
	if w.Valid == nil {
		return nil, malformed("clue", missing("valid"))
	}
	u := ClueUpdate{From: from, Valid: *w.Valid}
	if u.Valid {
		if w.Clue == nil {
			return nil, malformed("clue", missing("clue"))
		}
		if w.NumGuesses == nil {
			return nil, malformed("clue", missing("numGuesses"))
		}
		u.Clue = *w.Clue
		u.NumGuesses = *w.NumGuesses
		if u.NumGuesses < 0 {
			return nil, malformed("clue", fmt.Errorf("numGuesses %d", u.NumGuesses))
		}
		// An accepted clue always hands the turn to the guessers.
		if w.Turn == nil {
			return nil, malformed("clue", missing("turn"))
		}
	}
	var err error
	if u.Turn, err = convertTurn(w.Turn); err != nil {
		return nil, malformed("clue", err)
	}
	return u, nil
}

func decodeBye(from ParticipantID, data json.RawMessage) (Update, error) {
	var w wireBye
	if err := payload(data, &w); err != nil {
		return nil, malformed("bye", err)
	}
	if w.Players == nil {
		return nil, malformed("bye", missing("players"))
	}
	if w.StopGame == nil {
		return nil, malformed("bye", missing("stopGame"))
	}
	players, err := convertPlayers(*w.Players)
	if err != nil {
		return nil, malformed("bye", err)
	}
	return ByeUpdate{From: from, Players: players, StopGame: *w.StopGame}, nil
}

func convertPlayers(in []*wirePlayer) ([]*Player, error) {
	out := make([]*Player, len(in))
	for i, w := range in {
		if w == nil {
			continue
		}
		p, err := convertPlayer(w)
		if err != nil {
			return nil, fmt.Errorf("players[%d]: %w", i, err)
		}
		out[i] = &p
	}
	return out, nil
}

func convertPlayer(w *wirePlayer) (Player, error) {
	switch {
	case w.ParticipantID == nil:
		return Player{}, missing("participantID")
	case w.TeamColor == nil:
		return Player{}, missing("teamColor")
	case w.Role == nil:
		return Player{}, missing("role")
	}
	if *w.ParticipantID <= 0 {
		return Player{}, fmt.Errorf("participantID %d", *w.ParticipantID)
	}
	team, ok := parseTeam(*w.TeamColor)
	if !ok {
		return Player{}, fmt.Errorf("teamColor %q", *w.TeamColor)
	}
	role, ok := parseRole(*w.Role)
	if !ok {
		return Player{}, fmt.Errorf("role %q", *w.Role)
	}
	return Player{ID: ParticipantID(*w.ParticipantID), Team: team, Role: role}, nil
}

func convertTurn(w *wirePlayer) (*Turn, error) {
	if w == nil {
		return nil, nil
	}
	p, err := convertPlayer(w)
	if err != nil {
		return nil, fmt.Errorf("turn: %w", err)
	}
	return &Turn{Owner: p.ID, Role: p.Role, Team: p.Team}, nil
}

func convertCells(in map[string]*wireCell) (map[int]Cell, error) {
	out := make(map[int]Cell, len(in))
	for key, w := range in {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("cell key %q", key)
		}
		if w == nil || w.Word == nil {
			return nil, fmt.Errorf("cell %d: %w", idx, missing("word"))
		}
		c := Cell{Word: *w.Word}
		if w.Color != nil {
			color, ok := parseColor(*w.Color)
			if !ok {
				return nil, fmt.Errorf("cell %d: color %q", idx, *w.Color)
			}
			c.Color = color
		}
		if w.Revealed != nil {
			c.Revealed = *w.Revealed
		}
		out[idx] = c
	}
	return out, nil
}

// payload decodes a required data object.
func payload(data json.RawMessage, v any) error {
	if isNull(data) {
		return missing("data")
	}
	return strictUnmarshal(data, v)
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after object")
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func missing(field string) error {
	return fmt.Errorf("missing field %q", field)
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
}
