package protocol

import "strings"

type Team string

const (
	TeamRed  Team = "RED"
	TeamBlue Team = "BLUE"
)

type Role string

const (
	RoleGuesser   Role = "GUESSER"
	RoleClueGiver Role = "CLUE_GIVER"
)

// Color is what a board cell turns out to be once revealed.
type Color string

const (
	ColorUnknown  Color = ""
	ColorRed      Color = "RED"
	ColorBlue     Color = "BLUE"
	ColorNeutral  Color = "NEUTRAL"
	ColorAssassin Color = "ASSASSIN"
)

func parseTeam(s string) (Team, bool) {
	switch Team(strings.ToUpper(s)) {
	case TeamRed:
		return TeamRed, true
	case TeamBlue:
		return TeamBlue, true
	default:
		return "", false
	}
}

func parseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(s)) {
	case RoleGuesser:
		return RoleGuesser, true
	case RoleClueGiver:
		return RoleClueGiver, true
	default:
		return "", false
	}
}

func parseColor(s string) (Color, bool) {
	switch strings.ToUpper(s) {
	case "RED":
		return ColorRed, true
	case "BLUE":
		return ColorBlue, true
	case "NEUTRAL":
		return ColorNeutral, true
	case "ASSASSIN", "BLACK":
		return ColorAssassin, true
	default:
		return ColorUnknown, false
	}
}

// Color of a team's own cells.
func (t Team) Color() Color {
	return Color(t)
}

// Player is one occupied roster slot as the server reports it.
type Player struct {
	ID   ParticipantID
	Team Team
	Role Role
}

type Turn struct {
	Owner ParticipantID `json:"participantID"`
	Role  Role          `json:"role"`
	Team  Team          `json:"teamColor"`
}

// Cell is one board cell from a cell map. Color is ColorUnknown when the
// server did not disclose it.
type Cell struct {
	Word     string
	Color    Color
	Revealed bool
}

// Update is a decoded inbound envelope. Each update type has its own
// variant; From is the envelope's participantID.
type Update interface {
	Type() UpdateType
	Sender() ParticipantID
}

// HelloUpdate carries the authoritative roster. Players is positional:
// index i is slot i and a nil entry is an empty slot. Cells is nil when no
// board was sent; Turn is nil when no turn is active.
type HelloUpdate struct {
	From    ParticipantID
	Players []*Player
	Cells   map[int]Cell
	Turn    *Turn
}

type GuessResultUpdate struct {
	From             ParticipantID
	Valid            bool
	Index            int
	Color            Color
	Correct          bool
	GuessesRemaining int
	Winner           *Team
	Turn             *Turn
}

type ClueUpdate struct {
	From       ParticipantID
	Valid      bool
	Clue       string
	NumGuesses int
	Turn       *Turn
}

type ByeUpdate struct {
	From     ParticipantID
	Players  []*Player
	StopGame bool
}

// GameFullUpdate rejects the participant named in From.
type GameFullUpdate struct {
	From ParticipantID
}

type PongUpdate struct {
	From ParticipantID
}

func (u HelloUpdate) Type() UpdateType       { return TypeHello }
func (u GuessResultUpdate) Type() UpdateType { return TypeGuessResult }
func (u ClueUpdate) Type() UpdateType        { return TypeClue }
func (u ByeUpdate) Type() UpdateType         { return TypeBye }
func (u GameFullUpdate) Type() UpdateType    { return TypeGameFull }
func (u PongUpdate) Type() UpdateType        { return TypePong }

func (u HelloUpdate) Sender() ParticipantID       { return u.From }
func (u GuessResultUpdate) Sender() ParticipantID { return u.From }
func (u ClueUpdate) Sender() ParticipantID        { return u.From }
func (u ByeUpdate) Sender() ParticipantID         { return u.From }
func (u GameFullUpdate) Sender() ParticipantID    { return u.From }
func (u PongUpdate) Sender() ParticipantID        { return u.From }
