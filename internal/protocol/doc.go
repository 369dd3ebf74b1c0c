// Package protocol is the wire format between the game client and server:
// one JSON envelope per text frame, {updateType, participantID, data}.
//
// Client -> Server
//
//	hello:  { startNew: bool }            (data omitted on a plain join)
//	guess:  { index: number }             (-1 = pass)
//	clue:   { clue: string, numGuesses: number }
//	ping, bye: no data
//
// Server -> Client
//
//	hello:       { players: [Player|null], data: {"<index>": Cell}|null, turn: Turn|null }
//	guessResult: { valid, index, color, correct, guessesRemaining, winner: string|null, turn: Turn|null }
//	clue:        { valid, clue, numGuesses, turn: Turn|null }
//	bye:         { players: [Player|null], stopGame: bool }
//	gameFull:    no data; participantID names the rejected participant
//	pong:        no data
//
//	Player, Turn: { participantID, teamColor: "RED"|"BLUE", role: "GUESSER"|"CLUE_GIVER" }
//	Cell:         { word, color?, revealed? }
package protocol
