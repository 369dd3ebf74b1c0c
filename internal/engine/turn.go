package engine

import "github.com/DoyleJ11/wordgame-client/internal/protocol"

// IsLocalTurn reports whether the active turn belongs to this client in the
// given role.
func IsLocalTurn(s State, role protocol.Role) bool {
	return s.Phase == PhaseInProgress &&
		s.Turn != nil &&
		s.Turn.Owner == s.LocalID &&
		s.Turn.Role == role
}

// CanGuess gates the guess and pass actions.
func CanGuess(s State) bool {
	return s.SubPhase == SubPhaseGuessing && IsLocalTurn(s, protocol.RoleGuesser)
}

// CanSubmitClue gates clue submission, including resubmission after the
// server rejected a clue.
func CanSubmitClue(s State) bool {
	return s.SubPhase == SubPhaseClueGiving && IsLocalTurn(s, protocol.RoleClueGiver)
}
