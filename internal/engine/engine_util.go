package engine

import (
	"fmt"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

func NewState(local protocol.ParticipantID) State {
	return State{
		LocalID: local,
		Phase:   PhaseWaiting,
		Roster:  EmptyRoster(),
	}
}

func ContainsEffect(effects []Effect, effectType EffectType) bool {
	for _, e := range effects {
		if e.Type == effectType {
			return true
		}
	}
	return false
}

// Notifications returns the Notify messages in order.
func Notifications(effects []Effect) []string {
	var out []string
	for _, e := range effects {
		if e.Type == EffNotify {
			out = append(out, e.Message)
		}
	}
	return out
}

func subPhaseFor(role protocol.Role) SubPhase {
	if role == protocol.RoleClueGiver {
		return SubPhaseClueGiving
	}
	return SubPhaseGuessing
}

func notify(msg string) Effect {
	return Effect{Type: EffNotify, Message: msg}
}

func who(s State, id protocol.ParticipantID) string {
	if id == s.LocalID {
		return "you"
	}
	return fmt.Sprintf("player %d", id)
}
