package engine

import (
	"fmt"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

const RequiredPlayers = 4

// Slot is one roster position. An unfilled slot is a placeholder.
type Slot struct {
	SlotIndex     int                    `json:"slotIndex"`
	Filled        bool                   `json:"filled"`
	ParticipantID protocol.ParticipantID `json:"participantID,omitempty"`
	Team          protocol.Team          `json:"teamColor,omitempty"`
	Role          protocol.Role          `json:"role,omitempty"`
}

// Roster always has exactly RequiredPlayers slots.
type Roster [RequiredPlayers]Slot

func EmptyRoster() Roster {
	var r Roster
	for i := range r {
		r[i].SlotIndex = i
	}
	return r
}

// NewRoster replaces the roster wholesale from a positional player list.
func NewRoster(players []*protocol.Player) (Roster, error) {
	if len(players) > RequiredPlayers {
		return Roster{}, fmt.Errorf("%w: %d players", ErrRosterOverflow, len(players))
	}

	r := EmptyRoster()
	seen := make(map[protocol.ParticipantID]bool, len(players))
	for i, p := range players {
		if p == nil {
			continue
		}
		if seen[p.ID] {
			return Roster{}, fmt.Errorf("%w: %d", ErrDuplicateParticipant, p.ID)
		}
		seen[p.ID] = true
		r[i] = Slot{SlotIndex: i, Filled: true, ParticipantID: p.ID, Team: p.Team, Role: p.Role}
	}
	return r, nil
}

func (r Roster) Find(id protocol.ParticipantID) (Slot, bool) {
	for _, s := range r {
		if s.Filled && s.ParticipantID == id {
			return s, true
		}
	}
	return Slot{}, false
}

func (r Roster) Contains(id protocol.ParticipantID) bool {
	_, ok := r.Find(id)
	return ok
}

func (r Roster) Filled() int {
	n := 0
	for _, s := range r {
		if s.Filled {
			n++
		}
	}
	return n
}
