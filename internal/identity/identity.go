// Package identity owns the participant id of a client session.
//
// Ids are generated by the client: a random positive integer drawn once per
// session and sent with every outbound envelope. The server either seats
// that id in a free slot or answers gameFull. A restarted session draws a
// new id.
package identity

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

// MaxID keeps ids exact in any JSON number implementation (2^53 - 1).
const MaxID = 1<<53 - 1

func New() (protocol.ParticipantID, error) {
	return Generate(rand.Reader)
}

// Generate draws an id in [1, MaxID] from r.
func Generate(r io.Reader) (protocol.ParticipantID, error) {
	n, err := rand.Int(r, big.NewInt(MaxID))
	if err != nil {
		return 0, fmt.Errorf("generate participant id: %w", err)
	}
	return protocol.ParticipantID(n.Int64() + 1), nil
}

// PresentIn reports whether id holds a slot in an authoritative roster.
// A roster without it means a new game started without this session.
func PresentIn(id protocol.ParticipantID, players []*protocol.Player) bool {
	for _, p := range players {
		if p != nil && p.ID == id {
			return true
		}
	}
	return false
}
