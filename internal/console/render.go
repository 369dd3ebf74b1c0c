package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/DoyleJ11/wordgame-client/internal/engine"
	"github.com/DoyleJ11/wordgame-client/internal/protocol"
	"github.com/DoyleJ11/wordgame-client/internal/session"
)

// Renderer prints every snapshot as a plain text screen.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) Render(snap session.Snapshot, _ []engine.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	writeHeader(&b, snap)
	writeRoster(&b, snap)
	writeBoard(&b, snap)
	writeTurn(&b, snap)
	for _, n := range snap.Notifications {
		fmt.Fprintf(&b, "* %s\n", n)
	}
	fmt.Fprintf(&b, "%s\n", prompt(snap))
	_, _ = io.WriteString(r.w, b.String())
}

func writeHeader(b *strings.Builder, snap session.Snapshot) {
	fmt.Fprintf(b, "\n== %s", snap.Phase)
	if snap.SubPhase != engine.SubPhaseNone {
		fmt.Fprintf(b, " / %s", snap.SubPhase)
	}
	fmt.Fprintf(b, " == you are player %d", snap.ParticipantID)
	if snap.Team != "" {
		fmt.Fprintf(b, ", %s %s", snap.Team, snap.Role)
	}
	b.WriteString("\n")
}

func writeRoster(b *strings.Builder, snap session.Snapshot) {
	for _, slot := range snap.Roster {
		if !slot.Filled {
			fmt.Fprintf(b, "  [%d] waiting for player\n", slot.SlotIndex)
			continue
		}
		mark := ""
		if slot.ParticipantID == snap.ParticipantID {
			mark = " (you)"
		}
		fmt.Fprintf(b, "  [%d] player %d %s %s%s\n", slot.SlotIndex, slot.ParticipantID, slot.Team, slot.Role, mark)
	}
}

func writeBoard(b *strings.Builder, snap session.Snapshot) {
	if len(snap.Board) == 0 {
		return
	}
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, row := range snap.Board {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = cellLabel(c)
		}
		fmt.Fprintf(tw, "  %s\t\n", strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

// cellLabel shows the index to guess by, the word, and whatever color the
// local role is allowed to see. Revealed words are upper-cased.
func cellLabel(c engine.Cell) string {
	word := c.Word
	if c.Revealed {
		word = strings.ToUpper(word)
	}
	if c.Color == protocol.ColorUnknown {
		return fmt.Sprintf("%d %s", c.Index, word)
	}
	return fmt.Sprintf("%d %s [%s]", c.Index, word, c.Color)
}

func writeTurn(b *strings.Builder, snap session.Snapshot) {
	if snap.Winner != "" {
		fmt.Fprintf(b, "winner: %s\n", snap.Winner)
		return
	}
	if snap.Turn != nil {
		owner := fmt.Sprintf("player %d", snap.Turn.Owner)
		if snap.Turn.Owner == snap.ParticipantID {
			owner = "you"
		}
		fmt.Fprintf(b, "turn: %s (%s %s)\n", owner, snap.Turn.Team, snap.Turn.Role)
	}
	if snap.Clue != nil {
		fmt.Fprintf(b, "clue: %q for %d, %d guesses left\n", snap.Clue.Text, snap.Clue.NumGuesses, snap.GuessesRemaining)
	}
}

func prompt(snap session.Snapshot) string {
	switch {
	case snap.CanGuess:
		return "> guess N | pass | quit"
	case snap.CanSubmitClue:
		return "> clue WORD N | quit"
	case snap.Phase == engine.PhaseRejected:
		return "> quit"
	default:
		return "> new | quit"
	}
}
