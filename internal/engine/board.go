package engine

import (
	"fmt"
	"math"

	"github.com/DoyleJ11/wordgame-client/internal/protocol"
)

type Cell struct {
	Index    int            `json:"index"`
	Word     string         `json:"word"`
	Color    protocol.Color `json:"color,omitempty"`
	Revealed bool           `json:"revealed"`
	Correct  bool           `json:"correct,omitempty"`
}

// Board is an immutable N×N grid stored row-major. Reveal returns a copy.
type Board struct {
	dim   int
	cells []Cell
}

// Build constructs a board from a server cell map. The map must be a
// non-empty perfect square with indexes 0..len-1.
func Build(cells map[int]protocol.Cell) (*Board, error) {
	n := len(cells)
	if n == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidBoard)
	}
	dim, ok := isqrt(n)
	if !ok {
		return nil, fmt.Errorf("%w: %d cells is not a square", ErrInvalidBoard, n)
	}

	b := &Board{dim: dim, cells: make([]Cell, n)}
	for i := range n {
		c, ok := cells[i]
		if !ok {
			return nil, fmt.Errorf("%w: missing cell %d", ErrInvalidBoard, i)
		}
		b.cells[i] = Cell{Index: i, Word: c.Word, Color: c.Color, Revealed: c.Revealed}
	}
	return b, nil
}

func (b *Board) Dim() int { return b.dim }

func (b *Board) Len() int { return len(b.cells) }

func (b *Board) Cell(index int) (Cell, bool) {
	if index < 0 || index >= len(b.cells) {
		return Cell{}, false
	}
	return b.cells[index], true
}

// Reveal marks exactly one cell as revealed with the server's color.
// PassIndex leaves the board untouched and returns the receiver.
func (b *Board) Reveal(index int, color protocol.Color, correct bool) (*Board, error) {
	if index == protocol.PassIndex {
		return b, nil
	}
	if index < 0 || index >= len(b.cells) {
		return nil, fmt.Errorf("%w: %d", ErrCellOutOfRange, index)
	}

	next := &Board{dim: b.dim, cells: make([]Cell, len(b.cells))}
	copy(next.cells, b.cells)
	next.cells[index].Color = color
	next.cells[index].Revealed = true
	next.cells[index].Correct = correct
	return next, nil
}

// View returns the rows as the given role may see them. Only a clue giver
// sees the colors of unrevealed cells.
func (b *Board) View(role protocol.Role) [][]Cell {
	rows := make([][]Cell, b.dim)
	for r := range rows {
		row := make([]Cell, b.dim)
		copy(row, b.cells[r*b.dim:(r+1)*b.dim])
		if role != protocol.RoleClueGiver {
			for i := range row {
				if !row[i].Revealed {
					row[i].Color = protocol.ColorUnknown
				}
			}
		}
		rows[r] = row
	}
	return rows
}

func isqrt(n int) (int, bool) {
	d := int(math.Sqrt(float64(n)))
	for d*d > n {
		d--
	}
	for (d+1)*(d+1) <= n {
		d++
	}
	return d, d*d == n
}
