// Package board implements the chess rules: an arena-backed board, legal move
// generation from pins and checks, and the make/undo/redo protocol.
package board

import (
	"fmt"
	"strconv"
)

// Standard board extents.
const (
	Files = 8
	Ranks = 8
)

// Coord addresses a square by file (0 = a) and rank (0 = White's back rank).
type Coord struct {
	File, Rank int
}

// NoCoord is an off-board sentinel.
var NoCoord = Coord{-1, -1}

// Add returns the coordinate one step along d.
func (c Coord) Add(d Direction) Coord {
	return Coord{c.File + d.File, c.Rank + d.Rank}
}

// Light reports whether the square is a light square (a1 is dark).
func (c Coord) Light() bool {
	return (c.File+c.Rank)%2 == 1
}

// String returns the algebraic name of the square (e.g., "e4").
func (c Coord) String() string {
	if c.File < 0 || c.Rank < 0 || c.File > 25 {
		return "-"
	}
	return string(rune('a'+c.File)) + strconv.Itoa(c.Rank+1)
}

// ParseCoord parses algebraic notation (e.g., "e4") into a Coord.
func ParseCoord(s string) (Coord, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return NoCoord, fmt.Errorf("invalid square: %s", s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil || rank < 1 {
		return NoCoord, fmt.Errorf("invalid square: %s", s)
	}
	return Coord{int(s[0] - 'a'), rank - 1}, nil
}

// Square is one cell of the grid. Occupant is NoPiece when empty.
type Square struct {
	Coord
	Occupant PieceID
}

// Empty reports whether no piece stands on the square.
func (s *Square) Empty() bool {
	return s.Occupant == NoPiece
}
