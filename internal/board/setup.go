package board

import "fmt"

// Setup names a starting arrangement.
type Setup uint8

const (
	Standard Setup = iota
	TwoRooks       // King and two Rooks against a lone King
	TwoQueens      // King and two Queens against a lone King
)

// String returns the setup name used in config and records.
func (s Setup) String() string {
	switch s {
	case Standard:
		return "standard"
	case TwoRooks:
		return "rooks"
	case TwoQueens:
		return "queen"
	default:
		return "unknown"
	}
}

// ParseSetup parses a setup name.
func ParseSetup(s string) (Setup, error) {
	switch s {
	case "standard", "":
		return Standard, nil
	case "rooks":
		return TwoRooks, nil
	case "queen", "queens":
		return TwoQueens, nil
	}
	return Standard, fmt.Errorf("invalid setup: %s", s)
}

var backRank = [Files]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewPosition creates a position from a setup. For the endgame setups,
// strong names the side that owns the extra pieces. White moves first.
func NewPosition(s Setup, strong Color) *Position {
	p := NewEmptyPosition(Files, Ranks)
	b := p.Board
	top := b.Ranks() - 1

	switch s {
	case TwoRooks, TwoQueens:
		k := Rook
		if s == TwoQueens {
			k = Queen
		}
		rank := 0
		if strong == Black {
			rank = top
		}
		b.AddPiece(k, strong, Coord{0, rank})
		b.AddPiece(k, strong, Coord{b.Files() - 1, rank})
		b.AddPiece(King, White, Coord{4, 0})
		b.AddPiece(King, Black, Coord{4, top})
	default:
		for f, k := range backRank {
			b.AddPiece(k, White, Coord{f, 0})
			b.AddPiece(Pawn, White, Coord{f, 1})
		}
		for f, k := range backRank {
			b.AddPiece(Pawn, Black, Coord{f, top - 1})
			b.AddPiece(k, Black, Coord{f, top})
		}
	}
	b.RefreshRoster(nil, nil)
	return p
}

// NewEmptyPosition creates a position with no pieces, White to move.
func NewEmptyPosition(files, ranks int) *Position {
	return &Position{
		Board:     NewBoard(files, ranks),
		Turn:      White,
		EnPassant: NoCoord,
	}
}

// Put stands a new piece on c and refreshes the roster. Intended for
// building positions before play starts.
func (p *Position) Put(k Kind, c Color, at Coord) PieceID {
	id := p.Board.AddPiece(k, c, at)
	p.Board.RefreshRoster([]PieceID{id}, nil)
	return id
}
