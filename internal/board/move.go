package board

import (
	"fmt"
	"strings"
)

// Castle is the rook half of a castling move.
type Castle struct {
	Rook     PieceID
	From, To Coord
}

// MoveID is the identity of a move: two moves are equal when their ply,
// moved piece, path and captured piece all match.
type MoveID struct {
	Ply      int
	Piece    PieceID
	Path     int // from.File*1000 + from.Rank*100 + to.File*10 + to.Rank
	Captured PieceID
}

// Move is one ply. Everything except Promotion is fixed at construction.
type Move struct {
	From, To Coord
	Piece    PieceID
	Captured PieceID
	Ply      int

	Castle    *Castle
	EnPassant *Coord // square of the pawn taken en passant

	// Promotion is NoKind until chosen.
	Promotion Kind

	kind     Kind
	color    Color
	promotes bool
	disamb   string
}

// NewMove builds a move of the piece on from to to at the given ply. The
// captured piece is whatever stands on to. It panics with ErrEmptySquare
// when from is empty; the board is never modified.
func NewMove(b *Board, from, to Coord, ply int) Move {
	p := b.PieceAt(from)
	if p == nil {
		panic(fmt.Errorf("move %s%s: %w", from, to, ErrEmptySquare))
	}
	m := Move{
		From:      from,
		To:        to,
		Piece:     p.ID,
		Captured:  b.Occupant(to),
		Ply:       ply,
		Promotion: NoKind,
		kind:      p.Kind,
		color:     p.Color,
	}
	if p.Kind == Pawn {
		last := b.Ranks() - 1
		if p.Color == Black {
			last = 0
		}
		m.promotes = to.Rank == last
	}
	if catalog[p.Kind].tracked {
		m.disamb = disambiguation(b, p, to)
	}
	return m
}

// newCastle builds a King move carrying the rook relocation.
func newCastle(b *Board, from, to Coord, ply int, rook PieceID, rookTo Coord) Move {
	m := NewMove(b, from, to, ply)
	m.Castle = &Castle{Rook: rook, From: b.Piece(rook).At, To: rookTo}
	return m
}

// newEnPassant builds a pawn capture of the pawn standing on taken.
func newEnPassant(b *Board, from, to, taken Coord, ply int) Move {
	m := NewMove(b, from, to, ply)
	m.Captured = b.Occupant(taken)
	m.EnPassant = &taken
	return m
}

// ID returns the identity tuple.
func (m *Move) ID() MoveID {
	return MoveID{
		Ply:      m.Ply,
		Piece:    m.Piece,
		Path:     m.From.File*1000 + m.From.Rank*100 + m.To.File*10 + m.To.Rank,
		Captured: m.Captured,
	}
}

// Equal reports whether two moves have the same identity.
func (m *Move) Equal(o *Move) bool {
	return m.ID() == o.ID()
}

// Kind returns the kind of the moved piece at construction.
func (m *Move) Kind() Kind { return m.kind }

// Color returns the color of the side making the move.
func (m *Move) Color() Color { return m.color }

// IsCapture reports whether the move takes a piece.
func (m *Move) IsCapture() bool { return m.Captured != NoPiece }

// IsPromotion reports whether a pawn reaches its last rank.
func (m *Move) IsPromotion() bool { return m.promotes }

// Coords returns the move in coordinate notation (e.g., "e2e4", "e7e8q").
func (m *Move) Coords() string {
	s := m.From.String() + m.To.String()
	if m.promotes && m.Promotion != NoKind {
		s += string(rune(m.Promotion.Symbol() + 'a' - 'A'))
	}
	return s
}

// String returns the move in algebraic notation.
func (m *Move) String() string {
	if m.Castle != nil {
		if m.To.File > m.From.File {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	if m.kind == Pawn {
		if m.IsCapture() {
			sb.WriteString(m.From.String()[:1])
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.Promotion != NoKind {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion.Symbol())
		}
		if m.EnPassant != nil {
			sb.WriteString(" e.p.")
		}
		return sb.String()
	}

	sb.WriteByte(m.kind.Symbol())
	sb.WriteString(m.disamb)
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	return sb.String()
}

// disambiguation returns the origin qualifier needed when another piece of
// the same kind and color could also reach to: file first, then rank, then both.
func disambiguation(b *Board, p *Piece, to Coord) string {
	var rivals []Coord
	for _, id := range b.SubRoster(p.Kind, p.Color) {
		if id == p.ID {
			continue
		}
		if q := b.Piece(id); q.OnBoard && reaches(b, q, to) {
			rivals = append(rivals, q.At)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, c := range rivals {
		if c.File == p.At.File {
			sameFile = true
		}
		if c.Rank == p.At.Rank {
			sameRank = true
		}
	}
	name := p.At.String()
	switch {
	case !sameFile:
		return name[:1]
	case !sameRank:
		return name[1:]
	default:
		return name
	}
}

// reaches reports whether p's movement pattern covers to on the current
// board, ignoring pins and checks.
func reaches(b *Board, p *Piece, to Coord) bool {
	for _, d := range Directions(p.Kind, p.Color) {
		c := p.At.Add(d)
		for b.InBounds(c) {
			if c == to {
				return true
			}
			if !p.Kind.Slides() || b.Occupant(c) != NoPiece {
				break
			}
			c = c.Add(d)
		}
	}
	return false
}
