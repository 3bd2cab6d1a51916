package board

import (
	"fmt"
	"slices"
	"strings"
)

// LogEntry is one played move together with the fifty-move counter
// as it stood before the move.
type LogEntry struct {
	Move  Move
	Fifty int
}

// Pin records a friendly piece on At that may only move along Dir.
type Pin struct {
	At  Coord
	Dir Direction
}

// Check records an enemy piece on At giving check. Dir points from the
// King toward the checker; it is zero for a Knight.
type Check struct {
	At  Coord
	Dir Direction
}

// Position is a game in progress: the board, side to move, counters and
// history. It is not safe for concurrent use; search works on a Clone.
type Position struct {
	Board *Board
	Turn  Color
	Ply   int

	// Fifty counts half-moves since the last pawn move or capture.
	Fifty int

	// EnPassant is the square of the pawn that double-stepped on the
	// previous ply, or NoCoord.
	EnPassant Coord

	MoveLog  []LogEntry
	UndoLog  []Move
	Branches [][]Move

	InCheck   bool
	Checkmate bool
	Stalemate bool
	GameOver  bool

	Pins   []Pin
	Checks []Check
}

// Clone returns a deep copy that shares nothing mutable with p.
func (p *Position) Clone() *Position {
	np := *p
	np.Board = p.Board.Clone()
	np.MoveLog = slices.Clone(p.MoveLog)
	np.UndoLog = slices.Clone(p.UndoLog)
	np.Branches = make([][]Move, len(p.Branches))
	for i, br := range p.Branches {
		np.Branches[i] = slices.Clone(br)
	}
	np.Pins = slices.Clone(p.Pins)
	np.Checks = slices.Clone(p.Checks)
	return &np
}

// LastMove returns the most recent move, or nil.
func (p *Position) LastMove() *Move {
	if len(p.MoveLog) == 0 {
		return nil
	}
	return &p.MoveLog[len(p.MoveLog)-1].Move
}

// History returns the played moves in algebraic notation.
func (p *Position) History() []string {
	out := make([]string, len(p.MoveLog))
	for i := range p.MoveLog {
		out[i] = p.MoveLog[i].Move.String()
	}
	return out
}

// FindMove returns the legal move matching text, given either in coordinate
// form ("e2e4", "e7e8q") or in the notation produced by Move.String.
// A promotion letter is applied to the returned move.
func (p *Position) FindMove(moves []Move, text string) (Move, error) {
	text = strings.TrimRight(strings.TrimSpace(text), "+#!?")
	text = strings.TrimSuffix(text, " e.p.")
	if text == "0-0" || text == "0-0-0" {
		text = strings.ReplaceAll(text, "0", "O")
	}

	promo := NoKind
	if i := strings.IndexByte(text, '='); i >= 0 && i+1 < len(text) {
		promo = KindFromSymbol(text[i+1])
		text = text[:i]
	}

	for _, m := range moves {
		coords := m.From.String() + m.To.String()
		switch {
		case text == coords:
		case len(text) == len(coords)+1 && strings.HasPrefix(text, coords):
			promo = KindFromSymbol(text[len(text)-1])
		case text == strings.TrimSuffix(m.String(), " e.p."):
		default:
			continue
		}
		if m.IsPromotion() && promo != NoKind {
			if err := p.Promote(promoChoice(promo), &m); err != nil {
				return Move{}, err
			}
		}
		return m, nil
	}
	return Move{}, fmt.Errorf("%s: %w", text, ErrIllegalMove)
}

func promoChoice(k Kind) byte {
	if k == Knight {
		return 'k'
	}
	return k.Symbol() + 'a' - 'A'
}

// String renders the board with White at the bottom.
func (p *Position) String() string {
	b := p.Board
	var sb strings.Builder
	for r := b.Ranks() - 1; r >= 0; r-- {
		fmt.Fprintf(&sb, "%2d ", r+1)
		for f := 0; f < b.Files(); f++ {
			c := Coord{f, r}
			if pc := b.PieceAt(c); pc != nil {
				sb.WriteByte(pc.Symbol())
			} else if c.Light() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(':')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for f := 0; f < b.Files(); f++ {
		sb.WriteByte(byte('a' + f))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "%s to move, ply %d", p.Turn, p.Ply)
	return sb.String()
}
