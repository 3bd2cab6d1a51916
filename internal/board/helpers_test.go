package board

import (
	"testing"
)

// placement builds a position from the piece-placement field of a FEN
// string. Pawns off their starting rank and Kings or Rooks off their home
// squares are marked as already moved.
func placement(t *testing.T, fen string, turn Color) *Position {
	t.Helper()
	p := NewEmptyPosition(Files, Ranks)
	p.Turn = turn
	f, r := 0, Ranks-1
	for i := 0; i < len(fen); i++ {
		ch := fen[i]
		switch {
		case ch == '/':
			f, r = 0, r-1
		case ch >= '1' && ch <= '8':
			f += int(ch - '0')
		default:
			k := KindFromSymbol(ch)
			if k == NoKind {
				t.Fatalf("bad placement char %q in %s", ch, fen)
			}
			color := White
			if ch >= 'a' {
				color = Black
			}
			id := p.Board.AddPiece(k, color, Coord{f, r})
			if !atHome(k, color, Coord{f, r}) {
				p.Board.Piece(id).Moved = true
			}
			f++
		}
	}
	p.Board.RefreshRoster(nil, nil)
	return p
}

func atHome(k Kind, c Color, at Coord) bool {
	home := 0
	if c == Black {
		home = Ranks - 1
	}
	switch k {
	case Pawn:
		return at.Rank == home+c.Forward()
	case King:
		return at == Coord{4, home}
	case Rook:
		return at == Coord{0, home} || at == Coord{Files - 1, home}
	}
	return true
}

// play applies a sequence of moves given as text, failing on any illegal one.
func play(t *testing.T, p *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := p.FindMove(p.ValidMoves(), s)
		if err != nil {
			t.Fatalf("play %s: %v\n%s", s, err, p)
		}
		p.MakeNewMove(m)
	}
}

func sq(t *testing.T, s string) Coord {
	t.Helper()
	c, err := ParseCoord(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func destinations(moves []Move, from Coord) map[string]bool {
	out := map[string]bool{}
	for _, m := range moves {
		if m.From == from {
			out[m.To.String()] = true
		}
	}
	return out
}

func hasCoords(moves []Move, coords string) bool {
	for _, m := range moves {
		if m.From.String()+m.To.String() == coords {
			return true
		}
	}
	return false
}

// snapshot captures everything a make/undo round trip must restore.
type snapshot struct {
	board     string
	turn      Color
	ply       int
	fifty     int
	enPassant Coord
	logLen    int
	pieces    []Piece
	roster    []PieceID
}

func takeSnapshot(p *Position) snapshot {
	s := snapshot{
		board:     p.String(),
		turn:      p.Turn,
		ply:       p.Ply,
		fifty:     p.Fifty,
		enPassant: p.EnPassant,
		logLen:    len(p.MoveLog),
		roster:    append([]PieceID(nil), p.Board.Roster()...),
	}
	for _, id := range p.Board.Roster() {
		pc := *p.Board.Piece(id)
		pc.Pin = Direction{}
		s.pieces = append(s.pieces, pc)
	}
	return s
}

func (s snapshot) diff(o snapshot) string {
	switch {
	case s.board != o.board:
		return "board:\n" + s.board + "\nvs\n" + o.board
	case s.turn != o.turn:
		return "turn"
	case s.ply != o.ply:
		return "ply"
	case s.fifty != o.fifty:
		return "fifty"
	case s.enPassant != o.enPassant:
		return "en passant"
	case s.logLen != o.logLen:
		return "move log"
	case len(s.roster) != len(o.roster):
		return "roster"
	}
	for i := range s.pieces {
		if s.pieces[i] != o.pieces[i] {
			return "piece " + s.pieces[i].Name()
		}
	}
	return ""
}
