package board

import (
	"errors"
	"testing"
)

func TestMakeUndoRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		turn  Color
		setup []string
		move  string
	}{
		{"quiet", "", White, nil, "g1f3"},
		{"double push", "", White, nil, "e2e4"},
		{"capture", "", White, []string{"e2e4", "d7d5"}, "e4d5"},
		{"short castle", "r3k2r/8/8/8/8/8/8/R3K2R", White, nil, "e1g1"},
		{"long castle", "r3k2r/8/8/8/8/8/8/R3K2R", Black, nil, "e8c8"},
		{"en passant", "4k3/2p5/8/1P6/8/8/8/4K3", Black, []string{"c7c5"}, "b5c6"},
		{"promotion", "k7/4P3/8/8/8/8/8/4K3", White, nil, "e7e8"},
		{"capture promotion", "k4r2/4P3/8/8/8/8/8/4K3", White, nil, "e7f8n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p *Position
			if tc.fen == "" {
				p = NewPosition(Standard, White)
			} else {
				p = placement(t, tc.fen, tc.turn)
			}
			play(t, p, tc.setup...)
			before := takeSnapshot(p)

			m, err := p.FindMove(p.ValidMoves(), tc.move)
			if err != nil {
				t.Fatal(err)
			}
			p.MakeNewMove(m)
			after := takeSnapshot(p)

			if err := p.UndoMove(); err != nil {
				t.Fatal(err)
			}
			if d := before.diff(takeSnapshot(p)); d != "" {
				t.Fatalf("undo did not restore %s", d)
			}

			if err := p.RedoMove(); err != nil {
				t.Fatal(err)
			}
			if d := after.diff(takeSnapshot(p)); d != "" {
				t.Fatalf("redo did not reproduce %s", d)
			}
		})
	}
}

func TestCastleMovesRook(t *testing.T) {
	p := placement(t, "4k3/8/8/8/8/8/8/R3K2R", White)
	play(t, p, "O-O")
	if pc := p.Board.PieceAt(sq(t, "f1")); pc == nil || pc.Kind != Rook {
		t.Fatal("rook not on f1 after O-O")
	}
	if p.Board.Occupant(sq(t, "h1")) != NoPiece {
		t.Error("h1 not empty after O-O")
	}
	if got := p.LastMove().String(); got != "O-O" {
		t.Errorf("notation = %s", got)
	}
}

func TestPromotionChoice(t *testing.T) {
	p := placement(t, "k7/4P3/8/8/8/8/8/4K3", White)
	m, err := p.FindMove(p.ValidMoves(), "e7e8")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Promote('x', &m); !errors.Is(err, ErrUnknownPromotion) {
		t.Fatalf("Promote('x') = %v", err)
	}
	if err := p.Promote('r', &m); err != nil {
		t.Fatal(err)
	}
	p.MakeNewMove(m)
	if pc := p.Board.PieceAt(sq(t, "e8")); pc == nil || pc.Kind != Rook || pc.Color != White {
		t.Fatalf("e8 holds %v", pc)
	}
	if got := p.LastMove().String(); got != "e8=R" {
		t.Errorf("notation = %s", got)
	}
	if len(p.Board.SubRoster(Rook, White)) != 1 {
		t.Error("promoted rook missing from sub-roster")
	}

	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if pc := p.Board.PieceAt(sq(t, "e7")); pc == nil || pc.Kind != Pawn {
		t.Fatal("pawn not restored to e7")
	}
	if len(p.Board.SubRoster(Rook, White)) != 0 {
		t.Error("promoted rook left in sub-roster")
	}
}

func TestPromoteDefaultsToQueen(t *testing.T) {
	p := placement(t, "k7/4P3/8/8/8/8/8/4K3", White)
	play(t, p, "e7e8")
	if pc := p.Board.PieceAt(sq(t, "e8")); pc == nil || pc.Kind != Queen {
		t.Fatalf("e8 holds %v", pc)
	}
}

func TestPromoteNonPawn(t *testing.T) {
	p := NewPosition(Standard, White)
	m, err := p.FindMove(p.ValidMoves(), "g1f3")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Promote('q', &m); !errors.Is(err, ErrNotPawnMove) {
		t.Errorf("Promote on knight move = %v", err)
	}
}

func TestFoolsMate(t *testing.T) {
	p := NewPosition(Standard, White)
	play(t, p, "f2f3", "e7e5", "g2g4", "d8h4")
	moves := p.ValidMoves()
	p.FindMate(moves)
	if !p.Checkmate || !p.GameOver || p.Stalemate {
		t.Fatalf("checkmate=%v stalemate=%v over=%v", p.Checkmate, p.Stalemate, p.GameOver)
	}
	if got := p.LastMove().String(); got != "Qh4" {
		t.Errorf("notation = %s", got)
	}

	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if p.Checkmate || p.GameOver {
		t.Error("undo did not clear terminal flags")
	}
}

func TestStalemate(t *testing.T) {
	p := placement(t, "k7/2Q5/1K6/8/8/8/8/8", Black)
	moves := p.ValidMoves()
	p.FindMate(moves)
	if !p.Stalemate || p.Checkmate {
		t.Fatalf("stalemate=%v checkmate=%v", p.Stalemate, p.Checkmate)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	p := NewPosition(TwoRooks, White)
	p.Fifty = FiftyMoveLimit - 1
	play(t, p, "a1a2")
	if p.Fifty != FiftyMoveLimit {
		t.Fatalf("fifty = %d", p.Fifty)
	}
	moves := p.ValidMoves()
	if len(moves) == 0 {
		t.Fatal("black has no moves")
	}
	p.FindMate(moves)
	if !p.Stalemate || !p.GameOver {
		t.Error("fifty-move limit did not draw")
	}

	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if p.Fifty != FiftyMoveLimit-1 {
		t.Errorf("undo restored fifty = %d", p.Fifty)
	}
}

func TestFiftyMoveRuleAfterShuffling(t *testing.T) {
	p := NewPosition(TwoRooks, White)
	cycle := []string{"a1a2", "e8d8", "a2a1", "d8e8"}
	for ply := 1; ply <= FiftyMoveLimit; ply++ {
		play(t, p, cycle[(ply-1)%len(cycle)])
		moves := p.ValidMoves()
		p.FindMate(moves)
		if p.Fifty != ply {
			t.Fatalf("ply %d: fifty = %d", ply, p.Fifty)
		}
		if len(moves) == 0 || p.Checkmate {
			t.Fatalf("ply %d: game ended with %d moves", ply, len(moves))
		}
		if ply < FiftyMoveLimit && p.GameOver {
			t.Fatalf("ply %d: drawn early", ply)
		}
	}
	if !p.Stalemate || !p.GameOver {
		t.Error("a hundred quiet half-moves did not draw")
	}
}

func TestFiftyResetsOnPawnMoveAndCapture(t *testing.T) {
	p := NewPosition(Standard, White)
	play(t, p, "g1f3", "b8c6")
	if p.Fifty != 2 {
		t.Fatalf("fifty = %d, want 2", p.Fifty)
	}
	play(t, p, "e2e4")
	if p.Fifty != 0 {
		t.Fatalf("fifty after pawn move = %d", p.Fifty)
	}
	play(t, p, "c6d4", "f3d4")
	if p.Fifty != 0 {
		t.Errorf("fifty after capture = %d", p.Fifty)
	}
}

func TestBranches(t *testing.T) {
	p := NewPosition(Standard, White)
	play(t, p, "e2e4", "e7e5")
	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if len(p.UndoLog) != 1 {
		t.Fatalf("undo log = %d", len(p.UndoLog))
	}
	play(t, p, "c7c5")
	if len(p.UndoLog) != 0 {
		t.Error("undo log not cleared by a new move")
	}
	if len(p.Branches) != 1 || p.Branches[0][0].To != sq(t, "e5") {
		t.Errorf("branches = %+v", p.Branches)
	}
	if err := p.RedoMove(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("RedoMove = %v", err)
	}
}

func TestUndoEmpty(t *testing.T) {
	p := NewPosition(Standard, White)
	if err := p.UndoMove(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("UndoMove = %v", err)
	}
}

func TestNewMoveEmptySquarePanics(t *testing.T) {
	p := NewPosition(Standard, White)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrEmptySquare) {
			t.Errorf("recover() = %v", r)
		}
	}()
	NewMove(p.Board, sq(t, "e4"), sq(t, "e5"), 0)
}

func TestFirstMoveMarker(t *testing.T) {
	p := NewPosition(Standard, White)
	play(t, p, "g1f3")
	knight := p.Board.PieceAt(sq(t, "f3"))
	if !knight.Moved {
		t.Fatal("knight not marked as moved")
	}
	play(t, p, "a7a6", "f3g1", "a6a5")
	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if !p.Board.PieceAt(sq(t, "f3")).Moved {
		t.Error("second move cleared the first-move marker")
	}
	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if err := p.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if p.Board.PieceAt(sq(t, "g1")).Moved {
		t.Error("undoing the first move kept the marker")
	}
}

func TestCloneIsolated(t *testing.T) {
	p := NewPosition(Standard, White)
	c := p.Clone()
	play(t, c, "e2e4")
	if p.Board.Occupant(sq(t, "e4")) != NoPiece || p.Ply != 0 {
		t.Error("clone shares state with the original")
	}
}
