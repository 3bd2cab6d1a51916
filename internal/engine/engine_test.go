package engine

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/hailam/chessgame/internal/board"
)

func coord(t *testing.T, s string) board.Coord {
	t.Helper()
	c, err := board.ParseCoord(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// backRankMate has Ra7-a8 mate as the first generated move.
func backRankMate(t *testing.T) *board.Position {
	p := board.NewEmptyPosition(board.Files, board.Ranks)
	p.Put(board.Rook, board.White, coord(t, "a7"))
	p.Put(board.King, board.White, coord(t, "g1"))
	p.Put(board.King, board.Black, coord(t, "g8"))
	for _, s := range []string{"f7", "g7", "h7"} {
		p.Put(board.Pawn, board.Black, coord(t, s))
	}
	return p
}

func TestSearchFindsMateAndStops(t *testing.T) {
	pos := backRankMate(t)
	s := NewSearcher(DefaultDepth, nil)

	move, score, ok := s.Search(pos)
	if !ok {
		t.Fatal("no move found")
	}
	if move.To != coord(t, "a8") {
		t.Errorf("move = %s, want Ra8", move.String())
	}
	if score != Checkmate {
		t.Errorf("score = %d, want %d", score, Checkmate)
	}
	// Root plus the mated reply: siblings of the mating move are never visited.
	if s.Nodes() != 2 {
		t.Errorf("nodes = %d, want 2", s.Nodes())
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	pos := board.NewEmptyPosition(board.Files, board.Ranks)
	pos.Put(board.Rook, board.White, coord(t, "a1"))
	pos.Put(board.King, board.White, coord(t, "e1"))
	pos.Put(board.Queen, board.Black, coord(t, "a8"))
	pos.Put(board.King, board.Black, coord(t, "h8"))

	for _, depth := range []int{1, 2, 3} {
		e := NewEngine(depth, 1)
		e.SetShuffle(false)
		move, info, ok := e.Search(pos)
		if !ok {
			t.Fatalf("depth %d: no move", depth)
		}
		if got := move.String(); got != "Rxa8" {
			t.Errorf("depth %d: move = %s, want Rxa8 (score %d)", depth, got, info.Score)
		}
	}
}

func TestSearchLeavesPositionUntouched(t *testing.T) {
	pos := board.NewPosition(board.Standard, board.White)
	before := pos.String()
	e := NewEngine(2, 42)
	if _, ok := e.ChooseMove(pos); !ok {
		t.Fatal("no move from the start position")
	}
	if pos.String() != before || pos.Ply != 0 || len(pos.MoveLog) != 0 {
		t.Error("search mutated the live position")
	}
}

func TestChooseMoveIsLegal(t *testing.T) {
	pos := board.NewPosition(board.Standard, board.White)
	e := NewEngine(2, 9)
	for i := 0; i < 6; i++ {
		move, ok := e.ChooseMove(pos)
		if !ok {
			t.Fatalf("ply %d: no move", i)
		}
		if _, err := pos.FindMove(pos.ValidMoves(), move.Coords()); err != nil {
			t.Fatalf("ply %d: engine move %s not legal: %v", i, move.String(), err)
		}
		pos.MakeNewMove(move)
	}
}

func TestChooseMoveNoLegalMoves(t *testing.T) {
	pos := board.NewPosition(board.Standard, board.White)
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := pos.FindMove(pos.ValidMoves(), s)
		if err != nil {
			t.Fatal(err)
		}
		pos.MakeNewMove(m)
	}
	e := NewEngine(2, 1)
	if _, ok := e.ChooseMove(pos); ok {
		t.Error("move returned in a checkmated position")
	}
}

func TestChooseMoveReportsInfo(t *testing.T) {
	pos := backRankMate(t)
	e := NewEngine(DefaultDepth, 3)
	var got SearchInfo
	e.OnInfo = func(info SearchInfo) { got = info }
	if _, ok := e.ChooseMove(pos); !ok {
		t.Fatal("no move")
	}
	if got.Move == "" || got.Score != Checkmate || got.Fallback || got.Depth != DefaultDepth {
		t.Errorf("info = %+v", got)
	}
}

func TestChooseMoveCancelled(t *testing.T) {
	pos := board.NewPosition(board.Standard, board.White)
	e := NewEngine(DefaultDepth, 5)
	reports := 0
	e.OnInfo = func(SearchInfo) { reports++ }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if m, ok := e.ChooseMoveContext(ctx, pos); ok || m != (board.Move{}) {
		t.Errorf("cancelled search returned %+v, %v", m, ok)
	}
	if reports != 0 {
		t.Errorf("cancelled search reported %d times", reports)
	}

	// A cancelled context does not carry over to the next search.
	if _, info, ok := e.Search(pos); !ok || info.Fallback || info.Nodes == 0 {
		t.Errorf("next search: ok=%v info=%+v", ok, info)
	}
	if _, ok := e.ChooseMove(pos); !ok || reports != 1 {
		t.Errorf("next move: ok=%v reports=%d", ok, reports)
	}
}

func TestRandomMove(t *testing.T) {
	if _, ok := RandomMove(nil, nil); ok {
		t.Error("random move from an empty list")
	}
	pos := board.NewPosition(board.Standard, board.White)
	moves := pos.ValidMoves()
	rng := rand.New(rand.NewPCG(1, 1))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		m, ok := RandomMove(moves, rng)
		if !ok {
			t.Fatal("no move")
		}
		seen[m.Coords()] = true
	}
	if len(seen) < 10 {
		t.Errorf("only %d distinct moves in 200 draws", len(seen))
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		pieces map[string]board.Kind
		black  map[string]board.Kind
		want   int
	}{
		{"kings only", map[string]board.Kind{"e1": board.King}, map[string]board.Kind{"e8": board.King}, 0},
		{"extra queen", map[string]board.Kind{"e1": board.King, "d1": board.Queen}, map[string]board.Kind{"e8": board.King}, 9},
		{"white pawn near promotion", map[string]board.Kind{"e1": board.King, "a7": board.Pawn}, map[string]board.Kind{"e8": board.King}, 9},
		{"black pawn near promotion", map[string]board.Kind{"e1": board.King}, map[string]board.Kind{"e8": board.King, "h2": board.Pawn}, -9},
		{"rook against knight", map[string]board.Kind{"e1": board.King, "a1": board.Rook}, map[string]board.Kind{"e8": board.King, "b8": board.Knight}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := board.NewEmptyPosition(board.Files, board.Ranks)
			for s, k := range tc.pieces {
				pos.Put(k, board.White, coord(t, s))
			}
			for s, k := range tc.black {
				pos.Put(k, board.Black, coord(t, s))
			}
			if got := Evaluate(pos); got != tc.want {
				t.Errorf("Evaluate() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluateTerminal(t *testing.T) {
	pos := board.NewPosition(board.Standard, board.White)
	if got := Evaluate(pos); got != 0 {
		t.Errorf("start = %d", got)
	}
	pos.Checkmate = true
	if got := Evaluate(pos); got != -Checkmate {
		t.Errorf("white mated = %d", got)
	}
	pos.Checkmate, pos.Stalemate = false, true
	if got := Evaluate(pos); got != Stalemate {
		t.Errorf("stalemate = %d", got)
	}
}

func TestPerft(t *testing.T) {
	pos := board.NewPosition(board.Standard, board.White)
	if got := Perft(pos, 3); got != 8902 {
		t.Errorf("Perft(3) = %d, want 8902", got)
	}
}

func TestDifficulty(t *testing.T) {
	e := NewEngine(0, 1)
	if e.Depth() != DefaultDepth {
		t.Fatalf("default depth = %d", e.Depth())
	}
	for _, name := range []string{"easy", "medium", "hard"} {
		d, err := ParseDifficulty(name)
		if err != nil {
			t.Fatal(err)
		}
		e.SetDifficulty(d)
		if e.Depth() != DifficultySettings[d] {
			t.Errorf("%s: depth = %d", name, e.Depth())
		}
	}
	if _, err := ParseDifficulty("brutal"); err == nil {
		t.Error("expected error")
	}
}
