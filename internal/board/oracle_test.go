package board

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

// pathSet reduces a move list to sorted "from+to" strings; promotions to
// different pieces collapse to one entry.
func pathSet(paths []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range paths {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func ourPaths(moves []Move) []string {
	paths := make([]string, len(moves))
	for i := range moves {
		paths[i] = moves[i].From.String() + moves[i].To.String()
	}
	return pathSet(paths)
}

func notnilPaths(g *chess.Game) []string {
	var paths []string
	for _, m := range g.ValidMoves() {
		paths = append(paths, m.S1().String()+m.S2().String())
	}
	return pathSet(paths)
}

func dragontoothPaths(b *dragontoothmg.Board) []string {
	var paths []string
	for _, m := range b.GenerateLegalMoves() {
		paths = append(paths, m.String()[:4])
	}
	return pathSet(paths)
}

func samePaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestRandomPlayoutsAgainstReference plays random games and compares the
// legal move set after every ply with two independent move generators.
func TestRandomPlayoutsAgainstReference(t *testing.T) {
	const (
		games    = 40
		maxPlies = 160
	)
	rng := rand.New(rand.NewPCG(7, 11))

	for g := 0; g < games; g++ {
		pos := NewPosition(Standard, White)
		ref := chess.NewGame()
		dt := dragontoothmg.ParseFen(dragontoothmg.Startpos)

		for ply := 0; ply < maxPlies; ply++ {
			// Draws by repetition or material end the reference game early.
			if ref.Outcome() != chess.NoOutcome && ref.Method() != chess.Checkmate && ref.Method() != chess.Stalemate {
				break
			}
			moves := pos.ValidMoves()
			ours := ourPaths(moves)

			if want := notnilPaths(ref); !samePaths(ours, want) {
				t.Fatalf("game %d ply %d: moves differ from notnil/chess\nours %v\nwant %v\nhistory %v\n%s",
					g, ply, ours, want, pos.History(), pos)
			}
			if want := dragontoothPaths(&dt); !samePaths(ours, want) {
				t.Fatalf("game %d ply %d: moves differ from dragontoothmg\nours %v\nwant %v\nhistory %v\n%s",
					g, ply, ours, want, pos.History(), pos)
			}
			if len(moves) == 0 {
				break
			}

			m := moves[rng.IntN(len(moves))]
			path := m.From.String() + m.To.String()
			pos.MakeNewMove(m)

			applied := false
			for _, rm := range ref.ValidMoves() {
				if rm.S1().String()+rm.S2().String() != path {
					continue
				}
				if rm.Promo() != chess.NoPieceType && rm.Promo() != chess.Queen {
					continue
				}
				if err := ref.Move(rm); err != nil {
					t.Fatalf("notnil/chess rejected %s: %v", path, err)
				}
				applied = true
				break
			}
			if !applied {
				t.Fatalf("notnil/chess has no move %s", path)
			}

			applied = false
			for _, dm := range dt.GenerateLegalMoves() {
				s := dm.String()
				if s[:4] != path || (len(s) == 5 && s[4] != 'q') {
					continue
				}
				dt.Apply(dm)
				applied = true
				break
			}
			if !applied {
				t.Fatalf("dragontoothmg has no move %s", path)
			}
		}
	}
}

// TestUndoAllRestoresStart undoes a random game move by move and checks
// the start position comes back exactly.
func TestUndoAllRestoresStart(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	pos := NewPosition(Standard, White)
	start := takeSnapshot(pos)

	for ply := 0; ply < 120; ply++ {
		moves := pos.ValidMoves()
		if len(moves) == 0 {
			break
		}
		pos.MakeNewMove(moves[rng.IntN(len(moves))])
	}
	for len(pos.MoveLog) > 0 {
		if err := pos.UndoMove(); err != nil {
			t.Fatal(err)
		}
	}
	if d := start.diff(takeSnapshot(pos)); d != "" {
		t.Fatalf("undoing every move left %s", d)
	}

	played := len(pos.UndoLog)
	for i := 0; i < played; i++ {
		if err := pos.RedoMove(); err != nil {
			t.Fatal(err)
		}
	}
	if len(pos.MoveLog) != played {
		t.Errorf("redo replayed %d of %d moves", len(pos.MoveLog), played)
	}
}
