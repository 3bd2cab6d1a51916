package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
	"github.com/hailam/chessgame/internal/storage"
)

func newSession(t *testing.T, o Options) *Session {
	t.Helper()
	if o.Depth == 0 {
		o.Depth = 1
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	o.Logger = zerolog.Nop()
	return New(o)
}

func playAll(t *testing.T, s *Session, moves ...string) {
	t.Helper()
	for _, text := range moves {
		if _, err := s.PlayText(text); err != nil {
			t.Fatalf("%s: %v", text, err)
		}
	}
}

func TestFoolsMate(t *testing.T) {
	s := newSession(t, Options{Opponent: storage.OpponentFriend})
	if len(s.Legal()) != 20 {
		t.Fatalf("start has %d moves", len(s.Legal()))
	}
	playAll(t, s, "f3", "e7e5", "g2g4", "Qh4")

	if s.Status() != Checkmate {
		t.Fatalf("status = %v", s.Status())
	}
	result, why := s.Result()
	if result != storage.ResultBlack || why != "checkmate" {
		t.Errorf("result = %s (%s)", result, why)
	}
	if _, err := s.PlayText("e1f2"); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("move after mate: %v", err)
	}
}

func TestPlayRejectsForeignMove(t *testing.T) {
	s := newSession(t, Options{Opponent: storage.OpponentFriend})
	other := board.NewPosition(board.Standard, board.White)
	m, err := other.FindMove(other.ValidMoves(), "e2e4")
	if err != nil {
		t.Fatal(err)
	}
	playAll(t, s, "d2d4")
	if err := s.Play(m); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("Play(stale move) = %v", err)
	}
	if _, err := s.PlayText("e9e4"); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("PlayText(garbage) = %v", err)
	}
}

func TestMovesFrom(t *testing.T) {
	s := newSession(t, Options{Opponent: storage.OpponentFriend})
	g1, _ := board.ParseCoord("g1")
	if n := len(s.MovesFrom(g1)); n != 2 {
		t.Errorf("knight on g1 has %d moves", n)
	}
}

func TestFiftyMoveStatus(t *testing.T) {
	s := newSession(t, Options{Setup: board.TwoRooks, Opponent: storage.OpponentFriend})
	s.pos.Fifty = board.FiftyMoveLimit - 1
	playAll(t, s, "Kd2")

	if s.Status() != FiftyMove {
		t.Fatalf("status = %v", s.Status())
	}
	if result, _ := s.Result(); result != storage.ResultDraw {
		t.Errorf("result = %s", result)
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != Ongoing {
		t.Errorf("status after undo = %v", s.Status())
	}
}

func TestComputerTurns(t *testing.T) {
	s := newSession(t, Options{Opponent: storage.OpponentComputer, Human: board.White})
	if s.ComputerToMove() {
		t.Fatal("computer to move at the start")
	}
	playAll(t, s, "e2e4")
	if !s.ComputerToMove() {
		t.Fatal("computer should reply")
	}
	if _, ok := s.ComputerMove(); !ok {
		t.Fatal("no computer move")
	}
	if s.Position().Ply != 2 || s.ComputerToMove() {
		t.Fatalf("ply = %d", s.Position().Ply)
	}

	if err := s.UndoTurn(); err != nil {
		t.Fatal(err)
	}
	if s.Position().Ply != 0 || s.Position().Turn != board.White {
		t.Errorf("after UndoTurn ply = %d", s.Position().Ply)
	}
	if err := s.RedoTurn(); err != nil {
		t.Fatal(err)
	}
	if s.Position().Ply != 2 {
		t.Errorf("after RedoTurn ply = %d", s.Position().Ply)
	}
	if err := s.Redo(); !errors.Is(err, board.ErrNothingToRedo) {
		t.Errorf("Redo on empty log = %v", err)
	}
}

func TestComputerPlaysBlackFirst(t *testing.T) {
	s := newSession(t, Options{Opponent: storage.OpponentComputer, Human: board.Black})
	if !s.ComputerToMove() {
		t.Fatal("computer should open as White")
	}
	m, ok := s.ComputerMove()
	if !ok || m.Color() != board.White {
		t.Errorf("computer move = %s", m.String())
	}
}

func TestEndgameSetupGivesHumanThePieces(t *testing.T) {
	s := newSession(t, Options{Setup: board.TwoQueens, Human: board.Black, Opponent: storage.OpponentComputer})
	a8, _ := board.ParseCoord("a8")
	pc := s.Position().Board.PieceAt(a8)
	if pc == nil || pc.Kind != board.Queen || pc.Color != board.Black {
		t.Fatalf("a8 = %v", pc)
	}
}

func TestSaveAndReplay(t *testing.T) {
	st, err := storage.Open(storage.Options{InMemory: true, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	s := newSession(t, Options{Opponent: storage.OpponentFriend})
	playAll(t, s, "e2e4", "d7d5", "exd5", "Qxd5", "Nc3")
	rec, err := s.Save(st)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Result != storage.ResultOngoing || len(rec.Moves) != 5 {
		t.Fatalf("record = %+v", rec)
	}

	playAll(t, s, "Qa5")
	again, err := s.Save(st)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != rec.ID {
		t.Errorf("id changed across saves: %s != %s", again.ID, rec.ID)
	}

	loaded, err := st.LoadGame(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Replay(loaded, Options{Depth: 1, Seed: 1, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(r.Position().History(), s.Position().History()) {
		t.Errorf("history = %v, want %v", r.Position().History(), s.Position().History())
	}
	if r.Position().String() != s.Position().String() {
		t.Error("replayed board differs")
	}
}

func TestReplayRejectsBadRecord(t *testing.T) {
	rec := &storage.GameRecord{Setup: "standard", Moves: []string{"e2e4", "e2e4"}}
	if _, err := Replay(rec, Options{Logger: zerolog.Nop()}); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("err = %v", err)
	}
	rec.Setup = "chess960"
	if _, err := Replay(rec, Options{Logger: zerolog.Nop()}); err == nil {
		t.Error("unknown setup accepted")
	}
}

func TestHumanColor(t *testing.T) {
	if HumanColor("black") != board.Black || HumanColor("White") != board.White || HumanColor("") != board.White {
		t.Error("HumanColor mapping wrong")
	}
	c := HumanColor("random")
	if c != board.White && c != board.Black {
		t.Errorf("random = %v", c)
	}
}
