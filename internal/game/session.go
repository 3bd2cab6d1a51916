// Package game ties a position, the computer opponent and game records
// together for the console and desktop shells.
package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
	"github.com/hailam/chessgame/internal/engine"
	"github.com/hailam/chessgame/internal/storage"
)

// Status is the state of the game after the last move.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMove
)

// String returns a human readable status.
func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMove:
		return "draw by fifty-move rule"
	default:
		return "ongoing"
	}
}

// Options configures a new Session.
type Options struct {
	Setup    board.Setup
	Opponent storage.Opponent

	// Human is the side the local player controls. In the endgame setups
	// it also owns the extra pieces.
	Human board.Color

	Depth  int
	Seed   uint64
	Logger zerolog.Logger
}

// HumanColor resolves a color preference; "random" picks a side.
func HumanColor(pref string) board.Color {
	switch strings.ToLower(pref) {
	case "black":
		return board.Black
	case "random":
		if rand.IntN(2) == 1 {
			return board.Black
		}
	}
	return board.White
}

// Session is one game in progress. It is owned by a single goroutine;
// background searches work on Position().Clone().
type Session struct {
	opts    Options
	pos     *board.Position
	eng     *engine.Engine
	legal   []board.Move
	id      string
	started time.Time
	log     zerolog.Logger
}

// New starts a game from the options.
func New(o Options) *Session {
	eng := engine.NewEngine(o.Depth, o.Seed)
	eng.SetLogger(o.Logger)
	s := &Session{
		opts:    o,
		pos:     board.NewPosition(o.Setup, o.Human),
		eng:     eng,
		started: time.Now(),
		log:     o.Logger.With().Str("component", "game").Logger(),
	}
	s.refresh()
	s.log.Info().
		Str("setup", o.Setup.String()).
		Str("opponent", o.Opponent.String()).
		Str("human", o.Human.String()).
		Int("depth", eng.Depth()).
		Msg("new game")
	return s
}

// refresh regenerates the legal moves and the terminal flags.
func (s *Session) refresh() {
	s.legal = s.pos.ValidMoves()
	s.pos.FindMate(s.legal)
}

// Position returns the live position. Callers must not mutate it.
func (s *Session) Position() *board.Position { return s.pos }

// Engine returns the computer opponent.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Options returns the options the game was started with.
func (s *Session) Options() Options { return s.opts }

// Legal returns the legal moves of the side to move.
func (s *Session) Legal() []board.Move { return s.legal }

// MovesFrom returns the legal moves of the piece on c.
func (s *Session) MovesFrom(c board.Coord) []board.Move {
	var out []board.Move
	for _, m := range s.legal {
		if m.From == c {
			out = append(out, m)
		}
	}
	return out
}

// VsComputer reports whether the computer plays the other side.
func (s *Session) VsComputer() bool {
	return s.opts.Opponent == storage.OpponentComputer
}

// ComputerToMove reports whether the computer should move now.
func (s *Session) ComputerToMove() bool {
	return s.VsComputer() && !s.pos.GameOver && s.pos.Turn != s.opts.Human
}

// Play applies m after checking it against the current legal moves.
func (s *Session) Play(m board.Move) error {
	if s.pos.GameOver {
		return fmt.Errorf("%s: game is over: %w", m.String(), board.ErrIllegalMove)
	}
	found := false
	for i := range s.legal {
		if s.legal[i].Equal(&m) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%s: %w", m.Coords(), board.ErrIllegalMove)
	}

	s.pos.MakeNewMove(m)
	s.refresh()
	s.log.Debug().
		Int("ply", s.pos.Ply).
		Str("move", s.pos.LastMove().String()).
		Bool("check", s.pos.InCheck).
		Str("status", s.Status().String()).
		Msg("move played")
	return nil
}

// PlayText parses a move in coordinate or algebraic form and plays it.
func (s *Session) PlayText(text string) (board.Move, error) {
	m, err := s.pos.FindMove(s.legal, text)
	if err != nil {
		return board.Move{}, err
	}
	if err := s.Play(m); err != nil {
		return board.Move{}, err
	}
	return *s.pos.LastMove(), nil
}

// Find returns the legal move matching text without playing it.
func (s *Session) Find(text string) (board.Move, error) {
	return s.pos.FindMove(s.legal, text)
}

// Promote sets the promotion piece of a pending pawn move.
func (s *Session) Promote(m *board.Move, choice byte) error {
	return s.pos.Promote(choice, m)
}

// ComputerMove lets the engine pick and play a move for the side to move.
func (s *Session) ComputerMove() (board.Move, bool) {
	m, ok := s.eng.ChooseMove(s.pos)
	if !ok {
		return board.Move{}, false
	}
	if err := s.Play(m); err != nil {
		s.log.Error().Err(err).Msg("engine produced an illegal move")
		return board.Move{}, false
	}
	return *s.pos.LastMove(), true
}

// Undo takes back one ply.
func (s *Session) Undo() error {
	if err := s.pos.UndoMove(); err != nil {
		return err
	}
	s.refresh()
	return nil
}

// Redo replays one undone ply.
func (s *Session) Redo() error {
	if err := s.pos.RedoMove(); err != nil {
		return err
	}
	s.refresh()
	return nil
}

// UndoTurn takes back plies until the human is to move again, so a
// computer reply is undone together with the move that provoked it.
func (s *Session) UndoTurn() error {
	if err := s.Undo(); err != nil {
		return err
	}
	if s.VsComputer() && s.pos.Turn != s.opts.Human && len(s.pos.MoveLog) > 0 {
		return s.Undo()
	}
	return nil
}

// RedoTurn is the inverse of UndoTurn.
func (s *Session) RedoTurn() error {
	if err := s.Redo(); err != nil {
		return err
	}
	if s.VsComputer() && s.pos.Turn != s.opts.Human && len(s.pos.UndoLog) > 0 {
		return s.Redo()
	}
	return nil
}

// Status classifies the current position.
func (s *Session) Status() Status {
	switch {
	case s.pos.Checkmate:
		return Checkmate
	case s.pos.Stalemate && len(s.legal) > 0:
		return FiftyMove
	case s.pos.Stalemate:
		return Stalemate
	}
	return Ongoing
}

// Result returns the score and the termination reason.
func (s *Session) Result() (result, termination string) {
	switch st := s.Status(); st {
	case Checkmate:
		if s.pos.Turn == board.White {
			return storage.ResultBlack, st.String()
		}
		return storage.ResultWhite, st.String()
	case Stalemate, FiftyMove:
		return storage.ResultDraw, st.String()
	}
	return storage.ResultOngoing, ""
}

// Record returns the game as a storage record.
func (s *Session) Record() *storage.GameRecord {
	rec := &storage.GameRecord{
		ID:         s.id,
		Setup:      s.opts.Setup.String(),
		Opponent:   s.opts.Opponent,
		HumanColor: strings.ToLower(s.opts.Human.String()),
		Started:    s.started,
	}
	for _, e := range s.pos.MoveLog {
		rec.Moves = append(rec.Moves, e.Move.Coords())
	}
	rec.Notation = s.pos.History()
	rec.Result, rec.Termination = s.Result()
	if rec.Result != storage.ResultOngoing {
		rec.Finished = time.Now()
	}
	return rec
}

// Save stores the game, keeping the same id across saves.
func (s *Session) Save(st *storage.Storage) (*storage.GameRecord, error) {
	rec := s.Record()
	if err := st.SaveGame(rec); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	s.id = rec.ID
	s.log.Info().Str("id", rec.ID).Str("result", rec.Result).Int("plies", len(rec.Moves)).Msg("game saved")
	return rec, nil
}

// Replay rebuilds a session from a stored record. Setup, opponent and
// human color come from the record; the rest from o.
func Replay(rec *storage.GameRecord, o Options) (*Session, error) {
	setup, err := board.ParseSetup(rec.Setup)
	if err != nil {
		return nil, err
	}
	o.Setup = setup
	o.Opponent = rec.Opponent
	o.Human = HumanColor(rec.HumanColor)

	s := New(o)
	s.id = rec.ID
	if !rec.Started.IsZero() {
		s.started = rec.Started
	}
	for i, text := range rec.Moves {
		if _, err := s.PlayText(text); err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
	}
	return s, nil
}
