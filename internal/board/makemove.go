package board

import (
	"fmt"
	"slices"
)

// FiftyMoveLimit is the half-move count at which the game is drawn.
const FiftyMoveLimit = 100

// MakeNewMove plays a move chosen outside the redo history. Any pending
// undone moves are archived to Branches first.
func (p *Position) MakeNewMove(m Move) {
	if len(p.UndoLog) > 0 {
		p.Branches = append(p.Branches, slices.Clone(p.UndoLog))
		p.UndoLog = nil
	}
	p.MakeMove(m)
}

// MakeMove applies m, which must come from ValidMoves of this position
// (or from its own history). A pawn reaching the last rank without a
// chosen piece becomes a Queen.
func (p *Position) MakeMove(m Move) {
	b := p.Board
	prior := p.Fifty
	if m.kind == Pawn || m.IsCapture() {
		p.Fifty = 0
	} else {
		p.Fifty++
	}

	var added, removed []PieceID
	if m.Captured != NoPiece {
		b.Lift(m.Captured)
		removed = append(removed, m.Captured)
	}
	b.Place(m.Piece, m.To)

	mover := b.Piece(m.Piece)
	if !mover.Moved {
		mover.Moved = true
		mover.FirstMove = m.ID()
	}

	if m.Castle != nil {
		b.Place(m.Castle.Rook, m.Castle.To)
		if rook := b.Piece(m.Castle.Rook); !rook.Moved {
			rook.Moved = true
			rook.FirstMove = m.ID()
		}
	}

	if m.promotes {
		if m.Promotion == NoKind {
			m.Promotion = Queen
		}
		b.Lift(m.Piece)
		id := b.AddPiece(m.Promotion, m.color, m.To)
		promoted := b.Piece(id)
		promoted.Moved = true
		promoted.FirstMove = m.ID()
		removed = append(removed, m.Piece)
		added = append(added, id)
	}

	p.MoveLog = append(p.MoveLog, LogEntry{Move: m, Fifty: prior})
	p.EnPassant = doubleStep(&m)
	p.Turn = p.Turn.Other()
	p.Ply++
	b.RefreshRoster(added, removed)
}

// doubleStep returns the pawn's square after a two-square push, or NoCoord.
func doubleStep(m *Move) Coord {
	if m.kind != Pawn {
		return NoCoord
	}
	if d := m.To.Rank - m.From.Rank; d == 2 || d == -2 {
		return m.To
	}
	return NoCoord
}

// UndoMove takes back the last move and pushes it onto UndoLog.
func (p *Position) UndoMove() error {
	m, err := p.unmake()
	if err != nil {
		return err
	}
	p.UndoLog = append(p.UndoLog, m)
	return nil
}

// UndoMoveDiscard takes back the last move without recording it for redo.
func (p *Position) UndoMoveDiscard() error {
	_, err := p.unmake()
	return err
}

func (p *Position) unmake() (Move, error) {
	n := len(p.MoveLog)
	if n == 0 {
		return Move{}, ErrNothingToUndo
	}
	e := p.MoveLog[n-1]
	p.MoveLog = p.MoveLog[:n-1]
	m := e.Move
	b := p.Board

	var added, removed []PieceID
	if m.promotes {
		promoted := b.Occupant(m.To)
		b.RefreshRoster(nil, []PieceID{promoted})
		b.discard(promoted)
		added = append(added, m.Piece)
	}
	b.Place(m.Piece, m.From)

	if m.Captured != NoPiece {
		at := m.To
		if m.EnPassant != nil {
			at = *m.EnPassant
		}
		b.Place(m.Captured, at)
		added = append(added, m.Captured)
	}

	id := m.ID()
	if m.Castle != nil {
		b.Place(m.Castle.Rook, m.Castle.From)
		if rook := b.Piece(m.Castle.Rook); rook.FirstMove == id {
			rook.Moved = false
			rook.FirstMove = MoveID{}
		}
	}
	if mover := b.Piece(m.Piece); mover.Moved && mover.FirstMove == id {
		mover.Moved = false
		mover.FirstMove = MoveID{}
	}

	p.Fifty = e.Fifty
	p.EnPassant = NoCoord
	if last := p.LastMove(); last != nil {
		p.EnPassant = doubleStep(last)
	}
	p.Checkmate, p.Stalemate, p.GameOver = false, false, false
	p.Turn = p.Turn.Other()
	p.Ply--
	b.RefreshRoster(added, removed)
	return m, nil
}

// RedoMove replays the most recently undone move.
func (p *Position) RedoMove() error {
	n := len(p.UndoLog)
	if n == 0 {
		return ErrNothingToRedo
	}
	m := p.UndoLog[n-1]
	p.UndoLog = p.UndoLog[:n-1]
	p.MakeMove(m)
	return nil
}

// Promote sets the piece a pawn move promotes to. choice is one of
// q, k (Knight), n, r or b.
func (p *Position) Promote(choice byte, m *Move) error {
	if m.kind != Pawn {
		return fmt.Errorf("%s: %w", m.String(), ErrNotPawnMove)
	}
	switch choice | 0x20 {
	case 'q':
		m.Promotion = Queen
	case 'k', 'n':
		m.Promotion = Knight
	case 'r':
		m.Promotion = Rook
	case 'b':
		m.Promotion = Bishop
	default:
		return fmt.Errorf("%q: %w", choice, ErrUnknownPromotion)
	}
	return nil
}

// FindMate sets the terminal flags from the legal moves just generated.
func (p *Position) FindMate(moves []Move) {
	p.Checkmate = len(moves) == 0 && p.InCheck
	p.Stalemate = !p.Checkmate && (len(moves) == 0 || p.Fifty >= FiftyMoveLimit)
	p.GameOver = p.Checkmate || p.Stalemate
}
