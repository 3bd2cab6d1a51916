package board

// ValidMoves returns the legal moves for the side to move and refreshes
// InCheck, Pins and Checks. Calling it twice without a move in between
// returns the same list.
func (p *Position) ValidMoves() []Move {
	b := p.Board
	p.Pins, p.Checks, p.InCheck = nil, nil, false

	kingID := b.King(p.Turn)
	if kingID == NoPiece {
		return nil
	}
	king := b.Piece(kingID)
	p.Pins, p.Checks = p.PinsAndChecks(king.At, p.Turn, NoCoord)
	p.InCheck = len(p.Checks) > 0
	p.markPins()

	var moves []Move
	switch len(p.Checks) {
	case 0:
		moves = p.allMoves(nil)
	case 1:
		block := blockingSet(king.At, p.Checks[0])
		for _, m := range p.allMoves(nil) {
			// En passant captures were already simulated against checks.
			if m.Piece == kingID || block[m.To] || m.EnPassant != nil {
				moves = append(moves, m)
			}
		}
	default:
		moves = p.kingMoves(king, nil)
	}

	legal := moves[:0]
	for _, m := range moves {
		if m.Piece == kingID && !p.kingSafe(p.Turn, king.At, m.To) {
			continue
		}
		legal = append(legal, m)
	}

	if !p.InCheck && !king.Moved {
		legal = p.castles(king, legal)
	}
	return legal
}

// markPins stores each pin direction on the pinned piece and clears stale
// pins on the rest of the side to move.
func (p *Position) markPins() {
	b := p.Board
	for _, id := range b.Roster() {
		if pc := b.Piece(id); pc.Color == p.Turn {
			pc.Pin = Direction{}
		}
	}
	for _, pin := range p.Pins {
		b.PieceAt(pin.At).Pin = pin.Dir
	}
}

// allMoves generates the moves of every piece of the side to move,
// honouring pins but not checks.
func (p *Position) allMoves(moves []Move) []Move {
	b := p.Board
	for _, id := range b.Roster() {
		pc := b.Piece(id)
		if pc.Color != p.Turn {
			continue
		}
		switch {
		case pc.Kind == Pawn:
			moves = p.pawnMoves(pc, moves)
		case pc.Kind == King:
			moves = p.kingMoves(pc, moves)
		case pc.Kind.Leaps():
			moves = p.knightMoves(pc, moves)
		default:
			moves = p.slidingMoves(pc, moves)
		}
	}
	return moves
}

// alongPin reports whether a piece pinned along pin may step in d.
func alongPin(pin, d Direction) bool {
	return pin.Zero() || d == pin || d == pin.Neg()
}

func (p *Position) slidingMoves(pc *Piece, moves []Move) []Move {
	b := p.Board
	for _, d := range Directions(pc.Kind, pc.Color) {
		if !alongPin(pc.Pin, d) {
			continue
		}
		for c := pc.At.Add(d); b.InBounds(c); c = c.Add(d) {
			occ := b.PieceAt(c)
			if occ != nil && occ.Color == pc.Color {
				break
			}
			moves = append(moves, NewMove(b, pc.At, c, p.Ply))
			if occ != nil {
				break
			}
		}
	}
	return moves
}

func (p *Position) knightMoves(pc *Piece, moves []Move) []Move {
	if !pc.Pin.Zero() {
		return moves
	}
	return p.steps(pc, moves)
}

func (p *Position) kingMoves(pc *Piece, moves []Move) []Move {
	return p.steps(pc, moves)
}

// steps generates single-step moves along each of pc's directions.
func (p *Position) steps(pc *Piece, moves []Move) []Move {
	b := p.Board
	for _, d := range Directions(pc.Kind, pc.Color) {
		c := pc.At.Add(d)
		if !b.InBounds(c) {
			continue
		}
		if occ := b.PieceAt(c); occ != nil && occ.Color == pc.Color {
			continue
		}
		moves = append(moves, NewMove(b, pc.At, c, p.Ply))
	}
	return moves
}

func (p *Position) pawnMoves(pc *Piece, moves []Move) []Move {
	b := p.Board
	fwd := pc.Color.Forward()

	push := Direction{0, fwd}
	if alongPin(pc.Pin, push) {
		one := pc.At.Add(push)
		if b.InBounds(one) && b.Occupant(one) == NoPiece {
			moves = append(moves, NewMove(b, pc.At, one, p.Ply))
			two := one.Add(push)
			if !pc.Moved && b.InBounds(two) && b.Occupant(two) == NoPiece {
				moves = append(moves, NewMove(b, pc.At, two, p.Ply))
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		d := Direction{df, fwd}
		if !alongPin(pc.Pin, d) {
			continue
		}
		to := pc.At.Add(d)
		if !b.InBounds(to) {
			continue
		}
		if occ := b.PieceAt(to); occ != nil {
			if occ.Color != pc.Color {
				moves = append(moves, NewMove(b, pc.At, to, p.Ply))
			}
			continue
		}
		taken := Coord{to.File, pc.At.Rank}
		if taken != p.EnPassant {
			continue
		}
		victim := b.PieceAt(taken)
		if victim == nil || victim.Kind != Pawn || victim.Color == pc.Color {
			continue
		}
		if p.enPassantSafe(pc, to, taken) {
			moves = append(moves, newEnPassant(b, pc.At, to, taken, p.Ply))
		}
	}
	return moves
}

// enPassantSafe plays the capture on the grid alone and reports whether
// the mover's King is then out of check. Both pawns leave their squares at
// once, which the ray scan cannot see from the pre-move board.
func (p *Position) enPassantSafe(pc *Piece, to, taken Coord) bool {
	b := p.Board
	kingID := b.King(pc.Color)
	if kingID == NoPiece {
		return true
	}
	from := pc.At
	victim := b.Occupant(taken)

	b.Clear(from)
	b.Clear(taken)
	b.Square(to).Occupant = pc.ID
	_, checks := p.PinsAndChecks(b.Piece(kingID).At, pc.Color, NoCoord)
	b.Clear(to)
	b.Square(taken).Occupant = victim
	b.Square(from).Occupant = pc.ID

	return len(checks) == 0
}

// castles appends the castling moves available to an unmoved King that is
// not in check. legal must already hold the King's verified step moves.
func (p *Position) castles(king *Piece, legal []Move) []Move {
	b := p.Board
	for _, d := range [2]Direction{{-1, 0}, {1, 0}} {
		step := king.At.Add(d)
		if !hasMoveTo(legal, king.ID, step) {
			continue
		}
		dest := step.Add(d)
		if !b.InBounds(dest) || b.Occupant(dest) != NoPiece {
			continue
		}

		c := step
		for b.InBounds(c.Add(d)) && b.Occupant(c) == NoPiece {
			c = c.Add(d)
		}
		if b.InBounds(c.Add(d)) {
			continue
		}
		rook := b.PieceAt(c)
		if rook == nil || rook.Kind != Rook || rook.Color != king.Color || rook.Moved {
			continue
		}
		if !p.kingSafe(king.Color, king.At, dest) {
			continue
		}
		legal = append(legal, newCastle(b, king.At, dest, p.Ply, rook.ID, step))
	}
	return legal
}

func hasMoveTo(moves []Move, id PieceID, to Coord) bool {
	for i := range moves {
		if moves[i].Piece == id && moves[i].To == to {
			return true
		}
	}
	return false
}
