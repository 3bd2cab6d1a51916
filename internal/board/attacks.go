package board

// adjacentRange is the only distance at which a King or a Pawn gives check.
const adjacentRange = 1

// PinsAndChecks scans the eight rays and the knight offsets around kingAt
// for the side color. The square ignore is treated as empty, which lets a
// King probe a destination without shielding itself; pass NoCoord otherwise.
func (p *Position) PinsAndChecks(kingAt Coord, color Color, ignore Coord) (pins []Pin, checks []Check) {
	b := p.Board
	for _, d := range royals {
		var candidate *Pin
		c := kingAt.Add(d)
		for dist := 1; b.InBounds(c); dist, c = dist+1, c.Add(d) {
			if c == ignore {
				continue
			}
			pc := b.PieceAt(c)
			if pc == nil {
				continue
			}
			if pc.Color == color {
				if candidate != nil {
					break
				}
				candidate = &Pin{At: c, Dir: d}
				continue
			}
			if attacksAlong(pc, d, dist) {
				if candidate != nil {
					pins = append(pins, *candidate)
				} else {
					checks = append(checks, Check{At: c, Dir: d})
				}
			}
			break
		}
	}

	for _, j := range jumps {
		c := kingAt.Add(j)
		if c == ignore {
			continue
		}
		if pc := b.PieceAt(c); pc != nil && pc.Color != color && pc.Kind == Knight {
			checks = append(checks, Check{At: c})
		}
	}
	return pins, checks
}

// attacksAlong reports whether enemy piece pc, found dist steps from the
// King along d, strikes back down that ray.
func attacksAlong(pc *Piece, d Direction, dist int) bool {
	switch pc.Kind {
	case Queen:
		return true
	case Rook:
		return d.Orthogonal()
	case Bishop:
		return d.Diagonal()
	case King:
		return dist == adjacentRange
	case Pawn:
		return dist == adjacentRange && d.Diagonal() && d.Rank == -pc.Color.Forward()
	}
	return false
}

// blockingSet returns the squares a non-King move may land on to resolve
// a single check: the checker's square plus, for sliders, every square
// between it and the King.
func blockingSet(kingAt Coord, chk Check) map[Coord]bool {
	set := map[Coord]bool{chk.At: true}
	if chk.Dir.Zero() {
		return set
	}
	for c := kingAt.Add(chk.Dir); c != chk.At; c = c.Add(chk.Dir) {
		set[c] = true
	}
	return set
}

// kingSafe reports whether the King on from could stand on to.
func (p *Position) kingSafe(color Color, from, to Coord) bool {
	_, checks := p.PinsAndChecks(to, color, from)
	return len(checks) == 0
}

// Attacked reports whether the side color would be in check with its
// King on c.
func (p *Position) Attacked(c Coord, color Color) bool {
	_, checks := p.PinsAndChecks(c, color, NoCoord)
	return len(checks) > 0
}
