package board

import "slices"

// Board owns the square and piece arenas. Squares refer to pieces by
// PieceID and pieces refer to squares by Coord; Place, Clear and Lift keep
// the two sides consistent.
type Board struct {
	files, ranks int
	squares      []Square
	pieces       []Piece

	roster  []PieceID
	scanned bool
	sub     [2][NoKind][]PieceID
}

// NewBoard creates an empty board with the given extents.
func NewBoard(files, ranks int) *Board {
	b := &Board{
		files:   files,
		ranks:   ranks,
		squares: make([]Square, files*ranks),
	}
	for r := 0; r < ranks; r++ {
		for f := 0; f < files; f++ {
			b.squares[r*files+f] = Square{Coord: Coord{f, r}, Occupant: NoPiece}
		}
	}
	return b
}

// Files returns the number of files.
func (b *Board) Files() int { return b.files }

// Ranks returns the number of ranks.
func (b *Board) Ranks() int { return b.ranks }

// InBounds reports whether c lies on the board.
func (b *Board) InBounds(c Coord) bool {
	return c.File >= 0 && c.File < b.files && c.Rank >= 0 && c.Rank < b.ranks
}

// Square returns the square at c, or nil when off the board.
func (b *Board) Square(c Coord) *Square {
	if !b.InBounds(c) {
		return nil
	}
	return &b.squares[c.Rank*b.files+c.File]
}

// Occupant returns the piece on c, or NoPiece.
func (b *Board) Occupant(c Coord) PieceID {
	if sq := b.Square(c); sq != nil {
		return sq.Occupant
	}
	return NoPiece
}

// Piece returns the piece with the given handle, or nil for NoPiece.
func (b *Board) Piece(id PieceID) *Piece {
	if id < 0 || int(id) >= len(b.pieces) {
		return nil
	}
	return &b.pieces[id]
}

// PieceAt returns the piece on c, or nil.
func (b *Board) PieceAt(c Coord) *Piece {
	return b.Piece(b.Occupant(c))
}

// AddPiece allocates a new piece in the arena and stands it on c.
// The roster is not refreshed.
func (b *Board) AddPiece(k Kind, color Color, c Coord) PieceID {
	id := PieceID(len(b.pieces))
	b.pieces = append(b.pieces, Piece{ID: id, Kind: k, Color: color})
	b.Place(id, c)
	return id
}

// Place stands piece id on c, setting both references. Whatever stood on c
// must already have been lifted.
func (b *Board) Place(id PieceID, c Coord) {
	p := b.Piece(id)
	if p.OnBoard {
		if sq := b.Square(p.At); sq != nil && sq.Occupant == id {
			sq.Occupant = NoPiece
		}
	}
	b.Square(c).Occupant = id
	p.At = c
	p.OnBoard = true
}

// Clear drops the occupant reference of c without touching the piece.
func (b *Board) Clear(c Coord) {
	if sq := b.Square(c); sq != nil {
		sq.Occupant = NoPiece
	}
}

// Lift takes piece id off the board, clearing both references.
func (b *Board) Lift(id PieceID) {
	p := b.Piece(id)
	if p == nil || !p.OnBoard {
		return
	}
	if sq := b.Square(p.At); sq != nil && sq.Occupant == id {
		sq.Occupant = NoPiece
	}
	p.OnBoard = false
}

// discard releases the most recently allocated piece. Promotions allocate
// and undo releases in stack order, so id is always the arena tail.
func (b *Board) discard(id PieceID) {
	b.Lift(id)
	if int(id) == len(b.pieces)-1 {
		b.pieces = b.pieces[:id]
	}
}

// RefreshRoster brings the live-piece list and the notation sub-rosters
// up to date. The first call scans the whole grid; later calls apply the
// given additions and removals.
func (b *Board) RefreshRoster(added, removed []PieceID) {
	if !b.scanned {
		b.rescan()
		return
	}
	for _, id := range removed {
		b.roster = remove(b.roster, id)
		if p := b.Piece(id); p != nil && catalog[p.Kind].tracked {
			b.sub[p.Color][p.Kind] = remove(b.sub[p.Color][p.Kind], id)
		}
	}
	for _, id := range added {
		p := b.Piece(id)
		if p == nil || !p.OnBoard {
			continue
		}
		b.roster = insert(b.roster, id)
		if catalog[p.Kind].tracked {
			b.sub[p.Color][p.Kind] = insert(b.sub[p.Color][p.Kind], id)
		}
	}
}

func (b *Board) rescan() {
	b.roster = b.roster[:0]
	b.sub = [2][NoKind][]PieceID{}
	for i := range b.squares {
		id := b.squares[i].Occupant
		if id == NoPiece {
			continue
		}
		b.roster = insert(b.roster, id)
		p := &b.pieces[id]
		if catalog[p.Kind].tracked {
			b.sub[p.Color][p.Kind] = insert(b.sub[p.Color][p.Kind], id)
		}
	}
	b.scanned = true
}

func insert(ids []PieceID, id PieceID) []PieceID {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}

func remove(ids []PieceID, id PieceID) []PieceID {
	i, found := slices.BinarySearch(ids, id)
	if !found {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}

// Roster returns the live pieces in handle order. The slice must not be modified.
func (b *Board) Roster() []PieceID {
	if !b.scanned {
		b.rescan()
	}
	return b.roster
}

// SubRoster returns the live Queens, Rooks, Knights or Bishops of one color.
func (b *Board) SubRoster(k Kind, c Color) []PieceID {
	if k >= NoKind || c >= NoColor {
		return nil
	}
	if !b.scanned {
		b.rescan()
	}
	return b.sub[c][k]
}

// King returns the King of color c, or NoPiece.
func (b *Board) King(c Color) PieceID {
	for _, id := range b.Roster() {
		if p := &b.pieces[id]; p.Kind == King && p.Color == c {
			return id
		}
	}
	return NoPiece
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := &Board{
		files:   b.files,
		ranks:   b.ranks,
		squares: slices.Clone(b.squares),
		pieces:  slices.Clone(b.pieces),
		roster:  slices.Clone(b.roster),
		scanned: b.scanned,
	}
	for c := range b.sub {
		for k := range b.sub[c] {
			nb.sub[c][k] = slices.Clone(b.sub[c][k])
		}
	}
	return nb
}
