package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the rank step a pawn of this color advances by.
func (c Color) Forward() int {
	if c == Black {
		return -1
	}
	return 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Kind is one of the six chess piece kinds.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind Kind = 6
)

// Direction is a (file, rank) step.
type Direction struct {
	File, Rank int
}

// Zero reports whether d is the null direction.
func (d Direction) Zero() bool {
	return d.File == 0 && d.Rank == 0
}

// Neg returns the opposite direction.
func (d Direction) Neg() Direction {
	return Direction{-d.File, -d.Rank}
}

// Orthogonal reports whether d runs along a file or a rank.
func (d Direction) Orthogonal() bool {
	return (d.File == 0) != (d.Rank == 0)
}

// Diagonal reports whether d runs along a diagonal.
func (d Direction) Diagonal() bool {
	return d.File != 0 && d.Rank != 0 && (d.File == d.Rank || d.File == -d.Rank)
}

var (
	orthogonals = []Direction{{0, 1}, {0, -1}, {-1, 0}, {1, 0}}
	diagonals   = []Direction{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}
	royals      = append(append([]Direction{}, orthogonals...), diagonals...)
	jumps       = []Direction{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

// kindInfo is the fixed per-kind metadata.
type kindInfo struct {
	name    string
	symbol  byte
	value   int
	dirs    []Direction
	slides  bool // unbounded range along dirs
	leaps   bool // ignores intervening squares
	tracked bool // kept in a sub-roster for notation
}

var catalog = [NoKind + 1]kindInfo{
	Pawn:   {name: "Pawn", symbol: 'P', value: 1},
	Knight: {name: "Knight", symbol: 'N', value: 3, dirs: jumps, leaps: true, tracked: true},
	Bishop: {name: "Bishop", symbol: 'B', value: 3, dirs: diagonals, slides: true, tracked: true},
	Rook:   {name: "Rook", symbol: 'R', value: 5, dirs: orthogonals, slides: true, tracked: true},
	Queen:  {name: "Queen", symbol: 'Q', value: 9, dirs: royals, slides: true, tracked: true},
	King:   {name: "King", symbol: 'K', value: 9000, dirs: royals},
	NoKind: {name: "None", symbol: ' '},
}

// String returns the kind name.
func (k Kind) String() string {
	if k > NoKind {
		return catalog[NoKind].name
	}
	return catalog[k].name
}

// Symbol returns the uppercase notation letter.
func (k Kind) Symbol() byte {
	if k > NoKind {
		return ' '
	}
	return catalog[k].symbol
}

// Value returns the material value used by evaluation.
func (k Kind) Value() int {
	if k > NoKind {
		return 0
	}
	return catalog[k].value
}

// Slides reports whether the kind moves an unbounded number of steps.
func (k Kind) Slides() bool {
	return k < NoKind && catalog[k].slides
}

// Directions returns the movement directions of kind k for color c.
// Pawns get the forward push followed by the two forward capture diagonals.
func Directions(k Kind, c Color) []Direction {
	if k == Pawn {
		f := c.Forward()
		return []Direction{{0, f}, {-1, f}, {1, f}}
	}
	if k >= NoKind {
		return nil
	}
	return catalog[k].dirs
}

// KindFromSymbol maps a notation letter (either case) to a kind.
func KindFromSymbol(b byte) Kind {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	for k := Pawn; k < NoKind; k++ {
		if catalog[k].symbol == b {
			return k
		}
	}
	return NoKind
}

// PieceID is a stable handle into the Board's piece arena.
type PieceID int

// NoPiece marks an empty square or absent piece.
const NoPiece PieceID = -1

// Piece is one piece instance. Kind and Color never change; the rest is
// mutated by the Board and Position as play proceeds.
type Piece struct {
	ID    PieceID
	Kind  Kind
	Color Color

	// At is the current square; meaningful only while OnBoard is set.
	At      Coord
	OnBoard bool

	// FirstMove identifies the move that first moved this piece.
	FirstMove MoveID
	Moved     bool

	// Pin is the direction from the King toward this piece while pinned.
	Pin Direction
}

// Name returns a readable description such as "White Queen on d1".
func (p *Piece) Name() string {
	s := p.Color.String() + " " + p.Kind.String()
	if p.OnBoard {
		return s + " on " + p.At.String()
	}
	return s
}

// Symbol returns the piece letter, uppercase for White and lowercase for Black.
func (p *Piece) Symbol() byte {
	s := p.Kind.Symbol()
	if p.Color == Black {
		s += 'a' - 'A'
	}
	return s
}

// Leaps reports whether the kind jumps over intervening squares.
func (k Kind) Leaps() bool {
	return k < NoKind && catalog[k].leaps
}
