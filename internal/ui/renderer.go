package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessgame/internal/board"
)

// promotionChoices is the order of the promotion picker.
var promotionChoices = []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight}

// Renderer draws the board. Positions are in logical pixels and scaled to
// device pixels on draw.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	boardSize  int
	squareSize int
	flipped    bool
	scale      float64
}

// NewRenderer creates a renderer for a square board of boardSize pixels.
func NewRenderer(boardSize int, theme *Theme, sprites *SpriteManager) *Renderer {
	return &Renderer{
		sprites:    sprites,
		theme:      theme,
		boardSize:  boardSize,
		squareSize: boardSize / board.Files,
		scale:      1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
	r.sprites.SetScale(scale)
}

func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// SetTheme switches the board colors.
func (r *Renderer) SetTheme(t *Theme) { r.theme = t }

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme { return r.theme }

// SetFlipped draws the board from Black's side when set.
func (r *Renderer) SetFlipped(flipped bool) { r.flipped = flipped }

// DrawBoard draws the squares, tinting the selected square and the two
// squares of the last move.
func (r *Renderer) DrawBoard(screen *ebiten.Image, selected board.Coord, last *board.Move) {
	for rank := range board.Ranks {
		for file := range board.Files {
			c := board.Coord{File: file, Rank: rank}
			isLast := last != nil && (last.From == c || last.To == c)
			r.fillSquare(screen, c, r.theme.squareColor(c, c == selected, isLast))
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels files along the bottom edge and ranks along the left.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	f := face(labelFontSize, true)
	if f == nil {
		return
	}
	pad := 3 * r.scale
	for i := range board.Files {
		bottom := board.Coord{File: i, Rank: 0}
		left := board.Coord{File: 0, Rank: i}
		if r.flipped {
			bottom.Rank = board.Ranks - 1
			left.File = board.Files - 1
		}

		label := string(rune('a' + i))
		x, y := r.SquareToScreen(bottom)
		w, h := measure(label, f)
		r.label(screen, label, f, float64(r.s(x+r.squareSize))-w-pad, float64(r.s(y+r.squareSize))-h-pad, bottom)

		label = string(rune('1' + i))
		x, y = r.SquareToScreen(left)
		r.label(screen, label, f, float64(r.s(x))+pad, float64(r.s(y))+pad, left)
	}
}

// label draws s in the opposite square shade so it stays readable.
func (r *Renderer) label(screen *ebiten.Image, s string, f *text.GoTextFace, x, y float64, on board.Coord) {
	clr := r.theme.Light
	if on.Light() {
		clr = r.theme.Dark
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, f, op)
}

// DrawLegalMoves marks every destination: a dot for quiet moves, a ring
// for captures.
func (r *Renderer) DrawLegalMoves(screen *ebiten.Image, moves []board.Move) {
	for i := range moves {
		m := &moves[i]
		x, y := r.SquareToScreen(m.To)
		cx := r.s(x) + r.s(r.squareSize)/2
		cy := r.s(y) + r.s(r.squareSize)/2
		if m.IsCapture() {
			vector.StrokeCircle(screen, cx, cy, r.s(r.squareSize)*0.45, r.s(4), r.theme.LegalMove, true)
			continue
		}
		vector.DrawFilledCircle(screen, cx, cy, r.s(r.squareSize)*0.15, r.theme.LegalMove, true)
	}
}

// DrawCheck highlights the square of a checked King.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingAt board.Coord) {
	if kingAt != board.NoCoord {
		r.fillSquare(screen, kingAt, r.theme.Check)
	}
}

func (r *Renderer) fillSquare(screen *ebiten.Image, c board.Coord, clr color.RGBA) {
	x, y := r.SquareToScreen(c)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), clr, false)
}

// DrawPieces draws every piece except the one on skip, applying shake
// offsets from fm when it is non-nil.
func (r *Renderer) DrawPieces(screen *ebiten.Image, b *board.Board, skip board.Coord, fm *FeedbackManager) {
	for _, id := range b.Roster() {
		p := b.Piece(id)
		if p.At == skip {
			continue
		}
		x, y := r.SquareToScreen(p.At)
		dx := 0.0
		if fm != nil {
			dx = fm.ShakeOffset(p.At)
		}
		r.sprites.Draw(screen, p.Kind, p.Color, float64(r.s(x))+dx*r.scale, float64(r.s(y)))
	}
}

// DrawDraggedPiece draws a piece centered on the cursor.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, p *board.Piece, mouseX, mouseY int) {
	if p == nil {
		return
	}
	half := r.s(r.squareSize) / 2
	r.sprites.Draw(screen, p.Kind, p.Color, float64(r.s(mouseX)-half), float64(r.s(mouseY)-half))
}

// DrawPromotion dims the board and shows the four choices for color
// stacked from the promotion square toward the center.
func (r *Renderer) DrawPromotion(screen *ebiten.Image, at board.Coord, clr board.Color) {
	vector.DrawFilledRect(screen, 0, 0, r.s(r.boardSize), r.s(r.boardSize), color.RGBA{0, 0, 0, 120}, false)
	for i, k := range promotionChoices {
		x, y := r.promotionCell(at, i)
		vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), r.theme.Light, false)
		vector.StrokeRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), r.s(1), r.theme.Dark, false)
		r.sprites.Draw(screen, k, clr, float64(r.s(x)), float64(r.s(y)))
	}
}

// promotionChoiceAt returns the choice under (x, y), if any.
func (r *Renderer) promotionChoiceAt(at board.Coord, x, y int) (board.Kind, bool) {
	for i, k := range promotionChoices {
		cx, cy := r.promotionCell(at, i)
		if x >= cx && x < cx+r.squareSize && y >= cy && y < cy+r.squareSize {
			return k, true
		}
	}
	return board.NoKind, false
}

func (r *Renderer) promotionCell(at board.Coord, i int) (int, int) {
	x, y := r.SquareToScreen(at)
	if y == 0 {
		return x, i * r.squareSize
	}
	return x, y - i*r.squareSize
}

// SquareToScreen returns the top-left corner of c in logical pixels.
func (r *Renderer) SquareToScreen(c board.Coord) (int, int) {
	file, rank := c.File, board.Ranks-1-c.Rank
	if r.flipped {
		file, rank = board.Files-1-c.File, c.Rank
	}
	return file * r.squareSize, rank * r.squareSize
}

// ScreenToSquare returns the square under (x, y) in logical pixels.
func (r *Renderer) ScreenToSquare(x, y int) (board.Coord, bool) {
	if x < 0 || x >= r.boardSize || y < 0 || y >= r.boardSize {
		return board.NoCoord, false
	}
	file, rank := x/r.squareSize, board.Ranks-1-y/r.squareSize
	if r.flipped {
		file, rank = board.Files-1-x/r.squareSize, y/r.squareSize
	}
	return board.Coord{File: file, Rank: rank}, true
}
