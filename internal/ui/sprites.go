// Package ui implements the desktop chess shell using Ebitengine.
package ui

import (
	"embed"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chessgame/internal/board"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// Piece shapes are drawn once per kind; the palette placeholders are
// replaced per color before parsing.
var pieceFiles = map[board.Kind]string{
	board.Pawn:   "assets/pieces/pawn.svg",
	board.Knight: "assets/pieces/knight.svg",
	board.Bishop: "assets/pieces/bishop.svg",
	board.Rook:   "assets/pieces/rook.svg",
	board.Queen:  "assets/pieces/queen.svg",
	board.King:   "assets/pieces/king.svg",
}

var palettes = map[board.Color]*strings.Replacer{
	board.White: strings.NewReplacer("#FILL", "#f8f8f8", "#EDGE", "#1a1a1a", "#DETAIL", "#1a1a1a"),
	board.Black: strings.NewReplacer("#FILL", "#2b2b2b", "#EDGE", "#000000", "#DETAIL", "#e6e6e6"),
}

type spriteKey struct {
	kind  board.Kind
	color board.Color
}

// SpriteManager holds rasterized piece images.
type SpriteManager struct {
	pieces      map[spriteKey]*ebiten.Image
	size        int     // display size in logical pixels
	renderScale float64 // rasterization oversampling
	scale       float64
}

// NewSpriteManager rasterizes every piece at the given display size.
func NewSpriteManager(size int, log zerolog.Logger) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[spriteKey]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
		scale:       1.0,
	}
	sm.loadPieces(log)
	return sm
}

func (sm *SpriteManager) loadPieces(log zerolog.Logger) {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for kind, path := range pieceFiles {
		data, err := pieceAssets.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("asset", path).Msg("read piece asset")
			continue
		}
		for color, palette := range palettes {
			icon, err := oksvg.ReadIconStream(strings.NewReader(palette.Replace(string(data))))
			if err != nil {
				log.Error().Err(err).Str("asset", path).Msg("parse piece asset")
				continue
			}
			icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

			rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
			scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
			icon.Draw(rasterx.NewDasher(renderSize, renderSize, scanner), 1.0)

			sm.pieces[spriteKey{kind, color}] = ebiten.NewImageFromImage(rgba)
		}
	}
}

// SetScale sets the HiDPI factor applied when drawing.
func (sm *SpriteManager) SetScale(scale float64) {
	sm.scale = scale
}

// Draw draws a piece with its top-left corner at (x, y) in device pixels.
func (sm *SpriteManager) Draw(screen *ebiten.Image, kind board.Kind, color board.Color, x, y float64) {
	sprite := sm.pieces[spriteKey{kind, color}]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := sm.scale / sm.renderScale
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the logical size of a piece sprite.
func (sm *SpriteManager) Size() int {
	return sm.size
}
