package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel dimensions
const (
	PanelPadding  = 20
	ButtonHeight  = 36
	TabHeight     = 28
	SectionLabelH = 18
	RowSpacing    = 8
	StatusHeight  = 60
	historyRowH   = 22
)

// Panel colors
var (
	panelBg        = color.RGBA{38, 40, 45, 255}
	tabActiveBg    = color.RGBA{76, 132, 96, 255}
	tabInactiveBg  = color.RGBA{50, 54, 60, 255}
	tabHoverBg     = color.RGBA{65, 70, 78, 255}
	buttonBg       = color.RGBA{50, 54, 60, 255}
	buttonHoverBg  = color.RGBA{65, 70, 78, 255}
	buttonBorder   = color.RGBA{70, 75, 82, 255}
	accentColor    = color.RGBA{76, 175, 120, 255}
	accentHover    = color.RGBA{96, 195, 140, 255}
	accentPressed  = color.RGBA{56, 155, 100, 255}
	textPrimary    = color.RGBA{240, 240, 245, 255}
	textSecondary  = color.RGBA{160, 165, 175, 255}
	textMuted      = color.RGBA{120, 125, 135, 255}
	dividerColor   = color.RGBA{60, 65, 72, 255}
	moveRowAlt     = color.RGBA{44, 48, 54, 255}
	statusThinking = color.RGBA{100, 180, 255, 255}
	statusGameOver = color.RGBA{255, 200, 80, 255}
)

// Button is a clickable rectangle in logical pixels.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	pressed    bool
}

func (b *Button) contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// tabRow is a labelled group of mutually exclusive choices.
type tabRow struct {
	label    string
	tabs     []*Button
	selected func() int
}

func newTabRow(label string, x, y, w int, options []string, selected func() int, choose func(int)) *tabRow {
	row := &tabRow{label: label, selected: selected}
	tabW := w / len(options)
	for i, opt := range options {
		row.tabs = append(row.tabs, &Button{
			X: x + i*tabW, Y: y + SectionLabelH, W: tabW, H: TabHeight,
			Label:   opt,
			OnClick: func() { choose(i) },
		})
	}
	return row
}

// Panel is the side panel with game controls, settings and move history.
type Panel struct {
	game *Game

	buttons []*Button
	rows    []*tabRow

	historyY   int
	scrollY    int
	maxScrollY int
}

// NewPanel lays out the panel for g.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}

	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2
	y := PanelPadding

	p.buttons = []*Button{{X: x, Y: y, W: w, H: ButtonHeight, Label: "New Game", OnClick: g.NewGameAction}}
	y += ButtonHeight + RowSpacing
	p.buttons = append(p.buttons,
		&Button{X: x, Y: y, W: w / 2, H: TabHeight, Label: "Undo", OnClick: g.UndoAction},
		&Button{X: x + w/2, Y: y, W: w / 2, H: TabHeight, Label: "Redo", OnClick: g.RedoAction},
	)
	y += TabHeight + RowSpacing

	add := func(label string, options []string, selected func() int, choose func(int)) {
		p.rows = append(p.rows, newTabRow(label, x, y, w, options, selected, choose))
		y += SectionLabelH + TabHeight + RowSpacing
	}
	add("Opponent", []string{"Friend", "Computer"}, g.opponentIndex, g.setOpponent)
	add("Play as", []string{"White", "Black", "Random"}, g.colorIndex, g.setPlayerColor)
	add("Setup", []string{"Standard", "Rooks", "Queen"}, g.setupIndex, g.setSetup)
	add("Difficulty", []string{"Easy", "Medium", "Hard"}, g.difficultyIndex, g.setDifficulty)
	add("Theme", []string{"Blue", "BW", "Yellow"}, g.themeIndex, g.setTheme)

	p.historyY = y + RowSpacing
	return p
}

// HandleInput processes panel clicks and scrolling. It reports whether
// the input was consumed.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()
	clicked := input.IsLeftJustPressed()

	if wheel := input.Wheel(); wheel != 0 && mx >= BoardSize && my >= p.historyY {
		p.scrollY = min(max(p.scrollY-int(wheel*30), 0), p.maxScrollY)
	}

	var hit *Button
	for _, b := range p.allButtons() {
		b.hovered = b.contains(mx, my)
		b.pressed = b.hovered && input.IsLeftPressed()
		if b.hovered && clicked {
			hit = b
		}
	}
	if hit != nil {
		hit.OnClick()
		return true
	}
	return mx >= BoardSize
}

func (p *Panel) allButtons() []*Button {
	all := append([]*Button(nil), p.buttons...)
	for _, r := range p.rows {
		all = append(all, r.tabs...)
	}
	return all
}

// AnyButtonHovered reports whether the cursor is over a control.
func (p *Panel) AnyButtonHovered() bool {
	for _, b := range p.allButtons() {
		if b.hovered {
			return true
		}
	}
	return false
}

// ResetScroll jumps the history back to the top.
func (p *Panel) ResetScroll() {
	p.scrollY = 0
}

func sc(v int) float32 {
	return float32(float64(v) * UIScale)
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, sc(BoardSize), 0, sc(PanelWidth), sc(ScreenHeight), panelBg, false)

	p.drawPrimaryButton(screen, p.buttons[0])
	for _, b := range p.buttons[1:] {
		p.drawSecondaryButton(screen, b)
	}
	for _, r := range p.rows {
		p.drawText(screen, r.label, r.tabs[0].X, r.tabs[0].Y-SectionLabelH, textMuted, labelFontSize)
		sel := r.selected()
		for i, b := range r.tabs {
			p.drawTab(screen, b, i == sel)
		}
	}

	p.drawText(screen, "Moves", BoardSize+PanelPadding, p.historyY, textMuted, labelFontSize)
	p.drawMoveHistory(screen, p.historyY+SectionLabelH+4)
	p.drawStatusBar(screen)
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, b *Button) {
	bg := accentColor
	if b.pressed {
		bg = accentPressed
	} else if b.hovered {
		bg = accentHover
	}
	vector.DrawFilledRect(screen, sc(b.X), sc(b.Y), sc(b.W), sc(b.H), bg, false)
	p.drawTextCentered(screen, b.Label, b.X+b.W/2, b.Y+b.H/2, textPrimary)
}

func (p *Panel) drawSecondaryButton(screen *ebiten.Image, b *Button) {
	bg := buttonBg
	if b.hovered {
		bg = buttonHoverBg
	}
	border := buttonBorder
	if b.hovered {
		border = accentColor
	}
	vector.DrawFilledRect(screen, sc(b.X), sc(b.Y), sc(b.W), sc(b.H), bg, false)
	vector.StrokeRect(screen, sc(b.X), sc(b.Y), sc(b.W), sc(b.H), 1, border, false)
	p.drawTextCentered(screen, b.Label, b.X+b.W/2, b.Y+b.H/2, textSecondary)
}

func (p *Panel) drawTab(screen *ebiten.Image, b *Button, active bool) {
	bg, border, fg := tabInactiveBg, buttonBorder, textSecondary
	switch {
	case active:
		bg, border, fg = tabActiveBg, tabActiveBg, textPrimary
	case b.hovered:
		bg, border = tabHoverBg, accentColor
	}
	vector.DrawFilledRect(screen, sc(b.X), sc(b.Y), sc(b.W), sc(b.H), bg, false)
	vector.StrokeRect(screen, sc(b.X), sc(b.Y), sc(b.W), sc(b.H), 1, border, false)
	p.drawTextCentered(screen, b.Label, b.X+b.W/2, b.Y+b.H/2, fg)
}

// drawMoveHistory lists moves two per row, scrolled by whole pixels.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	x := BoardSize + PanelPadding
	moves := p.game.session.Position().History()
	if len(moves) == 0 {
		p.drawText(screen, "No moves yet", x, startY+5, textMuted, defaultFontSize)
		return
	}

	maxY := ScreenHeight - StatusHeight - RowSpacing
	visible := maxY - startY
	rows := (len(moves) + 1) / 2
	content := rows * historyRowH
	p.maxScrollY = max(content-visible, 0)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	y := startY - p.scrollY%historyRowH
	for row := p.scrollY / historyRowH; row < rows && y <= maxY-historyRowH; row++ {
		if row%2 == 1 && y >= startY {
			vector.DrawFilledRect(screen, sc(x-4), sc(y-2), sc(PanelWidth-PanelPadding*2+8), sc(historyRowH), moveRowAlt, false)
		}
		if y >= startY {
			p.drawText(screen, fmt.Sprintf("%d.", row+1), x, y, textMuted, defaultFontSize)
			p.drawText(screen, moves[row*2], x+36, y, textPrimary, defaultFontSize)
			if row*2+1 < len(moves) {
				p.drawText(screen, moves[row*2+1], x+140, y, textPrimary, defaultFontSize)
			}
		}
		y += historyRowH
	}

	if p.maxScrollY > 0 {
		pct := float32(p.scrollY) / float32(p.maxScrollY)
		h := max(float32(visible)*float32(visible)/float32(content), 20)
		iy := float32(startY) + pct*(float32(visible)-h)
		vector.DrawFilledRect(screen, sc(BoardSize+PanelWidth-8), iy*float32(UIScale), sc(4), h*float32(UIScale), textMuted, false)
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	y := ScreenHeight - StatusHeight
	x := BoardSize + PanelPadding
	vector.DrawFilledRect(screen, sc(x), sc(y-RowSpacing), sc(PanelWidth-PanelPadding*2), 1, dividerColor, false)

	status, clr := p.game.StatusText()
	p.drawText(screen, status, x, y, clr, defaultFontSize)

	if s := p.game.StatsText(); s != "" {
		p.drawText(screen, s, x, y+22, textSecondary, labelFontSize)
	}
}

func (p *Panel) drawText(screen *ebiten.Image, s string, x, y int, c color.Color, size float64) {
	f := face(size, false)
	if f == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(sc(x)), float64(sc(y)))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, f, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, cx, cy int, c color.Color) {
	f := face(defaultFontSize, true)
	if f == nil {
		return
	}
	w, h := measure(s, f)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(sc(cx))-w/2, float64(sc(cy))-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, f, op)
}
