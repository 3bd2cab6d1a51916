package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
	"github.com/hailam/chessgame/internal/config"
	"github.com/hailam/chessgame/internal/engine"
	"github.com/hailam/chessgame/internal/game"
	"github.com/hailam/chessgame/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the global HiDPI scale factor for all UI drawing.
// Set by Game.Layout().
var UIScale float64 = 1.0

var (
	opponentNames = []string{"friend", "computer"}
	colorNames    = []string{"white", "black", "random"}
	setupOrder    = []board.Setup{board.Standard, board.TwoRooks, board.TwoQueens}
)

// aiResult is a computer move tagged with the game generation it was
// searched for.
type aiResult struct {
	gen  int
	move board.Move
	ok   bool
}

// Game implements ebiten.Game.
type Game struct {
	cfg     *config.Config
	store   *storage.Storage
	log     zerolog.Logger
	session *game.Session

	// UI state
	selected  board.Coord
	legal     []board.Move
	dragging  bool
	dragFrom  board.Coord
	promotion *board.Move

	// Components
	sprites  *SpriteManager
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager

	// Background search. gen is bumped whenever the position changes
	// under a running search so its result is dropped.
	thinking bool
	gen      int
	aiMove   chan aiResult
	cancelAI context.CancelFunc

	saved bool
	stats *storage.GameStats

	scale float64
}

// NewGame creates the desktop game from cfg. store may be nil.
func NewGame(cfg *config.Config, store *storage.Storage, log zerolog.Logger) *Game {
	sprites := NewSpriteManager(BoardSize/board.Files, log)
	g := &Game{
		cfg:      cfg,
		store:    store,
		log:      log.With().Str("component", "ui").Logger(),
		selected: board.NoCoord,
		dragFrom: board.NoCoord,
		sprites:  sprites,
		renderer: NewRenderer(BoardSize, ThemeByName(cfg.Theme), sprites),
		input:    NewInputHandler(),
		feedback: NewFeedbackManager(cfg.Sound),
		aiMove:   make(chan aiResult, 1),
		scale:    1.0,
	}
	g.panel = NewPanel(g)
	g.loadStats()
	g.start()
	return g
}

// start begins a game with the current settings.
func (g *Game) start() {
	g.session = game.New(game.Options{
		Setup:    g.cfg.StartSetup(),
		Opponent: g.opponent(),
		Human:    game.HumanColor(g.cfg.PlayerColor),
		Depth:    g.cfg.Depth,
		Seed:     g.cfg.Seed,
		Logger:   g.log,
	})
	g.renderer.SetFlipped(g.session.VsComputer() && g.session.Options().Human == board.Black)
	g.saved = false
	g.clearSelection()
	g.panel.ResetScroll()
}

func (g *Game) opponent() storage.Opponent {
	if g.cfg.VsComputer() {
		return storage.OpponentComputer
	}
	return storage.OpponentFriend
}

// Update handles one frame of input and game logic.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	g.checkAIMove()

	if g.promotion != nil {
		g.handlePromotionInput()
		return nil
	}

	switch g.input.Action() {
	case ActionUndo:
		g.UndoAction()
	case ActionRedo:
		g.RedoAction()
	case ActionNewGame:
		g.NewGameAction()
	}

	if !g.panel.HandleInput(g.input) {
		g.handleBoardInput()
	}

	g.startAIThinking()
	g.updateCursor()
	return nil
}

func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	pos := g.session.Position()
	g.renderer.DrawBoard(screen, g.selected, pos.LastMove())
	if pos.InCheck {
		if k := pos.Board.Piece(pos.Board.King(pos.Turn)); k != nil {
			g.renderer.DrawCheck(screen, k.At)
		}
	}
	g.renderer.DrawLegalMoves(screen, g.legal)

	skip := board.NoCoord
	if g.dragging {
		skip = g.dragFrom
	}
	g.renderer.DrawPieces(screen, pos.Board, skip, g.feedback)
	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, pos.Board.PieceAt(g.dragFrom), mx, my)
	}
	if g.promotion != nil {
		g.renderer.DrawPromotion(screen, g.promotion.To, g.promotion.Color())
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)
}

// Layout returns the screen size in device pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = max(ebiten.Monitor().DeviceScaleFactor(), 1.0)
	UIScale = g.scale
	return int(ScreenWidth * g.scale), int(ScreenHeight * g.scale)
}

// humanToMove reports whether the board accepts clicks.
func (g *Game) humanToMove() bool {
	pos := g.session.Position()
	return !pos.GameOver && !g.thinking && !g.session.ComputerToMove()
}

func (g *Game) handleBoardInput() {
	if !g.humanToMove() {
		return
	}
	mx, my := g.input.MousePosition()
	pos := g.session.Position()

	if g.input.IsLeftJustPressed() {
		at, ok := g.renderer.ScreenToSquare(mx, my)
		if !ok {
			return
		}
		if p := pos.Board.PieceAt(at); p != nil && p.Color == pos.Turn {
			g.selected = at
			g.legal = g.session.MovesFrom(at)
			g.dragging = true
			g.dragFrom = at
			return
		}
		if g.selected != board.NoCoord {
			g.tryMove(g.selected, at)
			return
		}
		g.clearSelection()
		return
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		g.dragging = false
		at, ok := g.renderer.ScreenToSquare(mx, my)
		if ok && at != g.dragFrom {
			g.tryMove(g.dragFrom, at)
		}
	}
}

// tryMove plays from-to if it is legal, asking for a promotion piece first
// when needed.
func (g *Game) tryMove(from, to board.Coord) {
	i := slices.IndexFunc(g.legal, func(m board.Move) bool { return m.From == from && m.To == to })
	if i < 0 {
		g.feedback.OnInvalidMove(from, to, g.invalidReason(from, to))
		g.clearSelection()
		return
	}
	m := g.legal[i]
	g.clearSelection()
	if m.IsPromotion() && m.Promotion == board.NoKind {
		g.promotion = &m
		return
	}
	g.play(m)
}

func (g *Game) invalidReason(from, to board.Coord) string {
	pos := g.session.Position()
	p := pos.Board.PieceAt(from)
	switch {
	case p == nil:
		return "No piece there"
	case pos.InCheck:
		return "You must get out of check"
	case pos.Board.PieceAt(to) != nil && pos.Board.PieceAt(to).Color == p.Color:
		return "Square occupied by your own piece"
	}
	return fmt.Sprintf("%s cannot move to %s", p.Kind, to)
}

func (g *Game) handlePromotionInput() {
	if g.input.Cancelled() {
		g.promotion = nil
		return
	}
	choice, ok := g.input.PromotionKey()
	if !ok && g.input.IsLeftJustPressed() {
		mx, my := g.input.MousePosition()
		var k board.Kind
		if k, ok = g.renderer.promotionChoiceAt(g.promotion.To, mx, my); ok {
			choice = k.Symbol()
		}
	}
	if !ok {
		return
	}
	m := *g.promotion
	if err := g.session.Promote(&m, choice); err != nil {
		g.log.Warn().Err(err).Msg("promotion")
		return
	}
	g.promotion = nil
	g.play(m)
}

func (g *Game) play(m board.Move) {
	if err := g.session.Play(m); err != nil {
		g.feedback.OnInvalidMove(m.From, m.To, "Illegal move")
		return
	}
	g.afterMove()
}

// afterMove reports the move just made and handles the end of the game.
func (g *Game) afterMove() {
	pos := g.session.Position()
	g.feedback.OnMove(pos.LastMove(), pos.InCheck && !pos.Checkmate)
	if !pos.GameOver {
		return
	}
	result, reason := g.session.Result()
	decisive := result == storage.ResultWhite || result == storage.ResultBlack
	msg := "Draw by " + reason
	switch result {
	case storage.ResultWhite:
		msg = "White wins by checkmate!"
	case storage.ResultBlack:
		msg = "Black wins by checkmate!"
	}
	g.feedback.OnGameEnd(msg, decisive)
	g.saveFinished()
}

// saveFinished stores a finished game once.
func (g *Game) saveFinished() {
	if g.store == nil || g.saved {
		return
	}
	if _, err := g.session.Save(g.store); err != nil {
		g.log.Error().Err(err).Msg("save finished game")
		return
	}
	g.saved = true
	g.loadStats()
}

func (g *Game) loadStats() {
	if g.store == nil {
		return
	}
	stats, err := g.store.LoadStats()
	if err != nil {
		g.log.Warn().Err(err).Msg("load stats")
		return
	}
	g.stats = stats
}

// startAIThinking searches a snapshot of the position in the background
// when it is the computer's turn.
func (g *Game) startAIThinking() {
	if g.thinking || !g.session.ComputerToMove() {
		return
	}
	g.thinking = true
	gen := g.gen
	eng := g.session.Engine()
	eng.SetDepth(g.cfg.Depth)
	pos := g.session.Position().Clone()
	ctx, cancel := context.WithCancel(context.Background())
	g.cancelAI = cancel

	go func() {
		defer cancel()
		m, ok := eng.ChooseMoveContext(ctx, pos)
		g.aiMove <- aiResult{gen: gen, move: m, ok: ok}
	}()
}

func (g *Game) checkAIMove() {
	if !g.thinking {
		return
	}
	select {
	case r := <-g.aiMove:
		g.thinking = false
		if r.gen != g.gen || !r.ok {
			return
		}
		g.play(r.move)
	default:
	}
}

// interrupt drops any search in flight.
func (g *Game) interrupt() {
	g.gen++
	if g.cancelAI != nil {
		g.cancelAI()
		g.cancelAI = nil
	}
}

func (g *Game) clearSelection() {
	g.selected = board.NoCoord
	g.legal = nil
	g.dragging = false
	g.dragFrom = board.NoCoord
}

// NewGameAction saves an unfinished game and starts a new one.
func (g *Game) NewGameAction() {
	g.interrupt()
	g.promotion = nil
	if g.store != nil && len(g.session.Position().MoveLog) > 0 && !g.saved {
		if _, err := g.session.Save(g.store); err != nil {
			g.log.Error().Err(err).Msg("save game")
		}
	}
	g.start()
}

// UndoAction takes back the last turn.
func (g *Game) UndoAction() {
	g.interrupt()
	g.promotion = nil
	g.clearSelection()
	if err := g.session.UndoTurn(); err != nil && !errors.Is(err, board.ErrNothingToUndo) {
		g.log.Warn().Err(err).Msg("undo")
	}
	g.saved = false
}

// RedoAction replays the last undone turn.
func (g *Game) RedoAction() {
	g.interrupt()
	g.promotion = nil
	g.clearSelection()
	if err := g.session.RedoTurn(); err != nil && !errors.Is(err, board.ErrNothingToRedo) {
		g.log.Warn().Err(err).Msg("redo")
	}
}

// StatusText describes the game state for the status bar.
func (g *Game) StatusText() (string, color.RGBA) {
	pos := g.session.Position()
	if pos.GameOver {
		result, reason := g.session.Result()
		return fmt.Sprintf("%s (%s)", result, reason), statusGameOver
	}
	if g.thinking {
		return "Computer thinking...", statusThinking
	}
	s := pos.Turn.String() + " to move"
	if pos.InCheck {
		s += ", check"
	}
	return s, textPrimary
}

// StatsText summarizes stored results against the computer.
func (g *Game) StatsText() string {
	if g.stats == nil || g.stats.GamesPlayed == 0 {
		return ""
	}
	return fmt.Sprintf("Played %d  Won %d  Lost %d  (%.0f%%)",
		g.stats.GamesPlayed, g.stats.Wins, g.stats.Losses, g.stats.GetWinRate())
}

// Settings shown in the panel. Changes are saved as preferences; depth
// and theme apply at once, the rest from the next new game.

func (g *Game) opponentIndex() int { return slices.Index(opponentNames, g.cfg.Opponent) }
func (g *Game) colorIndex() int    { return slices.Index(colorNames, g.cfg.PlayerColor) }
func (g *Game) setupIndex() int    { return slices.Index(setupOrder, g.cfg.StartSetup()) }

func (g *Game) themeIndex() int {
	return slices.IndexFunc(Themes, func(t *Theme) bool { return t.Name == g.cfg.Theme })
}

func (g *Game) difficultyIndex() int {
	for d, depth := range engine.DifficultySettings {
		if depth == g.cfg.Depth {
			return int(d)
		}
	}
	return -1
}

func (g *Game) setOpponent(i int) {
	g.cfg.Opponent = opponentNames[i]
	g.savePreferences()
}

func (g *Game) setPlayerColor(i int) {
	g.cfg.PlayerColor = colorNames[i]
	g.savePreferences()
}

func (g *Game) setSetup(i int) {
	g.cfg.Setup = setupOrder[i].String()
	g.savePreferences()
}

func (g *Game) setDifficulty(i int) {
	g.cfg.Depth = engine.DifficultySettings[engine.Difficulty(i)]
	g.savePreferences()
}

func (g *Game) setTheme(i int) {
	g.cfg.Theme = Themes[i].Name
	g.renderer.SetTheme(Themes[i])
	g.savePreferences()
}

func (g *Game) savePreferences() {
	if g.store == nil {
		return
	}
	if err := g.store.SavePreferences(g.cfg.Preferences()); err != nil {
		g.log.Warn().Err(err).Msg("save preferences")
	}
}

// Close saves an unfinished game and closes storage.
func (g *Game) Close() {
	g.interrupt()
	if g.store == nil {
		return
	}
	if len(g.session.Position().MoveLog) > 0 && !g.saved {
		if _, err := g.session.Save(g.store); err != nil {
			g.log.Error().Err(err).Msg("save game")
		}
	}
	if err := g.store.Close(); err != nil {
		g.log.Error().Err(err).Msg("close storage")
	}
}
