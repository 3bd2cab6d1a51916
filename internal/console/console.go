// Package console implements a line-oriented text shell for playing games.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
	"github.com/hailam/chessgame/internal/engine"
	"github.com/hailam/chessgame/internal/game"
	"github.com/hailam/chessgame/internal/storage"
)

const help = `commands:
  new [standard|rooks|queen]  start a new game
  show                        print the board
  moves                       list legal moves
  move <move>                 play a move (e2e4, e7e8q, Nf3, O-O); "move" may be omitted
  promote <q|r|b|n>           choose the piece for a pending promotion
  undo, redo                  take back or replay a move
  go                          let the computer move
  depth <n>                   set the search depth
  history                     list the moves played
  save                        save the game
  games                       list saved games
  load <id>                   resume a saved game
  perft <1-6>                 count move paths to depth n
  quit                        leave`

// Console reads commands from in and writes responses to out.
type Console struct {
	in    io.Reader
	out   io.Writer
	opts  game.Options
	store *storage.Storage
	log   zerolog.Logger

	session *game.Session
	pending *board.Move
	saved   bool
}

// New creates a console. store may be nil, in which case saving and
// loading are unavailable.
func New(in io.Reader, out io.Writer, opts game.Options, store *storage.Storage, log zerolog.Logger) *Console {
	opts.Logger = log
	return &Console{
		in:    in,
		out:   out,
		opts:  opts,
		store: store,
		log:   log.With().Str("component", "console").Logger(),
	}
}

// Session returns the game in progress.
func (c *Console) Session() *game.Session {
	return c.session
}

// Run processes commands until quit or end of input.
func (c *Console) Run() error {
	c.newGame(c.opts.Setup)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "new":
			c.handleNew(args)
		case "show", "d":
			fmt.Fprintln(c.out, c.session.Position().String())
		case "moves":
			c.handleMoves()
		case "move":
			if len(args) == 0 {
				fmt.Fprintln(c.out, "usage: move <move>")
				continue
			}
			c.handleMove(strings.Join(args, " "))
		case "promote":
			c.handlePromote(args)
		case "undo":
			c.handleUndo()
		case "redo":
			c.handleRedo()
		case "go":
			c.computerMove()
		case "depth":
			c.handleDepth(args)
		case "history":
			c.handleHistory()
		case "save":
			c.handleSave()
		case "games":
			c.handleGames()
		case "load":
			c.handleLoad(args)
		case "perft":
			c.handlePerft(args)
		case "help", "?":
			fmt.Fprintln(c.out, help)
		case "quit", "exit":
			c.autoSave()
			return nil
		default:
			c.handleMove(line)
		}
	}
	c.autoSave()
	return scanner.Err()
}

func (c *Console) newGame(setup board.Setup) {
	c.opts.Setup = setup
	c.session = game.New(c.opts)
	c.pending = nil
	c.saved = false
	fmt.Fprintf(c.out, "new game: %s, you play %s\n", setup, c.opts.Human)
	if c.session.ComputerToMove() {
		c.computerMove()
	}
}

func (c *Console) handleNew(args []string) {
	setup := c.opts.Setup
	if len(args) > 0 {
		s, err := board.ParseSetup(args[0])
		if err != nil {
			fmt.Fprintln(c.out, err)
			return
		}
		setup = s
	}
	c.autoSave()
	c.newGame(setup)
}

func (c *Console) handleMoves() {
	legal := c.session.Legal()
	names := make([]string, len(legal))
	for i := range legal {
		names[i] = legal[i].String()
	}
	fmt.Fprintf(c.out, "%d moves: %s\n", len(names), strings.Join(names, " "))
}

func (c *Console) handleMove(text string) {
	c.pending = nil
	if c.session.ComputerToMove() {
		fmt.Fprintln(c.out, "it is the computer's turn; type go")
		return
	}
	m, err := c.session.Find(text)
	if err != nil {
		fmt.Fprintf(c.out, "illegal move: %s\n", text)
		return
	}
	if m.IsPromotion() && m.Promotion == board.NoKind {
		c.pending = &m
		fmt.Fprintln(c.out, "promote to? (q, r, b, n)")
		return
	}
	c.play(m)
}

func (c *Console) handlePromote(args []string) {
	if c.pending == nil {
		fmt.Fprintln(c.out, "no promotion pending")
		return
	}
	if len(args) == 0 || args[0] == "" {
		fmt.Fprintln(c.out, "usage: promote <q|r|b|n>")
		return
	}
	m := *c.pending
	if err := c.session.Promote(&m, args[0][0]); err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.pending = nil
	c.play(m)
}

func (c *Console) play(m board.Move) {
	if err := c.session.Play(m); err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.report("")
	if c.session.ComputerToMove() {
		c.computerMove()
	}
}

func (c *Console) computerMove() {
	if c.session.Position().GameOver {
		c.report("")
		return
	}
	if _, ok := c.session.ComputerMove(); !ok {
		fmt.Fprintln(c.out, "no move available")
		return
	}
	c.report("computer ")
}

// report prints the last move and any check or game end.
func (c *Console) report(who string) {
	pos := c.session.Position()
	if last := pos.LastMove(); last != nil {
		suffix := ""
		switch {
		case pos.Checkmate:
			suffix = "#"
		case pos.InCheck:
			suffix = "+"
		}
		fmt.Fprintf(c.out, "%splays %s%s\n", who, last.String(), suffix)
	}
	if st := c.session.Status(); st != game.Ongoing {
		result, _ := c.session.Result()
		fmt.Fprintf(c.out, "game over: %s %s\n", st, result)
		c.autoSave()
	}
}

func (c *Console) handleUndo() {
	c.pending = nil
	if err := c.session.UndoTurn(); err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.saved = false
	fmt.Fprintf(c.out, "undone, %s to move\n", c.session.Position().Turn)
}

func (c *Console) handleRedo() {
	c.pending = nil
	if err := c.session.RedoTurn(); err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	fmt.Fprintf(c.out, "redone, %s to move\n", c.session.Position().Turn)
}

func (c *Console) handleDepth(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(c.out, "depth %d\n", c.session.Engine().Depth())
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		if d, derr := engine.ParseDifficulty(args[0]); derr == nil {
			depth = engine.DifficultySettings[d]
		} else {
			fmt.Fprintf(c.out, "invalid depth: %s\n", args[0])
			return
		}
	}
	c.opts.Depth = depth
	c.session.Engine().SetDepth(depth)
	fmt.Fprintf(c.out, "depth %d\n", depth)
}

func (c *Console) handleHistory() {
	history := c.session.Position().History()
	var sb strings.Builder
	for i, m := range history {
		if i%2 == 0 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d.", i/2+1)
		}
		sb.WriteByte(' ')
		sb.WriteString(m)
	}
	fmt.Fprintln(c.out, sb.String())
}

func (c *Console) handleSave() {
	if c.store == nil {
		fmt.Fprintln(c.out, "storage unavailable")
		return
	}
	rec, err := c.session.Save(c.store)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.saved = rec.Result != storage.ResultOngoing
	fmt.Fprintf(c.out, "saved %s\n", rec.ID)
}

// autoSave stores a finished game once.
func (c *Console) autoSave() {
	if c.store == nil || c.saved || c.session == nil {
		return
	}
	if len(c.session.Position().MoveLog) == 0 || c.session.Status() == game.Ongoing {
		return
	}
	if _, err := c.session.Save(c.store); err != nil {
		c.log.Warn().Err(err).Msg("auto-save failed")
		return
	}
	c.saved = true
}

func (c *Console) handleGames() {
	if c.store == nil {
		fmt.Fprintln(c.out, "storage unavailable")
		return
	}
	games, err := c.store.ListGames()
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	if len(games) == 0 {
		fmt.Fprintln(c.out, "no saved games")
		return
	}
	for _, g := range games {
		fmt.Fprintf(c.out, "%s  %s  %-8s %-7s %3d plies  %s\n",
			g.ID, g.Started.Format(time.DateTime), g.Setup, g.Result, len(g.Moves), g.Termination)
	}
}

func (c *Console) handleLoad(args []string) {
	if c.store == nil {
		fmt.Fprintln(c.out, "storage unavailable")
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(c.out, "usage: load <id>")
		return
	}
	rec, err := c.store.LoadGame(args[0])
	if errors.Is(err, storage.ErrGameNotFound) {
		fmt.Fprintf(c.out, "no game %s\n", args[0])
		return
	}
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	s, err := game.Replay(rec, c.opts)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.session = s
	c.opts = s.Options()
	c.pending = nil
	c.saved = rec.Result != storage.ResultOngoing
	fmt.Fprintf(c.out, "loaded %s: %d plies, %s to move\n", rec.ID, len(rec.Moves), s.Position().Turn)
}

// maxPerftDepth bounds perft; depth 6 from the start is 119,060,324 nodes.
const maxPerftDepth = 6

func (c *Console) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxPerftDepth {
			fmt.Fprintf(c.out, "invalid perft depth: %s (1-%d)\n", args[0], maxPerftDepth)
			return
		}
		depth = n
	}
	start := time.Now()
	nodes := engine.Perft(c.session.Position(), depth)
	elapsed := time.Since(start)
	fmt.Fprintf(c.out, "perft %d: %d nodes in %v\n", depth, nodes, elapsed.Round(time.Millisecond))
}
