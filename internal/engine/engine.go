package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Move     string
	Fallback bool // the move was picked at random
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 3 ply
	Hard                     // 4 ply
)

// DifficultySettings maps difficulty to search depth.
var DifficultySettings = map[Difficulty]int{
	Easy:   2,
	Medium: DefaultDepth,
	Hard:   4,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("invalid difficulty: %s", s)
}

// Engine is the computer opponent.
type Engine struct {
	searcher *Searcher
	rng      *rand.Rand
	log      zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine searching to depth plies. A seed of zero
// seeds from the runtime.
func NewEngine(depth int, seed uint64) *Engine {
	var rng *rand.Rand
	if seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	return &Engine{
		searcher: NewSearcher(depth, rng),
		rng:      rng,
		log:      zerolog.Nop(),
	}
}

// SetLogger sets the logger used for search reports.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l.With().Str("component", "engine").Logger()
}

// SetDifficulty sets the search depth from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultySettings[d]; ok {
		e.searcher.Depth = depth
	}
}

// SetDepth sets the search depth in plies.
func (e *Engine) SetDepth(depth int) {
	if depth > 0 {
		e.searcher.Depth = depth
	}
}

// Depth returns the search depth in plies.
func (e *Engine) Depth() int {
	return e.searcher.Depth
}

// SetShuffle enables or disables random move ordering.
func (e *Engine) SetShuffle(on bool) {
	if on {
		e.searcher.rng = e.rng
	} else {
		e.searcher.rng = nil
	}
}

// Search finds the best move for pos without touching it. ok is false when
// the search found nothing better than a forced loss.
func (e *Engine) Search(pos *board.Position) (board.Move, SearchInfo, bool) {
	return e.SearchContext(context.Background(), pos)
}

// SearchContext is Search, abandoned when ctx is done.
func (e *Engine) SearchContext(ctx context.Context, pos *board.Position) (board.Move, SearchInfo, bool) {
	start := time.Now()
	move, score, ok := e.searcher.SearchContext(ctx, pos.Clone())
	info := SearchInfo{
		Depth: e.searcher.Depth,
		Score: score,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(start),
	}
	if ok {
		info.Move = move.String()
	}
	return move, info, ok
}

// ChooseMove returns the engine's move for pos, falling back to a random
// legal move when the search finds none. ok is false only when pos has no
// legal moves.
func (e *Engine) ChooseMove(pos *board.Position) (board.Move, bool) {
	return e.ChooseMoveContext(context.Background(), pos)
}

// ChooseMoveContext is ChooseMove for a search that may be abandoned. Once
// ctx is done it reports no move instead of a random one.
func (e *Engine) ChooseMoveContext(ctx context.Context, pos *board.Position) (board.Move, bool) {
	move, info, ok := e.SearchContext(ctx, pos)
	if !ok && ctx.Err() != nil {
		e.log.Debug().Uint64("nodes", info.Nodes).Msg("search cancelled")
		return board.Move{}, false
	}
	if !ok {
		move, ok = RandomMove(pos.Clone().ValidMoves(), e.rng)
		if !ok {
			return board.Move{}, false
		}
		info.Fallback = true
		info.Move = move.String()
	}

	e.log.Debug().
		Int("depth", info.Depth).
		Int("score", info.Score).
		Uint64("nodes", info.Nodes).
		Dur("time", info.Time).
		Str("move", info.Move).
		Bool("fallback", info.Fallback).
		Msg("search complete")
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move, true
}

// Perft counts leaf nodes at depth for move generation diagnostics.
func Perft(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	p := pos.Clone()
	return perft(p, depth)
}

func perft(p *board.Position, depth int) uint64 {
	moves := p.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes += perft(p, depth-1)
		if err := p.UndoMoveDiscard(); err != nil {
			panic(err)
		}
	}
	return nodes
}
