package engine

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"github.com/hailam/chessgame/internal/board"
)

// Search constants
const (
	DefaultDepth = 3
	Infinity     = Checkmate + 1
)

// Searcher runs a fixed-depth negamax with alpha-beta pruning. It keeps no
// state between searches apart from its statistics.
type Searcher struct {
	Depth int

	// rng shuffles each node's moves; nil keeps generation order.
	rng *rand.Rand

	nodes uint64
	// stop is the cancellation flag of the search in progress.
	stop *atomic.Bool
}

// NewSearcher creates a searcher for the given depth.
func NewSearcher(depth int, rng *rand.Rand) *Searcher {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Searcher{Depth: depth, rng: rng}
}

// Nodes returns the number of positions visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search explores pos, which it mutates and restores, and returns the
// best root move. found is false when no move scores above -Checkmate.
func (s *Searcher) Search(pos *board.Position) (move board.Move, score int, found bool) {
	return s.SearchContext(context.Background(), pos)
}

// SearchContext is Search with cancellation. A search whose ctx is done,
// including one cancelled before it started, finds nothing.
func (s *Searcher) SearchContext(ctx context.Context, pos *board.Position) (move board.Move, score int, found bool) {
	s.nodes = 0
	if ctx.Err() != nil {
		return board.Move{}, 0, false
	}
	var stop atomic.Bool
	s.stop = &stop
	defer context.AfterFunc(ctx, func() { stop.Store(true) })()

	moves := slices.Clone(pos.ValidMoves())
	pos.FindMate(moves)

	turn := 1
	if pos.Turn == board.Black {
		turn = -1
	}
	score, move, found = s.negamax(pos, moves, s.Depth, -Infinity, Infinity, turn)
	if stop.Load() || ctx.Err() != nil {
		return board.Move{}, 0, false
	}
	return move, score, found
}

// negamax returns the score of pos for the side to move and, when one
// improved on -Checkmate, the move achieving it. moves are the legal moves
// of pos with FindMate already applied.
func (s *Searcher) negamax(pos *board.Position, moves []board.Move, depth, alpha, beta, turn int) (int, board.Move, bool) {
	s.nodes++
	if depth == 0 || len(moves) == 0 || pos.GameOver {
		return turn * Evaluate(pos), board.Move{}, false
	}

	if s.rng != nil {
		s.rng.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
	}

	best := -Checkmate
	var bestMove board.Move
	found := false

	for _, m := range moves {
		if s.stop.Load() {
			break
		}

		pos.MakeMove(m)
		replies := pos.ValidMoves()
		pos.FindMate(replies)
		score, _, _ := s.negamax(pos, replies, depth-1, -beta, -alpha, -turn)
		score = -score
		if err := pos.UndoMoveDiscard(); err != nil {
			panic(err)
		}

		if score > best {
			best = score
			bestMove = m
			found = true
		}
		if best > alpha {
			alpha = best
		}
		// A mate for the side to move cannot be improved on.
		if alpha >= beta || score == Checkmate {
			break
		}
	}
	return best, bestMove, found
}

// RandomMove picks a uniformly random move, or false when moves is empty.
func RandomMove(moves []board.Move, rng *rand.Rand) (board.Move, bool) {
	if len(moves) == 0 {
		return board.Move{}, false
	}
	if rng == nil {
		return moves[rand.IntN(len(moves))], true
	}
	return moves[rng.IntN(len(moves))], true
}
