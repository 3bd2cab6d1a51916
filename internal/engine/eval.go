package engine

import "github.com/hailam/chessgame/internal/board"

// Score constants.
const (
	// Checkmate is one more than the King's material value.
	Checkmate = 9001
	Stalemate = 0

	// nearPromotionBonus is added per pawn one push from its last rank.
	nearPromotionBonus = 8
)

// Evaluate scores the position from White's point of view. Terminal flags
// must already have been set by FindMate.
func Evaluate(pos *board.Position) int {
	switch {
	case pos.Checkmate:
		if pos.Turn == board.White {
			return -Checkmate
		}
		return Checkmate
	case pos.Stalemate:
		return Stalemate
	}

	b := pos.Board
	score := 0
	for _, id := range b.Roster() {
		pc := b.Piece(id)
		v := pc.Kind.Value()
		if pc.Kind == board.Pawn && nearPromotion(b, pc) {
			v += nearPromotionBonus
		}
		if pc.Color == board.White {
			score += v
		} else {
			score -= v
		}
	}
	return score
}

func nearPromotion(b *board.Board, pc *board.Piece) bool {
	if pc.Color == board.White {
		return pc.At.Rank == b.Ranks()-2
	}
	return pc.At.Rank == 1
}
