package board

import "errors"

var (
	ErrEmptySquare      = errors.New("no piece on start square")
	ErrNotPawnMove      = errors.New("promotion of a non-pawn move")
	ErrUnknownPromotion = errors.New("unknown promotion choice")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrIllegalMove      = errors.New("illegal move")
)
