package puyo

import "errors"

var (
	ErrOutOfBounds        = errors.New("position is out of bounds")
	ErrCellOccupied       = errors.New("position is already occupied")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvariantViolation = errors.New("board invariant violated")
)
