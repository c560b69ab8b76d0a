package model

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already exists")
	ErrGameFull         = errors.New("game is full")
	ErrGameOver         = errors.New("game is over")
	ErrNotInGame        = errors.New("player not in game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNoPiece          = errors.New("no piece at from square")
	ErrOutOfBounds      = errors.New("invalid move, out of bounds")
	ErrIllegalMove      = errors.New("invalid move, not legal")
	ErrPromotionPending = errors.New("promotion pending")
	ErrNoPromotion      = errors.New("no promotion pending")
	ErrBadPromotion     = errors.New("invalid promotion piece")
	ErrNoDrawOffer      = errors.New("no draw offer to answer")
	ErrAlreadyQueued    = errors.New("player already in queue")
	ErrInvalidFEN       = errors.New("invalid FEN")
)
