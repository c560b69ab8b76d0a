package engine

import "fmt"

// Special tags the move families that need more than "lift and place".
type Special uint8

const (
	SpecialNone Special = iota
	SpecialDoubleStep
	SpecialEnPassant
	SpecialCastleKingside
	SpecialCastleQueenside
)

func (s Special) String() string {
	switch s {
	case SpecialNone:
		return ""
	case SpecialDoubleStep:
		return "double"
	case SpecialEnPassant:
		return "enPassant"
	case SpecialCastleKingside:
		return "castle-kingside"
	case SpecialCastleQueenside:
		return "castle-queenside"
	}
	return fmt.Sprintf("Special(%d)", uint8(s))
}

func (s Special) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Special) UnmarshalText(text []byte) error {
	for c := SpecialNone; c <= SpecialCastleQueenside; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown move special %q", text)
}

func (s Special) IsCastle() bool {
	return s == SpecialCastleKingside || s == SpecialCastleQueenside
}

// Move is a candidate destination for the piece on an implied source square.
type Move struct {
	To      Square  `json:"to"`
	Capture bool    `json:"capture"`
	Special Special `json:"special,omitempty"`
}

// MoveResult is the outcome of ApplyMove.
type MoveResult struct {
	Board Board
	// Captured is a copy of the removed piece, nil when nothing was taken.
	Captured *Piece
	Special  Special
	// PromotionPending is set when a pawn reached its far rank. The pawn stays
	// on PromotionSquare until ResolvePromotion replaces it.
	PromotionPending bool
	PromotionSquare  Square
	PromotionColor   Color
}
