package engine

// ApplyMove moves the piece on from to to and returns the resulting position.
// The input board is not modified. ApplyMove does not check legality; pass
// only destinations produced by LegalMoves. Moving from an empty square
// returns an unchanged copy.
func ApplyMove(b Board, from, to Square) MoveResult {
	next := b
	piece, ok := b.At(from)
	if !ok || !to.InBounds() {
		return MoveResult{Board: next}
	}

	result := MoveResult{}
	if captured, ok := b.At(to); ok {
		result.Captured = &captured
	}

	if piece.Type == Pawn && from.Col != to.Col && b.IsEmpty(to) {
		// The captured pawn sits on the mover's starting rank, not on the destination.
		victimSq := Square{Row: from.Row, Col: to.Col}
		victim, ok := b.At(victimSq)
		if ok && victim.Type == Pawn && victim.Color != piece.Color && victim.EnPassantEligible {
			next.remove(victimSq)
			result.Captured = &victim
			result.Special = SpecialEnPassant
		}
	}

	next.remove(from)
	next.clearEnPassant()

	if piece.Type == King && abs(to.Col-from.Col) == 2 {
		rookFrom, rookTo, special := castleRookSquares(from, to)
		if rook, ok := next.At(rookFrom); ok && rook.Type == Rook && rook.Color == piece.Color {
			next.remove(rookFrom)
			rook.HasMoved = true
			next.put(rookTo, rook)
			result.Special = special
		}
	}

	moved := piece
	moved.HasMoved = true
	if piece.Type == Pawn && abs(to.Row-from.Row) == 2 {
		moved.EnPassantEligible = true
		if result.Special == SpecialNone {
			result.Special = SpecialDoubleStep
		}
	}
	next.put(to, moved)

	if piece.Type == Pawn && to.Row == piece.Color.promotionRow() {
		result.PromotionPending = true
		result.PromotionSquare = to
		result.PromotionColor = piece.Color
	}

	result.Board = next
	return result
}

// castleRookSquares maps a two-column king move to the rook's corner and the
// square the king jumped over.
func castleRookSquares(from, to Square) (rookFrom, rookTo Square, special Special) {
	if to.Col > from.Col {
		return Square{Row: from.Row, Col: Size - 1}, Square{Row: from.Row, Col: to.Col - 1}, SpecialCastleKingside
	}
	return Square{Row: from.Row, Col: 0}, Square{Row: from.Row, Col: to.Col + 1}, SpecialCastleQueenside
}

// ResolvePromotion replaces the piece on sq with a moved piece of the chosen
// type and color. Nothing else on the board changes.
func ResolvePromotion(b Board, sq Square, color Color, pt PieceType) Board {
	return b.With(sq, Piece{Type: pt, Color: color, HasMoved: true})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
