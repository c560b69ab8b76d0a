package engine

// LegalMoves returns the candidate moves from from that do not leave the
// mover's own king attacked. Each candidate is played on a private copy of
// the board; a pending promotion is irrelevant to king safety and ignored.
func LegalMoves(b Board, from Square) []Move {
	piece, ok := b.At(from)
	if !ok {
		return nil
	}
	candidates := CandidateMoves(b, from)
	legal := candidates[:0]
	for _, m := range candidates {
		res := ApplyMove(b, from, m.To)
		if !IsKingInCheck(res.Board, piece.Color) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsLegal reports whether moving from from to to appears in LegalMoves.
func IsLegal(b Board, from, to Square) (Move, bool) {
	for _, m := range LegalMoves(b, from) {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

// AllLegalMoves returns the legal moves of every piece of color, keyed by the
// source square. Squares whose piece cannot move are omitted.
func AllLegalMoves(b Board, color Color) map[Square][]Move {
	all := make(map[Square][]Move)
	b.Each(func(sq Square, p Piece) {
		if p.Color != color {
			return
		}
		if moves := LegalMoves(b, sq); len(moves) > 0 {
			all[sq] = moves
		}
	})
	return all
}

// HasAnyLegalMove stops at the first piece of color that can move.
func HasAnyLegalMove(b Board, color Color) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			sq := Square{Row: row, Col: col}
			if p, ok := b.At(sq); ok && p.Color == color && len(LegalMoves(b, sq)) > 0 {
				return true
			}
		}
	}
	return false
}
