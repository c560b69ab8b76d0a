package engine

// CandidateMoves returns the pseudo-legal moves of the piece on from. Moves
// that leave the mover's own king attacked are included; LegalMoves removes
// them. The order of the result is unspecified.
func CandidateMoves(b Board, from Square) []Move {
	piece, ok := b.At(from)
	if !ok {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pawnMoves(b, from, piece)
	case Knight:
		return stepMoves(b, from, piece, knightDirs)
	case Bishop:
		return slidingMoves(b, from, piece, bishopDirs)
	case Rook:
		return slidingMoves(b, from, piece, rookDirs)
	case Queen:
		return slidingMoves(b, from, piece, queenDirs)
	case King:
		return append(stepMoves(b, from, piece, kingDirs), castlingMoves(b, from, piece)...)
	}
	return nil
}

func pawnMoves(b Board, from Square, piece Piece) []Move {
	var moves []Move
	dir := piece.Color.forward()

	one := from.offset(dir, 0)
	if one.InBounds() && b.IsEmpty(one) {
		moves = append(moves, Move{To: one})
		two := from.offset(2*dir, 0)
		if from.Row == piece.Color.pawnRow() && b.IsEmpty(two) {
			moves = append(moves, Move{To: two, Special: SpecialDoubleStep})
		}
	}

	for _, dc := range []int{-1, 1} {
		target := from.offset(dir, dc)
		if !target.InBounds() {
			continue
		}
		if victim, ok := b.At(target); ok {
			if victim.Color != piece.Color {
				moves = append(moves, Move{To: target, Capture: true})
			}
			continue
		}
		// The square is empty: en passant needs an eligible enemy pawn beside us.
		beside, ok := b.At(from.offset(0, dc))
		if ok && beside.Type == Pawn && beside.Color != piece.Color && beside.EnPassantEligible {
			moves = append(moves, Move{To: target, Capture: true, Special: SpecialEnPassant})
		}
	}
	return moves
}

func stepMoves(b Board, from Square, piece Piece, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		target := from.offset(d.dr, d.dc)
		if !target.InBounds() {
			continue
		}
		occupant, ok := b.At(target)
		if !ok {
			moves = append(moves, Move{To: target})
		} else if occupant.Color != piece.Color {
			moves = append(moves, Move{To: target, Capture: true})
		}
	}
	return moves
}

func slidingMoves(b Board, from Square, piece Piece, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		for target := from.offset(d.dr, d.dc); target.InBounds(); target = target.offset(d.dr, d.dc) {
			occupant, ok := b.At(target)
			if !ok {
				moves = append(moves, Move{To: target})
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, Move{To: target, Capture: true})
			}
			break
		}
	}
	return moves
}

// castlingMoves returns the two-square king moves that are currently
// available. The king must be unmoved and not in check, the corner rook on
// that side unmoved with only empty squares in between, and neither the
// square the king crosses nor the one it lands on may be attacked.
func castlingMoves(b Board, from Square, king Piece) []Move {
	if king.HasMoved {
		return nil
	}
	enemy := king.Color.Opponent()
	if IsSquareAttacked(b, from, enemy) {
		return nil
	}

	var moves []Move
	for _, side := range []struct {
		dir     int
		corner  int
		special Special
	}{
		{dir: 1, corner: Size - 1, special: SpecialCastleKingside},
		{dir: -1, corner: 0, special: SpecialCastleQueenside},
	} {
		// The king needs two squares of travel short of the rook's corner.
		if (side.corner-from.Col)*side.dir <= 2 {
			continue
		}
		rook, ok := b.At(Square{Row: from.Row, Col: side.corner})
		if !ok || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		if !pathClear(b, from, side.corner, side.dir) {
			continue
		}
		transit := from.offset(0, side.dir)
		dest := from.offset(0, 2*side.dir)
		if IsSquareAttacked(b, transit, enemy) || IsSquareAttacked(b, dest, enemy) {
			continue
		}
		moves = append(moves, Move{To: dest, Special: side.special})
	}
	return moves
}

func pathClear(b Board, from Square, corner, dir int) bool {
	for col := from.Col + dir; col != corner; col += dir {
		if !b.IsEmpty(Square{Row: from.Row, Col: col}) {
			return false
		}
	}
	return true
}
