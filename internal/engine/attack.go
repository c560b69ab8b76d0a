package engine

type direction struct {
	dr, dc int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightDirs = []direction{{2, 1}, {1, 2}, {-1, 2}, {-2, 1}, {-2, -1}, {-1, -2}, {1, -2}, {2, -1}}
	kingDirs   = queenDirs
)

// IsSquareAttacked reports whether any piece of attacker attacks sq.
//
// Rather than walking every attacker's moves, it looks outward from sq: the
// first piece along each ray is the only one that can attack along it, so a
// rook or queen on an orthogonal ray (bishop or queen on a diagonal) decides
// the question for that ray. Occupancy of sq itself is irrelevant.
func IsSquareAttacked(b Board, sq Square, attacker Color) bool {
	if !sq.InBounds() {
		return false
	}
	if slidingAttack(b, sq, attacker, rookDirs, Rook) || slidingAttack(b, sq, attacker, bishopDirs, Bishop) {
		return true
	}
	if stepAttack(b, sq, attacker, knightDirs, Knight) || stepAttack(b, sq, attacker, kingDirs, King) {
		return true
	}
	// An attacking pawn sits one row behind sq from its own point of view.
	for _, dc := range []int{-1, 1} {
		from := sq.offset(-attacker.forward(), dc)
		if p, ok := b.At(from); ok && p.Color == attacker && p.Type == Pawn {
			return true
		}
	}
	return false
}

func slidingAttack(b Board, sq Square, attacker Color, dirs []direction, slider PieceType) bool {
	for _, d := range dirs {
		for target := sq.offset(d.dr, d.dc); target.InBounds(); target = target.offset(d.dr, d.dc) {
			p, ok := b.At(target)
			if !ok {
				continue
			}
			if p.Color == attacker && (p.Type == slider || p.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

func stepAttack(b Board, sq Square, attacker Color, dirs []direction, stepper PieceType) bool {
	for _, d := range dirs {
		if p, ok := b.At(sq.offset(d.dr, d.dc)); ok && p.Color == attacker && p.Type == stepper {
			return true
		}
	}
	return false
}

// IsKingInCheck reports whether color's king is attacked. A board without
// that king is never in check.
func IsKingInCheck(b Board, color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, color.Opponent())
}
