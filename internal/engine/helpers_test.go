package engine

import (
	"sort"
	"testing"
)

func mustFEN(t *testing.T, fen string) (Board, Color) {
	t.Helper()
	b, toMove, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b, toMove
}

func sq(coord string) Square {
	return MustSquare(coord)
}

// destinations renders moves as sorted coordinates so tests do not depend on
// generation order.
func destinations(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	sort.Strings(out)
	return out
}

func findMove(moves []Move, to Square) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

// play applies a sequence of coordinate pairs, failing on any illegal step.
func play(t *testing.T, b Board, moves ...[2]string) Board {
	t.Helper()
	for _, mv := range moves {
		from, to := sq(mv[0]), sq(mv[1])
		if _, ok := IsLegal(b, from, to); !ok {
			t.Fatalf("%s-%s is not legal in\n%s", mv[0], mv[1], b)
		}
		b = ApplyMove(b, from, to).Board
	}
	return b
}

func pieceCount(b Board) int {
	n := 0
	b.Each(func(Square, Piece) { n++ })
	return n
}
