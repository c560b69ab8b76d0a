package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFENStartMatchesNewBoard(t *testing.T) {
	b, toMove := mustFEN(t, StartFEN)
	if toMove != White {
		t.Errorf("side to move: got %v", toMove)
	}
	if b != NewBoard() {
		t.Errorf("start FEN differs from NewBoard:\n%s\nwant\n%s", b, NewBoard())
	}
	if got := FEN(NewBoard(), White); got != StartFEN {
		t.Errorf("FEN(NewBoard): got %q want %q", got, StartFEN)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w Kq d6 0 1",
		"4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b, toMove := mustFEN(t, fen)
			if diff := cmp.Diff(fen, FEN(b, toMove)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFENAfterDoubleStep(t *testing.T) {
	res := ApplyMove(NewBoard(), sq("e2"), sq("e4"))
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := FEN(res.Board, Black); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w",
		"rnbqkbnr/ppppXppp/8/8/8/8/PPPPPPPP/RNBQKBNR w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1 w KQkq",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9",
	}
	for _, fen := range bad {
		if _, _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) succeeded", fen)
		}
	}
}
