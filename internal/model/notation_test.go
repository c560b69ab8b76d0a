package model

import (
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

func TestNotation(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		want     string
	}{
		{"pawn push", engine.StartFEN, "e2", "e4", "e4"},
		{"knight", engine.StartFEN, "g1", "f3", "Nf3"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4", "d5", "exd5"},
		{"piece capture", "4k3/8/8/3p4/8/8/8/3QK3 w - - 0 1", "d1", "d5", "Qxd5"},
		{"file disambiguation", "1k6/8/8/8/8/8/4K3/R6R w - - 0 1", "a1", "d1", "Rad1"},
		{"rank disambiguation", "7k/8/8/R7/8/8/4K3/R7 w - - 0 1", "a1", "a3", "R1a3"},
		{"knight disambiguation", "4k3/8/8/8/8/2N1N3/8/4K3 w - - 0 1", "c3", "d5", "Ncd5"},
		{"pinned rival needs no disambiguation", "4k3/4r3/8/8/8/2N1N3/8/4K3 w - - 0 1", "c3", "d5", "Nd5"},
		{"kingside castle", "4k3/8/8/8/8/8/8/4K2R w K - 0 1", "e1", "g1", "O-O"},
		{"queenside castle", "r3k3/8/8/8/8/8/8/4K3 b q - 0 1", "e8", "c8", "O-O-O"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, err := engine.ParseFEN(tt.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			from, to := engine.MustSquare(tt.from), engine.MustSquare(tt.to)
			piece, _ := b.At(from)
			m, ok := engine.IsLegal(b, from, to)
			if !ok {
				t.Fatalf("%s-%s is not legal", tt.from, tt.to)
			}
			target, occupied := b.At(to)
			capture := m.Capture || (occupied && target.Color != piece.Color)
			if got := notation(b, from, to, piece, capture, m.Special); got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestNotationInHistory(t *testing.T) {
	g := seatedGame(t, "")
	mustMove(t, g, whiteID, "f2", "f3")
	mustMove(t, g, blackID, "e7", "e5")
	mustMove(t, g, whiteID, "g2", "g4")
	mustMove(t, g, blackID, "d8", "h4")

	var got []string
	for _, m := range g.GetState().MoveHistory {
		got = append(got, m.WhitePly.Notation, m.BlackPly.Notation)
	}
	want := []string{"f3", "e5", "g4", "Qh4#"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("history notation: got %v want %v", got, want)
		}
	}

	promo := seatedGame(t, "7k/P7/8/8/8/8/8/4K3 w - - 0 1")
	mustMove(t, promo, whiteID, "a7", "a8")
	if err := promo.Promote(whiteID, engine.Queen); err != nil {
		t.Fatal(err)
	}
	if n := promo.GetState().MoveHistory[0].WhitePly.Notation; n != "a8=Q+" {
		t.Errorf("promotion notation: got %q want a8=Q+", n)
	}
}
