package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

const (
	whiteID = "white-player"
	blackID = "black-player"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	fail     bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeConn) Close() error { return nil }

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeConn) lastState(t *testing.T) GameState {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatal("no messages received")
	}
	msg := f.messages[len(f.messages)-1]
	if msg.Type != ws.MessageTypeGameState {
		t.Fatalf("last message type %q", msg.Type)
	}
	var state GameState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

var sortLegalMoves = cmpopts.SortSlices(func(a, b LegalMove) bool {
	return a.To.String() < b.To.String()
})

func pos(coord string) Position {
	return PositionOf(engine.MustSquare(coord))
}

func seatedGame(t *testing.T, fen string) *Game {
	t.Helper()
	var g *Game
	if fen == "" {
		g = NewGame("game-1")
	} else {
		var err error
		g, err = NewGameFromFEN("game-1", fen)
		if err != nil {
			t.Fatalf("NewGameFromFEN: %v", err)
		}
	}
	if c, err := g.AddPlayer(whiteID); err != nil || c != engine.White {
		t.Fatalf("AddPlayer white: %v %v", c, err)
	}
	if c, err := g.AddPlayer(blackID); err != nil || c != engine.Black {
		t.Fatalf("AddPlayer black: %v %v", c, err)
	}
	return g
}

func mustMove(t *testing.T, g *Game, playerID, from, to string) {
	t.Helper()
	if err := g.MakeMove(playerID, WSMove{From: pos(from), To: pos(to)}); err != nil {
		t.Fatalf("%s %s-%s: %v", playerID, from, to, err)
	}
}

func TestAddPlayer(t *testing.T) {
	g := seatedGame(t, "")

	if c, err := g.AddPlayer(whiteID); err != nil || c != engine.White {
		t.Errorf("rejoin: got %v %v want white", c, err)
	}
	if _, err := g.AddPlayer("third"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player: got %v want ErrGameFull", err)
	}
	if !g.IsPlayerInGame(blackID) || g.IsPlayerInGame("third") {
		t.Error("IsPlayerInGame wrong")
	}
}

func TestMakeMoveRejectsContractViolations(t *testing.T) {
	g := seatedGame(t, "")

	tests := []struct {
		name     string
		playerID string
		move     WSMove
		want     error
	}{
		{"stranger", "third", WSMove{From: pos("e2"), To: pos("e4")}, ErrNotInGame},
		{"black moves first", blackID, WSMove{From: pos("e7"), To: pos("e5")}, ErrNotYourTurn},
		{"white moves black piece", whiteID, WSMove{From: pos("e7"), To: pos("e5")}, ErrNotYourTurn},
		{"empty square", whiteID, WSMove{From: pos("e4"), To: pos("e5")}, ErrNoPiece},
		{"illegal destination", whiteID, WSMove{From: pos("e2"), To: pos("e5")}, ErrIllegalMove},
		{"out of bounds", whiteID, WSMove{From: pos("e2"), To: Position{X: 4, Y: 8}}, ErrOutOfBounds},
		{"bad promotion piece", whiteID, WSMove{From: pos("e2"), To: pos("e4"), Promotion: engine.King}, ErrBadPromotion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.MakeMove(tt.playerID, tt.move); !errors.Is(err, tt.want) {
				t.Errorf("got %v want %v", err, tt.want)
			}
		})
	}

	if got := g.Board(); got != engine.NewBoard() {
		t.Errorf("rejected moves changed the board:\n%s", got)
	}
}

func TestMakeMoveRecordsHistory(t *testing.T) {
	g := seatedGame(t, "")
	mustMove(t, g, whiteID, "e2", "e4")
	mustMove(t, g, blackID, "d7", "d5")
	mustMove(t, g, whiteID, "e4", "d5")

	state := g.GetState()
	if state.ToMove != engine.Black {
		t.Errorf("to move: got %v", state.ToMove)
	}
	if len(state.MoveHistory) != 2 {
		t.Fatalf("history length: got %d want 2", len(state.MoveHistory))
	}
	first := state.MoveHistory[0]
	if first.Number != 1 || first.WhitePly == nil || first.BlackPly == nil {
		t.Fatalf("first move incomplete: %+v", first)
	}
	if first.WhitePly.Special != engine.SpecialDoubleStep {
		t.Errorf("e2-e4 special: got %v", first.WhitePly.Special)
	}
	capture := state.MoveHistory[1].WhitePly
	if capture.CapturedPiece == nil || capture.CapturedPiece.Type != engine.Pawn {
		t.Errorf("exd5 capture not recorded: %+v", capture)
	}
	if got := state.CapturedPieces.White; len(got) != 1 || got[0].Type != engine.Pawn || got[0].Color != engine.Black {
		t.Errorf("white captures: got %+v", got)
	}
	if len(state.CapturedPieces.Black) != 0 {
		t.Errorf("black captures: got %+v", state.CapturedPieces.Black)
	}
	if state.Sound != SoundCapture {
		t.Errorf("sound: got %q", state.Sound)
	}
	if diff := cmp.Diff(&SimpleMove{From: pos("e4"), To: pos("d5")}, state.LastMove); diff != "" {
		t.Errorf("last move mismatch (-want +got):\n%s", diff)
	}
}

func TestFoolsMateEndsGame(t *testing.T) {
	g := seatedGame(t, "")
	mustMove(t, g, whiteID, "f2", "f3")
	mustMove(t, g, blackID, "e7", "e5")
	mustMove(t, g, whiteID, "g2", "g4")
	mustMove(t, g, blackID, "d8", "h4")

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolutionCheckmate {
		t.Fatalf("resolve: got %v want checkmate", state.Resolve)
	}
	if state.Winner == nil || *state.Winner != engine.Black {
		t.Errorf("winner: got %v want black", state.Winner)
	}
	if !state.IsCheck || state.Sound != SoundGameOver {
		t.Errorf("isCheck %v sound %q", state.IsCheck, state.Sound)
	}
	if !state.MoveHistory[1].BlackPly.Check {
		t.Error("mating ply not flagged as check")
	}
	if err := g.MakeMove(whiteID, WSMove{From: pos("a2"), To: pos("a3")}); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate: got %v want ErrGameOver", err)
	}
	moves, err := g.LegalMoves(pos("e1"))
	if err != nil || len(moves) != 0 {
		t.Errorf("legal moves after mate: %v %v", moves, err)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	g := seatedGame(t, "k7/8/8/2Q5/8/8/8/7K w - - 0 1")
	mustMove(t, g, whiteID, "c5", "b6")

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolutionStalemate {
		t.Fatalf("resolve: got %v want stalemate", state.Resolve)
	}
	if state.Winner != nil || state.IsCheck {
		t.Errorf("winner %v isCheck %v", state.Winner, state.IsCheck)
	}
}

func TestPromotionAwaitsChoice(t *testing.T) {
	g := seatedGame(t, "7k/P7/8/8/8/8/8/4K3 w - - 0 1")
	mustMove(t, g, whiteID, "a7", "a8")

	state := g.GetState()
	if state.PromotionSquare == nil || *state.PromotionSquare != pos("a8") {
		t.Fatalf("promotion square: got %v", state.PromotionSquare)
	}
	if state.ToMove != engine.White {
		t.Errorf("turn passed before promotion was resolved")
	}
	if err := g.MakeMove(whiteID, WSMove{From: pos("e1"), To: pos("e2")}); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("move while pending: got %v", err)
	}
	if err := g.Promote(blackID, engine.Queen); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("black promotes: got %v", err)
	}
	if err := g.Promote(whiteID, engine.King); !errors.Is(err, ErrBadPromotion) {
		t.Errorf("promote to king: got %v", err)
	}

	if err := g.Promote(whiteID, engine.Queen); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	state = g.GetState()
	if p, _ := g.Board().At(engine.MustSquare("a8")); p.Type != engine.Queen || p.Color != engine.White {
		t.Errorf("a8: got %+v", p)
	}
	if state.ToMove != engine.Black || !state.IsCheck || state.PromotionSquare != nil {
		t.Errorf("after promotion: toMove %v isCheck %v promotionSquare %v", state.ToMove, state.IsCheck, state.PromotionSquare)
	}
	ply := state.MoveHistory[0].WhitePly
	if ply.Promotion != engine.Queen || !ply.Check {
		t.Errorf("ply: %+v", ply)
	}
	if state.Sound != SoundCheck {
		t.Errorf("sound: got %q", state.Sound)
	}
	if err := g.Promote(whiteID, engine.Queen); !errors.Is(err, ErrNoPromotion) {
		t.Errorf("second promote: got %v", err)
	}
}

func TestPromotionInSameRequest(t *testing.T) {
	g := seatedGame(t, "7k/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err := g.MakeMove(whiteID, WSMove{From: pos("a7"), To: pos("a8"), Promotion: engine.Knight}); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	state := g.GetState()
	if state.ToMove != engine.Black || state.PromotionSquare != nil || state.IsCheck {
		t.Errorf("state: toMove %v promotion %v check %v", state.ToMove, state.PromotionSquare, state.IsCheck)
	}
	if p, _ := g.Board().At(engine.MustSquare("a8")); p.Type != engine.Knight {
		t.Errorf("a8: got %+v", p)
	}
}

func TestLegalMovesOnlyForSideToMove(t *testing.T) {
	g := seatedGame(t, "")

	moves, err := g.LegalMoves(pos("g1"))
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	want := []LegalMove{
		{From: pos("g1"), To: pos("f3")},
		{From: pos("g1"), To: pos("h3")},
	}
	if diff := cmp.Diff(want, moves, sortLegalMoves); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if moves, _ := g.LegalMoves(pos("g8")); len(moves) != 0 {
		t.Errorf("black knight has moves on white's turn: %v", moves)
	}
	if _, err := g.LegalMoves(Position{X: -1, Y: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("out of bounds: got %v", err)
	}
}

func TestResign(t *testing.T) {
	g := seatedGame(t, "")
	if err := g.Resign("third"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("stranger resigns: got %v", err)
	}
	if err := g.Resign(whiteID); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	state := g.GetState()
	if *state.Resolve != ResolutionResignation || *state.Winner != engine.Black {
		t.Errorf("resolve %v winner %v", *state.Resolve, *state.Winner)
	}
	if err := g.Resign(blackID); !errors.Is(err, ErrGameOver) {
		t.Errorf("resign after end: got %v", err)
	}
}

func TestDrawOffers(t *testing.T) {
	g := seatedGame(t, "")

	if err := g.AcceptDraw(blackID); !errors.Is(err, ErrNoDrawOffer) {
		t.Errorf("accept without offer: got %v", err)
	}
	if err := g.OfferDraw(whiteID); err != nil {
		t.Fatalf("OfferDraw: %v", err)
	}
	if err := g.AcceptDraw(whiteID); !errors.Is(err, ErrNoDrawOffer) {
		t.Errorf("accept own offer: got %v", err)
	}
	if err := g.DeclineDraw(blackID); err != nil {
		t.Fatalf("DeclineDraw: %v", err)
	}
	if g.GetState().DrawOfferedBy != nil {
		t.Error("offer survived decline")
	}

	// The offerer may keep playing; the offer lapses when the opponent moves instead.
	if err := g.OfferDraw(whiteID); err != nil {
		t.Fatalf("OfferDraw: %v", err)
	}
	mustMove(t, g, whiteID, "e2", "e4")
	if g.GetState().DrawOfferedBy == nil {
		t.Error("offer lapsed on the offerer's own move")
	}
	mustMove(t, g, blackID, "e7", "e5")
	if g.GetState().DrawOfferedBy != nil {
		t.Error("offer survived the opponent's move")
	}

	if err := g.OfferDraw(blackID); err != nil {
		t.Fatalf("OfferDraw: %v", err)
	}
	if err := g.AcceptDraw(whiteID); err != nil {
		t.Fatalf("AcceptDraw: %v", err)
	}
	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolutionAgreement || state.Winner != nil {
		t.Errorf("resolve %v winner %v", state.Resolve, state.Winner)
	}
}

func TestNewGameFromFEN(t *testing.T) {
	if _, err := NewGameFromFEN("x", "not a fen"); !errors.Is(err, ErrInvalidFEN) {
		t.Errorf("invalid FEN: got %v want ErrInvalidFEN", err)
	}

	// Black is already mated.
	g, err := NewGameFromFEN("x", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	if err != nil {
		t.Fatalf("NewGameFromFEN: %v", err)
	}
	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolutionCheckmate {
		t.Errorf("resolve: got %v", state.Resolve)
	}
	if state.Board.FEN != "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1" {
		t.Errorf("fen: got %q", state.Board.FEN)
	}
}

func TestBroadcastState(t *testing.T) {
	g := seatedGame(t, "")
	white, spectator, broken := &fakeConn{}, &fakeConn{}, &fakeConn{}

	if err := g.RegisterConnection(whiteID, white); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if err := g.RegisterConnection("spectator", spectator); err != nil {
		t.Fatalf("RegisterConnection spectator: %v", err)
	}
	if err := g.RegisterConnection(blackID, broken); err != nil {
		t.Fatalf("RegisterConnection black: %v", err)
	}
	if err := g.RegisterConnection(whiteID, &fakeConn{}); !errors.Is(err, ErrDuplicateConnection) {
		t.Errorf("duplicate connection: got %v", err)
	}
	if white.count() != 1 {
		t.Fatalf("initial state not sent: %d messages", white.count())
	}
	if !white.lastState(t).Players.White.Connected {
		t.Error("white not marked connected")
	}

	broken.mu.Lock()
	broken.fail = true
	broken.mu.Unlock()

	mustMove(t, g, whiteID, "e2", "e4")

	for name, conn := range map[string]*fakeConn{"white": white, "spectator": spectator} {
		state := conn.lastState(t)
		if state.ToMove != engine.Black {
			t.Errorf("%s: toMove %v", name, state.ToMove)
		}
		if p := state.Board.Board[4][4]; p == nil || p.Type != engine.Pawn || p.Symbol != "♙" {
			t.Errorf("%s: e4 got %+v", name, p)
		}
	}
	if n := g.connections.Len(); n != 2 {
		t.Errorf("connections after failed write: got %d want 2", n)
	}
	if g.GetState().Players.Black.Connected {
		t.Error("dropped black connection still marked connected")
	}

	g.UnregisterConnection(whiteID)
	mustMove(t, g, blackID, "e7", "e5")
	if white.count() != 2 {
		t.Errorf("unregistered connection still receives state: %d messages", white.count())
	}
}

func TestRecord(t *testing.T) {
	g := seatedGame(t, "")
	if _, ok := g.Record(); ok {
		t.Error("running game produced a record")
	}
	mustMove(t, g, whiteID, "e2", "e4")
	if err := g.Resign(blackID); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	rec, ok := g.Record()
	if !ok {
		t.Fatal("finished game produced no record")
	}
	if rec.White != whiteID || rec.Black != blackID || rec.Result != ResolutionResignation {
		t.Errorf("record: %+v", rec)
	}
	if rec.Winner == nil || *rec.Winner != engine.White {
		t.Errorf("winner: %v", rec.Winner)
	}
	if len(rec.Moves) != 1 || rec.FinishedAt.IsZero() {
		t.Errorf("moves %d finishedAt %v", len(rec.Moves), rec.FinishedAt)
	}
}
