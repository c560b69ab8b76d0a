package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

// Resolution is how a finished game ended.
type Resolution string

const (
	ResolutionCheckmate   Resolution = "checkmate"
	ResolutionStalemate   Resolution = "stalemate"
	ResolutionResignation Resolution = "resignation"
	ResolutionAgreement   Resolution = "agreement"
)

// Sound hints let clients pick an effect for the last state change.
const (
	SoundMove     = "move"
	SoundCapture  = "capture"
	SoundCastle   = "castle"
	SoundPromote  = "promote"
	SoundCheck    = "check"
	SoundGameOver = "gameOver"
)

// Game owns the current position of one game and the observers watching it.
// All rule questions are answered by the engine; Game only enforces turn
// order and the request contract.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       engine.Board
	state       GameState
	pending     *engine.MoveResult
	finishedAt  time.Time
	connections *GameConnections
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          BoardState     `json:"boardState"`
	ToMove         engine.Color   `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *Resolution    `json:"resolve"`
	Winner         *engine.Color  `json:"winner"`
	Players        Seats          `json:"players"`
	// PromotionSquare is set while the side to move must choose a promotion piece.
	PromotionSquare *Position     `json:"promotionSquare"`
	DrawOfferedBy   *engine.Color `json:"drawOfferedBy"`
	LastMove        *SimpleMove   `json:"lastMove"`
}

// CapturedPieces lists, per capturing side, the enemy pieces it has taken.
type CapturedPieces struct {
	White []engine.Piece `json:"white"`
	Black []engine.Piece `json:"black"`
}

func NewGame(id string) *Game {
	return newGame(id, engine.NewBoard(), engine.White)
}

// NewGameFromFEN starts a game from a custom position.
func NewGameFromFEN(id, fen string) (*Game, error) {
	b, toMove, err := engine.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	g := newGame(id, b, toMove)
	// A position may already be decided.
	g.evaluate()
	return g, nil
}

func newGame(id string, b engine.Board, toMove engine.Color) *Game {
	return &Game{
		ID:    id,
		board: b,
		state: GameState{
			Board:       newBoardState(b, toMove),
			ToMove:      toMove,
			MoveHistory: make([]Move, 0),
			CapturedPieces: CapturedPieces{
				White: make([]engine.Piece, 0),
				Black: make([]engine.Piece, 0),
			},
			IsCheck: engine.IsKingInCheck(b, toMove),
			Players: Seats{
				White: ClientPlayer{Color: engine.White},
				Black: ClientPlayer{Color: engine.Black},
			},
		},
		connections: NewGameConnections(),
	}
}

func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.state.Players.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []engine.Color{engine.White, engine.Black} {
		if seat := g.state.Players.seat(c); seat.ID == "" {
			seat.ID = playerID
			return c, nil
		}
	}
	return engine.White, ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

// Board returns the current position. The engine board is a value, so the
// caller gets its own copy.
func (g *Game) Board() engine.Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.state.Players.colorOf(playerID)
	return ok
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.Resolve != nil
}

// LegalMoves lists the legal moves from pos. Only the side to move has moves,
// and none while the game is over or a promotion is pending.
func (g *Game) LegalMoves(pos Position) ([]LegalMove, error) {
	if !pos.InBounds() {
		return nil, ErrOutOfBounds
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	from := pos.Square()
	piece, ok := g.board.At(from)
	if !ok || piece.Color != g.state.ToMove || g.state.Resolve != nil || g.pending != nil {
		return []LegalMove{}, nil
	}
	return newLegalMoves(from, engine.LegalMoves(g.board, from)), nil
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	return g.update(func() error { return g.makeMove(playerID, move) })
}

func (g *Game) makeMove(playerID string, move WSMove) error {
	if g.state.Resolve != nil {
		return ErrGameOver
	}
	if g.pending != nil {
		return ErrPromotionPending
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		return ErrOutOfBounds
	}
	if move.Promotion != 0 && !move.Promotion.IsPromotionChoice() {
		return fmt.Errorf("%w: %s", ErrBadPromotion, move.Promotion)
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.state.ToMove {
		return ErrNotYourTurn
	}

	from, to := move.From.Square(), move.To.Square()
	piece, ok := g.board.At(from)
	if !ok {
		return ErrNoPiece
	}
	if piece.Color != g.state.ToMove {
		return ErrNotYourTurn
	}
	if _, ok := engine.IsLegal(g.board, from, to); !ok {
		return fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	res := engine.ApplyMove(g.board, from, to)
	ply := Ply{
		Piece:         piece,
		From:          move.From,
		To:            move.To,
		CapturedPiece: res.Captured,
		Special:       res.Special,
		Notation:      notation(g.board, from, to, piece, res.Captured != nil, res.Special),
	}
	g.board = res.Board

	if res.Special.IsCastle() {
		rookFrom, rookTo := castleRook(from, res.Special)
		ply.CastleRookMove = &CastleRookMove{From: PositionOf(rookFrom), To: PositionOf(rookTo)}
	}
	if res.Captured != nil {
		g.recordCapture(piece.Color, *res.Captured)
	}
	g.state.LastMove = &SimpleMove{From: move.From, To: move.To}

	if res.PromotionPending {
		if move.Promotion == 0 {
			g.pending = &res
			g.appendPly(ply)
			sq := PositionOf(res.PromotionSquare)
			g.state.PromotionSquare = &sq
			g.state.Sound = SoundPromote
			g.state.Board = newBoardState(g.board, g.state.ToMove)
			return nil
		}
		g.board = engine.ResolvePromotion(g.board, res.PromotionSquare, res.PromotionColor, move.Promotion)
		ply.Promotion = move.Promotion
		ply.Notation += promotionSuffix(move.Promotion)
	}

	g.appendPly(ply)
	g.finishTurn(soundFor(ply))
	return nil
}

// Promote resolves a pending promotion with the chosen piece type.
func (g *Game) Promote(playerID string, choice engine.PieceType) error {
	return g.update(func() error { return g.promote(playerID, choice) })
}

func (g *Game) promote(playerID string, choice engine.PieceType) error {
	if g.pending == nil {
		return ErrNoPromotion
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.pending.PromotionColor {
		return ErrNotYourTurn
	}
	if !choice.IsPromotionChoice() {
		return fmt.Errorf("%w: %s", ErrBadPromotion, choice)
	}

	g.board = engine.ResolvePromotion(g.board, g.pending.PromotionSquare, g.pending.PromotionColor, choice)
	g.pending = nil
	g.state.PromotionSquare = nil

	ply := g.lastPly()
	ply.Promotion = choice
	ply.Notation += promotionSuffix(choice)
	g.finishTurn(SoundPromote)
	return nil
}

// finishTurn hands the move to the other side and runs terminal-state detection.
func (g *Game) finishTurn(sound string) {
	mover := g.state.ToMove
	g.state.ToMove = mover.Opponent()
	if g.state.DrawOfferedBy != nil && *g.state.DrawOfferedBy != mover {
		// Moving instead of answering declines the offer.
		g.state.DrawOfferedBy = nil
	}
	g.state.Sound = sound
	g.evaluate()
	if g.state.IsCheck {
		ply := g.lastPly()
		ply.Check = true
		if g.state.Resolve == nil {
			ply.Notation += "+"
			g.state.Sound = SoundCheck
		} else {
			ply.Notation += "#"
		}
	}
}

func (g *Game) evaluate() {
	st := engine.Evaluate(g.board, g.state.ToMove)
	g.state.IsCheck = st.InCheck
	switch st.Outcome {
	case engine.Checkmate:
		winner := st.Winner
		g.end(ResolutionCheckmate, &winner)
	case engine.Stalemate:
		g.end(ResolutionStalemate, nil)
	}
	g.state.Board = newBoardState(g.board, g.state.ToMove)
}

func (g *Game) end(how Resolution, winner *engine.Color) {
	g.state.Resolve = &how
	g.state.Winner = winner
	g.state.DrawOfferedBy = nil
	g.state.Sound = SoundGameOver
	g.finishedAt = time.Now()
}

func (g *Game) Resign(playerID string) error {
	return g.update(func() error {
		color, err := g.activePlayer(playerID)
		if err != nil {
			return err
		}
		winner := color.Opponent()
		g.end(ResolutionResignation, &winner)
		return nil
	})
}

func (g *Game) OfferDraw(playerID string) error {
	return g.update(func() error {
		color, err := g.activePlayer(playerID)
		if err != nil {
			return err
		}
		g.state.DrawOfferedBy = &color
		return nil
	})
}

func (g *Game) AcceptDraw(playerID string) error {
	return g.update(func() error {
		color, err := g.activePlayer(playerID)
		if err != nil {
			return err
		}
		if g.state.DrawOfferedBy == nil || *g.state.DrawOfferedBy == color {
			return ErrNoDrawOffer
		}
		g.end(ResolutionAgreement, nil)
		return nil
	})
}

func (g *Game) DeclineDraw(playerID string) error {
	return g.update(func() error {
		color, err := g.activePlayer(playerID)
		if err != nil {
			return err
		}
		if g.state.DrawOfferedBy == nil || *g.state.DrawOfferedBy == color {
			return ErrNoDrawOffer
		}
		g.state.DrawOfferedBy = nil
		return nil
	})
}

// update runs fn under the game lock and broadcasts the new state if fn succeeds.
func (g *Game) update(fn func() error) error {
	g.mu.Lock()
	err := fn()
	snapshot := g.snapshot()
	g.mu.Unlock()

	if err != nil {
		return err
	}
	g.broadcastState(snapshot)
	return nil
}

// activePlayer is the color of a seated player in a game that is still running.
func (g *Game) activePlayer(playerID string) (engine.Color, error) {
	if g.state.Resolve != nil {
		return engine.White, ErrGameOver
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return engine.White, ErrNotInGame
	}
	return color, nil
}

func (g *Game) recordCapture(by engine.Color, p engine.Piece) {
	if by == engine.White {
		g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, p)
	} else {
		g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, p)
	}
}

func (g *Game) appendPly(ply Ply) {
	if ply.Piece.Color == engine.White || len(g.state.MoveHistory) == 0 {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{Number: len(g.state.MoveHistory) + 1})
	}
	last := &g.state.MoveHistory[len(g.state.MoveHistory)-1]
	if ply.Piece.Color == engine.White {
		last.WhitePly = &ply
	} else {
		last.BlackPly = &ply
	}
}

func (g *Game) lastPly() *Ply {
	last := g.state.MoveHistory[len(g.state.MoveHistory)-1]
	if last.BlackPly != nil {
		return last.BlackPly
	}
	return last.WhitePly
}

// snapshot copies the state so it can be marshalled outside the lock.
func (g *Game) snapshot() GameState {
	s := g.state
	s.MoveHistory = make([]Move, len(g.state.MoveHistory))
	for i, m := range g.state.MoveHistory {
		s.MoveHistory[i] = Move{Number: m.Number, WhitePly: copyPly(m.WhitePly), BlackPly: copyPly(m.BlackPly)}
	}
	s.CapturedPieces = CapturedPieces{
		White: append([]engine.Piece{}, g.state.CapturedPieces.White...),
		Black: append([]engine.Piece{}, g.state.CapturedPieces.Black...),
	}
	return s
}

func copyPly(p *Ply) *Ply {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func soundFor(ply Ply) string {
	switch {
	case ply.Promotion != 0:
		return SoundPromote
	case ply.Special.IsCastle():
		return SoundCastle
	case ply.CapturedPiece != nil:
		return SoundCapture
	}
	return SoundMove
}

func castleRook(kingFrom engine.Square, special engine.Special) (engine.Square, engine.Square) {
	row := kingFrom.Row
	if special == engine.SpecialCastleKingside {
		return engine.Square{Row: row, Col: engine.Size - 1}, engine.Square{Row: row, Col: kingFrom.Col + 1}
	}
	return engine.Square{Row: row, Col: 0}, engine.Square{Row: row, Col: kingFrom.Col - 1}
}

func (g *Game) marshalState(state GameState) (ws.Message, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return ws.Message{}, err
	}
	return ws.Message{Type: ws.MessageTypeGameState, Payload: payload}, nil
}
