package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

// BoardState is the client view of an engine.Board: rows from rank 8 down to
// rank 1, nil for empty squares.
type BoardState struct {
	Board [][]*Piece `json:"board"`
	FEN   string     `json:"fen"`
}

type Piece struct {
	Type              engine.PieceType `json:"type"`
	Color             engine.Color     `json:"color"`
	Symbol            string           `json:"symbol"`
	Position          Position         `json:"position"`
	HasMoved          bool             `json:"hasMoved"`
	EnPassantEligible bool             `json:"enPassantEligible,omitempty"`
}

// Position is the wire form of a square: X is the column (a-file = 0), Y the row (rank 8 = 0).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Square() engine.Square {
	return engine.Square{Row: p.Y, Col: p.X}
}

func (p Position) InBounds() bool {
	return p.Square().InBounds()
}

func (p Position) String() string {
	return p.Square().String()
}

func PositionOf(sq engine.Square) Position {
	return Position{X: sq.Col, Y: sq.Row}
}

func newBoardState(b engine.Board, toMove engine.Color) BoardState {
	state := BoardState{
		Board: make([][]*Piece, engine.Size),
		FEN:   engine.FEN(b, toMove),
	}
	for row := range state.Board {
		state.Board[row] = make([]*Piece, engine.Size)
	}
	b.Each(func(sq engine.Square, p engine.Piece) {
		state.Board[sq.Row][sq.Col] = &Piece{
			Type:              p.Type,
			Color:             p.Color,
			Symbol:            p.Symbol(),
			Position:          PositionOf(sq),
			HasMoved:          p.HasMoved,
			EnPassantEligible: p.EnPassantEligible,
		}
	})
	return state
}
