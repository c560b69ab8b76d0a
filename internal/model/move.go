package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

// WSMove is a move request from a client. Promotion may be left empty and
// supplied later with a promote message.
type WSMove struct {
	From      Position         `json:"from"`
	To        Position         `json:"to"`
	Promotion engine.PieceType `json:"promotion,omitempty"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type Ply struct {
	Piece          engine.Piece     `json:"piece"`
	From           Position         `json:"from"`
	To             Position         `json:"to"`
	CapturedPiece  *engine.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove  `json:"castleRookMove"`
	Special        engine.Special   `json:"special,omitempty"`
	Promotion      engine.PieceType `json:"promotion,omitempty"`
	Check          bool             `json:"check"`
	Notation       string           `json:"notation"`
}

// Move pairs a white ply with black's reply. BlackPly is nil until black moves.
type Move struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// LegalMove is the wire form of an engine.Move from a known square.
type LegalMove struct {
	From    Position       `json:"from"`
	To      Position       `json:"to"`
	Capture bool           `json:"capture"`
	Special engine.Special `json:"special,omitempty"`
}

func newLegalMoves(from engine.Square, moves []engine.Move) []LegalMove {
	out := make([]LegalMove, 0, len(moves))
	for _, m := range moves {
		out = append(out, LegalMove{
			From:    PositionOf(from),
			To:      PositionOf(m.To),
			Capture: m.Capture,
			Special: m.Special,
		})
	}
	return out
}
