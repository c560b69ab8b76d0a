package model

import (
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

// GameRecord is the archived summary of a finished game.
type GameRecord struct {
	ID         string        `json:"id"`
	White      string        `json:"white"`
	Black      string        `json:"black"`
	Result     Resolution    `json:"result"`
	Winner     *engine.Color `json:"winner,omitempty"`
	FinalFEN   string        `json:"finalFen"`
	Moves      []Move        `json:"moves"`
	FinishedAt time.Time     `json:"finishedAt"`
}

// Record summarises the game. ok is false while the game is still running.
func (g *Game) Record() (GameRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve == nil {
		return GameRecord{}, false
	}
	s := g.snapshot()
	return GameRecord{
		ID:         g.ID,
		White:      s.Players.White.ID,
		Black:      s.Players.Black.ID,
		Result:     *s.Resolve,
		Winner:     s.Winner,
		FinalFEN:   s.Board.FEN,
		Moves:      s.MoveHistory,
		FinishedAt: g.finishedAt,
	}, true
}
