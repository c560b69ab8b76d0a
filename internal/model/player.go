package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID        string       `json:"name"`
	Color     engine.Color `json:"color"`
	Connected bool         `json:"connected"`
}

// Seats holds the two players of a game. An empty ID is a free seat.
type Seats struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (s *Seats) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return engine.White, false
	case s.White.ID == playerID:
		return engine.White, true
	case s.Black.ID == playerID:
		return engine.Black, true
	}
	return engine.White, false
}

func (s *Seats) seat(c engine.Color) *ClientPlayer {
	if c == engine.White {
		return &s.White
	}
	return &s.Black
}
