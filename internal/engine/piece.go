package engine

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row delta of a pawn advance. White moves toward row 0.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// pawnRow is the rank a pawn of this color starts on.
func (c Color) pawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

// backRow is the rank the pieces of this color start on.
func (c Color) backRow() int {
	if c == White {
		return Size - 1
	}
	return 0
}

// promotionRow is the far rank for a pawn of this color.
func (c Color) promotionRow() int {
	return c.Opponent().backRow()
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// PieceType is the closed set of chess pieces. The zero value is not a piece.
type PieceType uint8

const (
	Pawn PieceType = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionChoices lists the piece types a pawn may promote to, strongest first.
var PromotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return fmt.Sprintf("PieceType(%d)", uint8(p))
}

// Letter is the upper-case piece letter used by FEN. Pawns are "P".
func (p PieceType) Letter() byte {
	switch p {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '?'
}

// Symbol returns the Unicode chess glyph for the piece in the given color.
func (p PieceType) Symbol(c Color) string {
	if c == White {
		switch p {
		case Pawn:
			return "♙"
		case Knight:
			return "♘"
		case Bishop:
			return "♗"
		case Rook:
			return "♖"
		case Queen:
			return "♕"
		case King:
			return "♔"
		}
		return ""
	}
	switch p {
	case Pawn:
		return "♟"
	case Knight:
		return "♞"
	case Bishop:
		return "♝"
	case Rook:
		return "♜"
	case Queen:
		return "♛"
	case King:
		return "♚"
	}
	return ""
}

func (p PieceType) IsPromotionChoice() bool {
	for _, choice := range PromotionChoices {
		if p == choice {
			return true
		}
	}
	return false
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText leaves an empty string as the zero PieceType so optional
// fields such as a move's promotion choice can be omitted.
func (p *PieceType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = 0
		return nil
	}
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePieceType accepts the long names ("queen") and FEN letters in either case.
func ParsePieceType(s string) (PieceType, error) {
	switch s {
	case "pawn", "p", "P":
		return Pawn, nil
	case "knight", "n", "N":
		return Knight, nil
	case "bishop", "b", "B":
		return Bishop, nil
	case "rook", "r", "R":
		return Rook, nil
	case "queen", "q", "Q":
		return Queen, nil
	case "king", "k", "K":
		return King, nil
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

// Piece is a value: boards hold copies, never shared references.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
	// EnPassantEligible is only ever set on a pawn that just advanced two squares.
	EnPassantEligible bool `json:"enPassantEligible,omitempty"`
}

func (p Piece) Symbol() string {
	return p.Type.Symbol(p.Color)
}

// fenRune is the FEN letter, upper case for white.
func (p Piece) fenRune() byte {
	l := p.Type.Letter()
	if p.Color == Black {
		return l + ('a' - 'A')
	}
	return l
}
