// Package engine implements the rules of standard chess over an immutable
// board value: attack detection, pseudo-legal and legal move generation,
// move application (castling, en passant, promotion) and terminal-state
// detection. Every function is pure; boards are copied, never mutated in
// place on behalf of a caller.
package engine

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

// Square addresses a board cell. Row 0 is black's back rank, column 0 is the a-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// String renders the square in algebraic coordinates, e.g. row 7 col 4 is "e1".
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, Size-s.Row)
}

// File is the file letter of the square.
func (s Square) File() string {
	return string(rune('a' + s.Col))
}

// ParseSquare converts a coordinate such as "e4" into a Square.
func ParseSquare(coord string) (Square, error) {
	if len(coord) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", coord)
	}
	file, rank := coord[0], coord[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("invalid square %q", coord)
	}
	return Square{Row: Size - int(rank-'0'), Col: int(file - 'a')}, nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(coord string) Square {
	sq, err := ParseSquare(coord)
	if err != nil {
		panic(err)
	}
	return sq
}

type slot struct {
	piece    Piece
	occupied bool
}

// Board is an 8x8 grid of optional pieces. It is a value type: assigning or
// passing a Board copies it, and every exported method that changes the
// position returns a new Board.
type Board struct {
	squares [Size][Size]slot
}

var backRank = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	var b Board
	for col, pt := range backRank {
		b.put(Square{Row: Black.backRow(), Col: col}, Piece{Type: pt, Color: Black})
		b.put(Square{Row: White.backRow(), Col: col}, Piece{Type: pt, Color: White})
		b.put(Square{Row: Black.pawnRow(), Col: col}, Piece{Type: Pawn, Color: Black})
		b.put(Square{Row: White.pawnRow(), Col: col}, Piece{Type: Pawn, Color: White})
	}
	return b
}

// At reports the piece on sq. Out-of-bounds squares are empty.
func (b Board) At(sq Square) (Piece, bool) {
	if !sq.InBounds() {
		return Piece{}, false
	}
	s := b.squares[sq.Row][sq.Col]
	return s.piece, s.occupied
}

func (b Board) IsEmpty(sq Square) bool {
	_, ok := b.At(sq)
	return !ok
}

// With returns a copy of the board with p placed on sq.
func (b Board) With(sq Square, p Piece) Board {
	b.put(sq, p)
	return b
}

// Without returns a copy of the board with sq emptied.
func (b Board) Without(sq Square) Board {
	b.remove(sq)
	return b
}

// Each calls fn for every occupied square in row-major order.
func (b Board) Each(fn func(Square, Piece)) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if s := b.squares[row][col]; s.occupied {
				fn(Square{Row: row, Col: col}, s.piece)
			}
		}
	}
}

// FindKing returns the square of color's king. With more than one king the
// first in row-major order wins.
func (b Board) FindKing(color Color) (Square, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			s := b.squares[row][col]
			if s.occupied && s.piece.Type == King && s.piece.Color == color {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// put and remove mutate the receiver; they are only used on private copies.
func (b *Board) put(sq Square, p Piece) {
	if !sq.InBounds() {
		return
	}
	b.squares[sq.Row][sq.Col] = slot{piece: p, occupied: true}
}

func (b *Board) remove(sq Square) {
	if !sq.InBounds() {
		return
	}
	b.squares[sq.Row][sq.Col] = slot{}
}

func (b *Board) clearEnPassant() {
	for row := range b.squares {
		for col := range b.squares[row] {
			b.squares[row][col].piece.EnPassantEligible = false
		}
	}
}

// String draws the board with rank 8 at the top, using FEN letters and '.' for empty squares.
func (b Board) String() string {
	out := make([]byte, 0, Size*(Size*2+3))
	for row := 0; row < Size; row++ {
		out = append(out, byte('0'+Size-row), ' ')
		for col := 0; col < Size; col++ {
			p, ok := b.At(Square{Row: row, Col: col})
			if ok {
				out = append(out, p.fenRune())
			} else {
				out = append(out, '.')
			}
			if col < Size-1 {
				out = append(out, ' ')
			}
		}
		out = append(out, '\n')
	}
	out = append(out, "  a b c d e f g h\n"...)
	return string(out)
}
