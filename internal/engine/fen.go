package engine

import (
	"fmt"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads the placement, side to move, castling and en-passant
// fields of a FEN record. Castling availability becomes HasMoved on the king
// and corner rooks; the en-passant target marks the pawn that just
// double-stepped as eligible. Move counters, when present, are ignored.
func ParseFEN(fen string) (Board, Color, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return Board{}, White, fmt.Errorf("fen %q: want at least 2 fields, got %d", fen, len(fields))
	}

	var b Board
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != Size {
		return Board{}, White, fmt.Errorf("fen %q: want %d ranks, got %d", fen, Size, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			pt, err := ParsePieceType(string(c))
			if err != nil {
				return Board{}, White, fmt.Errorf("fen %q: %w", fen, err)
			}
			if col >= Size {
				return Board{}, White, fmt.Errorf("fen %q: rank %d overflows", fen, Size-row)
			}
			color := White
			if c >= 'a' && c <= 'z' {
				color = Black
			}
			p := Piece{Type: pt, Color: color}
			switch pt {
			case Pawn:
				p.HasMoved = row != color.pawnRow()
			case King, Rook:
				p.HasMoved = true
			}
			b.put(Square{Row: row, Col: col}, p)
			col++
		}
		if col != Size {
			return Board{}, White, fmt.Errorf("fen %q: rank %d has %d files", fen, Size-row, col)
		}
	}

	toMove, err := ParseColor(fields[1])
	if err != nil {
		return Board{}, White, fmt.Errorf("fen %q: %w", fen, err)
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, r := range fields[2] {
			if err := b.grantCastling(r); err != nil {
				return Board{}, White, fmt.Errorf("fen %q: %w", fen, err)
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil {
			return Board{}, White, fmt.Errorf("fen %q: %w", fen, err)
		}
		// The side that just moved is the one not to move.
		mover := toMove.Opponent()
		pawnSq := target.offset(mover.forward(), 0)
		if p, ok := b.At(pawnSq); ok && p.Type == Pawn && p.Color == mover {
			p.EnPassantEligible = true
			b.put(pawnSq, p)
		}
	}

	return b, toMove, nil
}

func (b *Board) grantCastling(r rune) error {
	var color Color
	var corner int
	switch r {
	case 'K':
		color, corner = White, Size-1
	case 'Q':
		color, corner = White, 0
	case 'k':
		color, corner = Black, Size-1
	case 'q':
		color, corner = Black, 0
	default:
		return fmt.Errorf("unknown castling flag %q", r)
	}
	row := color.backRow()
	kingSq := Square{Row: row, Col: 4}
	rookSq := Square{Row: row, Col: corner}
	king, kok := b.At(kingSq)
	rook, rok := b.At(rookSq)
	if !kok || king.Type != King || king.Color != color || !rok || rook.Type != Rook || rook.Color != color {
		return fmt.Errorf("castling flag %q without king and rook on their squares", r)
	}
	king.HasMoved = false
	rook.HasMoved = false
	b.put(kingSq, king)
	b.put(rookSq, rook)
	return nil
}

// FEN renders b as a FEN record with zeroed move counters.
func FEN(b Board, toMove Color) string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		empty := 0
		for col := 0; col < Size; col++ {
			p, ok := b.At(Square{Row: row, Col: col})
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.fenRune())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < Size-1 {
			sb.WriteByte('/')
		}
	}

	if toMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	rights := ""
	for _, c := range []struct {
		flag   string
		color  Color
		corner int
	}{
		{"K", White, Size - 1}, {"Q", White, 0}, {"k", Black, Size - 1}, {"q", Black, 0},
	} {
		row := c.color.backRow()
		king, kok := b.At(Square{Row: row, Col: 4})
		rook, rok := b.At(Square{Row: row, Col: c.corner})
		if kok && king.Type == King && king.Color == c.color && !king.HasMoved &&
			rok && rook.Type == Rook && rook.Color == c.color && !rook.HasMoved {
			rights += c.flag
		}
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	target := "-"
	b.Each(func(sq Square, p Piece) {
		if p.Type == Pawn && p.EnPassantEligible {
			target = sq.offset(-p.Color.forward(), 0).String()
		}
	})
	sb.WriteString(" " + target + " 0 1")
	return sb.String()
}
