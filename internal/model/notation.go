package model

import (
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

// notation renders a move in short algebraic form ("Nbd7", "exd5", "O-O").
// b is the position before the move. Promotion and check suffixes are added
// once they are known.
func notation(b engine.Board, from, to engine.Square, piece engine.Piece, capture bool, special engine.Special) string {
	switch special {
	case engine.SpecialCastleKingside:
		return "O-O"
	case engine.SpecialCastleQueenside:
		return "O-O-O"
	}

	var sb strings.Builder
	if piece.Type == engine.Pawn {
		if capture {
			sb.WriteString(from.File())
		}
	} else {
		sb.WriteByte(piece.Type.Letter())
		sb.WriteString(disambiguate(b, from, to, piece))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())
	return sb.String()
}

// disambiguate names as little of the origin square as separates it from
// other pieces of the same kind that could also reach to.
func disambiguate(b engine.Board, from, to engine.Square, piece engine.Piece) string {
	var rivals, sameFile, sameRank bool
	b.Each(func(sq engine.Square, p engine.Piece) {
		if sq == from || p.Type != piece.Type || p.Color != piece.Color {
			return
		}
		if _, ok := engine.IsLegal(b, sq, to); !ok {
			return
		}
		rivals = true
		if sq.Col == from.Col {
			sameFile = true
		}
		if sq.Row == from.Row {
			sameRank = true
		}
	})

	coord := from.String()
	switch {
	case !rivals:
		return ""
	case !sameFile:
		return coord[:1]
	case !sameRank:
		return coord[1:]
	}
	return coord
}

func promotionSuffix(pt engine.PieceType) string {
	return "=" + string(pt.Letter())
}
