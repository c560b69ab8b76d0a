package engine

// Outcome is the state of the game from the point of view of the side to move.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Status summarises a fully resolved position with sideToMove to play.
type Status struct {
	InCheck    bool    `json:"inCheck"`
	HasAnyMove bool    `json:"hasAnyMove"`
	Outcome    Outcome `json:"outcome"`
	// Winner is meaningful only for Checkmate: the side that just moved.
	Winner Color `json:"winner"`
}

func (s Status) IsOver() bool {
	return s.Outcome != Ongoing
}

// Evaluate classifies b after a move has been applied and any promotion resolved.
func Evaluate(b Board, sideToMove Color) Status {
	st := Status{
		InCheck:    IsKingInCheck(b, sideToMove),
		HasAnyMove: HasAnyLegalMove(b, sideToMove),
	}
	switch {
	case !st.HasAnyMove && st.InCheck:
		st.Outcome = Checkmate
		st.Winner = sideToMove.Opponent()
	case !st.HasAnyMove:
		st.Outcome = Stalemate
	}
	return st
}
