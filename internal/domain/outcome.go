package domain

// Status is the coarse state of a board.
type Status uint8

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "in-progress"
	}
}

// Outcome is the result of evaluating a board. Winner is set only when Status is Won.
type Outcome struct {
	Status Status
	Winner Cell
}

// Terminal reports whether no further moves are accepted.
func (o Outcome) Terminal() bool { return o.Status != InProgress }

func (o Outcome) String() string {
	if o.Status == Won {
		return "winner(" + o.Winner.String() + ")"
	}
	return o.Status.String()
}
