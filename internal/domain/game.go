package domain

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
	Board   Board
	Turn    Cell
	Outcome Outcome
	Moves   int
	// Last is the index of the most recent move, or -1.
	Last int
}

// New returns a new game with first to move. Anything other than O starts with X.
func New(first Cell) Game {
	if first != O {
		first = X
	}
	return Game{Turn: first, Last: -1}
}

// Over reports whether the game has reached a terminal state.
func (g Game) Over() bool { return g.Outcome.Terminal() }

// Play places the current turn's mark at index (0..8).
func (g *Game) Play(index int) error {
	if g.Over() {
		return ErrGameOver
	}
	next, err := ApplyMove(g.Board, index, g.Turn)
	if err != nil {
		return err
	}
	g.Board = next
	g.Moves++
	g.Last = index
	g.Outcome = Evaluate(g.Board)
	if !g.Over() {
		g.Turn = g.Turn.Opponent()
	}
	return nil
}
