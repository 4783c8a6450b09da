// Package ai picks moves for the computer player.
//
// The computer always plays O. Minimax scores are from O's point of view:
// O maximizes, X minimizes.
package ai

import (
	"errors"
	"fmt"
	"math"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// ErrNoMovesAvailable is returned when the board has no empty cell.
var ErrNoMovesAvailable = errors.New("no moves available")

// Computer is the mark the selector plays.
const Computer = domain.O

// winScore is the score of an immediate O win; deeper wins score less.
const winScore = 10

// SelectMove returns the index the computer plays on b.
// The caller must not pass a terminal board; a full board yields ErrNoMovesAvailable.
// A nil rng, typed or not, uses DefaultRand.
func SelectMove(b domain.Board, d Difficulty, rng Rand) (int, error) {
	if !d.Valid() {
		return -1, fmt.Errorf("%w: %d", ErrUnknownDifficulty, uint8(d))
	}
	empty := domain.EmptyCells(b)
	if len(empty) == 0 {
		return -1, ErrNoMovesAvailable
	}
	rng = orDefault(rng)
	switch d {
	case Easy:
		return randomMove(empty, rng), nil
	case Medium:
		if rng.Float64() > 0.5 {
			return BestMove(b), nil
		}
		return randomMove(empty, rng), nil
	default:
		return BestMove(b), nil
	}
}

func randomMove(empty []int, rng Rand) int {
	return empty[rng.IntN(len(empty))]
}

// BestMove returns the optimal move for O. Among equally scored moves the
// lowest index wins. It returns -1 when the board is full.
func BestMove(b domain.Board) int {
	best, bestScore := -1, math.MinInt
	scratch := b
	for _, i := range domain.EmptyCells(b) {
		scratch[i] = Computer
		score := minimax(&scratch, 0, false)
		scratch[i] = domain.Empty
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// ScoreMoves returns the minimax score of every empty cell as an O move.
func ScoreMoves(b domain.Board) map[int]int {
	out := make(map[int]int)
	scratch := b
	for _, i := range domain.EmptyCells(b) {
		scratch[i] = Computer
		out[i] = minimax(&scratch, 0, false)
		scratch[i] = domain.Empty
	}
	return out
}

// minimax scores b from O's point of view. Every placement is undone before returning.
func minimax(b *domain.Board, depth int, maximizing bool) int {
	out := domain.Evaluate(*b)
	switch {
	case out.Status == domain.Won && out.Winner == domain.O:
		return winScore - depth
	case out.Status == domain.Won:
		return depth - winScore
	case out.Status == domain.Draw:
		return 0
	}

	if maximizing {
		best := math.MinInt
		for i, c := range b {
			if c != domain.Empty {
				continue
			}
			b[i] = domain.O
			best = max(best, minimax(b, depth+1, false))
			b[i] = domain.Empty
		}
		return best
	}
	best := math.MaxInt
	for i, c := range b {
		if c != domain.Empty {
			continue
		}
		b[i] = domain.X
		best = min(best, minimax(b, depth+1, true))
		b[i] = domain.Empty
	}
	return best
}
