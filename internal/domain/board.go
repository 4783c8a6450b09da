package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String renders the mark, or "" for an empty cell.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// IsMark reports whether c is X or O.
func (c Cell) IsMark() bool { return c == X || c == O }

// Size is the number of cells on the board.
const Size = 9

// Board is a fixed 3x3 board stored row-major.
type Board [Size]Cell

// Errors returned by domain operations.
var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfBounds  = fmt.Errorf("%w: out of bounds", ErrInvalidMove)
	ErrOccupied     = fmt.Errorf("%w: cell occupied", ErrInvalidMove)
	ErrInvalidMark  = fmt.Errorf("%w: not a mark", ErrInvalidMove)
	ErrGameOver     = errors.New("game over")
	ErrInvalidBoard = errors.New("invalid board")
)

// lines lists the eight winning triples: rows, then columns, then diagonals.
var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Lines returns the eight winning index triples in scan order.
func Lines() [8][3]int { return lines }

// ApplyMove returns a copy of b with mark placed at index.
// The caller's board is never modified.
func ApplyMove(b Board, index int, mark Cell) (Board, error) {
	if index < 0 || index >= Size {
		return b, fmt.Errorf("index %d: %w", index, ErrOutOfBounds)
	}
	if !mark.IsMark() {
		return b, ErrInvalidMark
	}
	if b[index] != Empty {
		return b, fmt.Errorf("index %d: %w", index, ErrOccupied)
	}
	b[index] = mark
	return b, nil
}

// Evaluate reports whether the board is won, drawn or still in progress.
func Evaluate(b Board) Outcome {
	for _, ln := range lines {
		c := b[ln[0]]
		if c != Empty && c == b[ln[1]] && c == b[ln[2]] {
			return Outcome{Status: Won, Winner: c}
		}
	}
	if b.Full() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// EmptyCells returns the indices of empty cells in ascending order.
func EmptyCells(b Board) []int {
	out := make([]int, 0, Size)
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Full reports whether every cell holds a mark.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Count returns how many cells hold the given value.
func (b Board) Count(c Cell) int {
	n := 0
	for _, v := range b {
		if v == c {
			n++
		}
	}
	return n
}

// String renders the board as nine characters, '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Size)
	for _, c := range b {
		if c == Empty {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// BoardFromSlice converts a slice of cells to a Board. The slice must hold exactly nine cells.
func BoardFromSlice(cells []Cell) (Board, error) {
	var b Board
	if len(cells) != Size {
		return b, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, Size, len(cells))
	}
	for i, c := range cells {
		if c != Empty && !c.IsMark() {
			return b, fmt.Errorf("%w: cell %d holds %d", ErrInvalidBoard, i, c)
		}
		b[i] = c
	}
	return b, nil
}

// ParseBoard reads the format produced by Board.String. Empty cells may be
// written as '.', '-', '_' or ' '.
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != Size {
		return b, fmt.Errorf("%w: want %d characters, got %d", ErrInvalidBoard, Size, len(s))
	}
	for i := 0; i < Size; i++ {
		switch s[i] {
		case 'X', 'x':
			b[i] = X
		case 'O', 'o':
			b[i] = O
		case '.', '-', '_', ' ':
			b[i] = Empty
		default:
			return b, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, s[i], i)
		}
	}
	return b, nil
}

// ParseMark parses "X" or "O" (case-insensitive).
func ParseMark(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, s)
}
