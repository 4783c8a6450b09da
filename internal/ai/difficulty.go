package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects how the computer picks its moves.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// ErrUnknownDifficulty is returned for values outside Easy..Hard.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulties lists the tiers in increasing strength.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the defined tiers.
func (d Difficulty) Valid() bool { return d <= Hard }

// Next cycles easy -> medium -> hard -> easy.
func (d Difficulty) Next() Difficulty { return (d + 1) % (Hard + 1) }

// ParseDifficulty accepts "easy", "medium" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
