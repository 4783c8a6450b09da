package app

import (
	"maps"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// AIKey is the scoreboard key of the computer player.
const AIKey = "AI"

// Human is the mark the human plays; the computer plays ai.Computer.
const Human = domain.X

// Session is one human-vs-computer match plus its running scoreboard.
type Session struct {
	ID         string
	PlayerName string
	Difficulty ai.Difficulty
	AIFirst    bool
	Game       domain.Game
	// Scores counts wins keyed by PlayerName and AIKey. Draws are not counted.
	Scores  map[string]int
	Created time.Time
	Updated time.Time
}

func (s *Session) clone() Session {
	cp := *s
	cp.Scores = maps.Clone(s.Scores)
	return cp
}

// NameOf returns the display name of whoever plays mark.
func (s Session) NameOf(mark domain.Cell) string {
	if mark == ai.Computer {
		return AIKey
	}
	return s.PlayerName
}

// Status is the line shown above the board.
func (s Session) Status() string {
	out := s.Game.Outcome
	switch out.Status {
	case domain.Draw:
		return "It's a draw!"
	case domain.Won:
		return s.NameOf(out.Winner) + " wins!"
	default:
		return "Current player: " + s.NameOf(s.Game.Turn)
	}
}

// Ranking returns scoreboard entries with the human first and the computer second.
func (s Session) Ranking() []ScoreEntry {
	return []ScoreEntry{
		{Name: s.PlayerName, Wins: s.Scores[s.PlayerName]},
		{Name: AIKey, Wins: s.Scores[AIKey]},
	}
}

// ScoreEntry is one scoreboard row.
type ScoreEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
