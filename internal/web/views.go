package web

import (
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// sessionView is the JSON shape of a session shared by the API and the WebSocket feed.
type sessionView struct {
	ID         string           `json:"id"`
	Player     string           `json:"player"`
	Difficulty ai.Difficulty    `json:"difficulty"`
	AIFirst    bool             `json:"ai_first"`
	Board      string           `json:"board"`
	Cells      []string         `json:"cells"`
	Turn       string           `json:"turn,omitempty"`
	Status     string           `json:"status"`
	Winner     string           `json:"winner,omitempty"`
	Message    string           `json:"message"`
	Moves      int              `json:"moves"`
	LastMove   *int             `json:"last_move,omitempty"`
	Scores     []app.ScoreEntry `json:"scores"`
}

func newSessionView(s app.Session) sessionView {
	g := s.Game
	v := sessionView{
		ID:         s.ID,
		Player:     s.PlayerName,
		Difficulty: s.Difficulty,
		AIFirst:    s.AIFirst,
		Board:      g.Board.String(),
		Cells:      cells(g.Board),
		Status:     g.Outcome.Status.String(),
		Message:    s.Status(),
		Moves:      g.Moves,
		Scores:     s.Ranking(),
	}
	if g.Over() {
		v.Winner = g.Outcome.Winner.String()
	} else {
		v.Turn = g.Turn.String()
	}
	if g.Last >= 0 {
		last := g.Last
		v.LastMove = &last
	}
	return v
}

func cells(b domain.Board) []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = c.String()
	}
	return out
}
