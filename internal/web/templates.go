package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol":   func(c domain.Cell) string { return c.String() },
		"add":          func(a, b int) int { return a + b },
		"mul":          func(a, b int) int { return a * b },
		"difficulties": func() []ai.Difficulty { return ai.Difficulties },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic Tac Toe</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board-container" sse-swap="board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes(), err
}

// boardData feeds the board fragment.
type boardData struct {
	ID      string
	Session app.Session
	Error   string
}

// indexData feeds the setup form.
type indexData struct {
	Name       string
	Difficulty ai.Difficulty
	AIFirst    bool
	Error      string
}

const indexTemplate = `<h1>Tic Tac Toe</h1>
{{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
<form action="/game" method="post">
  <label for="name">Player Name</label>
  <input type="text" id="name" name="name" value="{{.Name}}" required>
  <label for="difficulty">Difficulty</label>
  <select id="difficulty" name="difficulty">
    {{range difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <label><input type="checkbox" name="ai_first" value="on"{{if .AIFirst}} checked{{end}}> Let AI go first</label>
  <button type="submit">Start Game</button>
</form>`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Session.Status}}</p>
  {{/* 3x3 grid */}}
  {{$over := .Session.Game.Over}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      {{$cell := index $.Session.Game.Board $i}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        <button type="submit"{{if or $over (cellSymbol $cell)}} disabled{{end}}>{{cellSymbol $cell}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <div class="scoreboard">
    <h2>Scoreboard</h2>
    {{range .Session.Ranking}}<div class="score"><span>{{.Name}}</span> <span>{{.Wins}}</span></div>{{end}}
  </div>
  <form hx-post="/game/{{.ID}}/difficulty" hx-target="#board" hx-swap="outerHTML" hx-trigger="change" method="post">
    <h2>AI Difficulty</h2>
    <select name="difficulty">
      {{range difficulties}}<option value="{{.}}"{{if eq . $.Session.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </form>
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">New Game</button>
  </form>
</div>
`
