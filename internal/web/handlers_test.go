package web

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// lowestRand makes the easy tier always take the lowest empty cell.
type lowestRand struct{}

func (lowestRand) IntN(int) int     { return 0 }
func (lowestRand) Float64() float64 { return 0 }

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := app.NewService(app.WithLogger(logger), app.WithRand(lowestRand{}))
	h := NewServer(s, Options{Logger: logger, Rand: lowestRand{}})
	return s, h
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
		t.Fatalf("index should contain create form; got body: %q", body)
	}
	for _, want := range []string{`name="name"`, `name="difficulty"`, `name="ai_first"`, `value="medium" selected`} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q", want)
		}
	}
}

func TestCreateRedirectsToGame(t *testing.T) {
	svc, h := newTestServer(t)
	rr := postForm(h, "/game", url.Values{"name": {"alice"}, "difficulty": {"hard"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	loc := rr.Result().Header.Get("Location")
	if !strings.HasPrefix(loc, "/game/") {
		t.Fatalf("expected redirect to /game/{id}, got %q", loc)
	}
	gs, ok := svc.Get(strings.TrimPrefix(loc, "/game/"))
	if !ok || gs.PlayerName != "alice" || gs.Difficulty != ai.Hard || gs.AIFirst {
		t.Fatalf("unexpected session %+v", gs)
	}
}

func TestCreateWithAIFirst(t *testing.T) {
	svc, h := newTestServer(t)
	rr := postForm(h, "/game", url.Values{"name": {"bob"}, "difficulty": {"easy"}, "ai_first": {"on"}})
	loc := rr.Result().Header.Get("Location")
	gs, ok := svc.Get(strings.TrimPrefix(loc, "/game/"))
	if !ok || gs.Game.Board[0] != domain.O || gs.Game.Turn != domain.X {
		t.Fatalf("expected computer to open, got %+v", gs)
	}
}

func TestCreateRejectsBadName(t *testing.T) {
	svc, h := newTestServer(t)
	for _, name := range []string{"  ", "AI", strings.Repeat("n", 65)} {
		rr := postForm(h, "/game", url.Values{"name": {name}})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", name, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Please choose another player name") {
			t.Fatalf("expected inline error for %q, got %q", name, rr.Body.String())
		}
	}
	rr := postForm(h, "/game", url.Values{"name": {"x"}, "difficulty": {"godlike"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad difficulty, got %d", rr.Code)
	}
	if svc.Len() != 0 {
		t.Fatalf("no session should be created")
	}
}

func TestGamePageRendersBoardAndScoreboard(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateSession("alice", ai.Medium, false)

	req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
		t.Fatalf("expected SSE wiring in page; got body: %q", body)
	}
	if strings.Count(body, `name="cell"`) != 9 {
		t.Fatalf("expected 9 cells in page")
	}
	for _, want := range []string{"Current player: alice", "Scoreboard", "<span>AI</span>", "New Game"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestGamePageNotFound(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/game/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateSession("alice", ai.Easy, false)

	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "id=\"board\"") {
		t.Fatalf("expected board fragment, got %q", body)
	}
	// played cells are disabled
	if strings.Count(body, " disabled>") != 2 {
		t.Fatalf("expected two disabled cells, got %q", body)
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Game.Moves != 2 {
		t.Fatalf("expected human and computer moves applied, moves=%d", latest.Game.Moves)
	}
}

func TestPlayEndpointShowsErrors(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateSession("alice", ai.Easy, false)
	postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})

	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})
	if !strings.Contains(rr.Body.String(), "Cell is occupied") {
		t.Fatalf("expected occupied message, got %q", rr.Body.String())
	}
	rr = postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"abc"}})
	if !strings.Contains(rr.Body.String(), "Out of bounds") {
		t.Fatalf("expected bounds message, got %q", rr.Body.String())
	}
	rr = postForm(h, "/game/missing/play", url.Values{"cell": {"1"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestWinDisablesBoardAndUpdatesScore(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateSession("alice", ai.Easy, false)
	var rr *httptest.ResponseRecorder
	for _, c := range []string{"4", "2", "6"} {
		rr = postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {c}})
	}
	body := rr.Body.String()
	if !strings.Contains(body, "alice wins!") {
		t.Fatalf("expected win message, got %q", body)
	}
	if strings.Count(body, " disabled>") != 9 {
		t.Fatalf("expected every cell disabled after the game ends")
	}
	if !strings.Contains(body, "<span>alice</span> <span>1</span>") {
		t.Fatalf("expected alice to have one win, got %q", body)
	}
	rr = postForm(h, "/game/"+gs.ID+"/reset", nil)
	if !strings.Contains(rr.Body.String(), "Current player: alice") {
		t.Fatalf("expected fresh game after reset, got %q", rr.Body.String())
	}
}

func TestDifficultyEndpoint(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateSession("alice", ai.Easy, false)
	rr := postForm(h, "/game/"+gs.ID+"/difficulty", url.Values{"difficulty": {"hard"}})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `value="hard" selected`) {
		t.Fatalf("expected hard selected, got %d %q", rr.Code, rr.Body.String())
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Difficulty != ai.Hard {
		t.Fatalf("expected difficulty hard, got %v", latest.Difficulty)
	}
	rr = postForm(h, "/game/"+gs.ID+"/difficulty", url.Values{"difficulty": {"nightmare"}})
	if !strings.Contains(rr.Body.String(), "Unknown difficulty") {
		t.Fatalf("expected difficulty error, got %q", rr.Body.String())
	}
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	// create a game via POST
	rrCreate := postForm(h, "/game", url.Values{"name": {"alice"}})
	loc := rrCreate.Result().Header.Get("Location")
	if loc == "" {
		t.Fatalf("missing redirect location")
	}
	// Request SSE
	req := httptest.NewRequest("GET", loc+"/events", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Result().Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
}

func TestEventsStreamSendsBoardAfterMove(t *testing.T) {
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	gs, err := svc.CreateSession("alice", ai.Easy, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/game/"+gs.ID+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	play, err := http.PostForm(srv.URL+"/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	play.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	inBoard := false
	var frame strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if line == "event: board" {
			inBoard = true
			continue
		}
		if !inBoard {
			continue
		}
		if line == "" {
			break
		}
		if !strings.HasPrefix(line, "data:") {
			t.Fatalf("unexpected line in board frame: %q", line)
		}
		frame.WriteString(strings.TrimPrefix(line, "data:"))
		frame.WriteString("\n")
	}
	if !inBoard {
		t.Fatalf("no board event received: %v", sc.Err())
	}
	// easy with lowestRand answers the centre with cell 0
	body := frame.String()
	for _, want := range []string{">X</button>", ">O</button>", "Current player: alice"} {
		if !strings.Contains(body, want) {
			t.Fatalf("board frame missing %q: %q", want, body)
		}
	}
}

func TestWriteSSEPrefixesEveryLine(t *testing.T) {
	var sb strings.Builder
	writeSSE(&sb, "board", []byte("<div>\n  <p>hi</p>\n</div>"))
	want := "event: board\ndata: <div>\ndata:   <p>hi</p>\ndata: </div>\n\n"
	if sb.String() != want {
		t.Fatalf("unexpected SSE frame %q", sb.String())
	}
}
