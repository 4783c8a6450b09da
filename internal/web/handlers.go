package web

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *slog.Logger
	rng       ai.Rand
	heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.Session, errMsg string) []byte {
	b, err := renderTemplate(h.tpl.board, "", boardData{ID: gs.ID, Session: gs, Error: errMsg})
	if err != nil {
		h.log.Error("render board", "id", gs.ID, "err", err)
	}
	return b
}

func (h *handlers) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *handlers) renderIndex(w http.ResponseWriter, status int, data indexData) {
	body, err := renderTemplate(h.tpl.index, "base", data)
	if err != nil {
		h.log.Error("render index", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	h.writeHTML(w, status, body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, http.StatusOK, indexData{Difficulty: ai.Medium})
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	data := indexData{
		Name:       r.Form.Get("name"),
		Difficulty: ai.Medium,
		AIFirst:    r.Form.Get("ai_first") != "",
	}
	if v := r.Form.Get("difficulty"); v != "" {
		d, err := ai.ParseDifficulty(v)
		if err != nil {
			data.Error = "Unknown difficulty"
			h.renderIndex(w, http.StatusBadRequest, data)
			return
		}
		data.Difficulty = d
	}
	gs, err := h.svc.CreateSession(data.Name, data.Difficulty, data.AIFirst)
	if err != nil {
		data.Error = errorMessage(err)
		h.renderIndex(w, http.StatusBadRequest, data)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	// Render page with embedded board container
	body, err := renderTemplate(h.tpl.game, "base", boardData{ID: gs.ID, Session: *gs})
	if err != nil {
		h.log.Error("render game", "id", id, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	h.writeHTML(w, http.StatusOK, body)
}

// fragment writes the board for a service result, turning err into an inline message.
func (h *handlers) fragment(w http.ResponseWriter, r *http.Request, gs *app.Session, err error) {
	var errMsg string
	if err != nil {
		if gs == nil {
			if errors.Is(err, app.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			gs, _ = h.svc.Get(chi.URLParam(r, "id"))
		}
		errMsg = errorMessage(err)
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	h.writeHTML(w, http.StatusOK, h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	cell, err := strconv.Atoi(r.Form.Get("cell"))
	if err != nil {
		cell = -1
	}
	gs, err := h.svc.Play(id, cell)
	h.fragment(w, r, gs, err)
}

func (h *handlers) difficulty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	d, err := ai.ParseDifficulty(r.Form.Get("difficulty"))
	if err != nil {
		h.fragment(w, r, nil, err)
		return
	}
	gs, err := h.svc.SetDifficulty(id, d)
	h.fragment(w, r, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Reset(chi.URLParam(r, "id"))
	h.fragment(w, r, gs, err)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidName):
		return "Please choose another player name"
	case errors.Is(err, app.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, ai.ErrUnknownDifficulty):
		return "Unknown difficulty"
	default:
		return "Invalid move"
	}
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	// heartbeat ticker
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case gs, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, "board", h.renderBoard(gs, ""))
			flusher.Flush()
		}
	}
}

// writeSSE emits one event; every payload line gets its own data field.
func writeSSE(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	sc := bufio.NewScanner(bytes.NewReader(payload))
	sc.Buffer(make([]byte, 0, 64*1024), len(payload)+1)
	for sc.Scan() {
		_, _ = fmt.Fprintf(w, "data: %s\n", sc.Bytes())
	}
	_, _ = io.WriteString(w, "\n")
}
