package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

type createRequest struct {
	Name       string         `json:"name"`
	Difficulty *ai.Difficulty `json:"difficulty"`
	AIFirst    bool           `json:"ai_first"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type difficultyRequest struct {
	Difficulty *ai.Difficulty `json:"difficulty"`
}

type boardRequest struct {
	Board      string         `json:"board"`
	Difficulty *ai.Difficulty `json:"difficulty,omitempty"`
}

type evaluateResponse struct {
	Board      string `json:"board"`
	Status     string `json:"status"`
	Winner     string `json:"winner,omitempty"`
	EmptyCells []int  `json:"empty_cells"`
}

type moveResponse struct {
	Board      string        `json:"board"`
	Difficulty ai.Difficulty `json:"difficulty"`
	Index      int           `json:"index"`
}

type analyzeResponse struct {
	Board  string      `json:"board"`
	Best   int         `json:"best"`
	Scores map[int]int `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps service and engine errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOccupied),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, app.ErrNotYourTurn),
		errors.Is(err, ai.ErrNoMovesAvailable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrInvalidBoard),
		errors.Is(err, app.ErrInvalidName),
		errors.Is(err, ai.ErrUnknownDifficulty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) apiError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.log.Error("api request failed", "err", err)
	}
	writeError(w, code, err.Error())
}

func (h *handlers) apiCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := ai.Medium
	if req.Difficulty != nil {
		d = *req.Difficulty
	}
	gs, err := h.svc.CreateSession(req.Name, d, req.AIFirst)
	if err != nil {
		h.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionView(*gs))
}

func (h *handlers) apiGet(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		h.apiError(w, app.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(*gs))
}

func (h *handlers) apiDelete(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Delete(chi.URLParam(r, "id")) {
		h.apiError(w, app.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Cell == nil {
		writeError(w, http.StatusBadRequest, "cell is required")
		return
	}
	gs, err := h.svc.Play(chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		h.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(*gs))
}

func (h *handlers) apiDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Difficulty == nil {
		writeError(w, http.StatusBadRequest, "difficulty is required")
		return
	}
	gs, err := h.svc.SetDifficulty(chi.URLParam(r, "id"), *req.Difficulty)
	if err != nil {
		h.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(*gs))
}

func (h *handlers) apiReset(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Reset(chi.URLParam(r, "id"))
	if err != nil {
		h.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(*gs))
}

func (h *handlers) readBoard(w http.ResponseWriter, r *http.Request) (boardRequest, domain.Board, bool) {
	var req boardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, domain.Board{}, false
	}
	b, err := domain.ParseBoard(req.Board)
	if err != nil {
		h.apiError(w, err)
		return req, b, false
	}
	return req, b, true
}

// apiEvaluate reports the outcome of an arbitrary board.
func (h *handlers) apiEvaluate(w http.ResponseWriter, r *http.Request) {
	_, b, ok := h.readBoard(w, r)
	if !ok {
		return
	}
	out := domain.Evaluate(b)
	resp := evaluateResponse{Board: b.String(), Status: out.Status.String(), EmptyCells: domain.EmptyCells(b)}
	if out.Status == domain.Won {
		resp.Winner = out.Winner.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// apiSelect returns the computer's (O) move on an arbitrary in-progress board.
func (h *handlers) apiSelect(w http.ResponseWriter, r *http.Request) {
	req, b, ok := h.readBoard(w, r)
	if !ok {
		return
	}
	if domain.Evaluate(b).Terminal() {
		writeError(w, http.StatusConflict, domain.ErrGameOver.Error())
		return
	}
	d := ai.Hard
	if req.Difficulty != nil {
		d = *req.Difficulty
	}
	idx, err := ai.SelectMove(b, d, h.rng)
	if err != nil {
		h.apiError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Board: b.String(), Difficulty: d, Index: idx})
}

// apiAnalyze returns the minimax score of every O move.
func (h *handlers) apiAnalyze(w http.ResponseWriter, r *http.Request) {
	_, b, ok := h.readBoard(w, r)
	if !ok {
		return
	}
	if domain.Evaluate(b).Terminal() {
		writeError(w, http.StatusConflict, domain.ErrGameOver.Error())
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Board: b.String(), Best: ai.BestMove(b), Scores: ai.ScoreMoves(b)})
}
