package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
)

// Options tunes the HTTP surface. Zero values pick defaults.
type Options struct {
	Logger *slog.Logger
	// Heartbeat is the idle interval for SSE comments and WebSocket pings.
	Heartbeat time.Duration
	// Rand backs the stateless move endpoint.
	Rand ai.Rand
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = heartbeatInterval
	}
	if opts.Rand == nil {
		opts.Rand = ai.DefaultRand()
	}
	h := &handlers{svc: s, tpl: loadTemplates(), log: opts.Logger, rng: opts.Rand, heartbeat: opts.Heartbeat}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/difficulty", h.difficulty)
		r.Post("/reset", h.reset)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.apiCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.apiGet)
			r.Delete("/", h.apiDelete)
			r.Post("/moves", h.apiMove)
			r.Put("/difficulty", h.apiDifficulty)
			r.Post("/reset", h.apiReset)
		})
		r.Post("/evaluate", h.apiEvaluate)
		r.Post("/move", h.apiSelect)
		r.Post("/analyze", h.apiAnalyze)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}
