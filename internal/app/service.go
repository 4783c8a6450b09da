package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrInvalidName = errors.New("invalid player name")
)

// maxNameLen bounds player names in bytes.
const maxNameLen = 64

type subscriber struct {
	ch        chan Session
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages sessions and subscribers.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[string]map[*subscriber]struct{}
	rng      ai.Rand
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the randomness used by the easy and medium tiers.
func WithRand(r ai.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an empty service.
func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]*Session),
		subs:     make(map[string]map[*subscriber]struct{}),
		rng:      ai.DefaultRand(),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateSession starts a match for name. When aiFirst is set the computer
// has already made its opening move in the returned session.
func (s *Service) CreateSession(name string, d ai.Difficulty, aiFirst bool) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == AIKey || len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ai.ErrUnknownDifficulty, uint8(d))
	}
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		PlayerName: name,
		Difficulty: d,
		AIFirst:    aiFirst,
		Scores:     map[string]int{name: 0, AIKey: 0},
		Created:    now,
		Updated:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.startGameLocked(sess); err != nil {
		return nil, err
	}
	s.sessions[sess.ID] = sess
	s.log.Info("session created", "id", sess.ID, "player", name, "difficulty", d.String(), "ai_first", aiFirst)
	cp := sess.clone()
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	cp := sess.clone()
	return &cp, true
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Play applies the human move at index and, unless that ended the game,
// the computer's reply. The winner's tally is bumped once when a game ends.
func (s *Service) Play(id string, index int) (*Session, error) {
	return s.update(id, func(sess *Session) error {
		g := &sess.Game
		if g.Over() {
			return domain.ErrGameOver
		}
		if g.Turn != Human {
			return ErrNotYourTurn
		}
		if err := g.Play(index); err != nil {
			return err
		}
		s.log.Debug("human move", "id", sess.ID, "index", index)
		if !g.Over() {
			if err := s.computerMoveLocked(sess); err != nil {
				return err
			}
		}
		s.tallyLocked(sess)
		return nil
	})
}

// SetDifficulty changes the tier used for the computer's next moves.
func (s *Service) SetDifficulty(id string, d ai.Difficulty) (*Session, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ai.ErrUnknownDifficulty, uint8(d))
	}
	return s.update(id, func(sess *Session) error {
		sess.Difficulty = d
		s.log.Info("difficulty changed", "id", sess.ID, "difficulty", d.String())
		return nil
	})
}

// Reset starts a new game in the session, keeping the scoreboard.
func (s *Service) Reset(id string) (*Session, error) {
	return s.update(id, func(sess *Session) error {
		return s.startGameLocked(sess)
	})
}

// Delete removes a session and closes its subscribers.
func (s *Service) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	for sub := range s.subs[id] {
		sub.close()
	}
	delete(s.subs, id)
	s.mu.Unlock()
	return ok
}

// Prune deletes sessions idle for longer than maxIdle and returns how many were removed.
func (s *Service) Prune(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	var stale []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.Updated.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()
	for _, id := range stale {
		s.Delete(id)
	}
	if len(stale) > 0 {
		s.log.Info("pruned idle sessions", "count", len(stale))
	}
	return len(stale)
}

// update runs fn on the live session under the lock, then broadcasts the
// resulting snapshot. A failing fn leaves no broadcast.
func (s *Service) update(id string, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(sess); err != nil {
		cp := sess.clone()
		return &cp, err
	}
	sess.Updated = s.now()
	s.broadcastLocked(sess)
	cp := sess.clone()
	return &cp, nil
}

// broadcastLocked never blocks: a subscriber whose buffer is full is dropped.
func (s *Service) broadcastLocked(sess *Session) {
	set := s.subs[sess.ID]
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- sess.clone():
		default:
			delete(set, sub)
			sub.close()
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warn("dropped slow subscribers", "id", sess.ID, "count", dropped)
	}
}

func (s *Service) startGameLocked(sess *Session) error {
	if sess.AIFirst {
		sess.Game = domain.New(ai.Computer)
		return s.computerMoveLocked(sess)
	}
	sess.Game = domain.New(Human)
	return nil
}

func (s *Service) computerMoveLocked(sess *Session) error {
	idx, err := ai.SelectMove(sess.Game.Board, sess.Difficulty, s.rng)
	if err != nil {
		return fmt.Errorf("select move: %w", err)
	}
	if err := sess.Game.Play(idx); err != nil {
		return fmt.Errorf("computer move %d: %w", idx, err)
	}
	s.log.Debug("computer move", "id", sess.ID, "index", idx, "difficulty", sess.Difficulty.String())
	return nil
}

func (s *Service) tallyLocked(sess *Session) {
	out := sess.Game.Outcome
	if out.Status != domain.Won {
		if out.Status == domain.Draw {
			s.log.Info("game drawn", "id", sess.ID)
		}
		return
	}
	name := sess.NameOf(out.Winner)
	sess.Scores[name]++
	s.log.Info("game won", "id", sess.ID, "winner", name, "moves", sess.Game.Moves)
}

// Subscribe registers a subscriber for a session. Returns a channel of
// snapshots and an unsubscribe func; ctx cancellation also unsubscribes.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan Session, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan Session, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}
