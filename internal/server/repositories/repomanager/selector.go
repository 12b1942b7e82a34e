package repomanager

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/logging"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

// State is the backend selection state. It moves at most once, from
// Unprovisioned to one of the other two, and never back.
type State int32

const (
	Unprovisioned State = iota
	Connected
	DegradedFallback
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case DegradedFallback:
		return "degraded_fallback"
	default:
		return "unprovisioned"
	}
}

// ConnectFunc establishes the relational backend.
type ConnectFunc func(ctx context.Context) (Backend, error)

// FallbackFunc builds the file-backed backend.
type FallbackFunc func() (Backend, error)

// Selector is a Backend that picks its real backend on first use. A nil
// connect hook means no database is configured and goes straight to the
// fallback. A connect error is logged and also selects the fallback; there
// is no later retry.
type Selector struct {
	mu           sync.Mutex
	state        State
	backend      Backend
	connectErr   error
	connect      ConnectFunc
	fallback     FallbackFunc
	logger       logging.Logger
	onTransition func(State)
}

// SelectorOption customises a Selector.
type SelectorOption func(*Selector)

// WithTransitionHook registers fn to observe the single state change.
func WithTransitionHook(fn func(State)) SelectorOption {
	return func(s *Selector) { s.onTransition = fn }
}

func NewSelector(connect ConnectFunc, fallback FallbackFunc, logger logging.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		connect:  connect,
		fallback: fallback,
		logger:   logger.With("module", "backend_selector"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State reports the current selection state.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resolve returns the selected backend, selecting it if this is the first call.
func (s *Selector) Resolve(ctx context.Context) (Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Unprovisioned {
		return s.backend, nil
	}

	// connect runs at most once; after a failure only the fallback is retried.
	switch {
	case s.connectErr != nil:
	case s.connect != nil:
		b, err := s.connect(ctx)
		if err == nil {
			s.transition(ctx, Connected, b)
			return b, nil
		}
		s.connectErr = fmt.Errorf("%w: %w", common.ErrPersistenceUnavailable, err)
		s.logger.Warn(ctx, "relational store unavailable, using file fallback", "error", s.connectErr)
	default:
		s.logger.Info(ctx, "no database configured, using file fallback")
	}

	b, err := s.fallback()
	if err != nil {
		return nil, fmt.Errorf("%w: fallback: %w", common.ErrPersistenceFailure, err)
	}
	s.transition(ctx, DegradedFallback, b)

	return b, nil
}

func (s *Selector) transition(ctx context.Context, to State, b Backend) {
	s.state = to
	s.backend = b
	s.logger.Info(ctx, "persistence backend selected", "state", to.String())
	if s.onTransition != nil {
		s.onTransition(to)
	}
}

// Close releases the selected backend if it holds resources.
func (s *Selector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Selector) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	b, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return b.UpsertUser(ctx, in)
}

func (s *Selector) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	b, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return b.GetUserByOpenID(ctx, openID)
}

func (s *Selector) DeleteUser(ctx context.Context, openID string) error {
	b, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	return b.DeleteUser(ctx, openID)
}

func (s *Selector) AddFavorite(ctx context.Context, userID int64, movieID string, data models.MovieData) error {
	b, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	return b.AddFavorite(ctx, userID, movieID, data)
}

func (s *Selector) RemoveFavorite(ctx context.Context, userID int64, movieID string) error {
	b, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	return b.RemoveFavorite(ctx, userID, movieID)
}

func (s *Selector) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	b, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return b.ListFavorites(ctx, userID)
}

func (s *Selector) IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error) {
	b, err := s.Resolve(ctx)
	if err != nil {
		return false, err
	}
	return b.IsFavorited(ctx, userID, movieID)
}
