package repomanager

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts backend calls and exposes the selection state.
type Metrics struct {
	calls *prometheus.CounterVec
	state prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghiblifav",
			Subsystem: "storage",
			Name:      "calls_total",
			Help:      "Persistence backend calls by operation and result.",
		}, []string{"op", "result"}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ghiblifav",
			Subsystem: "storage",
			Name:      "backend_state",
			Help:      "0 unprovisioned, 1 connected, 2 degraded file fallback.",
		}),
	}
	reg.MustRegister(m.calls, m.state)
	return m
}

// ObserveState is meant for WithTransitionHook.
func (m *Metrics) ObserveState(s State) {
	m.state.Set(float64(s))
}

// Wrap returns b with every call counted.
func (m *Metrics) Wrap(b Backend) Backend {
	return &instrumented{next: b, m: m}
}

func (m *Metrics) observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	m.calls.WithLabelValues(op, result).Inc()
}

type instrumented struct {
	next Backend
	m    *Metrics
}

func (i *instrumented) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	u, err := i.next.UpsertUser(ctx, in)
	i.m.observe("upsert_user", err)
	return u, err
}

func (i *instrumented) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	u, err := i.next.GetUserByOpenID(ctx, openID)
	i.m.observe("get_user", err)
	return u, err
}

func (i *instrumented) DeleteUser(ctx context.Context, openID string) error {
	err := i.next.DeleteUser(ctx, openID)
	i.m.observe("delete_user", err)
	return err
}

func (i *instrumented) AddFavorite(ctx context.Context, userID int64, movieID string, data models.MovieData) error {
	err := i.next.AddFavorite(ctx, userID, movieID, data)
	i.m.observe("add_favorite", err)
	return err
}

func (i *instrumented) RemoveFavorite(ctx context.Context, userID int64, movieID string) error {
	err := i.next.RemoveFavorite(ctx, userID, movieID)
	i.m.observe("remove_favorite", err)
	return err
}

func (i *instrumented) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	f, err := i.next.ListFavorites(ctx, userID)
	i.m.observe("list_favorites", err)
	return f, err
}

func (i *instrumented) IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error) {
	ok, err := i.next.IsFavorited(ctx, userID, movieID)
	i.m.observe("is_favorited", err)
	return ok, err
}
