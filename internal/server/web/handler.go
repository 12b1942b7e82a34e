package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/logging"
	"github.com/dmitrijs2005/ghiblifav/internal/server/auth"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
	"github.com/dmitrijs2005/ghiblifav/internal/server/oauth"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/repomanager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type UserService interface {
	UpsertUser(ctx context.Context, openID string, patch models.UserPatch) (*models.User, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID int64, movieID string, data models.MovieData) error
	Remove(ctx context.Context, userID int64, movieID string) error
	List(ctx context.Context, userID int64) ([]models.Favorite, error)
	IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error)
}

// TokenMinter issues session tokens after a successful login.
type TokenMinter interface {
	Mint(openID, name string, ttl time.Duration) (string, error)
}

// StateReporter exposes which persistence backend is in use.
type StateReporter interface {
	State() repomanager.State
}

// Options wires the handler. Provider may be nil, in which case the OAuth
// routes are not registered. Gatherer may be nil to skip /metrics.
type Options struct {
	Users       UserService
	Favorites   FavoriteService
	Gate        *auth.Gate
	Tokens      TokenMinter
	Provider    oauth.IdentityProvider
	Backend     StateReporter
	Gatherer    prometheus.Gatherer
	CookieEnv   auth.CookieEnv
	SessionTTL  time.Duration
	DevLogin    bool
	CORSOrigins []string
	Logger      logging.Logger
}

type Handler struct {
	users      UserService
	favorites  FavoriteService
	gate       *auth.Gate
	tokens     TokenMinter
	provider   oauth.IdentityProvider
	backend    StateReporter
	gatherer   prometheus.Gatherer
	cookieEnv  auth.CookieEnv
	sessionTTL time.Duration
	devLogin   bool
	origins    []string
	logger     logging.Logger
}

func NewHandler(o Options) *Handler {
	return &Handler{
		users:      o.Users,
		favorites:  o.Favorites,
		gate:       o.Gate,
		tokens:     o.Tokens,
		provider:   o.Provider,
		backend:    o.Backend,
		gatherer:   o.Gatherer,
		cookieEnv:  o.CookieEnv,
		sessionTTL: o.SessionTTL,
		devLogin:   o.DevLogin,
		origins:    o.CORSOrigins,
		logger:     o.Logger.With("module", "http_handler"),
	}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if len(h.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", h.health)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.identity)

		r.Get("/api/auth/me", h.me)
		r.Post("/api/auth/logout", h.logout)

		r.Route("/api/movies/favorites", func(r chi.Router) {
			r.Get("/", h.protected(h.listFavorites))
			r.Post("/", h.protected(h.addFavorite))
			r.Get("/{ghibliMovieId}", h.protected(h.isFavorited))
			r.Delete("/{ghibliMovieId}", h.protected(h.removeFavorite))
		})
	})

	if h.provider != nil {
		r.Get("/api/oauth/login", h.oauthLogin)
		r.Get("/api/oauth/callback", h.oauthCallback)
	}

	if h.devLogin {
		r.Get("/dev-login", h.devLoginHandler)
	}

	return r
}

func (h *Handler) cookieOptions(r *http.Request) auth.CookieOptions {
	return auth.DecideCookie(auth.SignalsFromRequest(r), h.cookieEnv)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	state := "unknown"
	if h.backend != nil {
		state = h.backend.State().String()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": state})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	// A nil user encodes as JSON null.
	writeJSON(w, http.StatusOK, auth.FromContext(r.Context()).User)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookieOptions(r).Expired(common.SessionCookieName))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request, user *models.User) {
	list, err := h.favorites.List(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type addFavoriteRequest struct {
	GhibliMovieID string  `json:"ghibliMovieId"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	ReleaseDate   *string `json:"releaseDate"`
	RunningTime   *string `json:"runningTime"`
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req addFavoriteRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid request body", common.ErrInvalidArgument))
		return
	}

	data := models.MovieData{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		RunningTime: req.RunningTime,
	}
	if err := h.favorites.Add(r.Context(), user.ID, req.GhibliMovieID, data); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := h.favorites.Remove(r.Context(), user.ID, chi.URLParam(r, "ghibliMovieId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) isFavorited(w http.ResponseWriter, r *http.Request, user *models.User) {
	ok, err := h.favorites.IsFavorited(r.Context(), user.ID, chi.URLParam(r, "ghibliMovieId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorited": ok})
}
