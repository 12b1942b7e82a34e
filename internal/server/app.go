// Package server wires configuration, persistence, services and the HTTP
// endpoint together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ghiblifav/internal/logging"
	"github.com/dmitrijs2005/ghiblifav/internal/server/auth"
	"github.com/dmitrijs2005/ghiblifav/internal/server/config"
	"github.com/dmitrijs2005/ghiblifav/internal/server/oauth"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/filestore"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ghiblifav/internal/server/services"
	"github.com/dmitrijs2005/ghiblifav/internal/server/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	selector *repomanager.Selector
	handler  *web.Handler
}

// ErrInsecureSecret is returned when production would sign sessions with
// the built-in development secret.
var ErrInsecureSecret = errors.New("production requires a non-default secret key")

func NewApp(c *config.Config) (*App, error) {
	if c.IsProduction() && (c.SecretKey == "" || c.SecretKey == config.DefaultSecretKey) {
		return nil, ErrInsecureSecret
	}

	logger := logging.New(c.LogFormat, os.Stdout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := repomanager.NewMetrics(reg)

	var connect repomanager.ConnectFunc
	if c.DatabaseDSN != "" {
		connect = repomanager.PostgresConnector(c.DatabaseDSN, c.ConnectTimeout)
	}
	dataFile := c.DataFile
	fallback := func() (repomanager.Backend, error) { return filestore.New(dataFile) }

	selector := repomanager.NewSelector(connect, fallback, logger, repomanager.WithTransitionHook(metrics.ObserveState))
	backend := metrics.Wrap(selector)

	us := services.NewUserService(backend, c.OwnerOpenID, logger)
	fs := services.NewFavoriteService(backend, logger)

	verifier := auth.NewJWTVerifier(c.SecretKey)
	gate := auth.NewGate(verifier, us, logger)

	var provider oauth.IdentityProvider
	if c.OAuthEnabled() {
		provider = oauth.NewProvider(oauth.Config{
			ClientID:     c.OAuthClientID,
			ClientSecret: c.OAuthClientSecret,
			AuthURL:      c.OAuthAuthURL,
			TokenURL:     c.OAuthTokenURL,
			UserInfoURL:  c.OAuthUserInfoURL,
			RedirectURL:  c.OAuthRedirectURL,
		})
	}

	h := web.NewHandler(web.Options{
		Users:     us,
		Favorites: fs,
		Gate:      gate,
		Tokens:    verifier,
		Provider:  provider,
		Backend:   selector,
		Gatherer:  reg,
		CookieEnv: auth.CookieEnv{
			Development:    c.IsDevelopment(),
			Production:     c.IsProduction(),
			HostingFlag:    c.HostingFlag,
			PlatformDomain: c.PlatformDomain,
		},
		SessionTTL:  c.SessionTTL,
		DevLogin:    !c.IsProduction(),
		CORSOrigins: c.CORSOrigins,
		Logger:      logger,
	})

	return &App{config: c, logger: logger, selector: selector, handler: h}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewServer(app.config.EndpointAddr, app.handler.Routes(), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// warmUp selects the backend before the first request. A failure here is
// not fatal: requests will report it until the process is restarted.
func (app *App) warmUp(ctx context.Context) {
	if _, err := app.selector.Resolve(ctx); err != nil {
		app.logger.Error(ctx, "persistence unavailable", "error", err)
		return
	}
	app.logger.Info(ctx, "persistence ready", "backend", app.selector.State().String())
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "mode", app.config.Mode)

	app.initSignalHandler(cancelFunc)
	app.warmUp(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.selector.Close(); err != nil {
		app.logger.Error(ctx, "closing backend", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
