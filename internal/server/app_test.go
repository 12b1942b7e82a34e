package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/server/config"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DataFile = filepath.Join(t.TempDir(), "db.json")
	c.EndpointAddr = "127.0.0.1:0"
	return c
}

func TestNewApp_FileFallbackRoundTrip(t *testing.T) {
	app, err := NewApp(newTestConfig(t))
	require.NoError(t, err)
	defer app.selector.Close()

	h := app.handler.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev-login", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, repomanager.DegradedFallback, app.selector.State())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openId":"dev-user"`)
	assert.Contains(t, rec.Body.String(), `"name":"Dev User"`)
}

func TestNewApp_ProductionHidesDevLogin(t *testing.T) {
	c := newTestConfig(t)
	c.Mode = config.ModeProduction
	c.SecretKey = "prod-secret"

	app, err := NewApp(c)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev-login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewApp_MetricsExposed(t *testing.T) {
	app, err := NewApp(newTestConfig(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewApp_ProductionRejectsDefaultSecret(t *testing.T) {
	for _, secret := range []string{config.DefaultSecretKey, ""} {
		c := newTestConfig(t)
		c.Mode = config.ModeProduction
		c.SecretKey = secret

		app, err := NewApp(c)
		require.ErrorIs(t, err, ErrInsecureSecret)
		assert.Nil(t, app)
	}
}

func TestNewApp_DevelopmentAllowsDefaultSecret(t *testing.T) {
	c := newTestConfig(t)
	require.Equal(t, config.DefaultSecretKey, c.SecretKey)

	_, err := NewApp(c)
	require.NoError(t, err)
}
