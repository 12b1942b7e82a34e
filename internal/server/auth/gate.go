package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/logging"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

// UserLookup loads the user a verified session refers to.
type UserLookup interface {
	GetUserByOpenID(ctx context.Context, openID string) (*models.User, error)
}

// Context is the identity resolved for one request. User is nil for
// anonymous requests.
type Context struct {
	User *models.User
}

// Gate resolves identity from the session cookie.
type Gate struct {
	verifier IdentityVerifier
	users    UserLookup
	logger   logging.Logger
}

func NewGate(v IdentityVerifier, users UserLookup, l logging.Logger) *Gate {
	return &Gate{verifier: v, users: users, logger: l.With("module", "auth_gate")}
}

// ResolveContext never fails: a missing cookie, a token that does not verify
// and a user that cannot be loaded all produce an anonymous Context.
func (g *Gate) ResolveContext(r *http.Request) Context {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return Context{}
	}

	ctx := r.Context()

	session, err := g.verifier.Verify(c.Value)
	if err != nil {
		g.logger.Info(ctx, "session rejected", "error", err)
		return Context{}
	}

	user, err := g.users.GetUserByOpenID(ctx, session.OpenID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			g.logger.Warn(ctx, "user lookup failed", "openId", session.OpenID, "error", err)
		}
		return Context{}
	}

	return Context{User: user}
}

// Require fails with common.ErrorUnauthorized for anonymous contexts.
func Require(c Context) error {
	if c.User == nil {
		return common.ErrorUnauthorized
	}
	return nil
}

type ctxKey string

const authContextKey ctxKey = "authContext"

// WithContext stores c in ctx.
func WithContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, authContextKey, c)
}

// FromContext returns the Context stored by WithContext, or an anonymous one.
func FromContext(ctx context.Context) Context {
	c, _ := ctx.Value(authContextKey).(Context)
	return c
}
