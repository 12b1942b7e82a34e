package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
	"github.com/dmitrijs2005/ghiblifav/internal/shared"
)

const (
	oauthStateSize = 16
	oauthStateTTL  = 10 * time.Minute
)

// startSession mints a token and sets the session cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, openID, name string) error {
	token, err := h.tokens.Mint(openID, name, h.sessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, h.cookieOptions(r).Cookie(common.SessionCookieName, token, h.sessionTTL))
	return nil
}

// devLoginHandler signs in a fixed placeholder account. Storage errors are
// ignored so the bypass works without a database.
func (h *Handler) devLoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.users.UpsertUser(ctx, common.DevOpenID, models.UserPatch{Name: models.Value(common.DevName)}); err != nil {
		h.logger.Warn(ctx, "dev login: upsert failed, continuing", "error", err)
	}

	if err := h.startSession(w, r, common.DevOpenID, common.DevName); err != nil {
		h.logger.Error(ctx, "dev login failed", "error", err)
		http.Error(w, "dev-login failed", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) oauthLogin(w http.ResponseWriter, r *http.Request) {
	state, err := shared.MakeRandHexString(oauthStateSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookieOptions(r).Cookie(common.OAuthStateCookieName, state, oauthStateTTL))
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	c, err := r.Cookie(common.OAuthStateCookieName)
	if err != nil || c.Value == "" || !shared.ConstantTimeEqual(c.Value, q.Get("state")) {
		h.writeError(w, r, fmt.Errorf("%w: invalid state parameter", common.ErrInvalidArgument))
		return
	}
	opts := h.cookieOptions(r)
	http.SetCookie(w, opts.Expired(common.OAuthStateCookieName))

	id, err := h.provider.Exchange(ctx, q.Get("code"))
	if err != nil {
		h.logger.Warn(ctx, "oauth exchange failed", "error", err)
		h.writeError(w, r, err)
		return
	}

	patch := models.UserPatch{LoginMethod: models.Value(id.LoginMethod)}
	if id.Name != "" {
		patch.Name = models.Value(id.Name)
	}
	if id.Email != "" {
		patch.Email = models.Value(id.Email)
	}
	if _, err := h.users.UpsertUser(ctx, id.OpenID, patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.startSession(w, r, id.OpenID, id.Name); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(ctx, "signed in", "openId", id.OpenID, "loginMethod", id.LoginMethod)
	http.Redirect(w, r, "/", http.StatusFound)
}
