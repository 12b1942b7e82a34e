package web

import (
	"net/http"

	"github.com/dmitrijs2005/ghiblifav/internal/server/auth"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

// identity resolves the caller once per request and stores the result in
// the request context.
func (h *Handler) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := h.gate.ResolveContext(r)
		next.ServeHTTP(w, r.WithContext(auth.WithContext(r.Context(), c)))
	})
}

type protectedFunc func(w http.ResponseWriter, r *http.Request, user *models.User)

// protected rejects anonymous callers before fn runs.
func (h *Handler) protected(fn protectedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := auth.FromContext(r.Context())
		if err := auth.Require(c); err != nil {
			h.writeError(w, r, err)
			return
		}
		fn(w, r, c.User)
	}
}
