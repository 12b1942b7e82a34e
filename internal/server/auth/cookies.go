// Package auth covers session tokens, the session cookie attribute policy and
// the per-request identity gate.
package auth

import (
	"net/http"
	"strings"
	"time"
)

// RequestSignals are the per-request inputs to the cookie policy.
type RequestSignals struct {
	TLS            bool
	ForwardedProto []string
}

// SignalsFromRequest collects the signals from r. Every X-Forwarded-Proto
// header value is kept; proxies may append several.
func SignalsFromRequest(r *http.Request) RequestSignals {
	return RequestSignals{
		TLS:            r.TLS != nil,
		ForwardedProto: r.Header.Values("X-Forwarded-Proto"),
	}
}

// IsSecureRequest reports whether the request reached us over TLS, either
// directly or through a proxy that says so.
func IsSecureRequest(s RequestSignals) bool {
	if s.TLS {
		return true
	}
	for _, header := range s.ForwardedProto {
		for _, proto := range strings.Split(header, ",") {
			if strings.EqualFold(strings.TrimSpace(proto), "https") {
				return true
			}
		}
	}
	return false
}

// CookieEnv is the deployment side of the cookie policy.
type CookieEnv struct {
	Development    bool
	Production     bool
	HostingFlag    bool
	PlatformDomain string
}

// CookieOptions are the attributes applied to the session cookie.
type CookieOptions struct {
	HTTPOnly bool
	Path     string
	SameSite http.SameSite
	Secure   bool
	Domain   string
}

// DecideCookie picks session cookie attributes. Browsers drop SameSite=None
// cookies that are not Secure, so plain-HTTP development gets Lax instead.
// It must run per request because proxy headers differ between requests.
func DecideCookie(s RequestSignals, env CookieEnv) CookieOptions {
	secure := IsSecureRequest(s)

	if env.Development && !secure {
		return CookieOptions{
			HTTPOnly: true,
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
			Secure:   false,
		}
	}

	opts := CookieOptions{
		HTTPOnly: true,
		Path:     "/",
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	}
	if env.Production || env.HostingFlag {
		opts.Domain = env.PlatformDomain
	}
	return opts
}

// Cookie renders a cookie carrying value for maxAge.
func (o CookieOptions) Cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		Secure:   o.Secure,
		HttpOnly: o.HTTPOnly,
		SameSite: o.SameSite,
	}
}

// Expired renders a cookie that makes the browser drop name. The attributes
// must match the ones used when setting it or the browser keeps the original.
func (o CookieOptions) Expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   o.Secure,
		HttpOnly: o.HTTPOnly,
		SameSite: o.SameSite,
	}
}
