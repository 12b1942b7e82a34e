package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "app_session_id"

// OAuthStateCookieName holds the anti-forgery state between login start and callback.
const OAuthStateCookieName = "oauth_state"

// DevOpenID and DevName identify the placeholder account created by the
// developer login bypass.
const (
	DevOpenID = "dev-user"
	DevName   = "Dev User"
)
