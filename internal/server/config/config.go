// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"time"
)

// Deployment modes understood by the cookie policy and the dev bypass.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// DefaultSecretKey signs development sessions only.
const DefaultSecretKey = "secretKey"

// Config holds runtime settings for the favorites server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the file fallback.
//   - DataFile: location of the JSON document used by the file fallback.
//   - SecretKey: HMAC secret for signing session JWTs (HS256).
//   - OwnerOpenID: identity promoted to admin when first created.
//   - Mode: deployment mode, "development" or "production".
//   - HostingFlag: set when running on the hosting platform; scopes the
//     session cookie to PlatformDomain.
//   - SessionTTL: lifetime of minted session tokens and cookies.
//   - ConnectTimeout: how long the database ping may take before falling back.
type Config struct {
	EndpointAddr      string
	DatabaseDSN       string
	DataFile          string
	SecretKey         string
	OwnerOpenID       string
	Mode              string
	HostingFlag       bool
	PlatformDomain    string
	SessionTTL        time.Duration
	ConnectTimeout    time.Duration
	LogFormat         string
	CORSOrigins       []string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthRedirectURL  string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3000"
	c.DatabaseDSN = ""
	c.DataFile = "data/db.json"
	c.SecretKey = DefaultSecretKey
	c.Mode = ModeDevelopment
	c.PlatformDomain = ".csb.app"
	c.SessionTTL = 365 * 24 * time.Hour
	c.ConnectTimeout = 5 * time.Second
	c.LogFormat = "json"
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool { return c.Mode == ModeProduction }

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool { return c.Mode == ModeDevelopment }

// OAuthEnabled reports whether enough provider settings exist to complete a login.
func (c *Config) OAuthEnabled() bool {
	return c.OAuthClientID != "" && c.OAuthAuthURL != "" && c.OAuthTokenURL != "" && c.OAuthUserInfoURL != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
