package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/flagx"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// EnvConfig maps environment variables onto config fields. Unset variables
// decode to zero values and leave the current setting untouched.
type EnvConfig struct {
	EndpointAddr      string        `env:"ADDRESS"`
	DatabaseDSN       string        `env:"DATABASE_URL"`
	DataFile          string        `env:"DATA_FILE"`
	SecretKey         string        `env:"JWT_SECRET"`
	OwnerOpenID       string        `env:"OWNER_OPEN_ID"`
	Mode              string        `env:"APP_ENV"`
	HostingHost       string        `env:"CODESANDBOX_HOST"`
	PlatformDomain    string        `env:"PLATFORM_DOMAIN"`
	SessionTTL        time.Duration `env:"SESSION_TTL"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT"`
	LogFormat         string        `env:"LOG_FORMAT"`
	CORSOrigins       string        `env:"CORS_ORIGINS"`
	OAuthClientID     string        `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string        `env:"OAUTH_CLIENT_SECRET"`
	OAuthAuthURL      string        `env:"OAUTH_AUTH_URL"`
	OAuthTokenURL     string        `env:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL  string        `env:"OAUTH_USERINFO_URL"`
	OAuthRedirectURL  string        `env:"OAUTH_REDIRECT_URL"`
}

// loadDotEnv is swapped in tests.
var loadDotEnv = func(path string) error {
	if path == "" {
		return godotenv.Load()
	}
	return godotenv.Load(path)
}

// parseEnv loads an optional .env file (path from -env) and overlays the
// process environment. A missing .env file is fine; real variables win over it.
func parseEnv(config *Config) {
	_ = loadDotEnv(flagx.EnvFileFlags())

	e := &EnvConfig{}
	if err := envdecode.Decode(e); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return
		}
		panic(err)
	}

	applyEnv(config, e)
}

func applyEnv(config *Config, e *EnvConfig) {
	setString(&config.EndpointAddr, e.EndpointAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.DataFile, e.DataFile)
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.OwnerOpenID, e.OwnerOpenID)
	setString(&config.Mode, e.Mode)
	setString(&config.PlatformDomain, e.PlatformDomain)
	setString(&config.LogFormat, e.LogFormat)
	setString(&config.OAuthClientID, e.OAuthClientID)
	setString(&config.OAuthClientSecret, e.OAuthClientSecret)
	setString(&config.OAuthAuthURL, e.OAuthAuthURL)
	setString(&config.OAuthTokenURL, e.OAuthTokenURL)
	setString(&config.OAuthUserInfoURL, e.OAuthUserInfoURL)
	setString(&config.OAuthRedirectURL, e.OAuthRedirectURL)

	if e.HostingHost != "" {
		config.HostingFlag = true
	}
	if e.SessionTTL > 0 {
		config.SessionTTL = e.SessionTTL
	}
	if e.ConnectTimeout > 0 {
		config.ConnectTimeout = e.ConnectTimeout
	}
	if origins := splitOrigins(e.CORSOrigins); len(origins) > 0 {
		config.CORSOrigins = origins
	}
}

// splitOrigins accepts a comma-separated list and drops trailing slashes.
func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
