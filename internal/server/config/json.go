package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ghiblifav/internal/flagx"
	"github.com/dmitrijs2005/ghiblifav/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations go through
// timex.Duration so both "8760h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddr      string         `json:"endpoint_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	DataFile          string         `json:"data_file"`
	SecretKey         string         `json:"secret_key"`
	OwnerOpenID       string         `json:"owner_open_id"`
	Mode              string         `json:"mode"`
	HostingFlag       bool           `json:"hosting_flag"`
	PlatformDomain    string         `json:"platform_domain"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	ConnectTimeout    timex.Duration `json:"connect_timeout"`
	LogFormat         string         `json:"log_format"`
	CORSOrigins       []string       `json:"cors_origins"`
	OAuthClientID     string         `json:"oauth_client_id"`
	OAuthClientSecret string         `json:"oauth_client_secret"`
	OAuthAuthURL      string         `json:"oauth_auth_url"`
	OAuthTokenURL     string         `json:"oauth_token_url"`
	OAuthUserInfoURL  string         `json:"oauth_userinfo_url"`
	OAuthRedirectURL  string         `json:"oauth_redirect_url"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing happens; an unreadable or malformed file panics.
// Empty values in the file leave the current setting alone.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DataFile, c.DataFile)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.OwnerOpenID, c.OwnerOpenID)
	setString(&config.Mode, c.Mode)
	setString(&config.PlatformDomain, c.PlatformDomain)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.OAuthClientID, c.OAuthClientID)
	setString(&config.OAuthClientSecret, c.OAuthClientSecret)
	setString(&config.OAuthAuthURL, c.OAuthAuthURL)
	setString(&config.OAuthTokenURL, c.OAuthTokenURL)
	setString(&config.OAuthUserInfoURL, c.OAuthUserInfoURL)
	setString(&config.OAuthRedirectURL, c.OAuthRedirectURL)

	if c.HostingFlag {
		config.HostingFlag = true
	}
	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.ConnectTimeout.Duration > 0 {
		config.ConnectTimeout = c.ConnectTimeout.Duration
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
