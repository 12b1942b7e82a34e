package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	applyEnv(cfg, &EnvConfig{
		DatabaseDSN:    "postgres://env",
		OwnerOpenID:    "owner-env",
		Mode:           "production",
		HostingHost:    "abc.csb.app",
		SessionTTL:     time.Hour,
		CORSOrigins:    "https://a.example/, https://b.example ,,",
		OAuthClientID:  "cid",
		OAuthTokenURL:  "https://idp/token",
		ConnectTimeout: 0,
	})

	want := &Config{}
	want.LoadDefaults()
	want.DatabaseDSN = "postgres://env"
	want.OwnerOpenID = "owner-env"
	want.Mode = "production"
	want.HostingFlag = true
	want.SessionTTL = time.Hour
	want.CORSOrigins = []string{"https://a.example", "https://b.example"}
	want.OAuthClientID = "cid"
	want.OAuthTokenURL = "https://idp/token"

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_ReadsProcessEnvironment(t *testing.T) {
	origLoad := loadDotEnv
	t.Cleanup(func() { loadDotEnv = origLoad })
	loadDotEnv = func(string) error { return nil }

	t.Setenv("DATABASE_URL", "postgres://from-env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "30m")

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "postgres://from-env", cfg.DatabaseDSN)
	assert.Equal(t, "production", cfg.Mode)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestParseEnv_DotEnvFileFromFlag(t *testing.T) {
	const key = "OWNER_OPEN_ID"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=owner-dotenv\n"), 0o600))
	os.Args = []string{"testbin", "-env", path}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "owner-dotenv", cfg.OwnerOpenID)
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t, []string{"http://localhost:5173"}, splitOrigins(" http://localhost:5173/ "))
}
