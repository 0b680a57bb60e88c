package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("REPORT_INTERVAL_HOURS", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("TZ", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, defaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, defaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, time.Duration(0), cfg.ReportInterval)
	assert.False(t, cfg.BotEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "data/planner.db")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("REPORT_INTERVAL_HOURS", "6")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/planner.db", cfg.DatabaseURL)
	assert.Equal(t, 6*time.Hour, cfg.ReportInterval)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.BotEnabled())
}

func TestLoad_RequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_BadTTL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, 4*time.Hour, parseInterval("4"))
	assert.Equal(t, time.Duration(0), parseInterval("-1"))
	assert.Equal(t, time.Duration(0), parseInterval("abc"))
	assert.Equal(t, time.Duration(0), parseInterval(""))
}

func TestLoadClient(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLANNER_API_URL", "https://planner.example.com/")
	t.Setenv("PLANNER_CONFIG_DIR", dir)

	c := LoadClient()
	assert.Equal(t, "https://planner.example.com", c.APIURL)
	assert.Equal(t, filepath.Join(dir, SessionFile), c.SessionPath())
}

func TestDefaultClientDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultClientDir())
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
