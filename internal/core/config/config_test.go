package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsFillMinimalFile(t *testing.T) {
	p := writeConfig(t, "app:\n  name: folio\njwt:\n  secret: s3cret\n")
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "folio", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 1200, c.Upload.MaxSide)
	assert.Equal(t, 85, c.Upload.Quality)
	assert.Equal(t, "https://api.github.com", c.GitHub.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.GitHub.ListTimeout())
	assert.Equal(t, 5*time.Second, c.GitHub.EnrichTimeout())
}

func TestLoad_EnvOverride(t *testing.T) {
	p := writeConfig(t, "github:\n  owner: from-file\n")
	t.Setenv("APP_GITHUB_OWNER", "from-env")
	t.Setenv("APP_APP_SITE_URL", "https://folio.dev")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.GitHub.Owner)
	assert.Equal(t, "https://folio.dev", c.App.SiteURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DatabaseURLFallback(t *testing.T) {
	p := writeConfig(t, "db:\n  dsn: local.db\n")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/folio")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/folio", c.DB.DSN)

	t.Setenv("APP_DB_DSN", "explicit.db")
	c, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, "explicit.db", c.DB.DSN)
}
