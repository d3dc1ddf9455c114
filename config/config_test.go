package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validINI = `; seed configuration
[API]
API_URL = https://api.example.test/v1
LogPath = /var/log/seed
LogThreshold = DEBUG
CORS_URLs = http://a.test:80,https://a.test:443

[Extra]
Mixed_Case = Value
`

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads the API section", func(t *testing.T) {
		path := writeINI(t, validINI)

		cfg, err := Load(path, WithDiagnostics(&bytes.Buffer{}))
		require.NoError(t, err)

		assert.Equal(t, "https://api.example.test/v1", cfg.APIURL)
		assert.Equal(t, "/var/log/seed", cfg.LogDirectory)
		assert.Equal(t, "DEBUG", cfg.LogThreshold)
		assert.Equal(t, "http://a.test:80,https://a.test:443", cfg.CORSURLs)
		assert.Equal(t, path, cfg.Path)
	})

	t.Run("applies defaults", func(t *testing.T) {
		path := writeINI(t, "[API]\nAPI_URL = http://localhost\nCORS_URLs = http://localhost\n")

		cfg, err := Load(path, WithDiagnostics(&bytes.Buffer{}))
		require.NoError(t, err)

		assert.Equal(t, DefaultLogDirectory, cfg.LogDirectory)
		assert.Equal(t, DefaultLogFile, cfg.LogFile)
		assert.Equal(t, DefaultLogThreshold, cfg.LogThreshold)
		assert.Equal(t, DefaultLoggerName, cfg.LoggerName)
		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, Production, cfg.Environment)
		assert.True(t, cfg.TemplateCacheEnabled())
	})

	t.Run("keeps raw document case", func(t *testing.T) {
		path := writeINI(t, validINI)

		cfg, err := Load(path, WithDiagnostics(&bytes.Buffer{}))
		require.NoError(t, err)

		v, ok := cfg.Document.Get("API", "CORS_URLs")
		assert.True(t, ok)
		assert.Equal(t, "http://a.test:80,https://a.test:443", v)

		v, ok = cfg.Document.Get("Extra", "Mixed_Case")
		assert.True(t, ok)
		assert.Equal(t, "Value", v)

		_, ok = cfg.Document.Get("extra", "mixed_case")
		assert.False(t, ok)
		assert.Nil(t, cfg.Document.Section("Missing"))
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		t.Setenv("APISEED_PORT", "9090")
		t.Setenv("APISEED_ENV", "development")
		t.Setenv("APISEED_LOG_THRESHOLD", "warning")
		path := writeINI(t, validINI)

		cfg, err := Load(path, WithDiagnostics(&bytes.Buffer{}))
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, "warning", cfg.LogThreshold)
		assert.False(t, cfg.TemplateCacheEnabled())
	})

	t.Run("custom app name changes the env prefix", func(t *testing.T) {
		t.Setenv("BILLING_PORT", "7070")
		path := writeINI(t, validINI)

		cfg, err := Load(path, WithAppName("billing"), WithDiagnostics(&bytes.Buffer{}))
		require.NoError(t, err)

		assert.Equal(t, "billing", cfg.AppName)
		assert.Equal(t, "7070", cfg.Port)
	})
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "app.ini")
		var diag bytes.Buffer

		cfg, err := Load(path, WithDiagnostics(&diag))

		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		lines := strings.Split(strings.TrimRight(diag.String(), "\n"), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "Could not find configuration file: "+path)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeINI(t, "[API\nAPI_URL = http://localhost\n")
		var diag bytes.Buffer

		_, err := Load(path, WithDiagnostics(&diag))

		assert.ErrorIs(t, err, ErrConfigParse)
		assert.Equal(t, 1, strings.Count(diag.String(), "\n"))
		assert.Contains(t, diag.String(), "Could not read configuration file: "+path)
	})

	t.Run("line without delimiter", func(t *testing.T) {
		path := writeINI(t, "[API]\nAPI_URL\n")

		_, err := Load(path, WithDiagnostics(&bytes.Buffer{}))
		assert.ErrorIs(t, err, ErrConfigParse)
	})

	t.Run("missing API section", func(t *testing.T) {
		path := writeINI(t, "[Other]\nkey = value\n")
		var diag bytes.Buffer

		_, err := Load(path, WithDiagnostics(&diag))

		assert.ErrorIs(t, err, ErrConfigInvalid)
		assert.Contains(t, diag.String(), path)
	})

	t.Run("missing required keys", func(t *testing.T) {
		path := writeINI(t, "[API]\nLogPath = logs\n")

		_, err := Load(path, WithDiagnostics(&bytes.Buffer{}))

		require.ErrorIs(t, err, ErrConfigInvalid)
		assert.Contains(t, err.Error(), "API_URL is required")
		assert.Contains(t, err.Error(), "CORS_URLs is required")
	})

	t.Run("unknown threshold", func(t *testing.T) {
		path := writeINI(t, "[API]\nAPI_URL = http://localhost\nCORS_URLs = http://localhost\nLogThreshold = LOUD\n")

		_, err := Load(path, WithDiagnostics(&bytes.Buffer{}))

		require.ErrorIs(t, err, ErrConfigInvalid)
		assert.Contains(t, err.Error(), "LogThreshold")
	})

	t.Run("invalid environment", func(t *testing.T) {
		path := writeINI(t, "[API]\nAPI_URL = http://localhost\nCORS_URLs = http://localhost\nEnvironment = staging\n")

		_, err := Load(path, WithDiagnostics(&bytes.Buffer{}))

		require.ErrorIs(t, err, ErrConfigInvalid)
		assert.Contains(t, err.Error(), "Environment must be one of")
	})
}

func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{Environment: Development}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Environment = Production
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsTest())

	cfg.Environment = Test
	assert.True(t, cfg.IsTest())
}
