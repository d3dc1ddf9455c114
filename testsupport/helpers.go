package testsupport

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// INIOptions describe the [API] section of a generated configuration file.
// Zero fields fall back to test defaults.
type INIOptions struct {
	APIURL       string
	CORSURLs     string
	LogPath      string
	LogThreshold string
	Environment  string

	// Extra keys written verbatim into [API].
	Extra map[string]string
}

// WriteINI writes an INI file into a temporary directory and returns its
// path. Logs go to a temporary directory unless LogPath is set.
func WriteINI(t *testing.T, opts INIOptions) string {
	t.Helper()

	dir := t.TempDir()
	values := map[string]string{
		"API_URL":      or(opts.APIURL, "http://localhost:8080/api"),
		"CORS_URLs":    or(opts.CORSURLs, "http://localhost:3000"),
		"LogPath":      or(opts.LogPath, filepath.Join(dir, "logs")),
		"LogThreshold": or(opts.LogThreshold, "INFO"),
		"Environment":  or(opts.Environment, "test"),
	}
	for k, v := range opts.Extra {
		values[k] = v
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("[API]\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, values[k])
	}

	path := filepath.Join(dir, "app.ini")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("testsupport: write ini: %v", err)
	}
	return path
}

// NewTestLogger creates a slog.Logger that discards all output.
// Use this for tests where you don't need to verify log messages.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
