// Package testsupport builds fully assembled applications for tests.
package testsupport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed"
)

// TestServerOptions configures test server creation.
type TestServerOptions struct {
	// INI describes the generated configuration file.
	INI INIOptions

	// Route mounting function
	RouteMountFunc func(*apiseed.Server)

	// Custom server configuration (optional)
	ServerConfig *apiseed.ServerConfig

	// Disable middleware for simpler testing
	DisableMiddleware bool
}

// TestServer wraps an assembled application for testing.
type TestServer struct {
	t           *testing.T
	Application *apiseed.Application
	Server      *apiseed.Server
	App         *fiber.App
	INIPath     string
}

// NewTestServer assembles an application from a temporary INI file. The
// application is closed when the test ends.
func NewTestServer(t *testing.T, opts ...TestServerOptions) *TestServer {
	t.Helper()

	var options TestServerOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	serverCfg := options.ServerConfig
	if serverCfg == nil {
		serverCfg = apiseed.DefaultServerConfig()
	}
	if options.DisableMiddleware {
		serverCfg.EnableRequestLogger = false
		serverCfg.EnableCompress = false
	}

	path := WriteINI(t, options.INI)

	appOpts := []apiseed.AppOption{
		apiseed.WithDiagnostics(io.Discard),
		apiseed.WithServerConfig(serverCfg),
	}
	if options.RouteMountFunc != nil {
		appOpts = append(appOpts, apiseed.WithRoutes(options.RouteMountFunc))
	}

	app, err := apiseed.NewApp(path, appOpts...)
	if err != nil {
		t.Fatalf("testsupport: failed to create test application: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	return &TestServer{
		t:           t,
		Application: app,
		Server:      app.Server,
		App:         app.Server.App(),
		INIPath:     path,
	}
}

// Do performs req against the application.
func (ts *TestServer) Do(req *http.Request) *http.Response {
	ts.t.Helper()

	resp, err := ts.App.Test(req, -1)
	if err != nil {
		ts.t.Fatalf("testsupport: request failed: %v", err)
	}
	return resp
}

// Request performs a test request with an optional JSON body.
func (ts *TestServer) Request(method, path string, body ...string) *http.Response {
	ts.t.Helper()

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = strings.NewReader(body[0])
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if len(body) > 0 {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return ts.Do(req)
}

// Get performs a GET request.
func (ts *TestServer) Get(path string) *http.Response {
	return ts.Request(fiber.MethodGet, path)
}

// Post performs a POST request with a JSON body.
func (ts *TestServer) Post(path, body string) *http.Response {
	return ts.Request(fiber.MethodPost, path, body)
}

// PostForm performs a POST request with a form-encoded body.
func (ts *TestServer) PostForm(path, body string) *http.Response {
	ts.t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return ts.Do(req)
}

// Put performs a PUT request with a JSON body.
func (ts *TestServer) Put(path, body string) *http.Response {
	return ts.Request(fiber.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (ts *TestServer) Delete(path string) *http.Response {
	return ts.Request(fiber.MethodDelete, path)
}

// Body reads and closes the response body.
func (ts *TestServer) Body(resp *http.Response) string {
	ts.t.Helper()

	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("testsupport: read body: %v", err)
	}
	return string(b)
}
