package route_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karloscodes/apiseed/handler"
	"github.com/karloscodes/apiseed/route"
	"github.com/karloscodes/apiseed/testsupport"
)

func newServer(t *testing.T) *testsupport.TestServer {
	t.Helper()
	return testsupport.NewTestServer(t, testsupport.TestServerOptions{
		RouteMountFunc: route.Register,
	})
}

func decodeError(t *testing.T, ts *testsupport.TestServer, resp *http.Response) handler.Body {
	t.Helper()
	var body handler.Body
	require.NoError(t, json.Unmarshal([]byte(ts.Body(resp)), &body))
	return body
}

func TestDefault(t *testing.T) {
	ts := newServer(t)

	resp := ts.Get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, ts.Body(resp))
}

func TestHelloName(t *testing.T) {
	ts := newServer(t)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
	}{
		{"default format", "/hello/foo", fiber.MIMEApplicationJSONCharsetUTF8, `{"error":false,"data":{"hello":"foo"}}`},
		{"json format", "/hello/foo?format=json", fiber.MIMEApplicationJSONCharsetUTF8, `{"error":false,"data":{"hello":"foo"}}`},
		{"html format", "/hello/foo?format=html", fiber.MIMETextHTMLCharsetUTF8, `<p id="hello">Hello, foo.</p>`},
		{"format is case-insensitive", "/hello/foo?format=HTML", fiber.MIMETextHTMLCharsetUTF8, `<p id="hello">Hello, foo.</p>`},
		{"unknown format falls back to json", "/hello/foo?format=xml", fiber.MIMEApplicationJSONCharsetUTF8, `{"error":false,"data":{"hello":"foo"}}`},
		{"html is not escaped", "/hello/%3Cem%3E?format=html", fiber.MIMETextHTMLCharsetUTF8, `<p id="hello">Hello, <em>.</p>`},
		{"encoded space is decoded", "/hello/a%20b", fiber.MIMEApplicationJSONCharsetUTF8, `{"error":false,"data":{"hello":"a b"}}`},
		{"encoded slash stays in the name", "/hello/a%2Fb", fiber.MIMEApplicationJSONCharsetUTF8, `{"error":false,"data":{"hello":"a/b"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.Get(tt.path)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get(fiber.HeaderContentType))

			body := ts.Body(resp)
			if tt.contentType == fiber.MIMETextHTMLCharsetUTF8 {
				assert.Equal(t, tt.body, body)
			} else {
				assert.JSONEq(t, tt.body, body)
			}
		})
	}
}

func TestHello(t *testing.T) {
	ts := newServer(t)

	t.Run("json body", func(t *testing.T) {
		resp := ts.Post("/hello", `{"name":"foo"}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"error":false,"data":{"hello":"foo"}}`, ts.Body(resp))
	})

	t.Run("json body with html format", func(t *testing.T) {
		resp := ts.Post("/hello", `{"name":"foo","format":"Html"}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, fiber.MIMETextHTMLCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, `<p id="hello">Hello, foo.</p>`, ts.Body(resp))
	})

	t.Run("form body", func(t *testing.T) {
		resp := ts.PostForm("/hello", "name=foo&format=html")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, `<p id="hello">Hello, foo.</p>`, ts.Body(resp))
	})

	t.Run("xml body", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/hello", strings.NewReader(`<hello><name>foo</name></hello>`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
		resp := ts.Do(req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"error":false,"data":{"hello":"foo"}}`, ts.Body(resp))
	})

	t.Run("empty body uses the defaults", func(t *testing.T) {
		resp := ts.Do(httptest.NewRequest(fiber.MethodPost, "/hello", nil))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, fiber.MIMEApplicationJSONCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
		assert.JSONEq(t, `{"error":false,"data":{"hello":""}}`, ts.Body(resp))
	})

	t.Run("body without a content type is ignored", func(t *testing.T) {
		resp := ts.Do(httptest.NewRequest(fiber.MethodPost, "/hello", strings.NewReader(`{"name":"foo"}`)))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"error":false,"data":{"hello":""}}`, ts.Body(resp))
	})

	t.Run("unsupported body keeps its client status", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/hello", strings.NewReader("name"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
		resp := ts.Do(req)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeError(t, ts, resp)
		assert.True(t, body.Error)
		assert.True(t, strings.HasPrefix(body.Message, "Error: "), body.Message)
	})
}

func TestStatic(t *testing.T) {
	ts := newServer(t)

	t.Run("default name", func(t *testing.T) {
		resp := ts.Get("/home")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, fiber.MIMETextHTMLCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))

		body := ts.Body(resp)
		assert.Contains(t, body, "No name given")
		assert.Contains(t, body, "Template cache: enabled")
	})

	t.Run("name from the path", func(t *testing.T) {
		resp := ts.Get("/home/foo")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, ts.Body(resp), "Hello, foo")
	})

	t.Run("encoded name is decoded", func(t *testing.T) {
		resp := ts.Get("/home/a%2Fb")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, ts.Body(resp), "Hello, a/b")
	})
}

func TestStaticWithoutCache(t *testing.T) {
	ts := testsupport.NewTestServer(t, testsupport.TestServerOptions{
		RouteMountFunc: route.Register,
		INI:            testsupport.INIOptions{Extra: map[string]string{"ViewCache": "false"}},
	})

	resp := ts.Get("/home")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, ts.Body(resp), "Template cache: disabled")
}

func TestErrorResponses(t *testing.T) {
	ts := newServer(t)

	t.Run("unknown route", func(t *testing.T) {
		resp := ts.Get("/nope?x=1")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, handler.Body{
			Error:   true,
			Message: "Route not found for resource: http://example.com/nope?x=1",
		}, decodeError(t, ts, resp))
	})

	t.Run("wrong method on the body route", func(t *testing.T) {
		resp := ts.Delete("/hello")
		assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "POST", resp.Header.Get(fiber.HeaderAllow))
		assert.Equal(t, "Method must be one of: POST", decodeError(t, ts, resp).Message)
	})

	t.Run("wrong method on the path route", func(t *testing.T) {
		resp := ts.Put("/hello/foo", `{}`)
		assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "GET, HEAD", resp.Header.Get(fiber.HeaderAllow))
		assert.Equal(t, "Method must be one of: GET, HEAD", decodeError(t, ts, resp).Message)
	})
}

func TestCORS(t *testing.T) {
	ts := testsupport.NewTestServer(t, testsupport.TestServerOptions{
		RouteMountFunc: route.Register,
		INI:            testsupport.INIOptions{CORSURLs: "http://a.test:80, https://a.test:443"},
	})

	req := httptest.NewRequest(fiber.MethodGet, "/hello/foo", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://a.test:443")
	resp := ts.Do(req)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://a.test:443", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))

	preflight := httptest.NewRequest(fiber.MethodOptions, "/hello", nil)
	preflight.Header.Set(fiber.HeaderOrigin, "http://a.test:80")
	preflight.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	resp = ts.Do(preflight)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", resp.Header.Get(fiber.HeaderAccessControlAllowMethods))
}
