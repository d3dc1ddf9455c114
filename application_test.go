package apiseed_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karloscodes/apiseed"
	"github.com/karloscodes/apiseed/testsupport"
)

func TestApplicationRun(t *testing.T) {
	ts := testsupport.NewTestServer(t, testsupport.TestServerOptions{
		INI: testsupport.INIOptions{Extra: map[string]string{"Port": "0"}},
		RouteMountFunc: func(s *apiseed.Server) {
			s.Get("/ping", func(ctx *apiseed.Context) error { return ctx.SendString("pong") })
		},
	})
	ts.Application.ShutdownTimeout = 2 * time.Second

	addr := make(chan string, 1)
	ts.App.Hooks().OnListen(func(data fiber.ListenData) error {
		addr <- net.JoinHostPort("127.0.0.1", data.Port)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ts.Application.Run(ctx) }()

	var base string
	select {
	case a := <-addr:
		base = "http://" + a
	case err := <-done:
		t.Fatalf("Run returned before listening: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start listening")
	}

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestApplicationRunListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	ts := testsupport.NewTestServer(t, testsupport.TestServerOptions{
		INI: testsupport.INIOptions{Extra: map[string]string{"Port": port}},
	})

	done := make(chan error, 1)
	go func() { done <- ts.Application.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not report the listen failure")
	}
}

func TestApplicationClose(t *testing.T) {
	var app apiseed.Application
	assert.NoError(t, app.Close())
}
