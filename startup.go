package apiseed

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed/handler"
)

// StartupFailure renders the response reported when the application cannot
// be assembled: status 500 and the standard error body.
func StartupFailure(err error) (int, []byte) {
	body, merr := sonic.Marshal(handler.Body{
		Error:   true,
		Message: "Unable to start application services: " + err.Error(),
	})
	if merr != nil {
		body = []byte(`{"error":true,"message":"Unable to start application services"}`)
	}
	return fiber.StatusInternalServerError, body
}

// WriteStartupFailure writes the startup failure body for err to w.
func WriteStartupFailure(w io.Writer, err error) error {
	_, body := StartupFailure(err)
	_, werr := w.Write(append(body, '\n'))
	return werr
}
