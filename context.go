package apiseed

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed/config"
)

// Context provides request-scoped access to application dependencies.
// It embeds fiber.Ctx for the request/response methods and adds the
// logger and the loaded configuration as plain fields.
type Context struct {
	*fiber.Ctx                // All Fiber HTTP methods (Render, JSON, etc.)
	Logger     *slog.Logger   // Application logger
	Config     *config.Config // Immutable configuration
}

// HandlerFunc is the signature for apiseed request handlers.
type HandlerFunc func(*Context) error
