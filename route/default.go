// Package route holds the demonstration routes and their registration.
package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed"
)

// Default answers GET / with an empty 200.
func Default(ctx *apiseed.Context) error {
	return ctx.Status(fiber.StatusOK).Send(nil)
}
