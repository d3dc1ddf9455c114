package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/karloscodes/apiseed/handler"
)

// Recover converts panics into errors using Fiber's built-in recover and
// records the panic as a handler.Fault so the error handler can answer with
// the platform error response. The stack is captured only when verbose.
func Recover(verbose bool) fiber.Handler {
	return fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			fault := &handler.Fault{Value: e}
			if verbose {
				fault.Stack = debug.Stack()
			}
			c.Locals(handler.FaultKey, fault)
		},
	})
}
