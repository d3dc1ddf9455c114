package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestIDKey is the fiber.Ctx local holding the request id.
const RequestIDKey = "requestid"

// RequestID tags every request with a ULID, echoed in X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Generator:  NewID,
		ContextKey: RequestIDKey,
	})
}
