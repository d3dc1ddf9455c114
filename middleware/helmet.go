package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
)

// Helmet sets security headers suited to a JSON API that browsers call
// from other origins.
func Helmet() fiber.Handler {
	return helmet.New(helmet.Config{
		ReferrerPolicy:            "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
	})
}
