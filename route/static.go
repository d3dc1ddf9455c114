package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed"
)

// HomeTemplate is the template rendered by the /home route.
const HomeTemplate = "home"

const noName = "No name given"

// Static renders template with the optional :name parameter and the
// template cache status.
func Static(template string) apiseed.HandlerFunc {
	return func(ctx *apiseed.Context) error {
		name := pathParam(ctx, "name")
		if name == "" {
			name = noName
		}
		return ctx.Render(template, fiber.Map{
			"name":         name,
			"cache_status": ctx.Config.TemplateCacheEnabled(),
		})
	}
}
