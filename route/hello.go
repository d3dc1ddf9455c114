package route

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed"
)

const defaultFormat = "json"

type helloRequest struct {
	Name   string `json:"name" form:"name" xml:"name"`
	Format string `json:"format" form:"format" xml:"format"`
}

type helloResponse struct {
	Error bool      `json:"error"`
	Data  helloData `json:"data"`
}

type helloData struct {
	Hello string `json:"hello"`
}

// HelloName greets the name in the path. ?format=html switches to HTML.
func HelloName(ctx *apiseed.Context) error {
	return greet(ctx, pathParam(ctx, "name"), ctx.Query("format", defaultFormat))
}

// Hello greets the name in the request body. JSON, form and XML bodies are
// accepted. A request without a body or a Content-Type is an empty greeting.
func Hello(ctx *apiseed.Context) error {
	var req helloRequest
	if len(ctx.Body()) > 0 && ctx.Get(fiber.HeaderContentType) != "" {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}
	format := req.Format
	if format == "" {
		format = defaultFormat
	}
	return greet(ctx, req.Name, format)
}

// pathParam returns the decoded route parameter. Routing matches the raw
// path, so an encoded "/" stays inside a single segment. A malformed escape
// is returned as sent.
func pathParam(ctx *apiseed.Context, key string) string {
	raw := ctx.Params(key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// greet writes the name unescaped in HTML, or wrapped in the JSON envelope.
func greet(ctx *apiseed.Context, name, format string) error {
	if strings.EqualFold(format, "html") {
		ctx.Type("html", "utf-8")
		return ctx.SendString(`<p id="hello">Hello, ` + name + `.</p>`)
	}
	return ctx.JSON(helloResponse{Data: helloData{Hello: name}}, fiber.MIMEApplicationJSONCharsetUTF8)
}
