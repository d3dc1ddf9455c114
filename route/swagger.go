package route

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed"
	"github.com/karloscodes/apiseed/config"
)

// Document metadata.
const (
	SwaggerVersion = "2.0"
	APITitle       = "Go API Seed"
	APIVersion     = "0.1.0"
)

// Swagger serves the Swagger 2.0 document of s's route table. The document
// is rebuilt on every request, so routes added later are included.
func Swagger(s *apiseed.Server) apiseed.HandlerFunc {
	return func(ctx *apiseed.Context) error {
		doc, err := BuildDocument(ctx.Config, s.Routes())
		if err != nil {
			return err
		}
		body, err := doc.MarshalJSON()
		if err != nil {
			return err
		}
		ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return ctx.Send(body)
	}
}

// BuildDocument describes routes as a Swagger 2.0 document. Host, basePath
// and scheme come from the configured API_URL.
func BuildDocument(cfg *config.Config, routes []apiseed.Route) (*openapi2.T, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("swagger: api url: %w", err)
	}

	basePath := strings.TrimRight(u.Path, "/")
	if basePath == "" {
		basePath = "/"
	}

	doc := &openapi2.T{
		Swagger: SwaggerVersion,
		Info: openapi3.Info{
			Title:       APITitle,
			Description: "Starter scaffold for a small JSON API.",
			Version:     APIVersion,
		},
		Host:        u.Host,
		BasePath:    basePath,
		Schemes:     []string{u.Scheme},
		Consumes:    []string{fiber.MIMEApplicationJSON, fiber.MIMEApplicationForm, fiber.MIMEApplicationXML},
		Produces:    []string{fiber.MIMEApplicationJSON, fiber.MIMETextHTML},
		Paths:       make(map[string]*openapi2.PathItem),
		Definitions: definitions(),
	}

	for _, r := range routes {
		if !documented(r.Method) {
			continue
		}
		for _, path := range swaggerPaths(r.Path) {
			doc.AddOperation(path, r.Method, operationFor(r, path))
		}
	}

	return doc, nil
}

func documented(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete,
		fiber.MethodPatch, fiber.MethodOptions, fiber.MethodHead:
		return true
	}
	return false
}

// operationFor copies the route's operation and declares every path
// parameter it does not already document.
func operationFor(r apiseed.Route, path string) *openapi2.Operation {
	op := &openapi2.Operation{}
	if r.Operation != nil {
		*op = *r.Operation
		op.Parameters = append(openapi2.Parameters(nil), r.Operation.Parameters...)
	}
	if op.Responses == nil {
		op.Responses = map[string]*openapi2.Response{
			"200": {Description: "Successful Response"},
		}
	}

	for _, name := range pathParams(path) {
		if hasParam(op.Parameters, "path", name) {
			continue
		}
		op.Parameters = append(op.Parameters, &openapi2.Parameter{
			In:       "path",
			Name:     name,
			Type:     &openapi3.Types{openapi3.TypeString},
			Required: true,
		})
	}
	return op
}

func hasParam(params openapi2.Parameters, in, name string) bool {
	for _, p := range params {
		if p != nil && p.In == in && p.Name == name {
			return true
		}
	}
	return false
}

// swaggerPaths converts a fiber route path into Swagger templates. A
// trailing optional parameter yields the path with and without it.
func swaggerPaths(path string) []string {
	var out []string
	if strings.HasSuffix(path, "?") {
		if i := strings.LastIndex(path, "/:"); i >= 0 {
			base := path[:i]
			if base == "" {
				base = "/"
			}
			out = append(out, swaggerPath(base))
		}
	}
	return append(out, swaggerPath(path))
}

func swaggerPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + strings.TrimSuffix(strings.TrimPrefix(seg, ":"), "?") + "}"
		}
	}
	return strings.Join(segments, "/")
}

func pathParams(path string) []string {
	var names []string
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}

func definitions() map[string]*openapi2.SchemaRef {
	return map[string]*openapi2.SchemaRef{
		"errorModel": {Value: &openapi2.Schema{
			Type:     &openapi3.Types{openapi3.TypeObject},
			Required: []string{"error", "message"},
			Properties: openapi2.Schemas{
				"error":   {Value: &openapi2.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}, Example: true}},
				"message": {Value: &openapi2.Schema{Type: &openapi3.Types{openapi3.TypeString}}},
			},
		}},
		"helloModel": {Value: &openapi2.Schema{
			Type: &openapi3.Types{openapi3.TypeObject},
			Properties: openapi2.Schemas{
				"error": {Value: &openapi2.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}, Example: false}},
				"data": {Value: &openapi2.Schema{
					Type: &openapi3.Types{openapi3.TypeObject},
					Properties: openapi2.Schemas{
						"hello": {Value: &openapi2.Schema{Type: &openapi3.Types{openapi3.TypeString}}},
					},
				}},
			},
		}},
	}
}
