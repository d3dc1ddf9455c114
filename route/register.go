package route

import (
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/apiseed"
)

// Group is the mount name of the demonstration routes.
const Group = "seed"

// Register mounts the demonstration routes on s in a fixed order: default,
// static, hello-by-path, hello-by-body, swagger. Calling it again on the
// same server logs a warning and registers nothing.
func Register(s *apiseed.Server) {
	s.Mount(Group, func(s *apiseed.Server) {
		s.Get("/", Default, &apiseed.RouteConfig{Operation: defaultOperation()})
		s.Get("/home/:name?", Static(HomeTemplate), &apiseed.RouteConfig{Operation: homeOperation()})
		s.Get("/hello/:name", HelloName, &apiseed.RouteConfig{Operation: helloNameOperation()})
		s.Post("/hello", Hello, &apiseed.RouteConfig{Operation: helloOperation()})
		s.Get("/swagger/swagger.json", Swagger(s), &apiseed.RouteConfig{Operation: swaggerOperation()})
	})
}

func errorResponse() *openapi2.Response {
	return &openapi2.Response{
		Description: "unexpected error",
		Schema:      &openapi2.SchemaRef{Ref: "#/definitions/errorModel"},
	}
}

func helloResponses() map[string]*openapi2.Response {
	return map[string]*openapi2.Response{
		"200": {
			Description: "Successful Response",
			Schema:      &openapi2.SchemaRef{Ref: "#/definitions/helloModel"},
		},
		"default": errorResponse(),
	}
}

func formatParam(in string) *openapi2.Parameter {
	return &openapi2.Parameter{
		In:          in,
		Name:        "format",
		Description: "Response format, json or html",
		Type:        &openapi3.Types{openapi3.TypeString},
		Enum:        []any{"json", "html"},
		Default:     "json",
	}
}

func defaultOperation() *openapi2.Operation {
	return &openapi2.Operation{
		Tags:        []string{"documents"},
		Deprecated:  true,
		Description: "Default route.",
		OperationID: "info",
		Produces:    []string{fiber.MIMETextHTML},
		Responses: map[string]*openapi2.Response{
			"200":     {Description: "Successful Response"},
			"default": errorResponse(),
		},
	}
}

func homeOperation() *openapi2.Operation {
	return &openapi2.Operation{
		Tags:        []string{"static"},
		Description: "Home route.",
		OperationID: "home",
		Produces:    []string{fiber.MIMETextHTML},
		Responses: map[string]*openapi2.Response{
			"200": {
				Description: "Successful Response",
				Schema: &openapi2.SchemaRef{Value: &openapi2.Schema{
					Type:   &openapi3.Types{openapi3.TypeString},
					Format: "byte",
				}},
			},
		},
	}
}

func helloNameOperation() *openapi2.Operation {
	return &openapi2.Operation{
		Tags:        []string{"hello"},
		Description: "Greets the name given in the path.",
		OperationID: "helloName",
		Produces:    []string{fiber.MIMEApplicationJSON, fiber.MIMETextHTML},
		Parameters: openapi2.Parameters{
			{
				In:       "path",
				Name:     "name",
				Type:     &openapi3.Types{openapi3.TypeString},
				Required: true,
			},
			formatParam("query"),
		},
		Responses: helloResponses(),
	}
}

func helloOperation() *openapi2.Operation {
	return &openapi2.Operation{
		Tags:        []string{"hello"},
		Description: "Greets the name given in the request body.",
		OperationID: "hello",
		Consumes:    []string{fiber.MIMEApplicationJSON, fiber.MIMEApplicationForm, fiber.MIMEApplicationXML},
		Produces:    []string{fiber.MIMEApplicationJSON, fiber.MIMETextHTML},
		Parameters: openapi2.Parameters{
			{
				In:       "formData",
				Name:     "name",
				Type:     &openapi3.Types{openapi3.TypeString},
				Required: true,
			},
			formatParam("formData"),
		},
		Responses: helloResponses(),
	}
}

func swaggerOperation() *openapi2.Operation {
	return &openapi2.Operation{
		Tags:        []string{"documents"},
		Description: "Swagger API documentation.",
		OperationID: "swagger",
		Produces:    []string{fiber.MIMEApplicationJSON},
		Responses: map[string]*openapi2.Response{
			"200": {
				Description: "Successful Response",
				Schema: &openapi2.SchemaRef{Value: &openapi2.Schema{
					Type: &openapi3.Types{openapi3.TypeObject},
					Properties: openapi2.Schemas{
						"swagger": {Value: &openapi2.Schema{
							Type:        &openapi3.Types{openapi3.TypeString},
							Default:     SwaggerVersion,
							Description: "Version",
						}},
					},
				}},
			},
			"default": errorResponse(),
		},
	}
}
