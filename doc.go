// Package apiseed is a starter scaffold for a small JSON API built on GoFiber.
//
// It wires together:
//
//   - typed configuration read from the [API] section of an INI file (config)
//   - a rotating-file slog logger that tags records with the session id and client IP (logging)
//   - a CORS policy built from the configured origin list (middleware)
//   - JSON error responses for unhandled errors, unknown routes, wrong methods and panics (handler)
//   - a few demonstration routes and a Swagger 2.0 document of the route table (route)
//
// # Assembly
//
// NewApp runs every step in a fixed order and stops at the first failure:
//
//	app, err := apiseed.NewApp("app.ini", apiseed.WithRoutes(route.Register))
//	if err != nil {
//	    apiseed.WriteStartupFailure(os.Stdout, err)
//	    os.Exit(1)
//	}
//	defer app.Close()
//
//	if err := app.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Routes are registered on a Server with a single handler signature:
//
//	func hello(ctx *apiseed.Context) error {
//	    ctx.Logger.InfoContext(ctx.UserContext(), "hello")
//	    return ctx.JSON(fiber.Map{"hello": ctx.Params("name")})
//	}
//
//	s.Get("/hello/:name", hello, &apiseed.RouteConfig{
//	    Operation: &openapi2.Operation{OperationID: "hello"},
//	})
//
// Every registration is recorded in the server's route table, which the
// Swagger route turns into its paths.
//
// # Configuration
//
//	[API]
//	API_URL=http://localhost:8080/api
//	CORS_URLs=http://localhost:3000,https://app.example.com
//	LogPath=logs
//	LogThreshold=INFO
//
// APISEED_ENV, APISEED_PORT, APISEED_API_URL, APISEED_CORS_URLS,
// APISEED_LOG_PATH and APISEED_LOG_THRESHOLD override the file.
package apiseed
