package apiseed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/karloscodes/apiseed/config"
	"github.com/karloscodes/apiseed/handler"
	"github.com/karloscodes/apiseed/middleware"
)

// ServerConfig provides server configuration with sensible defaults.
type ServerConfig struct {
	// Core dependencies (required)
	Config *config.Config
	Logger *slog.Logger

	// Verbose adds panic stack traces to error logs.
	Verbose bool

	// Fiber configuration
	ErrorHandler fiber.ErrorHandler
	Views        fiber.Views
	ProxyHeader  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SessionStore backs the session id attached to log records.
	// Nil disables sessions.
	SessionStore *session.Store

	// Middleware configuration
	EnableRequestID     bool
	EnableRequestLogger bool
	EnableRecover       bool
	EnableHelmet        bool
	EnableCompress      bool
}

// DefaultServerConfig returns a configuration with every middleware enabled.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		EnableRequestID:     true,
		EnableRequestLogger: true,
		EnableRecover:       true,
		EnableHelmet:        true,
		EnableCompress:      true,
	}
}

// RouteConfig carries per-route documentation and middleware.
type RouteConfig struct {
	// Operation documents the route in the Swagger output.
	Operation *openapi2.Operation

	// CustomMiddleware run before the handler.
	CustomMiddleware []fiber.Handler
}

// Route is one entry of the route table.
type Route struct {
	Method    string
	Path      string
	Operation *openapi2.Operation
}

// Server wraps a Fiber app and records every route it registers.
type Server struct {
	app *fiber.App
	cfg *ServerConfig

	mu      sync.Mutex
	routes  []Route
	mounted map[string]bool
}

// NewServer creates a server with the global middleware installed.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("apiseed: server config is required")
	}
	if cfg.Config == nil {
		return nil, fmt.Errorf("apiseed: runtime config is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("apiseed: logger is required")
	}

	fiberCfg := fiber.Config{
		AppName:               cfg.Config.AppName,
		DisableDefaultDate:    true,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		Views:                 cfg.Views,
	}
	if cfg.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.ProxyHeader
	}

	if cfg.ErrorHandler != nil {
		fiberCfg.ErrorHandler = cfg.ErrorHandler
	} else {
		fiberCfg.ErrorHandler = handler.New(cfg.Logger, cfg.Verbose).Handle
	}

	server := &Server{
		app:     fiber.New(fiberCfg),
		cfg:     cfg,
		mounted: make(map[string]bool),
	}
	server.setupGlobalMiddleware()

	return server, nil
}

// setupGlobalMiddleware applies standard middleware to all routes.
func (s *Server) setupGlobalMiddleware() {
	if s.cfg.EnableRequestID {
		s.app.Use(middleware.RequestID())
	}

	// The request logger hands errors to the error handler, so it sits
	// outside recover to see the final status of a panicking request.
	if s.cfg.EnableRequestLogger {
		s.app.Use(middleware.RequestLogger(s.cfg.Logger))
	}

	if s.cfg.EnableRecover {
		s.app.Use(middleware.Recover(s.cfg.Verbose))
	}

	s.app.Use(middleware.RequestContext(s.cfg.SessionStore, s.cfg.Logger))

	if s.cfg.EnableHelmet {
		s.app.Use(middleware.Helmet())
	}

	if s.cfg.EnableCompress {
		s.app.Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))
	}
}

// Use adds application-wide middleware. Call it before registering routes.
func (s *Server) Use(handlers ...fiber.Handler) {
	for _, h := range handlers {
		s.app.Use(h)
	}
}

// Mount runs fn once per name. A repeated name is skipped with a warning
// and reported as false.
func (s *Server) Mount(name string, fn func(*Server)) bool {
	s.mu.Lock()
	if s.mounted[name] {
		s.mu.Unlock()
		s.cfg.Logger.Warn("routes already registered", slog.String("group", name))
		return false
	}
	s.mounted[name] = true
	s.mu.Unlock()

	fn(s)
	return true
}

// Get registers a GET route.
func (s *Server) Get(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodGet, path, handler, cfg...)
}

// Post registers a POST route.
func (s *Server) Post(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodPost, path, handler, cfg...)
}

// Put registers a PUT route.
func (s *Server) Put(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodPut, path, handler, cfg...)
}

// Delete registers a DELETE route.
func (s *Server) Delete(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodDelete, path, handler, cfg...)
}

// Patch registers a PATCH route.
func (s *Server) Patch(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodPatch, path, handler, cfg...)
}

// Options registers an OPTIONS route.
func (s *Server) Options(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodOptions, path, handler, cfg...)
}

// Head registers a HEAD route.
func (s *Server) Head(path string, handler HandlerFunc, cfg ...*RouteConfig) {
	s.registerRoute(fiber.MethodHead, path, handler, cfg...)
}

func (s *Server) registerRoute(method, path string, handler HandlerFunc, cfgs ...*RouteConfig) {
	var routeCfg *RouteConfig
	if len(cfgs) > 0 {
		routeCfg = cfgs[0]
	}

	handlers := make([]fiber.Handler, 0, 1)
	route := Route{Method: method, Path: path}
	if routeCfg != nil {
		handlers = append(handlers, routeCfg.CustomMiddleware...)
		route.Operation = routeCfg.Operation
	}
	handlers = append(handlers, s.wrapHandler(handler))

	s.mu.Lock()
	s.routes = append(s.routes, route)
	s.mu.Unlock()

	s.app.Add(method, path, handlers...)
}

// wrapHandler converts an apiseed HandlerFunc to a Fiber handler.
func (s *Server) wrapHandler(handler HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(&Context{
			Ctx:    c,
			Logger: s.cfg.Logger,
			Config: s.cfg.Config,
		})
	}
}

// Routes returns a snapshot of the route table in registration order.
func (s *Server) Routes() []Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Route(nil), s.routes...)
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Config returns the configuration the server was built with.
func (s *Server) Config() *config.Config {
	return s.cfg.Config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.cfg.Logger
}

// Start listens on the configured port and blocks until shutdown.
func (s *Server) Start() error {
	port := s.cfg.Config.GetPort()
	s.cfg.Logger.Info("Server started and ready to accept requests", slog.String("port", port))
	return s.app.Listen(":" + port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
