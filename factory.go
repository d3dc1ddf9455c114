package apiseed

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/karloscodes/apiseed/config"
	"github.com/karloscodes/apiseed/logging"
	"github.com/karloscodes/apiseed/middleware"
	"github.com/karloscodes/apiseed/web"
)

// AppOption configures NewApp.
type AppOption func(*appConfig)

type appConfig struct {
	appName      string
	diagnostics  io.Writer
	templatesFS  fs.FS
	serverConfig *ServerConfig
	routes       func(*Server)
}

// WithRoutes sets the route mounting function.
func WithRoutes(fn func(*Server)) AppOption {
	return func(c *appConfig) {
		c.routes = fn
	}
}

// WithDiagnostics redirects startup diagnostics (missing config file,
// unusable log directory) away from stderr.
func WithDiagnostics(w io.Writer) AppOption {
	return func(c *appConfig) {
		c.diagnostics = w
	}
}

// WithTemplates replaces the embedded templates.
func WithTemplates(fsys fs.FS) AppOption {
	return func(c *appConfig) {
		c.templatesFS = fsys
	}
}

// WithServerConfig overrides the server defaults. NewApp works on a copy and
// always fills in Config, Logger, Verbose, Views and SessionStore; cfg itself
// is left untouched.
func WithServerConfig(cfg *ServerConfig) AppOption {
	return func(c *appConfig) {
		c.serverConfig = cfg
	}
}

// WithAppName sets the application name and env var prefix.
func WithAppName(name string) AppOption {
	return func(c *appConfig) {
		c.appName = name
	}
}

// NewApp assembles the application described by the INI file at iniPath:
// configuration, logger, CORS policy, template engine, server and routes,
// in that order. Any failure aborts assembly.
//
// Example:
//
//	app, err := apiseed.NewApp("app.ini", apiseed.WithRoutes(route.Register))
//	if err != nil {
//	    apiseed.WriteStartupFailure(os.Stdout, err)
//	    os.Exit(1)
//	}
//	defer app.Close()
//	app.Run(ctx)
func NewApp(iniPath string, opts ...AppOption) (*Application, error) {
	cfg := &appConfig{
		appName:     config.DefaultAppName,
		diagnostics: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	appCfg, err := config.Load(iniPath,
		config.WithAppName(cfg.appName),
		config.WithDiagnostics(cfg.diagnostics),
	)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Name:          appCfg.LoggerName,
		Directory:     appCfg.LogDirectory,
		Filename:      appCfg.LogFile,
		Threshold:     appCfg.LogThreshold,
		Environment:   appCfg.Environment,
		Console:       appCfg.IsProduction(),
		MaxSizeMB:     appCfg.LogsMaxSizeMB,
		MaxBackups:    appCfg.LogsMaxBackups,
		MaxAgeDays:    appCfg.LogsMaxAgeDays,
		DailyRotation: true,
		Diagnostics:   log.New(cfg.diagnostics, "", log.LstdFlags),
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	policy, err := middleware.NewCORSPolicy(appCfg.CORSURLs)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("cors: %w", err)
	}

	templatesFS := cfg.templatesFS
	if templatesFS == nil {
		templatesFS = web.Templates()
	}
	engine := newTemplateEngine(appCfg, templatesFS)

	serverCfg := DefaultServerConfig()
	if cfg.serverConfig != nil {
		copied := *cfg.serverConfig
		serverCfg = &copied
	}
	serverCfg.Config = appCfg
	serverCfg.Logger = logger.Logger
	serverCfg.Verbose = logger.Verbose
	serverCfg.Views = engine
	serverCfg.SessionStore = middleware.NewSessionStore(middleware.SessionConfig{
		CookieName: appCfg.AppName + "_session",
		Expiration: time.Duration(appCfg.SessionTimeout) * time.Second,
		Secure:     appCfg.IsProduction(),
	})

	server, err := NewServer(serverCfg)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("create server: %w", err)
	}

	server.Use(middleware.CORS(policy))
	logger.Debug("CORS middleware added", slog.Any("origins", policy.Origins))

	if cfg.routes != nil {
		cfg.routes(server)
	}

	logger.Debug("Application bootstrap complete",
		slog.String("config", appCfg.Path),
		slog.String("log", logger.Path()),
	)

	return &Application{
		Config: appCfg,
		Logger: logger,
		Server: server,
	}, nil
}

// newTemplateEngine reads templates from TemplatesDirectory in development
// and from fsys otherwise. Reload is on whenever the cache is disabled.
func newTemplateEngine(cfg *config.Config, fsys fs.FS) *html.Engine {
	var engine *html.Engine
	if cfg.IsDevelopment() && cfg.TemplatesDirectory != "" {
		engine = html.New(cfg.TemplatesDirectory, ".html")
	} else {
		engine = html.NewFileSystem(http.FS(fsys), ".html")
	}
	engine.Reload(!cfg.TemplateCacheEnabled())
	return engine
}
