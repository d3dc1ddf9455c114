package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment constants.
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// Defaults applied when the INI file omits a key.
const (
	Section             = "API"
	DefaultAppName      = "apiseed"
	DefaultLoggerName   = "API_LOGGER"
	DefaultLogDirectory = "logs"
	DefaultLogFile      = "api.log"
	DefaultLogThreshold = "INFO"
	DefaultPort         = "8080"
)

// Config is the typed view of the [API] section plus environment overrides.
// It is built once by Load and never mutated afterwards.
type Config struct {
	AppName     string `mapstructure:"appname"`
	Environment string `mapstructure:"environment" ini:"Environment" validate:"oneof=development production test"`
	Port        string `mapstructure:"port" ini:"Port" validate:"required,numeric"`

	// APIURL is the public base URL of the API; it drives the Swagger host and basePath.
	APIURL string `mapstructure:"api_url" ini:"API_URL" validate:"required,url"`

	// CORSURLs is the raw comma-separated origin list.
	CORSURLs string `mapstructure:"cors_urls" ini:"CORS_URLs" validate:"required"`

	// Logging configuration.
	LoggerName     string `mapstructure:"loggername" ini:"LoggerName" validate:"required"`
	LogDirectory   string `mapstructure:"logpath" ini:"LogPath" validate:"required"`
	LogFile        string `mapstructure:"logfile" ini:"LogFile" validate:"required"`
	LogThreshold   string `mapstructure:"logthreshold" ini:"LogThreshold" validate:"required,threshold"`
	LogsMaxSizeMB  int    `mapstructure:"logsmaxsizeinmb" ini:"LogsMaxSizeInMB" validate:"gte=0"`
	LogsMaxBackups int    `mapstructure:"logsmaxbackups" ini:"LogsMaxBackups" validate:"gte=0"`
	LogsMaxAgeDays int    `mapstructure:"logsmaxageindays" ini:"LogsMaxAgeInDays" validate:"gte=0"`

	// Templates.
	ViewCache          bool   `mapstructure:"viewcache" ini:"ViewCache"`
	TemplatesDirectory string `mapstructure:"templatesdirectory" ini:"TemplatesDirectory"`

	// SessionTimeout is the idle lifetime of a session, in seconds.
	SessionTimeout int `mapstructure:"sessiontimeout" ini:"SessionTimeout" validate:"gte=0"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-"`

	// Document is the raw, case-preserving content of the file.
	Document Document `mapstructure:"-"`
}

// Option customizes Load.
type Option func(*loadOptions)

type loadOptions struct {
	appName     string
	diagnostics *log.Logger
}

// WithDiagnostics redirects the one-line startup diagnostics (default stderr).
func WithDiagnostics(w io.Writer) Option {
	return func(o *loadOptions) {
		o.diagnostics = log.New(w, "", log.LstdFlags)
	}
}

// WithAppName changes the environment variable prefix. Load("app.ini",
// WithAppName("billing")) reads BILLING_ENV, BILLING_PORT, etc.
func WithAppName(name string) Option {
	return func(o *loadOptions) {
		o.appName = name
	}
}

// Load reads the INI file at path and returns the validated configuration.
// Each failure writes exactly one line to the diagnostic sink before returning.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		appName:     DefaultAppName,
		diagnostics: log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(&o)
	}

	appName := strings.ToLower(strings.TrimSpace(o.appName))
	if appName == "" {
		appName = DefaultAppName
	}
	prefix := strings.ToUpper(appName)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			o.diagnostics.Printf("Could not find configuration file: %s", path)
			return nil, fmt.Errorf("config: %s: %w", path, ErrConfigNotFound)
		}
		o.diagnostics.Printf("Could not read configuration file: %s", path)
		return nil, fmt.Errorf("config: %s: %w: %v", path, ErrConfigParse, err)
	}

	doc, err := parseDocument(path)
	if err != nil {
		o.diagnostics.Printf("Could not read configuration file: %s", path)
		return nil, fmt.Errorf("config: %s: %w: %v", path, ErrConfigParse, err)
	}

	v := viper.New()
	setDefaults(v, appName)

	section, err := doc.settings(Section)
	if err != nil {
		o.diagnostics.Printf("Invalid configuration file: %s: %v", path, err)
		return nil, fmt.Errorf("config: %s: %w: %v", path, ErrConfigInvalid, err)
	}
	if err := v.MergeConfigMap(section); err != nil {
		o.diagnostics.Printf("Could not read configuration file: %s", path)
		return nil, fmt.Errorf("config: %s: %w: %v", path, ErrConfigParse, err)
	}

	v.SetEnvPrefix(prefix)
	bindEnvVars(v, prefix)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		o.diagnostics.Printf("Could not read configuration file: %s", path)
		return nil, fmt.Errorf("config: %s: %w: %v", path, ErrConfigParse, err)
	}
	cfg.Path = path
	cfg.Document = doc
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	if err := cfg.validate(); err != nil {
		o.diagnostics.Printf("Invalid configuration file: %s: %v", path, err)
		return nil, fmt.Errorf("config: %s: %w: %v", path, ErrConfigInvalid, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, appName string) {
	v.SetDefault("appname", appName)
	v.SetDefault("environment", Production)
	v.SetDefault("port", DefaultPort)

	v.SetDefault("loggername", DefaultLoggerName)
	v.SetDefault("logpath", DefaultLogDirectory)
	v.SetDefault("logfile", DefaultLogFile)
	v.SetDefault("logthreshold", DefaultLogThreshold)
	v.SetDefault("logsmaxsizeinmb", 20)
	v.SetDefault("logsmaxbackups", 0)
	v.SetDefault("logsmaxageindays", 0)

	v.SetDefault("viewcache", true)
	v.SetDefault("templatesdirectory", "")

	v.SetDefault("sessiontimeout", 1800)
}

func bindEnvVars(v *viper.Viper, prefix string) {
	v.BindEnv("environment", prefix+"_ENV")
	v.BindEnv("port", prefix+"_PORT")
	v.BindEnv("api_url", prefix+"_API_URL")
	v.BindEnv("cors_urls", prefix+"_CORS_URLS")
	v.BindEnv("logpath", prefix+"_LOG_PATH")
	v.BindEnv("logthreshold", prefix+"_LOG_THRESHOLD")
}

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.New(formatValidationError(err))
	}
	return nil
}

// Environment checks.

func (c *Config) IsDevelopment() bool { return c.Environment == Development }
func (c *Config) IsProduction() bool  { return c.Environment == Production }
func (c *Config) IsTest() bool        { return c.Environment == Test }

// GetPort returns the HTTP listen port.
func (c *Config) GetPort() string { return c.Port }

// TemplateCacheEnabled reports whether compiled templates are reused across requests.
// Development builds always reload templates from disk.
func (c *Config) TemplateCacheEnabled() bool {
	return c.ViewCache && !c.IsDevelopment()
}
