package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how much to log.
type Config struct {
	// Name is the logger channel, attached to every record.
	Name string

	// Directory holds the log file. Created on demand.
	Directory string

	// Filename inside Directory. Defaults to "api.log".
	Filename string

	// Threshold is a level name or numeric code, see ParseThreshold.
	Threshold string

	// Environment selects console output: development gets a colored
	// console, production mirrors JSON to stdout when Console is set.
	Environment string
	Console     bool

	// Size-based rotation, see lumberjack.Logger.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// DailyRotation starts a fresh file at local midnight.
	DailyRotation bool

	// Diagnostics receives the line written when the directory cannot be
	// created. Defaults to the standard logger.
	Diagnostics *log.Logger
}

// Logger is a slog.Logger backed by a rotating file.
type Logger struct {
	*slog.Logger

	// Verbose is set when the threshold is DEBUG. Callers use it to add
	// stack traces and other detail to what they log.
	Verbose bool

	level    slog.Level
	file     *lumberjack.Logger
	rotation *dailyRotation
}

// New builds the logger described by cfg. It fails only on an unknown threshold;
// an unusable directory degrades to console output.
func New(cfg Config) (*Logger, error) {
	level, err := ParseThreshold(cfg.Threshold)
	if err != nil {
		return nil, err
	}

	filename := cfg.Filename
	if filename == "" {
		filename = "api.log"
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 20
	}

	verbose := level <= LevelDebug
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   verbose,
		ReplaceAttr: replaceLevel,
	}

	l := &Logger{Verbose: verbose, level: level}

	var handlers fanoutHandler
	if EnsureDir(cfg.Directory, cfg.Diagnostics) {
		l.file = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Directory, filename),
			MaxSize:    maxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		var w io.Writer = l.file
		if cfg.Console && cfg.Environment != "development" {
			w = io.MultiWriter(os.Stdout, l.file)
		}
		handlers = append(handlers, slog.NewJSONHandler(w, opts))

		if cfg.DailyRotation {
			l.rotation = startDailyRotation(l.file, func(err error) {
				diagnostics(cfg.Diagnostics).Printf("logging: daily rotation of %s failed: %v", l.file.Filename, err)
			})
		}
	} else if cfg.Environment != "development" {
		// Fall back to stdout only if we can't use the directory
		handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
	}

	if cfg.Environment == "development" {
		handlers = append(handlers, tint.NewHandler(os.Stdout, &tint.Options{
			Level:       level,
			TimeFormat:  "15:04:05",
			AddSource:   verbose,
			ReplaceAttr: replaceConsoleLevel,
		}))
	}

	var handler slog.Handler = handlers
	if len(handlers) == 1 {
		handler = handlers[0]
	}

	name := cfg.Name
	if name == "" {
		name = "API_LOGGER"
	}
	l.Logger = slog.New(newRequestHandler(handler)).With(slog.String("channel", name))
	return l, nil
}

// Level returns the configured threshold.
func (l *Logger) Level() slog.Level { return l.level }

// Path returns the log file path, or "" when logging to the console only.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}

// Close stops the daily rotation and closes the log file.
func (l *Logger) Close() error {
	if l.rotation != nil {
		l.rotation.Stop()
	}
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// EnsureDir creates dir and its parents. Failure is written to diag and
// reported as false.
func EnsureDir(dir string, diag *log.Logger) bool {
	if dir == "" {
		diagnostics(diag).Printf("Unable to create log directory: %s", dir)
		return false
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		diagnostics(diag).Printf("Unable to create log directory: %s", dir)
		return false
	}
	return true
}

func diagnostics(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

// replaceConsoleLevel keeps tint's colored labels for the standard levels
// and spells out the others.
func replaceConsoleLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch level {
	case LevelNotice:
		return tint.Attr(14, slog.String(a.Key, "NTC"))
	case LevelCritical, LevelAlert, LevelEmergency:
		return tint.Attr(9, slog.String(a.Key, LevelName(level)))
	}
	return a
}
