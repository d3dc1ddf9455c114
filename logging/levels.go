package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Severity levels. The four extra levels sit between and above the slog
// defaults so that thresholds compare the usual way.
const (
	LevelDebug     = slog.LevelDebug
	LevelInfo      = slog.LevelInfo
	LevelNotice    = slog.Level(2)
	LevelWarning   = slog.LevelWarn
	LevelError     = slog.LevelError
	LevelCritical  = slog.Level(12)
	LevelAlert     = slog.Level(16)
	LevelEmergency = slog.Level(20)
)

var levelNames = map[slog.Level]string{
	LevelDebug:     "DEBUG",
	LevelInfo:      "INFO",
	LevelNotice:    "NOTICE",
	LevelWarning:   "WARNING",
	LevelError:     "ERROR",
	LevelCritical:  "CRITICAL",
	LevelAlert:     "ALERT",
	LevelEmergency: "EMERGENCY",
}

// Numeric codes accepted in LogThreshold, e.g. LogThreshold=300.
var levelCodes = map[int]slog.Level{
	100: LevelDebug,
	200: LevelInfo,
	250: LevelNotice,
	300: LevelWarning,
	400: LevelError,
	500: LevelCritical,
	550: LevelAlert,
	600: LevelEmergency,
}

// ParseThreshold converts a level name (any case) or numeric code into a slog.Level.
func ParseThreshold(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		if level, ok := levelCodes[code]; ok {
			return level, nil
		}
		return 0, fmt.Errorf("logging: unknown level code %d", code)
	}

	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "NOTICE":
		return LevelNotice, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	case "ALERT":
		return LevelAlert, nil
	case "EMERGENCY":
		return LevelEmergency, nil
	}
	return 0, fmt.Errorf("logging: unknown level %q", s)
}

// LevelName returns the display name of level, e.g. "NOTICE".
func LevelName(level slog.Level) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return level.String()
}

// replaceLevel renders custom levels by name instead of "INFO+2".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(level))
		}
	}
	return a
}
