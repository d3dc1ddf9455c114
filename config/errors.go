package config

import "errors"

var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigParse is returned when the file exists but cannot be read or parsed.
	ErrConfigParse = errors.New("configuration file unreadable")

	// ErrConfigInvalid is returned when required settings are missing or malformed.
	ErrConfigInvalid = errors.New("configuration invalid")
)
