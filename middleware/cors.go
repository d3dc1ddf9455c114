package middleware

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// ErrNoOrigins is returned when the configured origin list is empty.
var ErrNoOrigins = errors.New("cors: origin list is empty")

var (
	corsMethods = []string{
		fiber.MethodGet,
		fiber.MethodPost,
		fiber.MethodPut,
		fiber.MethodDelete,
		fiber.MethodOptions,
	}
	corsExposeHeaders = []string{
		"Content-Type",
		"X-Requested-With",
		"X-authentication",
		"X-client",
	}
)

// CORSPolicy is the cross-origin policy declared to browsers.
type CORSPolicy struct {
	Origins       []string
	Methods       []string
	AllowHeaders  []string
	ExposeHeaders []string
	Credentials   bool
	MaxAge        int
}

// NewCORSPolicy builds the policy for a comma-separated origin list such as
// "http://a.test:80,https://a.test:443". Order is preserved. "*" allows any origin.
func NewCORSPolicy(origins string) (CORSPolicy, error) {
	var list []string
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if err := validateOrigin(origin); err != nil {
			return CORSPolicy{}, err
		}
		list = append(list, origin)
	}
	if len(list) == 0 {
		return CORSPolicy{}, ErrNoOrigins
	}

	return CORSPolicy{
		Origins:       list,
		Methods:       append([]string(nil), corsMethods...),
		AllowHeaders:  []string{},
		ExposeHeaders: append([]string(nil), corsExposeHeaders...),
		Credentials:   true,
		MaxAge:        0,
	}, nil
}

// AllowsAnyOrigin reports whether the policy contains the "*" wildcard.
func (p CORSPolicy) AllowsAnyOrigin() bool {
	for _, o := range p.Origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// CORS applies the policy with fiber's cors middleware.
func CORS(p CORSPolicy) fiber.Handler {
	cfg := cors.Config{
		AllowMethods:     strings.Join(p.Methods, ","),
		AllowHeaders:     strings.Join(p.AllowHeaders, ","),
		ExposeHeaders:    strings.Join(p.ExposeHeaders, ","),
		AllowCredentials: p.Credentials,
		MaxAge:           p.MaxAge,
	}

	// Credentials rule out a literal "*", so the request origin is echoed instead.
	if p.AllowsAnyOrigin() {
		cfg.AllowOriginsFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = strings.Join(p.Origins, ",")
	}

	return cors.New(cfg)
}

// validateOrigin accepts scheme://host[:port], optionally with a leading
// "*." subdomain wildcard.
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	candidate := origin
	if i := strings.Index(candidate, "://*."); i != -1 {
		candidate = candidate[:i+3] + candidate[i+5:]
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return fmt.Errorf("cors: invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" || strings.Contains(u.Host, "*") ||
		(u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("cors: invalid origin %q", origin)
	}
	return nil
}
