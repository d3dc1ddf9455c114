package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/karloscodes/apiseed/logging"
)

// SessionIDKey is the fiber.Ctx local holding the session id.
const SessionIDKey = "session_id"

// SessionConfig configures the session store.
type SessionConfig struct {
	CookieName string
	Expiration time.Duration
	Secure     bool
}

// NewSessionStore creates an in-memory session store keyed by ULIDs.
func NewSessionStore(cfg SessionConfig) *session.Store {
	name := cfg.CookieName
	if name == "" {
		name = "session_id"
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = 30 * time.Minute
	}
	return session.New(session.Config{
		KeyLookup:      "cookie:" + name,
		Expiration:     expiration,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
		KeyGenerator:   NewID,
	})
}

// RequestContext records the caller's session id and IP in the request's
// user context, where the logger picks them up. Only a session the client
// already holds is reported; a request without one gets an empty id and no
// cookie. A nil store leaves the session id empty.
func RequestContext(store *session.Store, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := logging.RequestInfo{RemoteIP: c.IP()}

		if store != nil {
			sess, err := store.Get(c)
			if err != nil {
				logger.WarnContext(c.UserContext(), "session unavailable", slog.Any("error", err))
			} else if !sess.Fresh() {
				info.SessionID = sess.ID()
				// Save also releases sess; the id was read above.
				if err := sess.Save(); err != nil {
					logger.WarnContext(c.UserContext(), "session save failed", slog.Any("error", err))
				}
			}
		}

		c.Locals(SessionIDKey, info.SessionID)
		c.SetUserContext(logging.WithRequestInfo(c.UserContext(), info))
		return c.Next()
	}
}
