// Package handler turns request failures into JSON error responses.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// FaultKey is the fiber.Ctx local under which a recovered panic is stored.
const FaultKey = "apiseed_fault"

// platformMessage is the fixed message returned for recovered panics.
const platformMessage = "PHP error"

// Body is the shape of every error response.
type Body struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Fault is a panic recovered while serving a request.
type Fault struct {
	Value any
	Stack []byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("panic: %v", f.Value)
}

// ErrorHandlers holds the four error strategies. Each one logs the detail
// once and writes a complete response; nothing already written survives.
type ErrorHandlers struct {
	logger  *slog.Logger
	verbose bool
}

// New creates the error handlers. With verbose set, recovered stack traces are logged.
func New(logger *slog.Logger, verbose bool) *ErrorHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandlers{logger: logger, verbose: verbose}
}

// Handle is the fiber.ErrorHandler that picks the matching strategy for err.
func (h *ErrorHandlers) Handle(c *fiber.Ctx, err error) error {
	if fault, ok := c.Locals(FaultKey).(*Fault); ok {
		return h.PlatformError(c, fault)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return h.NotFound(c)
		case fiber.StatusMethodNotAllowed:
			return h.NotAllowed(c, allowedMethods(c))
		}
	}
	return h.Error(c, err)
}

// Error handles an unhandled error. Framework client errors such as a
// malformed body keep their status; everything else is a 500.
func (h *ErrorHandlers) Error(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
	}

	message := "Error: " + err.Error()
	h.logger.ErrorContext(c.UserContext(), "ErrorHandler: "+message,
		slog.Int("status", code),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
	)
	return respond(c, code, message)
}

// NotFound handles a request no route matched.
func (h *ErrorHandlers) NotFound(c *fiber.Ctx) error {
	message := "Route not found for resource: " + requestURI(c)
	h.logger.ErrorContext(c.UserContext(), "NotFound error: "+message,
		slog.String("method", c.Method()),
	)
	return respond(c, fiber.StatusNotFound, message)
}

// NotAllowed handles a request whose path matched but whose method did not.
func (h *ErrorHandlers) NotAllowed(c *fiber.Ctx, methods []string) error {
	allow := strings.Join(methods, ", ")
	message := "Method must be one of: " + allow
	h.logger.ErrorContext(c.UserContext(), "NotAllowed Error: "+message,
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
	)
	c.Set(fiber.HeaderAllow, allow)
	return respond(c, fiber.StatusMethodNotAllowed, message)
}

// PlatformError handles a recovered panic. The detail only goes to the log.
func (h *ErrorHandlers) PlatformError(c *fiber.Ctx, fault *Fault) error {
	attrs := []any{
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
	}
	if h.verbose && len(fault.Stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(fault.Stack)))
	}
	h.logger.ErrorContext(c.UserContext(), "Platform error: "+fmt.Sprint(fault.Value), attrs...)
	return respond(c, fiber.StatusInternalServerError, platformMessage)
}

func respond(c *fiber.Ctx, code int, message string) error {
	c.Response().ResetBody()
	return c.Status(code).JSON(Body{Error: true, Message: message})
}

// allowedMethods reads the Allow header fiber's router fills in when the
// path exists under other methods.
func allowedMethods(c *fiber.Ctx) []string {
	allow := c.GetRespHeader(fiber.HeaderAllow)
	if allow == "" {
		return nil
	}
	methods := strings.Split(allow, ",")
	for i, m := range methods {
		methods[i] = strings.TrimSpace(m)
	}
	return methods
}

// requestURI is the absolute URI of the request, query included.
func requestURI(c *fiber.Ctx) string {
	return c.BaseURL() + c.OriginalURL()
}
