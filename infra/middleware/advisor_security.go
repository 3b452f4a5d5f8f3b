package middleware

import (
	"strings"

	"advisor_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders adds security headers to all responses. The panel is
// embedded by the editor, so framing is limited to frameAncestors instead
// of denied.
func SecurityHeaders(frameAncestors []string) fiber.Handler {
	ancestors := "'none'"
	if len(frameAncestors) > 0 {
		ancestors = strings.Join(frameAncestors, " ")
	}
	csp := "default-src 'self'; img-src 'self' data:; frame-ancestors " + ancestors

	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", csp)
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Set("Server", "")
		return c.Next()
	}
}

// RequireJSON rejects write requests whose body is not JSON.
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		default:
			return c.Next()
		}
		if len(c.Body()) == 0 {
			return c.Next()
		}
		if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
			return apperr.New(apperr.CodeBadRequest, "Content-Type must be application/json", fiber.StatusUnsupportedMediaType)
		}
		return c.Next()
	}
}
