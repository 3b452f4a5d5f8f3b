package middleware

import (
	"net/http"

	"advisor_server/pkg/apperr"
	"advisor_server/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ClientRateLimit throttles each client IP with its own token bucket. The
// session header is chosen by the caller, so it never picks the bucket.
func ClientRateLimit(limiter *ratelimit.KeyedLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(utils.CopyString(c.IP())) {
			c.Set("Retry-After", "1")
			return apperr.New(apperr.CodeRateLimited, "Too many requests, slow down", http.StatusTooManyRequests)
		}
		return c.Next()
	}
}
