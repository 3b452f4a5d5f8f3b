package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// decodeParam returns a path parameter with percent-escapes removed, so
// "Tamil%20Nadu" becomes "Tamil Nadu".
func decodeParam(c *fiber.Ctx, name string) string {
	raw := utils.CopyString(c.Params(name))
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
