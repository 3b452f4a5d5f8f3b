package middleware

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"advisor_server/pkg/apperr"
	"advisor_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// Header names shared with the panel.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler renders AppErrors, fiber errors and anything else as the
// standard error envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID, _ := c.Locals("request_id").(string)

		response := ErrorResponse{
			Success:   false,
			RequestID: requestID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		var (
			status   int
			appErr   *apperr.AppError
			fiberErr *fiber.Error
		)
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			response.Error = ErrorDetail{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			}

			log := logger.WithContext(c.UserContext()).
				WithField("error_code", appErr.Code).
				WithError(appErr.Err)
			if status >= 500 {
				log.Error("Internal error: %s", appErr.Message)
			} else {
				log.Warn("Client error: %s", appErr.Message)
			}

		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			response.Error = ErrorDetail{
				Code:    mapHTTPStatusToCode(fiberErr.Code),
				Message: fiberErr.Message,
			}

		default:
			status = fiber.StatusInternalServerError
			response.Error = ErrorDetail{
				Code:    apperr.CodeInternalError,
				Message: "An unexpected error occurred",
			}
			logger.WithContext(c.UserContext()).
				WithError(err).
				WithField("stack", string(debug.Stack())).
				Error("Unexpected error: %s", err.Error())
		}

		return c.Status(status).JSON(response)
	}
}

// RequestID assigns a request id and stores it, with the session id when
// the panel sends one, in the request context for logging.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := utils.CopyString(c.Get(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals("request_id", requestID)
		c.Set(HeaderRequestID, requestID)

		ctx := logger.ContextWithRequestID(c.UserContext(), requestID)
		if sessionID := utils.CopyString(c.Get(HeaderSessionID)); sessionID != "" {
			ctx = logger.ContextWithSessionID(ctx, sessionID)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequestLogger logs incoming requests and their responses
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// render now so the logged status is the final one
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		log := logger.WithContext(c.UserContext()).
			WithDuration(time.Since(start)).
			WithFields(map[string]any{
				"method": c.Method(),
				"path":   c.Path(),
				"status": status,
				"ip":     c.IP(),
			})

		switch {
		case status >= 500:
			log.Error("Request failed: %s %s -> %d", c.Method(), c.Path(), status)
		case status >= 400:
			log.Warn("Request error: %s %s -> %d", c.Method(), c.Path(), status)
		default:
			log.Info("Request completed: %s %s -> %d", c.Method(), c.Path(), status)
		}
		return err
	}
}

// Recover middleware recovers from panics
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals("request_id").(string)

				fmt.Fprintf(os.Stderr, "panic in %s %s (request %s): %v\n%s\n",
					c.Method(), c.Path(), requestID, r, debug.Stack())

				logger.WithContext(c.UserContext()).WithFields(map[string]any{
					"panic":  fmt.Sprintf("%v", r),
					"path":   c.Path(),
					"method": c.Method(),
				}).Error("Panic recovered")

				err = c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
					Success:   false,
					RequestID: requestID,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					Error: ErrorDetail{
						Code:    apperr.CodeInternalError,
						Message: "An unexpected error occurred",
					},
				})
			}
		}()
		return c.Next()
	}
}

func mapHTTPStatusToCode(status int) string {
	switch status {
	case 400, 413, 415:
		return apperr.CodeBadRequest
	case 404, 405:
		return apperr.CodeNotFound
	case 408, 504:
		return apperr.CodeTimeout
	case 429:
		return apperr.CodeRateLimited
	case 500:
		return apperr.CodeInternalError
	case 502, 503:
		return apperr.CodeUnavailable
	default:
		return "UNKNOWN_ERROR"
	}
}
