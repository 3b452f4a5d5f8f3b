// Package response provides the JSON envelope used by every advisor endpoint.
package response

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// =============================================================================
// Envelope
// =============================================================================

// Response is the standard API response structure.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries list metadata.
type Meta struct {
	Total     int    `json:"total,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// =============================================================================
// Builders
// =============================================================================

// OK returns a successful response.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

// OKWithMeta returns a successful response with metadata.
func OKWithMeta(c *fiber.Ctx, data any, meta *Meta) error {
	return c.JSON(Response{Success: true, Data: data, Meta: meta})
}

// Created returns a 201 response, used when an element was inserted.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

// Error returns an error response.
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, "NOT_FOUND", message)
}

func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message)
}

// =============================================================================
// Sparse fieldsets
// =============================================================================

// SelectFields keeps only the json fields named in ?fields=a,b.
// GET /api/v1/regions?fields=name,colors
func SelectFields(c *fiber.Ctx, data any) any {
	param := c.Query("fields")
	if param == "" {
		return data
	}

	want := make(map[string]bool)
	for _, f := range strings.Split(param, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			want[f] = true
		}
	}
	return project(reflect.ValueOf(data), want, data)
}

func project(v reflect.Value, want map[string]bool, orig any) any {
	if !v.IsValid() {
		return nil
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		out := make([]map[string]any, v.Len())
		for i := range out {
			out[i] = projectStruct(v.Index(i), want)
		}
		return out
	case reflect.Struct:
		return projectStruct(v, want)
	default:
		return orig
	}
}

func projectStruct(v reflect.Value, want map[string]bool) map[string]any {
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	out := make(map[string]any)
	if v.Kind() != reflect.Struct {
		return out
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if want[strings.ToLower(name)] {
			out[name] = v.Field(i).Interface()
		}
	}
	return out
}
