// Package gemini implements the AI text and image ports against Gemini's
// OpenAI-compatible endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"advisor_server/core/port/out"
	"advisor_server/core/service/prompt"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/httputil"
	"advisor_server/pkg/logger"
	"advisor_server/pkg/metrics"
	"advisor_server/pkg/ratelimit"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultTextModel  = "gemini-flash-latest"
	DefaultImageModel = "imagen-3.0-generate-002"

	dataURLPrefix = "data:image/png;base64,"
)

// Latency metric names.
const (
	MetricText  = "gemini.text"
	MetricImage = "gemini.image"
)

// Config configures the client. Zero values fall back to the defaults.
type Config struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Guard       *ratelimit.Guard
	HTTPClient  *http.Client
}

// Client implements out.TextGenerator and out.ImageGenerator.
type Client struct {
	api         *openai.Client
	textModel   string
	imageModel  string
	maxTokens   int
	temperature float32
	guard       *ratelimit.Guard
	cb          *gobreaker.CircuitBreaker
}

var (
	_ out.TextGenerator  = (*Client)(nil)
	_ out.ImageGenerator = (*Client)(nil)
)

// New creates a client. An empty API key is a configuration error.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.ConfigError("GEMINI_API_KEY is not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Guard == nil {
		cfg.Guard = ratelimit.NewGuard(ratelimit.DefaultConfig())
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httputil.NewClient(httputil.GeminiClientConfig(cfg.Timeout))
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	apiCfg.HTTPClient = cfg.HTTPClient

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		textModel:   cfg.TextModel,
		imageModel:  cfg.ImageModel,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		guard:       cfg.Guard,
		cb:          newBreaker("gemini"),
	}, nil
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		// a cancelled caller says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
}

// BreakerState reports the circuit state for readiness checks.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// call runs fn behind the rate guard and the breaker.
func (c *Client) call(ctx context.Context, metric string, fn func() (any, error)) (any, error) {
	release, err := c.guard.Acquire(ctx)
	if err != nil {
		return nil, apperr.Timeout(metric)
	}
	defer release()

	done := metrics.Observe(metric)
	v, err := c.cb.Execute(fn)
	done(err)
	if err != nil {
		return nil, translateError(err)
	}
	return v, nil
}

// =============================================================================
// Text
// =============================================================================

// Generate sends one system + user exchange and returns the reply text.
func (c *Client) Generate(ctx context.Context, system, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})

	v, err := c.call(ctx, MetricText, func() (any, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.textModel,
			Messages:    messages,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("no choices in completion")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(v.(string))
	if text == "" {
		return "", apperr.ExternalServiceFailure("gemini", errors.New("empty completion"))
	}
	return text, nil
}

// =============================================================================
// Image
// =============================================================================

// GenerateImage returns the first image as a data URL, or the hosted URL
// when the upstream returns one.
func (c *Client) GenerateImage(ctx context.Context, req out.ImageRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", apperr.MissingField("prompt")
	}
	ratio := req.AspectRatio
	if ratio == "" {
		ratio = prompt.AspectRatio(req.Dimensions)
	}

	v, err := c.call(ctx, MetricImage, func() (any, error) {
		resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
			Model:          c.imageModel,
			Prompt:         req.Prompt,
			N:              1,
			Size:           sizeFor(ratio),
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, errors.New("no image generated")
		}
		return resp.Data[0], nil
	})
	if err != nil {
		return "", err
	}

	img := v.(openai.ImageResponseDataInner)
	switch {
	case img.B64JSON != "":
		return DataURL(img.B64JSON), nil
	case img.URL != "":
		return img.URL, nil
	}
	return "", apperr.ExternalServiceFailure("gemini", errors.New("image response has no data"))
}

// DataURL prefixes bare base64 PNG data.
func DataURL(b64 string) string {
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	return dataURLPrefix + b64
}

func sizeFor(ratio string) string {
	switch ratio {
	case prompt.AspectLandscape:
		return openai.CreateImageSize1792x1024
	case prompt.AspectPortrait:
		return openai.CreateImageSize1024x1792
	}
	return openai.CreateImageSize1024x1024
}

// translateError maps upstream failures onto application errors.
func translateError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.Unavailable("gemini")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout("gemini")
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return apperr.New(apperr.CodeRateLimited, "Gemini quota exceeded, try again later", http.StatusTooManyRequests).WithError(err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperr.ExternalServiceFailure("gemini", fmt.Errorf("authentication failed: %w", err))
		}
	}
	return apperr.ExternalServiceFailure("gemini", err)
}
