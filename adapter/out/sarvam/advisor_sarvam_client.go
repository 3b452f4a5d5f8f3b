// Package sarvam implements the translation port against Sarvam's
// translate API.
package sarvam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"advisor_server/core/port/out"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/httputil"
	"advisor_server/pkg/logger"
	"advisor_server/pkg/metrics"

	"github.com/goccy/go-json"
)

const (
	DefaultURL = "https://api.sarvam.ai/v1/translate"
	Model      = "sarvam-translate:v1"

	// MaxInputRunes is the longest input sent upstream.
	MaxInputRunes = 2000

	MetricTranslate = "sarvam.translate"
)

// Client implements out.Translator.
type Client struct {
	apiKey string
	url    string
	http   *http.Client
}

var _ out.Translator = (*Client)(nil)

// New creates a client. An empty url uses DefaultURL; a nil httpClient
// gets the pooled translation client.
func New(apiKey, url string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperr.ConfigError("SARVAM_API_KEY is not set")
	}
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = httputil.NewClient(httputil.SarvamClientConfig())
	}
	return &Client{apiKey: apiKey, url: url, http: httpClient}, nil
}

type translateRequest struct {
	Input              string `json:"input"`
	SourceLanguageCode string `json:"source_language_code"`
	TargetLanguageCode string `json:"target_language_code"`
	Model              string `json:"model"`
	Mode               string `json:"mode"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// Translate converts text between two language codes ("en-IN" -> "ta-IN").
// Equal codes return the input without a call.
func (c *Client) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.MissingField("text")
	}
	if sourceCode == targetCode {
		return text, nil
	}
	text = truncateRunes(text, MaxInputRunes)

	body, err := json.Marshal(translateRequest{
		Input:              text,
		SourceLanguageCode: sourceCode,
		TargetLanguageCode: targetCode,
		Model:              Model,
		Mode:               "formal",
	})
	if err != nil {
		return "", apperr.InternalWithError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", apperr.InternalWithError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", c.apiKey)

	done := metrics.Observe(MetricTranslate)
	resp, err := c.http.Do(req)
	if err != nil {
		done(err)
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.Timeout("translation")
		}
		return "", apperr.ExternalServiceFailure("sarvam", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		done(err)
		return "", apperr.ExternalServiceFailure("sarvam", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp.StatusCode, data)
		done(err)
		logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"status": resp.StatusCode,
			"target": targetCode,
		}).Warn("translation request rejected")
		return "", err
	}

	var parsed translateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		done(err)
		return "", apperr.ExternalServiceFailure("sarvam", fmt.Errorf("decode response: %w", err))
	}
	translated := strings.TrimSpace(parsed.TranslatedText)
	if translated == "" {
		err := errors.New("empty translated_text")
		done(err)
		return "", apperr.ExternalServiceFailure("sarvam", err)
	}
	done(nil)
	return translated, nil
}

func statusError(status int, body []byte) error {
	detail := truncateRunes(strings.TrimSpace(string(body)), 200)
	upstream := fmt.Errorf("status %d: %s", status, detail)

	switch status {
	case http.StatusBadRequest:
		return apperr.Wrap(upstream, apperr.CodeExternalService, "Translation request was rejected, check the language codes", http.StatusBadGateway)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Wrap(upstream, apperr.CodeExternalService, "Translation service rejected the API key", http.StatusBadGateway)
	case http.StatusTooManyRequests:
		return apperr.New(apperr.CodeRateLimited, "Translation rate limit exceeded, try again later", http.StatusTooManyRequests).WithError(upstream)
	}
	return apperr.ExternalServiceFailure("sarvam", upstream)
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
