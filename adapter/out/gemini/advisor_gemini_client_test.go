package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"
	"advisor_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	path string
	body map[string]any
	auth string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &rec.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1beta/openai/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(Config{})
	assert.True(t, apperr.HasCode(err, apperr.CodeConfigError))
}

func TestGenerate(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  82\nStrong regional fit  "},"finish_reason":"stop"}]}`)
	c := newClient(t, srv)

	text, err := c.Generate(context.Background(), "You are The Analyst", "Score this")
	require.NoError(t, err)
	assert.Equal(t, "82\nStrong regional fit", text)

	assert.True(t, strings.HasSuffix(rec.path, "/v1beta/openai/chat/completions"), rec.path)
	assert.Equal(t, "Bearer test-key", rec.auth)
	assert.Equal(t, DefaultTextModel, rec.body["model"])

	messages, ok := rec.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestGenerateEmptyReply(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`)
	c := newClient(t, srv)

	_, err := c.Generate(context.Background(), "", "hi")
	assert.True(t, apperr.HasCode(err, apperr.CodeExternalService))
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
	}{
		{"quota", http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"auth", http.StatusUnauthorized, apperr.CodeExternalService},
		{"server", http.StatusInternalServerError, apperr.CodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, `{"error":{"message":"upstream said no","type":"error"}}`)
			c := newClient(t, srv)

			_, err := c.Generate(context.Background(), "", "hi")
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestGenerateImage(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"created":1,"data":[{"b64_json":"iVBORw0KGgo="}]}`)
	c := newClient(t, srv)

	url, err := c.GenerateImage(context.Background(), out.ImageRequest{
		Prompt:     "A lotus icon in Kerala mural art style",
		Dimensions: domain.Dimensions{Width: 1024, Height: 512},
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", url)

	assert.True(t, strings.HasSuffix(rec.path, "/images/generations"), rec.path)
	assert.Equal(t, DefaultImageModel, rec.body["model"])
	assert.Equal(t, "b64_json", rec.body["response_format"])
	assert.Equal(t, "1792x1024", rec.body["size"])
}

func TestGenerateImageRequiresPrompt(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv)

	_, err := c.GenerateImage(context.Background(), out.ImageRequest{})
	assert.True(t, apperr.HasCode(err, apperr.CodeMissingField))
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AAAA", DataURL("AAAA"))
	assert.Equal(t, "data:image/jpeg;base64,AAAA", DataURL("data:image/jpeg;base64,AAAA"))
}
