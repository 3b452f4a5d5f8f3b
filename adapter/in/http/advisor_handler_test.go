package http

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"advisor_server/adapter/out/canvas"
	"advisor_server/core/domain"
	"advisor_server/core/port/out"
	"advisor_server/core/service/advisor"
	"advisor_server/infra/middleware"
	"advisor_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisReply = `79
Bold saffron palette suits Onam.
- Add a thin golden border around the heading
COLOR_SUGGESTIONS_START
Original:
#000000
AI Suggestion:
#FFD700
COLOR_SUGGESTIONS_END`

type stubText struct{}

func (stubText) Generate(context.Context, string, string) (string, error) {
	return analysisReply, nil
}

type stubImages struct{}

func (stubImages) GenerateImage(context.Context, out.ImageRequest) (string, error) {
	return "data:image/png;base64,AAAA", nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total     int    `json:"total"`
		SessionID string `json:"session_id"`
	} `json:"meta"`
}

func newTestApp(t *testing.T) (*fiber.App, *canvas.Document) {
	t.Helper()
	doc := canvas.New(nil, nil)
	svc := advisor.NewService(advisor.Deps{
		Document: doc,
		Text:     stubText{},
		Images:   stubImages{},
	}, advisor.Config{})

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(middleware.RequestID())

	api := app.Group("/api/v1")
	NewAdvisorHandler(svc).Register(api)
	NewCanvasHandler(doc).Register(api)
	NewMetricsHandler(nil, nil).Register(api)
	NewHealthHandler(nil).Register(app)
	return app, doc
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, fiber.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, fiber.MethodGet, "/ready", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, env := do(t, app, fiber.MethodGet, "/api/v1/metrics/cache", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"disabled"`)
}

func TestRegions(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, fiber.MethodGet, "/api/v1/regions?fields=name", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 36, env.Meta.Total)

	var names []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &names))
	require.Len(t, names, 36)
	assert.Len(t, names[0], 1)

	status, env = do(t, app, fiber.MethodGet, "/api/v1/regions/Tamil%20Nadu", "")
	require.Equal(t, fiber.StatusOK, status)
	var region domain.RegionProfile
	require.NoError(t, json.Unmarshal(env.Data, &region))
	assert.Equal(t, "Tamil Nadu", region.Name)
	assert.Equal(t, "#FF9933", region.Colors[0])

	status, env = do(t, app, fiber.MethodGet, "/api/v1/regions/Atlantis", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperr.CodeNotFound, env.Error.Code)
}

func TestScore(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/score",
		`{"region":"Tamil Nadu","language":"Tamil","element":{"kind":"text","text_content":"பொங்கல் வாழ்த்துக்கள்"}}`)
	require.Equal(t, fiber.StatusOK, status)

	var breakdown domain.ScoreBreakdown
	require.NoError(t, json.Unmarshal(env.Data, &breakdown))
	assert.Equal(t, 68, breakdown.Total)

	status, env = do(t, app, fiber.MethodPost, "/api/v1/score", `{"language":"Tamil"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeMissingField, env.Error.Code)

	status, _ = do(t, app, fiber.MethodPost, "/api/v1/score", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAnalyzeAndApplySuggestion(t *testing.T) {
	app, doc := newTestApp(t)

	status, _ := do(t, app, fiber.MethodPost, "/api/v1/canvas/nodes",
		`{"select":true,"nodes":[{"kind":"text","text":"Onam Offers","font_name":"ArialMT","font_size_pt":32}]}`)
	require.Equal(t, fiber.StatusCreated, status)
	require.Len(t, doc.Nodes(), 1)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/analyze", `{"region":"Kerala"}`)
	require.Equal(t, fiber.StatusOK, status)

	var analysis struct {
		SessionID       string `json:"session_id"`
		Language        string `json:"language"`
		AIScore         int    `json:"ai_score"`
		Score           int    `json:"score"`
		Recommendations []string
		Suggestions     []struct {
			ID         string `json:"id"`
			Kind       string `json:"kind"`
			Original   string `json:"original"`
			Suggestion string `json:"suggestion"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &analysis))
	assert.NotEmpty(t, analysis.SessionID)
	assert.Equal(t, analysis.SessionID, env.Meta.SessionID)
	assert.Equal(t, "Malayalam", analysis.Language)
	assert.Equal(t, 79, analysis.AIScore)
	require.Len(t, analysis.Suggestions, 1)
	assert.Equal(t, "color", analysis.Suggestions[0].Kind)

	body, err := json.Marshal(map[string]any{
		"session_id": analysis.SessionID,
		"suggestion": map[string]any{
			"kind":       analysis.Suggestions[0].Kind,
			"original":   analysis.Suggestions[0].Original,
			"suggestion": analysis.Suggestions[0].Suggestion,
		},
	})
	require.NoError(t, err)

	status, env = do(t, app, fiber.MethodPost, "/api/v1/suggestions/apply", string(body))
	require.Equal(t, fiber.StatusOK, status)
	var applied struct {
		SuggestionID string `json:"suggestion_id"`
		BonusAwarded bool   `json:"bonus_awarded"`
		Score        struct {
			Current int `json:"current"`
			Bonus   int `json:"bonus"`
		} `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &applied))
	assert.True(t, applied.BonusAwarded)
	assert.Equal(t, analysis.Suggestions[0].ID, applied.SuggestionID)
	assert.Equal(t, analysis.Score+domain.SuggestionBonus, applied.Score.Current)

	fill := doc.Nodes()[0].Fill
	require.NotNil(t, fill)
	assert.Equal(t, "#FFD700", fill.Hex())

	status, env = do(t, app, fiber.MethodGet, "/api/v1/sessions/"+analysis.SessionID+"/score", "")
	require.Equal(t, fiber.StatusOK, status)
	var snap domain.ScoreSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, domain.SuggestionBonus, snap.Bonus)
}

func TestApplySuggestionValidation(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/suggestions/apply", `{"suggestion":{}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeMissingField, env.Error.Code)

	// colour needs a selection
	status, env = do(t, app, fiber.MethodPost, "/api/v1/suggestions/apply",
		`{"suggestion":{"kind":"color","original":"#000000","suggestion":"#FF9933"}}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, apperr.CodeApplicationFailure, env.Error.Code)
}

func TestRecommendations(t *testing.T) {
	app, doc := newTestApp(t)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/recommendations/classify", `{"text":"Use saffron color #FF9933 for better appeal"}`)
	require.Equal(t, fiber.StatusOK, status)
	var classified struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &classified))
	assert.Equal(t, string(domain.RecommendationColor), classified.Kind)

	status, _ = do(t, app, fiber.MethodPost, "/api/v1/recommendations/classify", `{"text":" "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = do(t, app, fiber.MethodPost, "/api/v1/recommendations/apply",
		`{"region":"Kerala","language":"English","text":"Add text: Happy Onam"}`)
	require.Equal(t, fiber.StatusOK, status)
	nodes := doc.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Happy Onam", nodes[0].Text)
}

func TestGenerateElements(t *testing.T) {
	app, doc := newTestApp(t)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/elements/generate",
		`{"region":"Kerala","type":"icon","description":"snake boat","insert":true}`)
	require.Equal(t, fiber.StatusCreated, status)
	var one struct {
		ImageURL    string `json:"image_url"`
		AspectRatio string `json:"aspect_ratio"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &one))
	assert.Equal(t, "data:image/png;base64,AAAA", one.ImageURL)
	assert.Equal(t, "1:1", one.AspectRatio)
	assert.Len(t, doc.Nodes(), 1)

	status, env = do(t, app, fiber.MethodPost, "/api/v1/elements/generate/batch",
		`{"elements":[{"region":"Kerala","type":"pattern","description":"kasavu"},{"region":"Kerala"}]}`)
	require.Equal(t, fiber.StatusOK, status)
	var batch []struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &batch))
	require.Len(t, batch, 2)
	assert.Empty(t, batch[0].Error)
	assert.NotEmpty(t, batch[1].Error)

	status, _ = do(t, app, fiber.MethodPost, "/api/v1/elements/generate/batch", `{"elements":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestTranslateWithoutTranslator(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/translate", `{"text":"Hello","target":"Hindi"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, apperr.CodeUnavailable, env.Error.Code)

	status, env = do(t, app, fiber.MethodPost, "/api/v1/translate", `{"text":"Hello","target":"English"}`)
	require.Equal(t, fiber.StatusOK, status)
	var res struct {
		Text       string `json:"text"`
		Translated bool   `json:"translated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "Hello", res.Text)
	assert.False(t, res.Translated)
}

func TestCanvasSelection(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, fiber.MethodPost, "/api/v1/canvas/selection", `{"ids":["missing"]}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, apperr.CodeNotFound, env.Error.Code)

	status, _ = do(t, app, fiber.MethodPost, "/api/v1/canvas/nodes", `{"nodes":[{"id":"logo","kind":"shape","shape":"rectangle","bounds":{"width":40,"height":40}}]}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, env = do(t, app, fiber.MethodPost, "/api/v1/canvas/selection", `{"ids":["logo"]}`)
	require.Equal(t, fiber.StatusOK, status)
	var sel []out.Node
	require.NoError(t, json.Unmarshal(env.Data, &sel))
	require.Len(t, sel, 1)
	assert.Equal(t, "logo", sel[0].ID)

	status, _ = do(t, app, fiber.MethodDelete, "/api/v1/canvas/nodes", "")
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestHeaderSessionSurvivesLaterRequests(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, fiber.MethodPost, "/api/v1/canvas/nodes",
		`{"select":true,"nodes":[{"kind":"text","text":"Onam Offers","font_name":"ArialMT","font_size_pt":32}]}`)
	require.Equal(t, fiber.StatusCreated, status)

	analyze := func(session string) {
		t.Helper()
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/analyze", strings.NewReader(`{"region":"Kerala"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.HeaderSessionID, session)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	analyze("session-AAAA")
	for i := 0; i < 5; i++ {
		analyze("session-BBBB")
	}

	for _, id := range []string{"session-AAAA", "session-BBBB"} {
		status, _ := do(t, app, fiber.MethodGet, "/api/v1/sessions/"+id+"/score", "")
		assert.Equal(t, fiber.StatusOK, status, id)
	}
}
