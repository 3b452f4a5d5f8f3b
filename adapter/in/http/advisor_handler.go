package http

import (
	"strings"

	"advisor_server/core/port/in"
	"advisor_server/infra/middleware"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// AdvisorHandler serves the analysis, apply and generation endpoints.
type AdvisorHandler struct {
	svc in.AdvisorUseCase
}

func NewAdvisorHandler(svc in.AdvisorUseCase) *AdvisorHandler {
	return &AdvisorHandler{svc: svc}
}

func (h *AdvisorHandler) Register(router fiber.Router) {
	router.Get("/regions", h.ListRegions)
	router.Get("/regions/:name", h.GetRegion)

	router.Post("/score", h.Score)
	router.Post("/analyze", h.Analyze)
	router.Get("/sessions/:id/score", h.SessionScore)

	rec := router.Group("/recommendations")
	rec.Post("/classify", h.ClassifyRecommendation)
	rec.Post("/apply", h.ApplyRecommendation)

	router.Post("/suggestions/apply", h.ApplySuggestion)

	el := router.Group("/elements")
	el.Post("/generate", h.GenerateElement)
	el.Post("/generate/batch", h.GenerateElements)

	router.Post("/translate", h.Translate)
}

// parseBody decodes the JSON body into dest.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	return nil
}

// sessionID prefers the body value, then the X-Session-ID header.
func sessionID(c *fiber.Ctx, fromBody string) string {
	if s := strings.TrimSpace(fromBody); s != "" {
		return s
	}
	return utils.CopyString(c.Get(middleware.HeaderSessionID))
}

// =============================================================================
// Lookup
// =============================================================================

// ListRegions lists every region profile.
// GET /regions?fields=name,colors
func (h *AdvisorHandler) ListRegions(c *fiber.Ctx) error {
	regions := h.svc.Regions(c.UserContext())
	return response.OKWithMeta(c, response.SelectFields(c, regions), &response.Meta{Total: len(regions)})
}

// GetRegion returns one region profile.
// GET /regions/:name
func (h *AdvisorHandler) GetRegion(c *fiber.Ctx) error {
	region, err := h.svc.Region(c.UserContext(), decodeParam(c, "name"))
	if err != nil {
		return err
	}
	return response.OK(c, response.SelectFields(c, region))
}

// =============================================================================
// Analysis
// =============================================================================

// Score computes the deterministic breakdown.
// POST /score
func (h *AdvisorHandler) Score(c *fiber.Ctx) error {
	var req in.ScoreRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	breakdown, err := h.svc.Score(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, breakdown)
}

// Analyze runs a full analysis.
// POST /analyze
func (h *AdvisorHandler) Analyze(c *fiber.Ctx) error {
	var req in.AnalyzeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.SessionID = sessionID(c, req.SessionID)

	result, err := h.svc.Analyze(c.UserContext(), &req)
	if err != nil {
		return err
	}
	c.Set(middleware.HeaderSessionID, result.SessionID)
	return response.OKWithMeta(c, result, &response.Meta{SessionID: result.SessionID})
}

// SessionScore returns the session's score state.
// GET /sessions/:id/score
func (h *AdvisorHandler) SessionScore(c *fiber.Ctx) error {
	snap, err := h.svc.SessionScore(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, snap)
}

// =============================================================================
// Apply
// =============================================================================

type classifyRequest struct {
	Text string `json:"text"`
}

// ClassifyRecommendation classifies without touching the document.
// POST /recommendations/classify
func (h *AdvisorHandler) ClassifyRecommendation(c *fiber.Ctx) error {
	var req classifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.MissingField("text")
	}
	classified, err := h.svc.ClassifyRecommendation(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return response.OK(c, classified)
}

// ApplyRecommendation classifies and applies a recommendation.
// POST /recommendations/apply
func (h *AdvisorHandler) ApplyRecommendation(c *fiber.Ctx) error {
	var req in.ApplyRecommendationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.SessionID = sessionID(c, req.SessionID)

	result, err := h.svc.ApplyRecommendation(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}

// ApplySuggestion applies a parsed suggestion and awards the bonus.
// POST /suggestions/apply
func (h *AdvisorHandler) ApplySuggestion(c *fiber.Ctx) error {
	var req in.ApplySuggestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Suggestion.Kind == "" {
		return apperr.MissingField("suggestion.kind")
	}
	req.SessionID = sessionID(c, req.SessionID)

	result, err := h.svc.ApplySuggestion(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}

// =============================================================================
// Image elements
// =============================================================================

// GenerateElement generates one element; 201 when it was inserted.
// POST /elements/generate
func (h *AdvisorHandler) GenerateElement(c *fiber.Ctx) error {
	var req in.GenerateElementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.svc.GenerateElement(c.UserContext(), &req)
	if err != nil {
		return err
	}
	if result.Node != nil {
		return response.Created(c, result)
	}
	return response.OK(c, result)
}

type batchRequest struct {
	Elements []*in.GenerateElementRequest `json:"elements"`
}

// GenerateElements generates a batch; failed items carry an error string.
// POST /elements/generate/batch
func (h *AdvisorHandler) GenerateElements(c *fiber.Ctx) error {
	var req batchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	results, err := h.svc.GenerateElements(c.UserContext(), req.Elements)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, results, &response.Meta{Total: len(results)})
}

// Translate passes text through the translation port.
// POST /translate
func (h *AdvisorHandler) Translate(c *fiber.Ctx) error {
	var req in.TranslateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.svc.Translate(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}
