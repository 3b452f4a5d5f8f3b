package http

import (
	"errors"

	"advisor_server/adapter/out/canvas"
	"advisor_server/core/port/out"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CanvasHandler exposes the in-memory document so a client can seed,
// select and inspect nodes.
type CanvasHandler struct {
	doc *canvas.Document
}

func NewCanvasHandler(doc *canvas.Document) *CanvasHandler {
	return &CanvasHandler{doc: doc}
}

func (h *CanvasHandler) Register(router fiber.Router) {
	cv := router.Group("/canvas")
	cv.Get("/nodes", h.ListNodes)
	cv.Post("/nodes", h.SeedNodes)
	cv.Delete("/nodes", h.Reset)
	cv.Get("/selection", h.GetSelection)
	cv.Post("/selection", h.SetSelection)
	cv.Post("/fonts", h.AddFonts)
}

// ListNodes returns every node.
// GET /canvas/nodes
func (h *CanvasHandler) ListNodes(c *fiber.Ctx) error {
	nodes := h.doc.Nodes()
	return response.OKWithMeta(c, nodes, &response.Meta{Total: len(nodes)})
}

type seedRequest struct {
	Nodes  []out.Node `json:"nodes"`
	Select bool       `json:"select"`
}

// SeedNodes adds nodes, optionally selecting them.
// POST /canvas/nodes
func (h *CanvasHandler) SeedNodes(c *fiber.Ctx) error {
	var req seedRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if len(req.Nodes) == 0 {
		return apperr.MissingField("nodes")
	}

	added, err := h.doc.Seed(req.Nodes...)
	if err != nil {
		return apperr.InvalidInput("nodes", err.Error())
	}
	if req.Select {
		ids := make([]string, len(added))
		for i, n := range added {
			ids[i] = n.ID
		}
		if err := h.doc.Select(ids...); err != nil {
			return apperr.InternalWithError(err)
		}
	}
	return response.Created(c, added)
}

// Reset empties the document.
// DELETE /canvas/nodes
func (h *CanvasHandler) Reset(c *fiber.Ctx) error {
	h.doc.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSelection returns the selected nodes.
// GET /canvas/selection
func (h *CanvasHandler) GetSelection(c *fiber.Ctx) error {
	sel, err := h.doc.Selection(c.UserContext())
	if err != nil {
		return apperr.InternalWithError(err)
	}
	return response.OK(c, sel)
}

type selectRequest struct {
	IDs []string `json:"ids"`
}

// SetSelection replaces the selection; an empty list clears it.
// POST /canvas/selection
func (h *CanvasHandler) SetSelection(c *fiber.Ctx) error {
	var req selectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.doc.Select(req.IDs...); err != nil {
		if errors.Is(err, canvas.ErrNodeNotFound) {
			return apperr.NotFound("node").WithDetail("error", err.Error())
		}
		return apperr.InternalWithError(err)
	}
	sel, _ := h.doc.Selection(c.UserContext())
	return response.OK(c, sel)
}

type fontsRequest struct {
	Fonts []string `json:"fonts"`
}

// AddFonts makes PostScript names available to font changes.
// POST /canvas/fonts
func (h *CanvasHandler) AddFonts(c *fiber.Ctx) error {
	var req fontsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	h.doc.AddFonts(req.Fonts...)
	return c.SendStatus(fiber.StatusNoContent)
}
