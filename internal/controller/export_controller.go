package controller

import (
	"github.com/gofiber/fiber/v2"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/pkg/serverutils"
	"legal-research-be/pkg/pdf"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	Export(ctx *fiber.Ctx) error
}

type exportController struct {
	exporter pdf.Exporter // nil until a renderer is wired in
}

func NewExportController(exporter pdf.Exporter) IExportController {
	return &exportController{
		exporter: exporter,
	}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Post("", c.Export)
}

func (c *exportController) Export(ctx *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if c.exporter == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "PDF export is not available")
	}

	ctx.Set("Content-Type", "application/pdf")
	return c.exporter.Export(ctx.Context(), req.Question, req.Answer, ctx.Response().BodyWriter())
}
