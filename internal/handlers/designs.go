package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/generation"
	"pod-design-backend/internal/models"
)

type DesignGenerator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

type DesignsHandler struct {
	generator DesignGenerator
}

func NewDesignsHandler(generator DesignGenerator) *DesignsHandler {
	return &DesignsHandler{generator: generator}
}

// Generate godoc
// @Summary     Generate designs
// @Description Generates one design per requested image. Contexts are reused in order when fewer contexts than images are given; contexts without width/height are skipped.
// @Tags        designs
// @Accept      json
// @Produce     json
// @Param       request body models.GenerateDesignsRequest true "Prompt and print area contexts"
// @Success     200 {object} models.GenerateDesignsResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Failure     504 {object} models.ErrorResponse
// @Router      /api/v1/designs/generate [post]
func (h *DesignsHandler) Generate(c *gin.Context) {
	var req models.GenerateDesignsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("designs: generate", "invalid request body: %v", err))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), generation.Request{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		NumImages:      req.NumImages,
		Contexts:       req.PrintAreaContexts,
		Product:        req.Product,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateDesignsResponse{
		Designs:   result.Artifacts,
		Requested: result.Requested,
		Skipped:   result.Skipped,
	})
}
