package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/models"
	"pod-design-backend/internal/printareas"
	"pod-design-backend/internal/printify"
)

// CatalogClient is the read side of the Printify API.
type CatalogClient interface {
	GetShops(ctx context.Context) ([]printify.Shop, error)
	GetBlueprints(ctx context.Context) (json.RawMessage, error)
	GetBlueprint(ctx context.Context, blueprintID int) (json.RawMessage, error)
	GetPrintProviders(ctx context.Context, blueprintID int) (json.RawMessage, error)
	GetVariants(ctx context.Context, blueprintID, printProviderID int) (json.RawMessage, error)
}

type PrintAreaResolver interface {
	Resolve(ctx context.Context, blueprintID, printProviderID int) (printareas.Result, error)
}

type CatalogHandler struct {
	client   CatalogClient
	resolver PrintAreaResolver
}

func NewCatalogHandler(client CatalogClient, resolver PrintAreaResolver) *CatalogHandler {
	return &CatalogHandler{client: client, resolver: resolver}
}

// GetShops godoc
// @Summary     List shops
// @Tags        catalog
// @Produce     json
// @Success     200 {array}  printify.Shop
// @Failure     500 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/shops [get]
func (h *CatalogHandler) GetShops(c *gin.Context) {
	shops, err := h.client.GetShops(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shops)
}

// GetBlueprints godoc
// @Summary     List catalog blueprints
// @Description Passes Printify's blueprint list through unchanged.
// @Tags        catalog
// @Produce     json
// @Success     200
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/blueprints [get]
func (h *CatalogHandler) GetBlueprints(c *gin.Context) {
	raw, err := h.client.GetBlueprints(c.Request.Context())
	writeRaw(c, raw, err)
}

// GetBlueprint godoc
// @Summary     Get a blueprint
// @Tags        catalog
// @Produce     json
// @Param       id path int true "Blueprint ID"
// @Success     200
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/blueprints/{id} [get]
func (h *CatalogHandler) GetBlueprint(c *gin.Context) {
	id, err := positiveIntParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	raw, err := h.client.GetBlueprint(c.Request.Context(), id)
	writeRaw(c, raw, err)
}

// GetPrintProviders godoc
// @Summary     List print providers for a blueprint
// @Tags        catalog
// @Produce     json
// @Param       id path int true "Blueprint ID"
// @Success     200
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/blueprints/{id}/providers [get]
func (h *CatalogHandler) GetPrintProviders(c *gin.Context) {
	id, err := positiveIntParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	raw, err := h.client.GetPrintProviders(c.Request.Context(), id)
	writeRaw(c, raw, err)
}

// GetVariants godoc
// @Summary     List variants for a blueprint and provider
// @Tags        catalog
// @Produce     json
// @Param       id  path int true "Blueprint ID"
// @Param       pid path int true "Print provider ID"
// @Success     200
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/blueprints/{id}/providers/{pid}/variants [get]
func (h *CatalogHandler) GetVariants(c *gin.Context) {
	id, err := positiveIntParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	pid, err := positiveIntParam(c, "pid")
	if err != nil {
		respondError(c, err)
		return
	}
	raw, err := h.client.GetVariants(c.Request.Context(), id, pid)
	writeRaw(c, raw, err)
}

// GetPrintAreas godoc
// @Summary     Resolve print areas
// @Description Normalizes the provider's variant placeholders (or the blueprint's print areas) into a deduplicated list. Falls back to a single 300x300 front area.
// @Tags        catalog
// @Produce     json
// @Param       id  path int true "Blueprint ID"
// @Param       pid path int true "Print provider ID"
// @Success     200 {object} models.PrintAreasResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/blueprints/{id}/providers/{pid}/print-areas [get]
func (h *CatalogHandler) GetPrintAreas(c *gin.Context) {
	id, err := positiveIntParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	pid, err := positiveIntParam(c, "pid")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.resolver.Resolve(c.Request.Context(), id, pid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PrintAreasResponse{
		BlueprintID:     id,
		PrintProviderID: pid,
		Source:          string(result.Source),
		PrintAreas:      result.Areas,
	})
}

func writeRaw(c *gin.Context, raw json.RawMessage, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
