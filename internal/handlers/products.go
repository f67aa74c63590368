package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
)

type ProductService interface {
	CreateFromRequest(ctx context.Context, shopID string, req models.ProductRequest) (*models.ProductResponse, error)
	UpdateFromRequest(ctx context.Context, shopID, productID string, req models.ProductRequest) (*models.ProductResponse, error)
	Publish(ctx context.Context, shopID, productID string) error
}

type ProductsHandler struct {
	service ProductService
}

func NewProductsHandler(service ProductService) *ProductsHandler {
	return &ProductsHandler{service: service}
}

// CreateProduct godoc
// @Summary     Create a product
// @Description Uploads every assigned design, builds the draft and creates the product. Malformed image ids are rejected before Printify is called.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       shop_id path string                true "Shop ID"
// @Param       request body models.ProductRequest true "Product details and design assignments"
// @Success     201 {object} models.ProductResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/shops/{shop_id}/products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("products: create", "invalid request body: %v", err))
		return
	}

	resp, err := h.service.CreateFromRequest(c.Request.Context(), c.Param("shop_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateProduct godoc
// @Summary     Update a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       shop_id    path string                true "Shop ID"
// @Param       product_id path string                true "Product ID"
// @Param       request    body models.ProductRequest true "Product details and design assignments"
// @Success     200 {object} models.ProductResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/shops/{shop_id}/products/{product_id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("products: update", "invalid request body: %v", err))
		return
	}

	resp, err := h.service.UpdateFromRequest(c.Request.Context(), c.Param("shop_id"), c.Param("product_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PublishProduct godoc
// @Summary     Publish a product
// @Tags        products
// @Produce     json
// @Param       shop_id    path string true "Shop ID"
// @Param       product_id path string true "Product ID"
// @Success     200 {object} models.PublishResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/shops/{shop_id}/products/{product_id}/publish [post]
func (h *ProductsHandler) PublishProduct(c *gin.Context) {
	productID := c.Param("product_id")
	if err := h.service.Publish(c.Request.Context(), c.Param("shop_id"), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PublishResponse{ProductID: productID, Status: "publishing"})
}
