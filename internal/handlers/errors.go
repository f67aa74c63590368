package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
)

// respondError maps err to its HTTP status and records it on the gin context for the request logger.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = "internal"
	}
	c.JSON(apperr.HTTPStatus(err), models.ErrorResponse{
		Error:   string(kind),
		Message: err.Error(),
	})
}

func positiveIntParam(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.InvalidInput("handlers: "+name, "%s must be a positive integer, got %q", name, raw)
	}
	return n, nil
}
