package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/models"
)

// CredentialChecker reports whether an upstream client has credentials.
type CredentialChecker interface {
	HasCredentials() bool
}

type HealthHandler struct {
	printify CredentialChecker
	imageGen CredentialChecker
	mode     string
}

func NewHealthHandler(printify, imageGen CredentialChecker, mode string) *HealthHandler {
	return &HealthHandler{printify: printify, imageGen: imageGen, mode: mode}
}

// Health godoc
// @Summary     Health check
// @Description Returns "ok" and whether each upstream has credentials configured. Missing credentials do not make the service unhealthy.
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:             "ok",
		PrintifyConfigured: configured(h.printify),
		ImageGenConfigured: configured(h.imageGen),
		ImageGenMode:       h.mode,
	})
}

func configured(c CredentialChecker) bool {
	return c != nil && c.HasCredentials()
}
