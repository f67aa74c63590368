package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
)

type DesignUploader interface {
	Upload(ctx context.Context, artifact models.DesignArtifact, fileName string) (*models.UploadedImage, error)
}

type UploadsHandler struct {
	uploader DesignUploader
}

func NewUploadsHandler(uploader DesignUploader) *UploadsHandler {
	return &UploadsHandler{uploader: uploader}
}

// Upload godoc
// @Summary     Upload a design to Printify
// @Description Sends the artifact's originalUrl to Printify's media library and returns the validated image id.
// @Tags        uploads
// @Accept      json
// @Produce     json
// @Param       request body models.UploadDesignRequest true "Artifact to upload"
// @Success     200 {object} models.UploadDesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/uploads [post]
func (h *UploadsHandler) Upload(c *gin.Context) {
	var req models.UploadDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("uploads: upload", "invalid request body: %v", err))
		return
	}

	image, err := h.uploader.Upload(c.Request.Context(), req.Artifact, req.FileName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UploadDesignResponse{Image: *image})
}
