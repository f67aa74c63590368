package products

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/datauri"
	"pod-design-backend/internal/models"
	"pod-design-backend/internal/printify"
	"pod-design-backend/internal/storage"
)

const (
	// MinImageIDLength is the shortest id Printify hands out for uploads.
	MinImageIDLength = 10

	placementFill = 0.9
	minScale      = 0.1
	maxScale      = 1.0
)

// ImageUploader is the Printify upload endpoint. *printify.Client satisfies it.
type ImageUploader interface {
	UploadImage(ctx context.Context, req printify.UploadImageRequest) (*printify.UploadImageResponse, error)
}

// ValidateImageID accepts only string ids of at least MinImageIDLength characters.
func ValidateImageID(id any) (string, error) {
	const op = "products: validate image id"
	s, ok := id.(string)
	if !ok {
		if id == nil {
			return "", apperr.Validation(op, "image id is missing")
		}
		return "", apperr.Validation(op, "image id must be a string, got %T", id)
	}
	if len(s) < MinImageIDLength {
		return "", apperr.Validation(op, "image id %q is shorter than %d characters", s, MinImageIDLength)
	}
	return s, nil
}

// PlacementScale fits the image inside the print area with a margin.
// Unknown image dimensions place the image at full scale.
func PlacementScale(areaWidth, areaHeight, imageWidth, imageHeight int) float64 {
	if imageWidth <= 0 || imageHeight <= 0 {
		return maxScale
	}
	scale := math.Min(float64(areaWidth)/float64(imageWidth), float64(areaHeight)/float64(imageHeight)) * placementFill
	return math.Max(minScale, math.Min(maxScale, scale))
}

type Uploader struct {
	client ImageUploader
	logger zerolog.Logger
}

func NewUploader(client ImageUploader, logger zerolog.Logger) *Uploader {
	return &Uploader{client: client, logger: logger}
}

// Upload sends the artifact's originalUrl to Printify. Remote URLs are passed
// through untouched; data: URIs are sent as base64 contents.
func (u *Uploader) Upload(ctx context.Context, artifact models.DesignArtifact, fileName string) (*models.UploadedImage, error) {
	const op = "products: upload"

	ref := artifact.OriginalURL
	if strings.TrimSpace(ref) == "" {
		return nil, apperr.InvalidInput(op, "artifact %q has no originalUrl", artifact.ID)
	}

	req := printify.UploadImageRequest{FileName: fileName}
	var inline []byte
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		req.URL = ref
		if req.FileName == "" {
			req.FileName = defaultFileName(artifact, ".png")
		}
	case datauri.Is(ref):
		data, contentType, err := datauri.Decode(ref)
		if err != nil {
			return nil, apperr.InvalidInput(op, "artifact %q: %v", artifact.ID, err)
		}
		inline = data
		req.Contents = base64.StdEncoding.EncodeToString(data)
		if req.FileName == "" {
			req.FileName = defaultFileName(artifact, storage.ExtensionFor(contentType))
		}
	default:
		return nil, apperr.InvalidInput(op, "artifact %q: originalUrl must be an http(s) or data: URI", artifact.ID)
	}

	resp, err := u.client.UploadImage(ctx, req)
	if err != nil {
		return nil, err
	}
	id, err := ValidateImageID(resp.ID)
	if err != nil {
		u.logger.Warn().Err(err).Str("artifact_id", artifact.ID).Msg("printify returned an unusable image id")
		return nil, err
	}

	uploaded := &models.UploadedImage{
		ID:         id,
		FileName:   resp.FileName,
		PreviewURL: resp.PreviewURL,
		Width:      resp.Width,
		Height:     resp.Height,
		MimeType:   resp.MimeType,
	}
	if (uploaded.Width <= 0 || uploaded.Height <= 0) && len(inline) > 0 {
		if w, h, err := measure(inline); err == nil {
			uploaded.Width, uploaded.Height = w, h
		}
	}

	u.logger.Info().
		Str("artifact_id", artifact.ID).
		Str("image_id", id).
		Bool("inline", len(inline) > 0).
		Msg("design uploaded to printify")
	return uploaded, nil
}

func defaultFileName(artifact models.DesignArtifact, ext string) string {
	name := artifact.Name
	if name == "" {
		name = artifact.ID
	}
	if name == "" {
		name = "design"
	}
	if strings.Contains(name, ".") {
		return name
	}
	return name + ext
}

func measure(data []byte) (int, int, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("products: measure image: %w", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
