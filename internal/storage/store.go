package storage

import (
	"context"
	"mime"
	"strings"
)

// ArtifactStore persists generated design bytes and returns a URL the
// frontend (and, for public stores, Printify) can fetch them from.
type ArtifactStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ExtensionFor maps an image content type to a file extension, defaulting to .png.
func ExtensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
