package products

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
	"pod-design-backend/internal/session"
)

const (
	centerX = 0.5
	centerY = 0.5
)

// Assembler turns a session's assignments into a Printify product draft.
type Assembler struct {
	uploader *Uploader
	logger   zerolog.Logger
}

func NewAssembler(uploader *Uploader, logger zerolog.Logger) *Assembler {
	return &Assembler{uploader: uploader, logger: logger}
}

// Build uploads every assigned artifact once and places it centred on its
// print area. req.PrintAreas supplies the area sizes used for scaling.
func (a *Assembler) Build(ctx context.Context, req models.ProductRequest, assignments *session.Assignments) (models.ProductDraft, error) {
	const op = "products: build draft"

	if strings.TrimSpace(req.Title) == "" {
		return models.ProductDraft{}, apperr.InvalidInput(op, "title is required")
	}
	if req.BlueprintID <= 0 || req.PrintProviderID <= 0 {
		return models.ProductDraft{}, apperr.InvalidInput(op, "blueprint_id and print_provider_id must be positive")
	}
	if len(req.Variants) == 0 {
		return models.ProductDraft{}, apperr.InvalidInput(op, "at least one variant is required")
	}
	if assignments == nil || assignments.Len() == 0 {
		return models.ProductDraft{}, apperr.InvalidInput(op, "at least one design must be assigned to a print area")
	}

	areas := make(map[string]models.PrintArea, len(req.PrintAreas))
	for _, area := range req.PrintAreas {
		position := strings.TrimSpace(area.Position)
		if _, ok := areas[position]; !ok {
			areas[position] = area
		}
	}

	positions := assignments.Positions()
	uploads, err := a.uploadAll(ctx, positions, assignments)
	if err != nil {
		return models.ProductDraft{}, err
	}

	placeholders := make([]models.DraftPlaceholder, 0, len(positions))
	for _, position := range positions {
		artifact, _ := assignments.Get(position)
		uploaded := uploads[uploadKey(artifact)]
		area, ok := areas[position]
		if !ok {
			area = models.PrintArea{Position: position}
		}
		areaW, areaH := area.Dimensions()
		placeholders = append(placeholders, models.DraftPlaceholder{
			Position: position,
			Images: []models.DraftImage{{
				ID:    uploaded.ID,
				X:     centerX,
				Y:     centerY,
				Scale: PlacementScale(areaW, areaH, uploaded.Width, uploaded.Height),
				Angle: 0,
			}},
		})
	}

	variants := make([]models.DraftVariant, len(req.Variants))
	variantIDs := make([]int, len(req.Variants))
	for i, v := range req.Variants {
		variants[i] = v.Draft()
		variantIDs[i] = v.ID
	}

	return models.ProductDraft{
		Title:           req.Title,
		Description:     req.Description,
		Tags:            req.Tags,
		BlueprintID:     req.BlueprintID,
		PrintProviderID: req.PrintProviderID,
		Variants:        variants,
		PrintAreas: []models.DraftPrintArea{{
			VariantIDs:   variantIDs,
			Placeholders: placeholders,
		}},
	}, nil
}

// uploadAll uploads each distinct artifact concurrently, keyed by uploadKey.
func (a *Assembler) uploadAll(ctx context.Context, positions []string, assignments *session.Assignments) (map[string]*models.UploadedImage, error) {
	pending := make(map[string]models.DesignArtifact)
	for _, position := range positions {
		artifact, _ := assignments.Get(position)
		pending[uploadKey(artifact)] = artifact
	}

	var mu sync.Mutex
	uploads := make(map[string]*models.UploadedImage, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for key, artifact := range pending {
		key, artifact := key, artifact
		g.Go(func() error {
			uploaded, err := a.uploader.Upload(gctx, artifact, "")
			if err != nil {
				return err
			}
			mu.Lock()
			uploads[key] = uploaded
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	a.logger.Debug().Int("uploads", len(uploads)).Int("positions", len(positions)).Msg("assigned designs uploaded")
	return uploads, nil
}

func uploadKey(artifact models.DesignArtifact) string {
	if artifact.ID != "" {
		return artifact.ID
	}
	return artifact.OriginalURL
}

// ValidateDraft rejects drafts that reference malformed image ids.
func ValidateDraft(draft models.ProductDraft) error {
	for _, id := range draft.ImageIDs() {
		if _, err := ValidateImageID(id); err != nil {
			return err
		}
	}
	return nil
}
