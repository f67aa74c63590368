package printareas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
)

// Source records which input produced a resolution.
type Source string

const (
	SourceVariants  Source = "variants"
	SourceBlueprint Source = "blueprint"
	SourceFallback  Source = "fallback"
)

// Fallback is returned when neither the variants nor the blueprint list any print area.
var Fallback = models.PrintArea{ID: "front", Position: "front", Width: 300, Height: 300}

type Result struct {
	Areas  []models.PrintArea
	Source Source
}

type placeholder struct {
	ID       json.RawMessage `json:"id"`
	Position string          `json:"position"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
}

// collector accumulates areas, dropping any whose position+width+height was already seen.
type collector struct {
	seen  map[string]struct{}
	areas []models.PrintArea
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

// addAll decodes each placeholder on its own so one malformed entry only drops itself.
func (c *collector) addAll(entries []json.RawMessage) {
	for _, entry := range entries {
		var p placeholder
		if err := json.Unmarshal(entry, &p); err != nil {
			continue
		}
		c.add(p)
	}
}

func (c *collector) add(p placeholder) {
	if p.Position == "" {
		return
	}
	area := models.PrintArea{
		ID:       idString(p.ID),
		Position: p.Position,
		Width:    int(math.Round(p.Width)),
		Height:   int(math.Round(p.Height)),
	}
	if area.ID == "" {
		area.ID = area.Position
	}
	key := fmt.Sprintf("%s_%d_%d", area.Position, area.Width, area.Height)
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.areas = append(c.areas, area)
}

// FromVariants extracts deduplicated print areas from a provider variants response.
// Variants that are not objects, and individual malformed placeholders, are ignored.
func FromVariants(raw json.RawMessage) []models.PrintArea {
	payloads, err := variantPayloads(raw)
	if err != nil {
		return nil
	}
	c := newCollector()
	for _, payload := range payloads {
		var variant struct {
			Placeholders []json.RawMessage `json:"placeholders"`
		}
		if err := json.Unmarshal(payload, &variant); err != nil {
			continue
		}
		c.addAll(variant.Placeholders)
	}
	return c.areas
}

// FromBlueprint reads blueprint-level print_areas. Entries may describe the
// area directly or nest a placeholders array.
func FromBlueprint(raw json.RawMessage) []models.PrintArea {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var blueprint struct {
		PrintAreas []json.RawMessage `json:"print_areas"`
	}
	if err := json.Unmarshal(trimmed, &blueprint); err != nil {
		return nil
	}
	c := newCollector()
	for _, entry := range blueprint.PrintAreas {
		var nested struct {
			Placeholders []json.RawMessage `json:"placeholders"`
		}
		if err := json.Unmarshal(entry, &nested); err == nil && len(nested.Placeholders) > 0 {
			c.addAll(nested.Placeholders)
			continue
		}
		var direct placeholder
		if err := json.Unmarshal(entry, &direct); err == nil {
			c.add(direct)
		}
	}
	return c.areas
}

// Resolve runs the full resolution over already-fetched payloads.
func Resolve(variantsRaw, blueprintRaw json.RawMessage) Result {
	if areas := FromVariants(variantsRaw); len(areas) > 0 {
		return Result{Areas: areas, Source: SourceVariants}
	}
	if areas := FromBlueprint(blueprintRaw); len(areas) > 0 {
		return Result{Areas: areas, Source: SourceBlueprint}
	}
	return Result{Areas: []models.PrintArea{Fallback}, Source: SourceFallback}
}

// CatalogSource fetches raw catalog payloads. *printify.Client satisfies it.
type CatalogSource interface {
	GetVariants(ctx context.Context, blueprintID, printProviderID int) (json.RawMessage, error)
	GetBlueprint(ctx context.Context, blueprintID int) (json.RawMessage, error)
}

type Resolver struct {
	catalog CatalogSource
	logger  zerolog.Logger
}

func NewResolver(catalog CatalogSource, logger zerolog.Logger) *Resolver {
	return &Resolver{catalog: catalog, logger: logger}
}

// Resolve fetches the variants and only falls back to the blueprint when they
// yield nothing. Fetch failures other than missing credentials degrade to the
// next step rather than failing the resolution.
func (r *Resolver) Resolve(ctx context.Context, blueprintID, printProviderID int) (Result, error) {
	if blueprintID <= 0 || printProviderID <= 0 {
		return Result{}, apperr.InvalidInput("printareas: resolve", "blueprint id and print provider id must be positive")
	}

	variantsRaw, err := r.catalog.GetVariants(ctx, blueprintID, printProviderID)
	if err != nil {
		if apperr.Is(err, apperr.KindConfiguration) {
			return Result{}, err
		}
		r.logger.Warn().Err(err).
			Int("blueprint_id", blueprintID).
			Int("print_provider_id", printProviderID).
			Msg("variants fetch failed, trying blueprint print areas")
	}
	if areas := FromVariants(variantsRaw); len(areas) > 0 {
		return Result{Areas: areas, Source: SourceVariants}, nil
	}

	blueprintRaw, err := r.catalog.GetBlueprint(ctx, blueprintID)
	if err != nil {
		if apperr.Is(err, apperr.KindConfiguration) {
			return Result{}, err
		}
		r.logger.Warn().Err(err).Int("blueprint_id", blueprintID).Msg("blueprint fetch failed")
	}

	result := Resolve(nil, blueprintRaw)
	if result.Source == SourceFallback {
		r.logger.Info().
			Int("blueprint_id", blueprintID).
			Int("print_provider_id", printProviderID).
			Msg("no print areas in catalog, using default front area")
	}
	return result, nil
}

func idString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String()
	}
	return ""
}
