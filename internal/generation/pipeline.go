package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/datauri"
	"pod-design-backend/internal/imagegen"
	"pod-design-backend/internal/models"
	"pod-design-backend/internal/storage"
)

// Provider dimension limits; requested sizes are clamped into this range.
const (
	MinDimension = 512
	MaxDimension = 1536

	MaxImages       = 10
	DefaultProduct  = "t-shirt"
	DefaultPosition = "front"
)

type Mode string

const (
	ModeDirect Mode = "direct"
	ModePoll   Mode = "poll"
)

// Provider is the image-generation backend. *imagegen.Client satisfies it.
type Provider interface {
	HasCredentials() bool
	Generate(ctx context.Context, req imagegen.GenerateRequest) ([]imagegen.Image, error)
	Submit(ctx context.Context, req imagegen.GenerateRequest) (string, error)
	Status(ctx context.Context, requestID string) (*imagegen.StatusResponse, error)
	Result(ctx context.Context, requestID string) ([]imagegen.Image, error)
	Download(ctx context.Context, url string) ([]byte, string, error)
}

type Options struct {
	Mode Mode
	Poll PollConfig
	// Store caches artifact bytes. Nil disables caching and thumbnails.
	Store         storage.ArtifactStore
	Product       string
	ThumbnailSize int
	Logger        zerolog.Logger
	Sleep         SleepFunc
}

type Request struct {
	Prompt         string
	NegativePrompt string
	// NumImages defaults to the number of contexts.
	NumImages int
	Contexts  []models.PrintAreaContext
	// Product overrides the configured product noun for this request.
	Product string
}

type Result struct {
	Artifacts []models.DesignArtifact
	Requested int
	Skipped   int
}

type Pipeline struct {
	provider Provider
	opts     Options
	poller   *Poller
	logger   zerolog.Logger
}

func NewPipeline(provider Provider, opts Options) *Pipeline {
	if opts.Mode == "" {
		opts.Mode = ModePoll
	}
	if strings.TrimSpace(opts.Product) == "" {
		opts.Product = DefaultProduct
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = storage.DefaultThumbnailSize
	}
	poller := NewPoller(provider, opts.Poll, opts.Logger)
	if opts.Sleep != nil {
		poller.WithSleep(opts.Sleep)
	}
	return &Pipeline{provider: provider, opts: opts, poller: poller, logger: opts.Logger}
}

func (p *Pipeline) Mode() Mode {
	return p.opts.Mode
}

// slot is one planned image: its index in the batch and the context it targets.
type slot struct {
	index   int
	context models.PrintAreaContext
}

// Generate produces one artifact per requested image. Images whose context
// lacks dimensions are skipped; provider errors fail the whole batch.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	const op = "generation: generate"

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.InvalidInput(op, "prompt is required")
	}
	if !p.provider.HasCredentials() {
		return nil, apperr.Configuration(op, "image generation provider credentials are not configured")
	}

	contexts := req.Contexts
	if len(contexts) == 0 {
		contexts = []models.PrintAreaContext{{
			Position: DefaultPosition,
			Width:    models.DefaultAreaWidth,
			Height:   models.DefaultAreaHeight,
		}}
	}
	numImages := req.NumImages
	if numImages <= 0 {
		numImages = len(contexts)
	}
	if numImages > MaxImages {
		return nil, apperr.InvalidInput(op, "numImages must be at most %d, got %d", MaxImages, numImages)
	}

	result := &Result{Requested: numImages}
	slots := make([]slot, 0, numImages)
	for i := 0; i < numImages; i++ {
		c := contexts[i%len(contexts)]
		if !c.HasDimensions() {
			p.logger.Warn().
				Int("index", i).
				Str("position", c.Position).
				Int("width", c.Width).
				Int("height", c.Height).
				Msg("print area context missing dimensions, skipping image")
			result.Skipped++
			continue
		}
		slots = append(slots, slot{index: i, context: c})
	}
	if len(slots) == 0 {
		result.Artifacts = []models.DesignArtifact{}
		return result, nil
	}

	var (
		artifacts []models.DesignArtifact
		err       error
	)
	build := p.newRequestBuilder(prompt, req.NegativePrompt, req.Product)
	switch p.opts.Mode {
	case ModeDirect:
		artifacts, err = p.generateDirect(ctx, prompt, build, slots)
	default:
		artifacts, err = p.generateQueued(ctx, prompt, build, slots)
	}
	if err != nil {
		return nil, err
	}

	result.Skipped += len(slots) - len(artifacts)
	result.Artifacts = artifacts
	p.logger.Info().
		Str("mode", string(p.opts.Mode)).
		Int("requested", result.Requested).
		Int("generated", len(artifacts)).
		Int("skipped", result.Skipped).
		Msg("design generation finished")
	return result, nil
}

// generateDirect calls the synchronous endpoint once per image, concurrently.
func (p *Pipeline) generateDirect(ctx context.Context, prompt string, build requestBuilder, slots []slot) ([]models.DesignArtifact, error) {
	out := make([]*models.DesignArtifact, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range slots {
		i, s := i, s
		g.Go(func() error {
			images, err := p.provider.Generate(gctx, build(s.context, 1))
			if err != nil {
				return err
			}
			if len(images) == 0 {
				return apperr.ProviderFailure("generation: direct", "provider returned no images for image %d", s.index)
			}
			artifact, err := p.materialize(gctx, images[0], s.context, prompt)
			if err != nil {
				return err
			}
			out[i] = artifact
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return compact(out), nil
}

// group collects the slots that share one context so they can be requested as a single job.
type group struct {
	context models.PrintAreaContext
	slots   []slot
}

// generateQueued submits one job per distinct context and waits for each to finish.
func (p *Pipeline) generateQueued(ctx context.Context, prompt string, build requestBuilder, slots []slot) ([]models.DesignArtifact, error) {
	var groups []*group
	byKey := make(map[string]*group)
	for _, s := range slots {
		key := fmt.Sprintf("%s_%d_%d", s.context.Position, s.context.Width, s.context.Height)
		g, ok := byKey[key]
		if !ok {
			g = &group{context: s.context}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.slots = append(g.slots, s)
	}

	out := make([]*models.DesignArtifact, len(slots))
	position := make(map[int]int, len(slots))
	for i, s := range slots {
		position[s.index] = i
	}

	var mu sync.Mutex
	eg, gctx := errgroup.WithContext(ctx)
	for _, grp := range groups {
		grp := grp
		eg.Go(func() error {
			images, err := p.runJob(gctx, build(grp.context, len(grp.slots)))
			if err != nil {
				return err
			}
			if len(images) < len(grp.slots) {
				return apperr.ProviderFailure("generation: poll",
					"provider returned %d of %d images for %s", len(images), len(grp.slots), grp.context.Position)
			}
			for i, s := range grp.slots {
				artifact, err := p.materialize(gctx, images[i], grp.context, prompt)
				if err != nil {
					return err
				}
				mu.Lock()
				out[position[s.index]] = artifact
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return compact(out), nil
}

func (p *Pipeline) runJob(ctx context.Context, req imagegen.GenerateRequest) ([]imagegen.Image, error) {
	requestID, err := p.provider.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := p.poller.Wait(ctx, requestID); err != nil {
		return nil, err
	}
	return p.provider.Result(ctx, requestID)
}

// requestBuilder makes the provider request for n images targeting one context.
type requestBuilder func(c models.PrintAreaContext, n int) imagegen.GenerateRequest

func (p *Pipeline) newRequestBuilder(prompt, negative, product string) requestBuilder {
	if strings.TrimSpace(product) == "" {
		product = p.opts.Product
	}
	negative = strings.TrimSpace(negative)
	return func(c models.PrintAreaContext, n int) imagegen.GenerateRequest {
		return imagegen.GenerateRequest{
			Prompt:         EnrichPrompt(prompt, c.Position, product),
			NegativePrompt: negative,
			Width:          ClampDimension(c.Width),
			Height:         ClampDimension(c.Height),
			NumImages:      n,
		}
	}
}

// materialize turns a provider image into an artifact, caching bytes when a store is configured.
func (p *Pipeline) materialize(ctx context.Context, img imagegen.Image, c models.PrintAreaContext, prompt string) (*models.DesignArtifact, error) {
	id := "design-" + uuid.NewString()
	artifact := &models.DesignArtifact{
		ID:          id,
		Name:        id,
		OriginalURL: img.URL,
		Position:    positionOrDefault(c.Position),
		Prompt:      prompt,
		Width:       c.Width,
		Height:      c.Height,
	}

	data, contentType := img.Data, img.ContentType
	if p.opts.Store != nil && len(data) == 0 && img.URL != "" {
		var err error
		data, contentType, err = p.provider.Download(ctx, img.URL)
		if err != nil {
			return nil, err
		}
	}

	if artifact.OriginalURL == "" {
		if len(data) == 0 {
			return nil, apperr.ProviderFailure("generation: materialize", "provider image has neither url nor data")
		}
		artifact.OriginalURL = datauri.Encode(data, contentType)
	}

	if p.opts.Store == nil || len(data) == 0 {
		return artifact, nil
	}

	localURL, err := p.opts.Store.Save(ctx, id+storage.ExtensionFor(contentType), data, contentType)
	if err != nil {
		p.logger.Warn().Err(err).Str("artifact_id", id).Msg("failed to cache design artifact")
		return artifact, nil
	}
	artifact.LocalURL = localURL

	thumb, err := storage.Thumbnail(data, p.opts.ThumbnailSize)
	if err != nil {
		p.logger.Warn().Err(err).Str("artifact_id", id).Msg("failed to build thumbnail")
		return artifact, nil
	}
	thumbURL, err := p.opts.Store.Save(ctx, id+"_thumb.jpg", thumb, "image/jpeg")
	if err != nil {
		p.logger.Warn().Err(err).Str("artifact_id", id).Msg("failed to cache thumbnail")
		return artifact, nil
	}
	artifact.ThumbnailURL = thumbURL
	return artifact, nil
}

// EnrichPrompt appends the placement to the user's prompt.
func EnrichPrompt(prompt, position, product string) string {
	if strings.TrimSpace(product) == "" {
		product = DefaultProduct
	}
	return fmt.Sprintf("%s for the %s of a %s", strings.TrimSpace(prompt), positionOrDefault(position), product)
}

func ClampDimension(v int) int {
	if v < MinDimension {
		return MinDimension
	}
	if v > MaxDimension {
		return MaxDimension
	}
	return v
}

func positionOrDefault(position string) string {
	if position = strings.TrimSpace(position); position == "" {
		return DefaultPosition
	}
	return position
}

func compact(in []*models.DesignArtifact) []models.DesignArtifact {
	out := make([]models.DesignArtifact, 0, len(in))
	for _, a := range in {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}
