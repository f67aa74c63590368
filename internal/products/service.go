package products

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
	"pod-design-backend/internal/session"
)

// ProductClient is Printify's product API. *printify.Client satisfies it.
type ProductClient interface {
	CreateProduct(ctx context.Context, shopID string, draft models.ProductDraft) (*models.CreatedProduct, error)
	UpdateProduct(ctx context.Context, shopID, productID string, draft models.ProductDraft) (*models.CreatedProduct, error)
	PublishProduct(ctx context.Context, shopID, productID string) error
}

type Service struct {
	client        ProductClient
	assembler     *Assembler
	defaultShopID string
	logger        zerolog.Logger
}

func NewService(client ProductClient, assembler *Assembler, defaultShopID string, logger zerolog.Logger) *Service {
	return &Service{
		client:        client,
		assembler:     assembler,
		defaultShopID: strings.TrimSpace(defaultShopID),
		logger:        logger,
	}
}

func (s *Service) shop(op, shopID string) (string, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		shopID = s.defaultShopID
	}
	if shopID == "" {
		return "", apperr.InvalidInput(op, "shop id is required")
	}
	return shopID, nil
}

// Create validates the draft's image ids and creates the product.
func (s *Service) Create(ctx context.Context, shopID string, draft models.ProductDraft) (*models.CreatedProduct, error) {
	const op = "products: create"
	shopID, err := s.shop(op, shopID)
	if err != nil {
		return nil, err
	}
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	product, err := s.client.CreateProduct(ctx, shopID, draft)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("shop_id", shopID).Str("product_id", product.ID).Msg("product created")
	return product, nil
}

func (s *Service) Update(ctx context.Context, shopID, productID string, draft models.ProductDraft) (*models.CreatedProduct, error) {
	const op = "products: update"
	shopID, err := s.shop(op, shopID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(productID) == "" {
		return nil, apperr.InvalidInput(op, "product id is required")
	}
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	product, err := s.client.UpdateProduct(ctx, shopID, productID, draft)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("shop_id", shopID).Str("product_id", productID).Msg("product updated")
	return product, nil
}

func (s *Service) Publish(ctx context.Context, shopID, productID string) error {
	const op = "products: publish"
	shopID, err := s.shop(op, shopID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(productID) == "" {
		return apperr.InvalidInput(op, "product id is required")
	}
	if err := s.client.PublishProduct(ctx, shopID, productID); err != nil {
		return err
	}
	s.logger.Info().Str("shop_id", shopID).Str("product_id", productID).Msg("product published")
	return nil
}

// CreateFromRequest assembles a draft from the request's assignments and creates it.
func (s *Service) CreateFromRequest(ctx context.Context, shopID string, req models.ProductRequest) (*models.ProductResponse, error) {
	shopID, err := s.shop("products: create", shopID)
	if err != nil {
		return nil, err
	}
	assignments, err := session.FromMap(req.Assignments)
	if err != nil {
		return nil, err
	}
	draft, err := s.assembler.Build(ctx, req, assignments)
	if err != nil {
		return nil, err
	}
	product, err := s.Create(ctx, shopID, draft)
	if err != nil {
		return nil, err
	}
	return &models.ProductResponse{Product: *product, Draft: draft}, nil
}

// UpdateFromRequest assembles a draft from the request's assignments and replaces the product with it.
func (s *Service) UpdateFromRequest(ctx context.Context, shopID, productID string, req models.ProductRequest) (*models.ProductResponse, error) {
	const op = "products: update"
	shopID, err := s.shop(op, shopID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(productID) == "" {
		return nil, apperr.InvalidInput(op, "product id is required")
	}
	assignments, err := session.FromMap(req.Assignments)
	if err != nil {
		return nil, err
	}
	draft, err := s.assembler.Build(ctx, req, assignments)
	if err != nil {
		return nil, err
	}
	product, err := s.Update(ctx, shopID, productID, draft)
	if err != nil {
		return nil, err
	}
	return &models.ProductResponse{Product: *product, Draft: draft}, nil
}
