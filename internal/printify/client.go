package printify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// UploadImageRequest carries either a URL or base64 contents, never both.
type UploadImageRequest struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Contents string `json:"contents,omitempty"`
}

// UploadImageResponse keeps ID untyped so callers can reject non-string ids.
type UploadImageResponse struct {
	ID         any    `json:"id"`
	FileName   string `json:"file_name"`
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Size       int    `json:"size"`
	MimeType   string `json:"mime_type"`
	PreviewURL string `json:"preview_url"`
	UploadTime string `json:"upload_time"`
}

type Shop struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   strings.TrimSpace(token),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredentials reports whether an API token is configured.
func (c *Client) HasCredentials() bool {
	return c.token != ""
}

// GetShops lists the shops of the authenticated account.
func (c *Client) GetShops(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	if err := c.doJSON(ctx, "get shops", http.MethodGet, "/shops.json", nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// GetBlueprints returns the raw catalog blueprint list.
func (c *Client) GetBlueprints(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "get blueprints", "/catalog/blueprints.json")
}

// GetBlueprint returns raw blueprint details, including print_areas when Printify reports them.
func (c *Client) GetBlueprint(ctx context.Context, blueprintID int) (json.RawMessage, error) {
	return c.getRaw(ctx, "get blueprint", "/catalog/blueprints/"+strconv.Itoa(blueprintID)+".json")
}

// GetPrintProviders returns the raw print provider list for a blueprint.
func (c *Client) GetPrintProviders(ctx context.Context, blueprintID int) (json.RawMessage, error) {
	return c.getRaw(ctx, "get print providers", "/catalog/blueprints/"+strconv.Itoa(blueprintID)+"/print_providers.json")
}

// GetVariants returns the raw variants response for a blueprint/provider pair.
func (c *Client) GetVariants(ctx context.Context, blueprintID, printProviderID int) (json.RawMessage, error) {
	path := fmt.Sprintf("/catalog/blueprints/%d/print_providers/%d/variants.json", blueprintID, printProviderID)
	return c.getRaw(ctx, "get variants", path)
}

// UploadImage registers an image with Printify's media library.
func (c *Client) UploadImage(ctx context.Context, uploadReq UploadImageRequest) (*UploadImageResponse, error) {
	var result UploadImageResponse
	if err := c.doJSON(ctx, "upload image", http.MethodPost, "/uploads/images.json", uploadReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProduct creates a product in the given shop.
func (c *Client) CreateProduct(ctx context.Context, shopID string, draft models.ProductDraft) (*models.CreatedProduct, error) {
	var result models.CreatedProduct
	path := "/shops/" + shopID + "/products.json"
	if err := c.doJSON(ctx, "create product", http.MethodPost, path, draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProduct replaces the product's draft fields.
func (c *Client) UpdateProduct(ctx context.Context, shopID, productID string, draft models.ProductDraft) (*models.CreatedProduct, error) {
	var result models.CreatedProduct
	path := "/shops/" + shopID + "/products/" + productID + ".json"
	if err := c.doJSON(ctx, "update product", http.MethodPut, path, draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type publishRequest struct {
	Title       bool `json:"title"`
	Description bool `json:"description"`
	Images      bool `json:"images"`
	Variants    bool `json:"variants"`
	Tags        bool `json:"tags"`
	KeyFeatures bool `json:"keyFeatures"`
	ShippingTpl bool `json:"shipping_template"`
}

// PublishProduct publishes every product section to the shop's sales channel.
func (c *Client) PublishProduct(ctx context.Context, shopID, productID string) error {
	body := publishRequest{
		Title:       true,
		Description: true,
		Images:      true,
		Variants:    true,
		Tags:        true,
		KeyFeatures: true,
		ShippingTpl: true,
	}
	path := "/shops/" + shopID + "/products/" + productID + "/publish.json"
	return c.doJSON(ctx, "publish product", http.MethodPost, path, body, nil)
}

func (c *Client) getRaw(ctx context.Context, op, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	op = "printify: " + op
	if !c.HasCredentials() {
		return apperr.Configuration(op, "PRINTIFY_API_TOKEN is not configured")
	}

	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Msg("printify request failed")
		return apperr.Provider(op, resp.StatusCode, string(body))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w, body: %s", op, err, string(body))
	}

	return nil
}
