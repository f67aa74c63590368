package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/generation"
	"pod-design-backend/internal/handlers"
	"pod-design-backend/internal/models"
	"pod-design-backend/internal/printareas"
	"pod-design-backend/internal/printify"
)

type fakeCatalog struct {
	err error
}

func (f *fakeCatalog) GetShops(ctx context.Context) ([]printify.Shop, error) {
	return []printify.Shop{{ID: 42, Title: "My Shop"}}, f.err
}

func (f *fakeCatalog) GetBlueprints(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[{"id":6}]`), f.err
}

func (f *fakeCatalog) GetBlueprint(ctx context.Context, id int) (json.RawMessage, error) {
	return json.RawMessage(`{"id":6}`), f.err
}

func (f *fakeCatalog) GetPrintProviders(ctx context.Context, id int) (json.RawMessage, error) {
	return json.RawMessage(`[{"id":99}]`), f.err
}

func (f *fakeCatalog) GetVariants(ctx context.Context, id, pid int) (json.RawMessage, error) {
	return json.RawMessage(`{"variants":[]}`), f.err
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, id, pid int) (printareas.Result, error) {
	return printareas.Result{Areas: []models.PrintArea{printareas.Fallback}, Source: printareas.SourceFallback}, nil
}

type fakeGenerator struct {
	got generation.Request
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &generation.Result{
		Artifacts: []models.DesignArtifact{{ID: "design-1", OriginalURL: "https://cdn.example.com/1.png", Width: 1000, Height: 1000}},
		Requested: 2,
		Skipped:   1,
	}, nil
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, artifact models.DesignArtifact, fileName string) (*models.UploadedImage, error) {
	if artifact.OriginalURL == "" {
		return nil, apperr.InvalidInput("products: upload", "artifact has no originalUrl")
	}
	return &models.UploadedImage{ID: "5e16d66791287a0006e522b2", Width: 1024, Height: 1024}, nil
}

type fakeProducts struct {
	shopID    string
	published string
}

func (f *fakeProducts) CreateFromRequest(ctx context.Context, shopID string, req models.ProductRequest) (*models.ProductResponse, error) {
	f.shopID = shopID
	if len(req.Assignments) == 0 {
		return nil, apperr.InvalidInput("products: build draft", "at least one design must be assigned")
	}
	return &models.ProductResponse{Product: models.CreatedProduct{ID: "prod-1", Title: req.Title}}, nil
}

func (f *fakeProducts) UpdateFromRequest(ctx context.Context, shopID, productID string, req models.ProductRequest) (*models.ProductResponse, error) {
	return &models.ProductResponse{Product: models.CreatedProduct{ID: productID}}, nil
}

func (f *fakeProducts) Publish(ctx context.Context, shopID, productID string) error {
	f.published = shopID + "/" + productID
	return nil
}

type credentials bool

func (c credentials) HasCredentials() bool { return bool(c) }

type fixture struct {
	router    *gin.Engine
	catalog   *fakeCatalog
	generator *fakeGenerator
	products  *fakeProducts
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{catalog: &fakeCatalog{}, generator: &fakeGenerator{}, products: &fakeProducts{}}
	f.router = handlers.NewRouter(handlers.RouterConfig{
		Health:   handlers.NewHealthHandler(credentials(true), credentials(false), "poll"),
		Catalog:  handlers.NewCatalogHandler(f.catalog, fakeResolver{}),
		Designs:  handlers.NewDesignsHandler(f.generator),
		Uploads:  handlers.NewUploadsHandler(fakeUploader{}),
		Products: handlers.NewProductsHandler(f.products),
		Logger:   zerolog.Nop(),
	})
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCatalog_PassesRawJSONThrough(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/blueprints/6/providers/99/variants", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"variants":[]}`, w.Body.String())
}

func TestCatalog_InvalidIDIsBadRequest(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/blueprints/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
}

func TestCatalog_ProviderErrorIsBadGateway(t *testing.T) {
	f := newFixture()
	f.catalog.err = apperr.Provider("printify: get shops", 401, `{"error":"Unauthenticated."}`)

	w := f.do(http.MethodGet, "/api/v1/shops", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "provider", resp.Error)
	assert.Contains(t, resp.Message, "status 401")
}

func TestCatalog_PrintAreas(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/blueprints/6/providers/99/print-areas", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.PrintAreasResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fallback", resp.Source)
	assert.Equal(t, []models.PrintArea{{ID: "front", Position: "front", Width: 300, Height: 300}}, resp.PrintAreas)
}

func TestDesigns_Generate(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/designs/generate",
		`{"prompt":"fox","numImages":2,"printAreaContexts":[{"position":"front","width":1000,"height":1000},{"position":"back"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fox", f.generator.got.Prompt)
	assert.Len(t, f.generator.got.Contexts, 2)

	var resp models.GenerateDesignsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Designs, 1)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, "https://cdn.example.com/1.png", resp.Designs[0].OriginalURL)
}

func TestDesigns_ErrorKindsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.InvalidInput("generation: generate", "prompt is required"), http.StatusBadRequest},
		{apperr.Configuration("generation: generate", "credentials are not configured"), http.StatusInternalServerError},
		{apperr.Timeout("generation: poll", "did not complete"), http.StatusGatewayTimeout},
		{apperr.Provider("imagegen: generate", 500, "boom"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		f := newFixture()
		f.generator.err = tc.err

		w := f.do(http.MethodPost, "/api/v1/designs/generate", `{"prompt":"x"}`)

		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}

func TestDesigns_MalformedBody(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/designs/generate", `{"prompt":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploads_Upload(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/uploads", `{"artifact":{"id":"design-1","originalUrl":"https://cdn.example.com/1.png"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "5e16d66791287a0006e522b2")
}

func TestProducts_CreateAndPublish(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/shops/42/products",
		`{"title":"Tee","blueprint_id":6,"print_provider_id":99,"variants":[{"id":1,"price":2500}],"assignments":{"front":{"id":"design-1","originalUrl":"https://cdn.example.com/1.png"}}}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "42", f.products.shopID)

	w = f.do(http.MethodPost, "/api/v1/shops/42/products", `{"title":"Tee"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/shops/42/products/prod-1/publish", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42/prod-1", f.products.published)
}

func TestHealth(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.PrintifyConfigured)
	assert.False(t, resp.ImageGenConfigured)
	assert.Equal(t, "poll", resp.ImageGenMode)
}
