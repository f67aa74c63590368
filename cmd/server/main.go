// @title           POD Design Backend API
// @version         1.0.0
// @description     Backend for a print-on-demand product builder. Resolves Printify print areas, generates designs with an image-generation provider, uploads them to Printify and assembles products.

// @host      localhost:8080
// @BasePath  /

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"pod-design-backend/internal/config"
	"pod-design-backend/internal/generation"
	"pod-design-backend/internal/handlers"
	"pod-design-backend/internal/imagegen"
	"pod-design-backend/internal/logging"
	"pod-design-backend/internal/printareas"
	"pod-design-backend/internal/printify"
	"pod-design-backend/internal/products"
	"pod-design-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("production")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Environment)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	printifyClient := printify.NewClient(cfg.PrintifyAPIBaseURL, cfg.PrintifyAPIToken,
		printify.WithLogger(logger.With().Str("component", "printify").Logger()))
	if !printifyClient.HasCredentials() {
		logger.Warn().Msg("PRINTIFY_API_TOKEN not set, Printify calls will fail")
	}

	imageGenClient := imagegen.NewClient(imagegen.Options{
		BaseURL:     cfg.ImageGenAPIBaseURL,
		SyncBaseURL: cfg.ImageGenSyncBaseURL,
		APIKey:      cfg.ImageGenAPIKey,
		Model:       cfg.ImageGenModel,
		AuthScheme:  cfg.ImageGenAuthScheme,
		Timeout:     cfg.ImageGenRequestTimeout,
		Logger:      logger.With().Str("component", "imagegen").Logger(),
	})
	if !imageGenClient.HasCredentials() {
		logger.Warn().Msg("IMAGEGEN_API_KEY not set, design generation will fail")
	}

	store, artifactDir, err := newArtifactStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.ArtifactStore).Msg("failed to initialize artifact store")
	}

	pipeline := generation.NewPipeline(imageGenClient, generation.Options{
		Mode: generation.Mode(cfg.ImageGenMode),
		Poll: generation.PollConfig{
			Interval:    cfg.ImageGenPollInterval,
			MaxAttempts: cfg.ImageGenPollMaxAttempts,
		},
		Store:   store,
		Product: cfg.ImageGenProductNoun,
		Logger:  logger.With().Str("component", "generation").Logger(),
	})

	resolver := printareas.NewResolver(printifyClient, logger.With().Str("component", "printareas").Logger())
	uploader := products.NewUploader(printifyClient, logger.With().Str("component", "uploads").Logger())
	assembler := products.NewAssembler(uploader, logger.With().Str("component", "products").Logger())
	productService := products.NewService(printifyClient, assembler, cfg.PrintifyShopID, logger.With().Str("component", "products").Logger())

	router := handlers.NewRouter(handlers.RouterConfig{
		Health:         handlers.NewHealthHandler(printifyClient, imageGenClient, cfg.ImageGenMode),
		Catalog:        handlers.NewCatalogHandler(printifyClient, resolver),
		Designs:        handlers.NewDesignsHandler(pipeline),
		Uploads:        handlers.NewUploadsHandler(uploader),
		Products:       handlers.NewProductsHandler(productService),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		ArtifactDir:    artifactDir,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("imagegen_mode", cfg.ImageGenMode).
			Str("artifact_store", cfg.ArtifactStore).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newArtifactStore returns the configured store and, for the filesystem store, the directory to serve.
func newArtifactStore(cfg *config.Config) (storage.ArtifactStore, string, error) {
	switch cfg.ArtifactStore {
	case config.ArtifactStoreFilesystem:
		fs, err := storage.NewFileStore(cfg.ArtifactDir, cfg.ArtifactBaseURL)
		if err != nil {
			return nil, "", err
		}
		return fs, fs.BasePath(), nil
	case config.ArtifactStoreSupabase:
		sb, err := storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return nil, "", err
		}
		return sb, "", nil
	default:
		return nil, "", nil
	}
}
