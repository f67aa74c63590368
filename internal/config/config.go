package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ImageGenModeDirect = "direct"
	ImageGenModePoll   = "poll"

	ArtifactStoreNone       = "none"
	ArtifactStoreFilesystem = "filesystem"
	ArtifactStoreSupabase   = "supabase"
)

type Config struct {
	// Printify API
	PrintifyAPIToken   string
	PrintifyAPIBaseURL string
	PrintifyShopID     string

	// Image generation provider
	ImageGenAPIKey          string
	ImageGenAPIBaseURL      string
	ImageGenSyncBaseURL     string
	ImageGenAuthScheme      string
	ImageGenModel           string
	ImageGenMode            string
	ImageGenPollInterval    time.Duration
	ImageGenPollMaxAttempts int
	ImageGenRequestTimeout  time.Duration
	ImageGenProductNoun     string

	// Artifact caching
	ArtifactStore   string
	ArtifactDir     string
	ArtifactBaseURL string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Server
	Port             string
	Environment      string
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
}

// Load reads .env (when present) and the process environment.
// Credentials are not required here; clients report them missing per call.
func Load() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		PrintifyAPIToken:   getEnv("PRINTIFY_API_TOKEN", ""),
		PrintifyAPIBaseURL: getEnv("PRINTIFY_API_BASE_URL", "https://api.printify.com/v1"),
		PrintifyShopID:     getEnv("PRINTIFY_SHOP_ID", ""),

		ImageGenAPIKey:          getEnv("IMAGEGEN_API_KEY", ""),
		ImageGenAPIBaseURL:      getEnv("IMAGEGEN_API_BASE_URL", "https://queue.fal.run"),
		ImageGenSyncBaseURL:     getEnv("IMAGEGEN_SYNC_BASE_URL", "https://fal.run"),
		ImageGenAuthScheme:      getEnv("IMAGEGEN_AUTH_SCHEME", "Key"),
		ImageGenModel:           getEnv("IMAGEGEN_MODEL", "fal-ai/flux/dev"),
		ImageGenMode:            strings.ToLower(getEnv("IMAGEGEN_MODE", ImageGenModePoll)),
		ImageGenPollInterval:    getEnvDuration("IMAGEGEN_POLL_INTERVAL", 2*time.Second),
		ImageGenPollMaxAttempts: getEnvInt("IMAGEGEN_POLL_MAX_ATTEMPTS", 15),
		ImageGenRequestTimeout:  getEnvDuration("IMAGEGEN_REQUEST_TIMEOUT", 60*time.Second),
		ImageGenProductNoun:     getEnv("IMAGEGEN_PRODUCT_NOUN", "t-shirt"),

		ArtifactStore:   strings.ToLower(getEnv("ARTIFACT_STORE", ArtifactStoreNone)),
		ArtifactDir:     getEnv("ARTIFACT_DIR", "data/artifacts"),
		ArtifactBaseURL: getEnv("ARTIFACT_BASE_URL", "http://localhost:8080/artifacts"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "designs"),

		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
		HTTPReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 120*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.ImageGenMode {
	case ImageGenModeDirect, ImageGenModePoll:
	default:
		return fmt.Errorf("IMAGEGEN_MODE must be %q or %q, got %q", ImageGenModeDirect, ImageGenModePoll, c.ImageGenMode)
	}
	if c.ImageGenPollInterval <= 0 {
		return fmt.Errorf("IMAGEGEN_POLL_INTERVAL must be positive")
	}
	if c.ImageGenPollMaxAttempts <= 0 {
		return fmt.Errorf("IMAGEGEN_POLL_MAX_ATTEMPTS must be positive")
	}
	switch c.ArtifactStore {
	case ArtifactStoreNone:
	case ArtifactStoreFilesystem:
		if c.ArtifactDir == "" {
			return fmt.Errorf("ARTIFACT_DIR is required when ARTIFACT_STORE=filesystem")
		}
	case ArtifactStoreSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required when ARTIFACT_STORE=supabase")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required when ARTIFACT_STORE=supabase")
		}
	default:
		return fmt.Errorf("unknown ARTIFACT_STORE %q", c.ArtifactStore)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("2s") or bare milliseconds ("2000").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
