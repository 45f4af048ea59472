package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	CORS   CORSConfig
	Parser ParserConfig
	Image  ImageConfig
	PDF    PDFConfig
	Batch  BatchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single LLM parser provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	MaxTokens    int    `mapstructure:"max_tokens"`
}

// ParserConfig holds LLM extraction settings with primary/secondary provider
// support. NeutralConfidence is the overall-confidence fallback used when a
// response carries no per-field scores; it is a tunable, not a magic truth.
type ParserConfig struct {
	Primary           ParserProviderConfig `mapstructure:"primary"`
	Secondary         ParserProviderConfig `mapstructure:"secondary"`
	NeutralConfidence float64              `mapstructure:"neutral_confidence"`
	// Strategy selects how a configured secondary provider is used:
	// "fallback" tries it only when the primary fails; "merge" runs both in
	// parallel and merges field by field.
	Strategy string `mapstructure:"strategy"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// ImageConfig holds image normalization settings. The historical call sites
// disagreed on resize box and JPEG quality (800 vs 1200 px, q60 vs q85), so
// both are named settings rather than hard-coded constants.
type ImageConfig struct {
	MaxDimension int   `mapstructure:"max_dimension"`  // hard rejection ceiling per axis
	BoundingBox  int   `mapstructure:"bounding_box"`   // resize-to-fit target
	Quality      int   `mapstructure:"quality"`        // JPEG re-encode quality
	ThumbSize    int   `mapstructure:"thumb_size"`     // thumbnail bounding box
	ThumbQuality int   `mapstructure:"thumb_quality"`  // thumbnail JPEG quality
	CacheSize    int   `mapstructure:"cache_size"`     // normalized-image cache capacity
	MaxEncodedMB int   `mapstructure:"max_encoded_mb"` // post-compression size ceiling
	TimeoutSecs  int   `mapstructure:"timeout_secs"`   // per-operation timeout
	MaxUploadMB  int64 `mapstructure:"max_upload_mb"`  // raw upload size ceiling
}

// PDFConfig holds document processing settings.
type PDFConfig struct {
	RasterDPI        float64       `mapstructure:"raster_dpi"`
	PageConcurrency  int           `mapstructure:"page_concurrency"`
	InterBatchDelay  time.Duration `mapstructure:"inter_batch_delay"`
	MinSegmentLength int           `mapstructure:"min_segment_length"`
}

// BatchConfig holds batch orchestration settings.
type BatchConfig struct {
	ImageConcurrency int `mapstructure:"image_concurrency"`
	MaxItems         int `mapstructure:"max_items"`
}

// Load reads configuration from environment variables with the VERIDOC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VERIDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Parser defaults
	v.SetDefault("parser.primary.provider", "openai")
	v.SetDefault("parser.primary.api_key", "")
	v.SetDefault("parser.primary.default_model", "gpt-4o")
	v.SetDefault("parser.primary.timeout_secs", 120)
	v.SetDefault("parser.primary.max_tokens", 4096)
	v.SetDefault("parser.secondary.provider", "")
	v.SetDefault("parser.secondary.api_key", "")
	v.SetDefault("parser.secondary.default_model", "")
	v.SetDefault("parser.secondary.timeout_secs", 120)
	v.SetDefault("parser.secondary.max_tokens", 4096)
	v.SetDefault("parser.neutral_confidence", 0.5)
	v.SetDefault("parser.strategy", "fallback")

	// Image defaults
	v.SetDefault("image.max_dimension", 5000)
	v.SetDefault("image.bounding_box", 1200)
	v.SetDefault("image.quality", 80)
	v.SetDefault("image.thumb_size", 300)
	v.SetDefault("image.thumb_quality", 55)
	v.SetDefault("image.cache_size", 50)
	v.SetDefault("image.max_encoded_mb", 2)
	v.SetDefault("image.timeout_secs", 30)
	v.SetDefault("image.max_upload_mb", 10)

	// PDF defaults
	v.SetDefault("pdf.raster_dpi", 200)
	v.SetDefault("pdf.page_concurrency", 3)
	v.SetDefault("pdf.inter_batch_delay", "0s")
	v.SetDefault("pdf.min_segment_length", 40)

	// Batch defaults
	v.SetDefault("batch.image_concurrency", 5)
	v.SetDefault("batch.max_items", 50)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "VERIDOC_SERVER_PORT",
		"server.read_timeout":            "VERIDOC_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "VERIDOC_SERVER_WRITE_TIMEOUT",
		"server.environment":             "VERIDOC_SERVER_ENVIRONMENT",
		"log.level":                      "VERIDOC_LOG_LEVEL",
		"log.format":                     "VERIDOC_LOG_FORMAT",
		"cors.allowed_origins":           "VERIDOC_CORS_ALLOWED_ORIGINS",
		"parser.primary.provider":        "VERIDOC_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "VERIDOC_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "VERIDOC_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.timeout_secs":    "VERIDOC_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.primary.max_tokens":      "VERIDOC_PARSER_PRIMARY_MAX_TOKENS",
		"parser.secondary.provider":      "VERIDOC_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "VERIDOC_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "VERIDOC_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.timeout_secs":  "VERIDOC_PARSER_SECONDARY_TIMEOUT_SECS",
		"parser.secondary.max_tokens":    "VERIDOC_PARSER_SECONDARY_MAX_TOKENS",
		"parser.neutral_confidence":      "VERIDOC_PARSER_NEUTRAL_CONFIDENCE",
		"parser.strategy":                "VERIDOC_PARSER_STRATEGY",
		"image.max_dimension":            "VERIDOC_IMAGE_MAX_DIMENSION",
		"image.bounding_box":             "VERIDOC_IMAGE_BOUNDING_BOX",
		"image.quality":                  "VERIDOC_IMAGE_QUALITY",
		"image.thumb_size":               "VERIDOC_IMAGE_THUMB_SIZE",
		"image.thumb_quality":            "VERIDOC_IMAGE_THUMB_QUALITY",
		"image.cache_size":               "VERIDOC_IMAGE_CACHE_SIZE",
		"image.max_encoded_mb":           "VERIDOC_IMAGE_MAX_ENCODED_MB",
		"image.timeout_secs":             "VERIDOC_IMAGE_TIMEOUT_SECS",
		"image.max_upload_mb":            "VERIDOC_IMAGE_MAX_UPLOAD_MB",
		"pdf.raster_dpi":                 "VERIDOC_PDF_RASTER_DPI",
		"pdf.page_concurrency":           "VERIDOC_PDF_PAGE_CONCURRENCY",
		"pdf.inter_batch_delay":          "VERIDOC_PDF_INTER_BATCH_DELAY",
		"pdf.min_segment_length":         "VERIDOC_PDF_MIN_SEGMENT_LENGTH",
		"batch.image_concurrency":        "VERIDOC_BATCH_IMAGE_CONCURRENCY",
		"batch.max_items":                "VERIDOC_BATCH_MAX_ITEMS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VERIDOC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VERIDOC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Parser = ParserConfig{
		Primary: ParserProviderConfig{
			Provider:     v.GetString("parser.primary.provider"),
			APIKey:       v.GetString("parser.primary.api_key"),
			DefaultModel: v.GetString("parser.primary.default_model"),
			TimeoutSecs:  v.GetInt("parser.primary.timeout_secs"),
			MaxTokens:    v.GetInt("parser.primary.max_tokens"),
		},
		Secondary: ParserProviderConfig{
			Provider:     v.GetString("parser.secondary.provider"),
			APIKey:       v.GetString("parser.secondary.api_key"),
			DefaultModel: v.GetString("parser.secondary.default_model"),
			TimeoutSecs:  v.GetInt("parser.secondary.timeout_secs"),
			MaxTokens:    v.GetInt("parser.secondary.max_tokens"),
		},
		NeutralConfidence: v.GetFloat64("parser.neutral_confidence"),
		Strategy:          v.GetString("parser.strategy"),
	}

	cfg.Image = ImageConfig{
		MaxDimension: v.GetInt("image.max_dimension"),
		BoundingBox:  v.GetInt("image.bounding_box"),
		Quality:      v.GetInt("image.quality"),
		ThumbSize:    v.GetInt("image.thumb_size"),
		ThumbQuality: v.GetInt("image.thumb_quality"),
		CacheSize:    v.GetInt("image.cache_size"),
		MaxEncodedMB: v.GetInt("image.max_encoded_mb"),
		TimeoutSecs:  v.GetInt("image.timeout_secs"),
		MaxUploadMB:  v.GetInt64("image.max_upload_mb"),
	}

	cfg.PDF = PDFConfig{
		RasterDPI:        v.GetFloat64("pdf.raster_dpi"),
		PageConcurrency:  v.GetInt("pdf.page_concurrency"),
		InterBatchDelay:  v.GetDuration("pdf.inter_batch_delay"),
		MinSegmentLength: v.GetInt("pdf.min_segment_length"),
	}

	cfg.Batch = BatchConfig{
		ImageConcurrency: v.GetInt("batch.image_concurrency"),
		MaxItems:         v.GetInt("batch.max_items"),
	}

	return cfg, nil
}
