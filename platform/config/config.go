// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"delivery_admin_backend/platform/validator"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	IsAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the redis connection shared by the
// response cache and the job queue.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketSearchSnapshots() string
	GetSearchSnapshotObject() string
	IsMinIOEnabled() bool
}

// SearchConfig provides settings for the search module.
type SearchConfig interface {
	GetSearchSource() string
	GetSearchSeedFile() string
	GetSearchRefreshInterval() time.Duration
	GetSearchCacheTTL() time.Duration
	GetSearchRateLimitRPS() float64
	GetSearchRateLimitBurst() int
}

// SchedulerConfig provides settings for the asynq worker and scheduler.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetSnapshotPublishCron() string
}

// Corpus source names accepted by SEARCH_SOURCE.
const (
	SourceStatic      = "static"
	SourceFile        = "file"
	SourcePostgres    = "postgres"
	SourceObjectStore = "objectstore"
)

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string `validate:"required"`
	DatabaseURL           string `validate:"required_if=SearchSource postgres"`
	JWTAccessSecret       string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RedisURL              string
	RedisTLSInsecure      bool
	MinIOEndpoint         string `validate:"required_if=SearchSource objectstore"`
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinioBucketSnapshots  string `validate:"required_if=SearchSource objectstore"`
	SearchSnapshotObject  string `validate:"required"`
	SearchSource          string `validate:"oneof=static file postgres objectstore"`
	SearchSeedFile        string `validate:"required_if=SearchSource file"`
	SearchRefreshInterval time.Duration
	SearchCacheTTL        time.Duration
	SearchRateLimitRPS    float64 `validate:"gte=0"`
	SearchRateLimitBurst  int     `validate:"gte=0"`
	AsynqQueueName        string
	AsynqConcurrency      int
	SnapshotPublishCron   string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsAuthEnabled() bool        { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketSearchSnapshots() string {
	return c.MinioBucketSnapshots
}
func (c *Config) GetSearchSnapshotObject() string { return c.SearchSnapshotObject }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// SearchConfig implementation
func (c *Config) GetSearchSource() string                 { return c.SearchSource }
func (c *Config) GetSearchSeedFile() string               { return c.SearchSeedFile }
func (c *Config) GetSearchRefreshInterval() time.Duration { return c.SearchRefreshInterval }
func (c *Config) GetSearchCacheTTL() time.Duration        { return c.SearchCacheTTL }
func (c *Config) GetSearchRateLimitRPS() float64          { return c.SearchRateLimitRPS }
func (c *Config) GetSearchRateLimitBurst() int            { return c.SearchRateLimitBurst }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string      { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int       { return c.AsynqConcurrency }
func (c *Config) GetSnapshotPublishCron() string { return c.SnapshotPublishCron }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketSnapshots:  getEnv("MINIO_BUCKET_SEARCH_SNAPSHOTS", "search-snapshots"),
		SearchSnapshotObject:  getEnv("SEARCH_SNAPSHOT_OBJECT", "corpus/latest.json"),
		SearchSource:          strings.ToLower(getEnv("SEARCH_SOURCE", SourceStatic)),
		SearchSeedFile:        getEnv("SEARCH_SEED_FILE", "seed/items.yaml"),
		SearchRefreshInterval: mustDuration(getEnv("SEARCH_REFRESH_INTERVAL", "0s")),
		SearchCacheTTL:        mustDuration(getEnv("SEARCH_CACHE_TTL", "30s")),
		SearchRateLimitRPS:    mustFloat64(getEnv("SEARCH_RATE_LIMIT_RPS", "20")),
		SearchRateLimitBurst:  mustInt(getEnv("SEARCH_RATE_LIMIT_BURST", "40")),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		SnapshotPublishCron:   getEnv("SNAPSHOT_PUBLISH_CRON", "@every 5m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements of the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
