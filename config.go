package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "variant-editor-service/pkg/aws"
)

// Config holds all environment variables for the variant-editor-service.
type Config struct {
	Port string
	Env  string

	JWTSecret string // shared with the gateway and the catalog API

	CatalogAPIURL     string
	CatalogAPIToken   string // static bearer; a service token is minted from JWTSecret when empty
	CatalogAPITimeout time.Duration

	AWS              aws_pkg.Options
	S3Endpoint       string
	S3Bucket         string
	S3Prefix         string
	CloudFrontDomain string

	RedisURL          string
	SizeSystemTTL     time.Duration
	EventsTopicArn    string
	CloudWatchEnabled bool
	CloudWatchNS      string

	SessionIdleTimeout time.Duration
	MaxImageBytes      int64
	UploadsPerMinute   int
	UploadBurst        int
	AllowedOrigins     []string
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true, JWT_SECRET and CATALOG_API_TOKEN are read from Secrets Manager
// and fall back to the env vars on failure.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8090"),
		Env:               getEnv("ENV", "development"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CatalogAPIURL:     getEnv("CATALOG_API_URL", "http://product-service:8082"),
		CatalogAPIToken:   os.Getenv("CATALOG_API_TOKEN"),
		CatalogAPITimeout: getDuration("CATALOG_API_TIMEOUT", 10*time.Second),
		AWS: aws_pkg.Options{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		S3Bucket:           getEnv("AWS_S3_BUCKET", "shopswift"),
		S3Prefix:           getEnv("AWS_S3_PREFIX", "variants/"),
		CloudFrontDomain:   os.Getenv("AWS_CLOUDFRONT_DOMAIN"),
		RedisURL:           getEnv("REDIS_URL", "redis://redis:6379"),
		SizeSystemTTL:      getDuration("SIZE_SYSTEM_CACHE_TTL", 10*time.Minute),
		EventsTopicArn:     os.Getenv("EDITOR_EVENTS_TOPIC_ARN"),
		CloudWatchEnabled:  os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNS:       getEnv("CLOUDWATCH_NAMESPACE", "ECommerce"),
		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		MaxImageBytes:      getInt64("MAX_IMAGE_BYTES", 10<<20),
		UploadsPerMinute:   int(getInt64("UPLOADS_PER_MINUTE", 60)),
		UploadBurst:        int(getInt64("UPLOAD_BURST", 10)),
		AllowedOrigins:     getList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
	}
	cfg.S3Endpoint = getEnv("AWS_S3_ENDPOINT", cfg.AWS.Endpoint)

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		ctx := context.Background()
		if awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWS); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg, cfg.AWS.Endpoint)
			cfg.JWTSecret = sm.Lookup(ctx, "variant-editor/JWT_SECRET", cfg.JWTSecret)
			cfg.CatalogAPIToken = sm.Lookup(ctx, "variant-editor/CATALOG_API_TOKEN", cfg.CatalogAPIToken)
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CatalogAPIURL == "" {
		return nil, fmt.Errorf("CATALOG_API_URL is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSuffix(strings.TrimSpace(item), "/"); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	return fallback
}
