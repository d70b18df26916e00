package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"variant-editor-service/common/auth"
	"variant-editor-service/common/logger"
	"variant-editor-service/controllers"
	"variant-editor-service/middleware"
	aws_pkg "variant-editor-service/pkg/aws"
	"variant-editor-service/routes"
	"variant-editor-service/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.Initialize(cfg.Env)
	defer log.Sync()

	// --- 1. Initialization ---
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379", DB: 0}
	}
	rdb := redis.NewClient(redisOpts)

	log.Info("AWS Configuration",
		zap.String("AWS_ENDPOINT", cfg.AWS.Endpoint),
		zap.String("AWS_S3_ENDPOINT", cfg.S3Endpoint),
		zap.String("AWS_REGION", cfg.AWS.Region),
	)
	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background(), cfg.AWS)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	// --- 2. Dependency Injection ---
	objects := aws_pkg.NewObjectStore(aws_pkg.NewS3Client(awsCfg, cfg.S3Endpoint), cfg.S3Bucket, cfg.S3Prefix, cfg.S3Endpoint, cfg.CloudFrontDomain)
	imageStore := services.NewS3ImageStore(objects)
	metrics := aws_pkg.NewMetricsClient(awsCfg, cfg.AWS.Endpoint, cfg.CloudWatchNS, cfg.CloudWatchEnabled)

	var tokens services.TokenSource = auth.NewServiceTokenSource(cfg.JWTSecret, "variant-editor-service", 0)
	if cfg.CatalogAPIToken != "" {
		tokens = staticToken(cfg.CatalogAPIToken)
	}
	catalog := services.NewCatalogClient(cfg.CatalogAPIURL, cfg.CatalogAPITimeout, tokens, log)
	sizeSystems := services.NewSizeSystemCache(rdb, catalog, cfg.SizeSystemTTL, log)

	var events services.EventPublisher
	if cfg.EventsTopicArn != "" {
		events = aws_pkg.NewSNSClient(awsCfg, cfg.AWS.Endpoint, log)
	} else {
		log.Warn("EDITOR_EVENTS_TOPIC_ARN not set, variant_saved events disabled")
	}
	submitter := services.NewOrchestrator(catalog, events, cfg.EventsTopicArn, metrics, log)

	sessions := services.NewSessionStore(log)
	policy := services.DefaultImagePolicy()
	policy.MaxBytes = cfg.MaxImageBytes

	editorService := services.NewEditorService(services.EditorDeps{
		API:         catalog,
		SizeSystems: sizeSystems,
		Images:      imageStore,
		Arena:       services.NewPreviewArena(),
		Policy:      policy,
		Store:       sessions,
		Submitter:   submitter,
		Metrics:     metrics,
		Logger:      log,
	})
	editorController := controllers.NewEditorController(editorService, cfg.MaxImageBytes, log)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sessions.StartSweeper(sweepCtx, time.Minute, cfg.SessionIdleTimeout)

	// --- 3. HTTP Server & Middleware ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SecurityHeaders())
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.MaxMultipartMemory = cfg.MaxImageBytes

	// --- 4. Route Registration ---
	routes.RegisterRoutes(r, editorController,
		middleware.RateLimit(cfg.UploadsPerMinute, cfg.UploadBurst),
		middleware.AuthMiddleware([]byte(cfg.JWTSecret)),
		middleware.AdminOnly(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful Shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Variant Editor Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Variant Editor Service...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := rdb.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Variant Editor Service stopped gracefully")
}
