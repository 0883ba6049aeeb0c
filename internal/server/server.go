package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"catalog-storefront/internal/config"
	"catalog-storefront/internal/database"
	"catalog-storefront/internal/logger"
	custommiddleware "catalog-storefront/internal/middleware"
	"catalog-storefront/internal/repository"
	"catalog-storefront/internal/service"
	"catalog-storefront/internal/storage"
	"catalog-storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gocloud.dev/blob"
)

// Dependencies are the external resources the server owns once started
type Dependencies struct {
	Database database.Service
	Redis    *redis.Client
	Bucket   *blob.Bucket
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(log))
	router.Use(custommiddleware.LoggingMiddleware(logger.ForComponent(log, "http")))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsProduction()))

	s := &Server{
		config: cfg,
		logger: log,
		deps:   deps,
	}

	router.Get("/health", s.health)

	// Repositories
	db := deps.Database.DB()
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	billboardRepo := repository.NewBillboardRepository(db)

	// Asset store
	assetStore := storage.NewBlobStore(
		deps.Bucket,
		storage.NewRedisTokenRegistry(deps.Redis, "upload_token"),
		storage.Options{
			PublicBaseURL:  cfg.Storage.PublicBaseURL,
			UploadTokenTTL: cfg.Storage.UploadTokenTTL,
			MaxUploadBytes: cfg.Storage.MaxUploadBytes,
			SignedUploads:  cfg.Storage.SignedUploads,
		},
	)

	// Services
	serviceLogger := logger.ForComponent(log, "service")
	productService := service.NewProductService(productRepo, assetStore, serviceLogger)
	categoryService := service.NewCategoryService(categoryRepo, assetStore, serviceLogger)
	billboardService := service.NewBillboardService(billboardRepo, productRepo, assetStore, serviceLogger)
	uploadService := service.NewUploadService(assetStore, assetStore, serviceLogger)

	// Middleware
	admin := custommiddleware.AdminOnly(cfg.JWT.Secret, log)
	uploadLimit := custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.UploadRequests,
		Window:            cfg.RateLimit.UploadWindow,
		KeyPrefix:         "upload_rate",
	}, log)

	// Handlers
	handlerLogger := logger.ForComponent(log, "transport")
	transport.NewProductHandler(productService, handlerLogger).RegisterRoutes(router, admin)
	transport.NewCategoryHandler(categoryService, handlerLogger).RegisterRoutes(router, admin)
	transport.NewBillboardHandler(billboardService, handlerLogger).RegisterRoutes(router, admin)
	transport.NewUploadHandler(uploadService, handlerLogger).RegisterRoutes(router, admin, uploadLimit)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	report := map[string]interface{}{
		"database": s.deps.Database.Health(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
		report["redis"] = map[string]string{"status": "down", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		report["redis"] = map[string]string{"status": "up"}
	}

	if dbHealth := report["database"].(map[string]string); dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	custommiddleware.RespondWithJSON(w, status, report)
}

// Close releases the database pool, redis client and bucket
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var errs []error
	if err := s.deps.Database.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if err := s.deps.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis: %w", err))
	}
	if err := s.deps.Bucket.Close(); err != nil {
		errs = append(errs, fmt.Errorf("bucket: %w", err))
	}

	_ = s.logger.Sync()
	return errors.Join(errs...)
}
