package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopswift/backend/cache"
	"github.com/shopswift/backend/controllers"
	"github.com/shopswift/backend/database"
	"github.com/shopswift/backend/kafka"
	"github.com/shopswift/backend/logger"
	"github.com/shopswift/backend/metrics"
	"github.com/shopswift/backend/middleware"
	"github.com/shopswift/backend/repository"
	"github.com/shopswift/backend/routes"
	"github.com/shopswift/backend/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.Env); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer zap.L().Sync()

	ctx := context.Background()

	// --- Stores ---
	mongoClient, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		zap.L().Fatal("MongoDB connection failed", zap.Error(err))
	}
	db := mongoClient.Database("shopswift")
	if err := database.EnsureIndexes(ctx, db); err != nil {
		zap.L().Warn("Failed to ensure indexes", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zap.L().Fatal("Redis connection failed", zap.Error(err))
	}

	// --- Observability ---
	appMetrics, shutdownMetrics, err := metrics.Init(ctx, "shopswift-backend", cfg.OTLPEndpoint)
	if err != nil {
		zap.L().Warn("Metrics init failed, continuing without metrics", zap.Error(err))
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	// --- Dependency injection ---
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txRunner := repository.NewTxRunner(mongoClient)

	appCache := cache.NewRedisCache(redisClient, appMetrics)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(userRepo, tokenService)
	productService := services.NewProductService(productRepo, appCache)
	cartService := services.NewCartService(cartRepo, productRepo, txRunner, appCache)

	var events services.EventPublisher
	if producer != nil {
		events = producer
	}
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, txRunner, appCache, appMetrics, events)

	authController := controllers.NewAuthController(authService)
	productController := controllers.NewProductController(productService)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(orderService)

	// --- HTTP server ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.Metrics(appMetrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware())

	// Request timeout so a slow store cannot pin connections forever.
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.Register(r, tokenService, authController, productController, cartController, orderController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			zap.L().Error("Failed to close Kafka producer", zap.Error(err))
		}
	}
	if shutdownMetrics != nil {
		if err := shutdownMetrics(shutdownCtx); err != nil {
			zap.L().Error("Failed to flush metrics", zap.Error(err))
		}
	}
	if err := redisClient.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		zap.L().Error("Failed to disconnect MongoDB", zap.Error(err))
	}

	zap.L().Info("Server stopped gracefully")
}
