package main

import (
	"context"                           // Shutdown context
	"errors"                            // Error inspection
	"net/http"                          // HTTP server
	"os/signal"                         // Signal handling
	"syscall"                           // Signal numbers
	"time"                              // Shutdown timeout
	"wallet_ledger/internal/api"        // Custom package for API handlers
	"wallet_ledger/internal/config"     // Custom package for configuration
	"wallet_ledger/internal/db"         // Database connection
	"wallet_ledger/internal/events"     // Event publishing
	"wallet_ledger/internal/queue"      // Queue transports
	"wallet_ledger/internal/repository" // Storage
	"wallet_ledger/internal/service"    // Business logic
	"wallet_ledger/internal/utils"      // Logger setup

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the user service
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := utils.SetupLogger("user-service", cfg.IsProd) // Setup logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.DB) // Connect to the database
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	// Redis only carries events when the redis queue driver is selected
	var redisClient *redis.Client
	if cfg.QueueDriver == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}

	var rdb redis.UniversalClient
	if redisClient != nil {
		rdb = redisClient
	}
	transport, err := queue.NewPublisher(cfg.Queue, rdb)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}
	defer transport.Close()

	issuer := service.NewInternalTokenIssuer(cfg.JWTInternalSecret, cfg.ServiceName)
	publisher := events.NewUserEventsPublisher(transport, issuer)
	auth, err := service.NewAuthService(repository.NewUserRepository(gdb), publisher, cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		log.Fatalf("failed to create auth service: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewUserRouter(auth)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	serve(ctx, log, cfg.AppPort, router)
}

// serve runs the HTTP server until ctx is done, then drains it
func serve(ctx context.Context, log *logrus.Entry, port string, handler http.Handler) {
	srv := &http.Server{Addr: ":" + port, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infof("Server running on %s", port) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Info("Server stopped")
}
