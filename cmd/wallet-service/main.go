package main

import (
	"context"                           // Shutdown context
	"errors"                            // Error inspection
	"net/http"                          // HTTP server
	"os/signal"                         // Signal handling
	"sync"                              // Consumer lifecycle
	"syscall"                           // Signal numbers
	"time"                              // Shutdown timeout
	"wallet_ledger/internal/api"        // Custom package for API handlers
	"wallet_ledger/internal/config"     // Custom package for configuration
	"wallet_ledger/internal/db"         // Database connection
	"wallet_ledger/internal/events"     // Event consumption
	"wallet_ledger/internal/queue"      // Queue transports
	"wallet_ledger/internal/repository" // Storage
	"wallet_ledger/internal/service"    // Business logic
	"wallet_ledger/internal/utils"      // Cache and logger helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the wallet service
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := utils.SetupLogger("wallet-service", cfg.IsProd) // Setup logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.DB) // Connect to the database
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	wallets := service.NewWalletService(
		repository.NewWalletRepository(gdb),
		utils.NewRedisCache(redisClient, cfg.CacheTTL),
	)
	verifier := service.NewInternalTokenVerifier(cfg.JWTInternalSecret, cfg.InternalIssuer)

	consumer, err := queue.NewConsumer(ctx, cfg.Queue, redisClient)
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	handler := events.NewWalletEventsConsumer(verifier, wallets)
	handler.RequeueDelay = cfg.RequeueDelay

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("queue", cfg.EventsQueue).Info("Consuming events")
		if err := consumer.Consume(ctx, handler.Handle); err != nil {
			log.Errorf("consumer stopped: %v", err)
		}
	}()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewWalletRouter(wallets, cfg.JWTSecret, verifier)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infof("Server running on %s", cfg.AppPort) // Log server start
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
	wg.Wait() // Let the in-flight message settle
	if err := consumer.Close(); err != nil {
		log.Errorf("close consumer: %v", err)
	}
	log.Info("Server stopped")
}
