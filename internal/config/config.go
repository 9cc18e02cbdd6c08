package config

import (
	"errors" // Error construction
	"fmt"    // Error wrapping
	"time"   // Durations

	"github.com/caarlos0/env/v6" // Tagged environment parsing
	"github.com/joho/godotenv"   // For loading .env files
)

// Config holds the application configuration
type Config struct {
	App
	DB
	JWT
	Redis
	Queue
}

// App holds process level settings
type App struct {
	AppPort     string `env:"APP_PORT" envDefault:"8080"`              // Application port
	IsProd      bool   `env:"IS_PROD" envDefault:"false"`              // Is production environment
	ServiceName string `env:"SERVICE_NAME" envDefault:"users-service"` // Subject used in internal tokens
}

// DB holds storage connection settings
type DB struct {
	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`    // mysql or postgres
	DBDSN      string `env:"DB_DSN"`                          // Full connection string, overrides the parts below
	DBUser     string `env:"DB_USER"`                         // Database user
	DBPassword string `env:"DB_PASSWORD"`                     // Database password
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`  // Database host
	DBPort     string `env:"DB_PORT"`                         // Database port
	DBName     string `env:"DB_NAME"`                         // Database name
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"` // Postgres sslmode
}

// JWT holds token signing settings
type JWT struct {
	JWTSecret         string        `env:"JWT_SECRET"`                                        // Secret for user access tokens
	JWTExpiresIn      time.Duration `env:"JWT_EXPIRES_IN" envDefault:"1h"`                    // Access token lifetime
	JWTInternalSecret string        `env:"JWT_INTERNAL_SECRET"`                               // Secret for service tokens
	InternalIssuer    string        `env:"INTERNAL_TOKEN_SUBJECT" envDefault:"users-service"` // Trusted publisher subject
}

// Redis holds cache settings
type Redis struct {
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"` // Redis server address
	RedisPass string        `env:"REDIS_PASS"`                             // Redis password
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`                // Redis database number
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"60s"`             // Balance cache lifetime
}

// Queue holds event transport settings
type Queue struct {
	QueueDriver      string        `env:"QUEUE_DRIVER" envDefault:"kafka"`                            // kafka or redis
	KafkaBrokers     []string      `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"` // Kafka bootstrap brokers
	KafkaGroupID     string        `env:"KAFKA_GROUP_ID" envDefault:"wallet-service"`                 // Consumer group for the wallet service
	EventsQueue      string        `env:"EVENTS_QUEUE" envDefault:"wallet_queue"`                     // Topic or list name carrying user events
	RequeueDelay     time.Duration `env:"QUEUE_REQUEUE_DELAY" envDefault:"1s"`                        // Pause before a failed message is requeued
	RetryMaxAttempts int           `env:"PUBLISH_RETRY_MAX_ATTEMPTS" envDefault:"5"`                  // Publish attempts before giving up
	RetryBaseDelay   time.Duration `env:"PUBLISH_RETRY_BASE_DELAY" envDefault:"100ms"`                // First backoff step
	RetryMaxDelay    time.Duration `env:"PUBLISH_RETRY_MAX_DELAY" envDefault:"2s"`                    // Backoff ceiling
}

// Errors returned by Validate
var (
	ErrMissingJWTSecret         = errors.New("JWT_SECRET is missing")
	ErrMissingJWTInternalSecret = errors.New("JWT_INTERNAL_SECRET is missing")
)

// LoadConfig loads configuration from the environment (and .env when present)
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	// Parse tagged fields
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Secrets are required at boot
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every service needs before it starts
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWTInternalSecret == "" {
		return ErrMissingJWTInternalSecret
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.QueueDriver {
	case "kafka", "redis":
	default:
		return fmt.Errorf("unsupported QUEUE_DRIVER %q", c.QueueDriver)
	}
	return nil
}

// DSN builds the storage connection string for the configured driver
func (d DB) DSN() string {
	if d.DBDSN != "" {
		return d.DBDSN
	}
	if d.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			d.DBHost, d.DBUser, d.DBPassword, d.DBName, d.DBPort, d.DBSSLMode)
	}
	// Setup Data Source Name (DSN) for MySQL
	return d.DBUser + ":" + d.DBPassword + "@tcp(" + d.DBHost + ":" + d.DBPort + ")/" + d.DBName + "?parseTime=true"
}
