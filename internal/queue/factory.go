package queue

import (
	"context"                       // Recovery context
	"errors"                        // Error construction
	"fmt"                           // Error wrapping
	"wallet_ledger/internal/config" // Queue settings

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

var errRedisClientRequired = errors.New("redis queue driver needs a redis client")

func retryFromConfig(cfg config.Queue) RetryConfig {
	return RetryConfig{
		MaxAttempts: cfg.RetryMaxAttempts, // Publish attempts
		BaseDelay:   cfg.RetryBaseDelay,   // First backoff step
		MaxDelay:    cfg.RetryMaxDelay,    // Backoff ceiling
	}
}

// NewPublisher returns the publisher selected by QUEUE_DRIVER. rdb is only used by the redis driver.
func NewPublisher(cfg config.Queue, rdb redis.UniversalClient) (Publisher, error) {
	switch cfg.QueueDriver {
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsQueue, retryFromConfig(cfg)), nil
	case "redis":
		if rdb == nil {
			return nil, errRedisClientRequired
		}
		return NewRedisQueue(rdb, cfg.EventsQueue), nil
	default:
		return nil, fmt.Errorf("unsupported queue driver %q", cfg.QueueDriver)
	}
}

// NewConsumer returns the consumer selected by QUEUE_DRIVER. The redis driver first moves
// messages left in flight by a previous run back to the ready list.
func NewConsumer(ctx context.Context, cfg config.Queue, rdb redis.UniversalClient) (Consumer, error) {
	switch cfg.QueueDriver {
	case "kafka":
		return NewKafkaConsumer(cfg.KafkaBrokers, cfg.EventsQueue, cfg.KafkaGroupID, retryFromConfig(cfg)), nil
	case "redis":
		if rdb == nil {
			return nil, errRedisClientRequired
		}
		q := NewRedisQueue(rdb, cfg.EventsQueue)
		moved, err := q.Recover(ctx)
		if err != nil {
			return nil, fmt.Errorf("recover %s: %w", q.Processing, err)
		}
		if moved > 0 {
			logrus.WithFields(logrus.Fields{
				"queue": q.ReadyKey, // Ready list
				"moved": moved,      // Messages returned from processing
			}).Warn("Recovered in-flight messages")
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unsupported queue driver %q", cfg.QueueDriver)
	}
}
