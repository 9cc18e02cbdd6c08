package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisQueue is a reliable list queue. Consumers atomically move each message from the
// ready list to a processing list; Ack removes it from processing, a requeue moves it back
// so it is the next message delivered.
type RedisQueue struct {
	rdb         redis.UniversalClient
	ReadyKey    string        // e.g. "queue:wallet_queue"
	Processing  string        // e.g. "queue:wallet_queue:processing"
	PollTimeout time.Duration // Blocking pop timeout between ctx checks
}

// NewRedisQueue creates a queue stored under "queue:<name>"
func NewRedisQueue(rdb redis.UniversalClient, name string) *RedisQueue {
	ready := "queue:" + name
	return &RedisQueue{
		rdb:         rdb,
		ReadyKey:    ready,
		Processing:  ready + ":processing",
		PollTimeout: time.Second,
	}
}

// Publish appends msg to the ready list
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	return q.rdb.LPush(ctx, q.ReadyKey, msg.Body).Err()
}

// Recover moves messages left in the processing list by a crashed consumer back to the
// ready list. It returns how many were moved.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.rdb.RPopLPush(ctx, q.Processing, q.ReadyKey).Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

// Consume pops messages one at a time and passes them to h until ctx is done
func (q *RedisQueue) Consume(ctx context.Context, h Handler) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		body, err := q.rdb.BRPopLPush(ctx, q.ReadyKey, q.Processing, q.PollTimeout).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // Poll timeout, nothing ready
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("Redis queue pop failed")
			select {
			case <-time.After(time.Second):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		h(ctx, &redisDelivery{queue: q, body: body})
	}
}

// Close is a no-op; the client is owned by the caller
func (q *RedisQueue) Close() error { return nil }

type redisDelivery struct {
	settleGuard
	queue *RedisQueue
	body  []byte
}

func (d *redisDelivery) Body() []byte { return d.body }

func (d *redisDelivery) Ack(ctx context.Context) error {
	if err := d.claim(); err != nil {
		return err
	}
	return d.queue.rdb.LRem(ctx, d.queue.Processing, 1, d.body).Err()
}

func (d *redisDelivery) Nack(ctx context.Context, requeue bool) error {
	if err := d.claim(); err != nil {
		return err
	}
	_, err := d.queue.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, d.queue.Processing, 1, d.body)
		if requeue {
			pipe.RPush(ctx, d.queue.ReadyKey, d.body) // Head of the queue: delivered next
		}
		return nil
	})
	return err
}
