// Package queue is the event transport: at-least-once delivery with manual acknowledgement.
package queue

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrAlreadySettled is returned when a delivery is acked or nacked a second time
var ErrAlreadySettled = errors.New("queue: delivery already settled")

// Message is what publishers hand to the transport
type Message struct {
	Key  string // Partitioning key, may be empty
	Body []byte // JSON payload
}

// Delivery is one received message. Exactly one of Ack or Nack must be called.
type Delivery interface {
	Body() []byte
	Ack(ctx context.Context) error
	Nack(ctx context.Context, requeue bool) error
}

// Handler processes one delivery and settles it
type Handler func(ctx context.Context, d Delivery)

// Publisher hands messages to the broker
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Consumer feeds deliveries to a handler one at a time until ctx is done
type Consumer interface {
	Consume(ctx context.Context, h Handler) error
	Close() error
}

// settleGuard makes Ack/Nack take effect once
type settleGuard struct {
	done atomic.Bool
}

func (g *settleGuard) claim() error {
	if !g.done.CompareAndSwap(false, true) {
		return ErrAlreadySettled
	}
	return nil
}
