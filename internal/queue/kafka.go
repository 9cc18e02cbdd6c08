package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// RetryConfig controls publish retries
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes messages to one topic with exponential backoff on failure
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	retry  RetryConfig
}

// NewKafkaPublisher creates a publisher for topic. Zero retry values fall back to
// 5 attempts, 100ms base delay and 10s max delay.
func NewKafkaPublisher(brokers []string, topic string, retry RetryConfig) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, topic, retry)
}

func newKafkaPublisher(w messageWriter, topic string, retry RetryConfig) *KafkaPublisher {
	if retry.MaxAttempts == 0 {
		retry.MaxAttempts = 5
	}
	if retry.BaseDelay == 0 {
		retry.BaseDelay = 100 * time.Millisecond
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 10 * time.Second
	}
	return &KafkaPublisher{writer: w, topic: topic, retry: retry}
}

// Publish writes msg, retrying with backoff until attempts run out or ctx is done
func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	return p.write(ctx, kafka.Message{Key: []byte(msg.Key), Value: msg.Body})
}

func (p *KafkaPublisher) write(ctx context.Context, msg kafka.Message) error {
	var lastErr error

	for attempt := 0; attempt < p.retry.MaxAttempts; attempt++ {
		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			if attempt > 0 {
				logrus.WithFields(logrus.Fields{"topic": p.topic, "attempts": attempt + 1}).Info("Kafka message published after retry")
			}
			return nil
		}

		lastErr = err

		if attempt == p.retry.MaxAttempts-1 {
			break
		}

		delay := p.backoff(attempt)
		logrus.WithFields(logrus.Fields{
			"topic":   p.topic,
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"error":   err.Error(),
		}).Warn("Kafka publish failed, retrying")

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}

	return fmt.Errorf("failed to publish message to topic '%s' after %d attempts: %w",
		p.topic, p.retry.MaxAttempts, lastErr)
}

func (p *KafkaPublisher) backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * p.retry.BaseDelay

	if delay > p.retry.MaxDelay {
		delay = p.retry.MaxDelay
	}

	if p.retry.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.3)
		delay = delay + jitter - time.Duration(float64(delay)*0.15)
	}

	return delay
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads one topic in a consumer group. Offsets are committed only on Ack.
// Kafka has no per-message negative acknowledgement, so a requeue republishes the
// message to the tail of the same topic and then commits the original offset.
type KafkaConsumer struct {
	reader  messageReader
	requeue *KafkaPublisher
}

// NewKafkaConsumer creates a consumer for topic in groupID
func NewKafkaConsumer(brokers []string, topic, groupID string, retry RetryConfig) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newKafkaConsumer(reader, NewKafkaPublisher(brokers, topic, retry))
}

func newKafkaConsumer(r messageReader, requeue *KafkaPublisher) *KafkaConsumer {
	return &KafkaConsumer{reader: r, requeue: requeue}
}

// Consume fetches messages one at a time and passes them to h until ctx is done
func (c *KafkaConsumer) Consume(ctx context.Context, h Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil // Reader closed
			}
			logrus.WithError(err).Error("Kafka fetch failed")
			select {
			case <-time.After(time.Second):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		h(ctx, &kafkaDelivery{consumer: c, msg: msg})
	}
}

// Close closes the reader and the requeue writer
func (c *KafkaConsumer) Close() error {
	return errors.Join(c.reader.Close(), c.requeue.Close())
}

type kafkaDelivery struct {
	settleGuard
	consumer *KafkaConsumer
	msg      kafka.Message
}

func (d *kafkaDelivery) Body() []byte { return d.msg.Value }

func (d *kafkaDelivery) Ack(ctx context.Context) error {
	if err := d.claim(); err != nil {
		return err
	}
	return d.consumer.reader.CommitMessages(ctx, d.msg)
}

func (d *kafkaDelivery) Nack(ctx context.Context, requeue bool) error {
	if err := d.claim(); err != nil {
		return err
	}
	if requeue {
		redelivery := kafka.Message{Key: d.msg.Key, Value: d.msg.Value, Headers: d.msg.Headers}
		// Leave the offset uncommitted if the copy could not be written
		if err := d.consumer.requeue.write(ctx, redelivery); err != nil {
			return fmt.Errorf("requeue: %w", err)
		}
	}
	return d.consumer.reader.CommitMessages(ctx, d.msg)
}
