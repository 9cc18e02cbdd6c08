package events

import (
	"context"                       // Request scoped context
	"encoding/json"                 // Envelope encoding
	"fmt"                           // Error wrapping
	"time"                          // Event timestamps
	"wallet_ledger/internal/domain" // Event envelope and errors
	"wallet_ledger/internal/queue"  // Event transport

	"github.com/sirupsen/logrus" // Logging library
)

// occurredAtLayout is ISO-8601 UTC with milliseconds
const occurredAtLayout = "2006-01-02T15:04:05.000Z07:00"

// TokenIssuer issues internal service tokens
type TokenIssuer interface {
	Issue() (string, error)
}

// UserEventsPublisher emits user lifecycle events
type UserEventsPublisher struct {
	transport queue.Publisher  // Broker
	tokens    TokenIssuer      // Internal token source
	now       func() time.Time // Clock
}

// NewUserEventsPublisher creates a UserEventsPublisher
func NewUserEventsPublisher(transport queue.Publisher, tokens TokenIssuer) *UserEventsPublisher {
	return &UserEventsPublisher{transport: transport, tokens: tokens, now: time.Now}
}

// PublishUserCreated signs a fresh internal token and hands a user.created envelope to the
// transport. Every failure wraps domain.ErrPublishFailed.
func (p *UserEventsPublisher) PublishUserCreated(ctx context.Context, userID, email string) error {
	token, err := p.tokens.Issue()
	if err != nil {
		return fmt.Errorf("%w: issue internal token: %w", domain.ErrPublishFailed, err)
	}
	event := domain.UserCreatedEvent{
		Event:         domain.EventUserCreated,                // Event name
		UserID:        userID,                                 // New user
		Email:         email,                                  // New user's email
		InternalToken: token,                                  // Proof of origin
		OccurredAt:    p.now().UTC().Format(occurredAtLayout), // ISO-8601 UTC
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}
	if err := p.transport.Publish(ctx, queue.Message{Key: userID, Body: body}); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"event":   event.Event, // Event name
			"error":   err.Error(), // Error message
		}).Error("Publish failed")
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,      // User ID
		"event":   event.Event, // Event name
	}).Info("Event published")
	return nil
}
