package events

import (
	"context"                       // Request scoped context
	"encoding/json"                 // Envelope decoding
	"errors"                        // Error inspection
	"fmt"                           // Panic formatting
	"time"                          // Requeue delay
	"wallet_ledger/internal/domain" // Event envelope and errors
	"wallet_ledger/internal/queue"  // Event transport
	"wallet_ledger/internal/utils"  // Internal claims

	"github.com/sirupsen/logrus" // Logging library
)

// TokenVerifier checks internal service tokens
type TokenVerifier interface {
	Verify(token string) (*utils.InternalClaims, error)
}

// WalletProvisioner creates wallets idempotently
type WalletProvisioner interface {
	GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error)
}

// outcome is how a delivery gets settled
type outcome int

const (
	outcomeAck     outcome = iota // Processed
	outcomeRequeue                // Transient failure, redeliver
	outcomeDrop                   // Can never succeed, discard
)

func (o outcome) String() string {
	switch o {
	case outcomeAck:
		return "acked"
	case outcomeRequeue:
		return "requeued"
	default:
		return "dropped"
	}
}

// WalletEventsConsumer handles events addressed to the wallet service
type WalletEventsConsumer struct {
	verifier     TokenVerifier     // Internal token verification
	wallets      WalletProvisioner // Wallet ledger
	RequeueDelay time.Duration     // Pause before a requeue
}

// NewWalletEventsConsumer creates a WalletEventsConsumer
func NewWalletEventsConsumer(verifier TokenVerifier, wallets WalletProvisioner) *WalletEventsConsumer {
	return &WalletEventsConsumer{verifier: verifier, wallets: wallets}
}

// Handle processes one delivery and settles it exactly once
func (c *WalletEventsConsumer) Handle(ctx context.Context, d queue.Delivery) {
	result, fields := c.process(ctx, d.Body())
	entry := logrus.WithFields(fields).WithField("outcome", result.String())

	var err error
	switch result {
	case outcomeAck:
		err = d.Ack(ctx)
		entry.Info("Event processed")
	case outcomeRequeue:
		if c.RequeueDelay > 0 {
			select {
			case <-time.After(c.RequeueDelay):
			case <-ctx.Done():
			}
		}
		// Nack even when ctx is done so the message is not left unsettled
		err = d.Nack(context.WithoutCancel(ctx), true)
		entry.Warn("Event requeued")
	default:
		err = d.Nack(ctx, false)
		entry.Warn("Event dropped")
	}
	if err != nil {
		entry.WithError(err).Error("Failed to settle delivery")
	}
}

// process runs Verifying → Applying for one message body
func (c *WalletEventsConsumer) process(ctx context.Context, body []byte) (result outcome, fields logrus.Fields) {
	fields = logrus.Fields{}
	defer func() {
		if r := recover(); r != nil {
			fields["error"] = fmt.Sprint(r)
			result = outcomeRequeue
		}
	}()

	var event domain.UserCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		fields["error"] = err.Error()
		return outcomeDrop, fields
	}
	fields["event"] = event.Event
	fields["user_id"] = event.UserID

	switch event.Event {
	case domain.EventUserCreated:
		return c.userCreated(ctx, event, fields), fields
	default:
		fields["error"] = "unknown event"
		return outcomeDrop, fields
	}
}

func (c *WalletEventsConsumer) userCreated(ctx context.Context, event domain.UserCreatedEvent, fields logrus.Fields) outcome {
	// Verifying
	if _, err := c.verifier.Verify(event.InternalToken); err != nil {
		fields["error"] = err.Error()
		if errors.Is(err, domain.ErrMissingSecret) {
			fields["reason"] = "misconfigured"
		} else {
			fields["reason"] = "untrusted"
		}
		return outcomeRequeue
	}
	if event.UserID == "" {
		fields["error"] = "missing userId"
		return outcomeDrop
	}
	// Applying
	wallet, err := c.wallets.GetOrCreateWallet(ctx, event.UserID)
	if err != nil {
		fields["error"] = err.Error()
		return outcomeRequeue
	}
	fields["wallet_id"] = wallet.ID
	return outcomeAck
}
