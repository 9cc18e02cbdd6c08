package events_test

import (
	"context"
	"errors"
	"sync"
	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockWalletProvisioner struct {
	mock.Mock
}

func (m *MockWalletProvisioner) GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if w, ok := args.Get(0).(*domain.Wallet); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msg queue.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

type staticIssuer struct {
	token string
	err   error
}

func (s staticIssuer) Issue() (string, error) { return s.token, s.err }

// fakeDelivery records how it was settled
type fakeDelivery struct {
	mu      sync.Mutex
	body    []byte
	acks    int
	nacks   int
	requeue bool
}

func (d *fakeDelivery) Body() []byte { return d.body }

func (d *fakeDelivery) Ack(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.acks+d.nacks > 0 {
		return errors.New("already settled")
	}
	d.acks++
	return nil
}

func (d *fakeDelivery) Nack(_ context.Context, requeue bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.acks+d.nacks > 0 {
		return errors.New("already settled")
	}
	d.nacks++
	d.requeue = requeue
	return nil
}
