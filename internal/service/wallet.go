package service

import (
	"context"                       // Request scoped context
	"time"                          // Log timestamps
	"wallet_ledger/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
)

const (
	DefaultTake = 20  // Default page size
	MaxTake     = 100 // Largest page size accepted
)

// WalletStore persists wallets and their transactions
type WalletStore interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	Sums(ctx context.Context, walletID string) (credits, debits int64, err error)
	Credit(ctx context.Context, walletID string, amount int64, description *string) (*domain.WalletTransaction, error)
	Debit(ctx context.Context, walletID string, amount int64, description *string) (*domain.WalletTransaction, error)
	ListTransactions(ctx context.Context, walletID string, skip, take int) ([]domain.WalletTransaction, int64, error)
}

// Cache stores JSON values by key
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// WalletService is the wallet ledger
type WalletService struct {
	wallets WalletStore // Ledger storage
	cache   Cache       // Balance cache, may be nil
}

// NewWalletService creates a WalletService. cache may be nil.
func NewWalletService(wallets WalletStore, cache Cache) *WalletService {
	return &WalletService{wallets: wallets, cache: cache}
}

func balanceKey(userID string) string {
	return "wallet:balance:user:" + userID
}

// GetOrCreateWallet returns the user's wallet, creating it on first reference
func (s *WalletService) GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.wallets.GetOrCreate(ctx, userID)
}

// GetWallet returns the user's wallet or domain.ErrWalletNotFound
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.wallets.FindByUserID(ctx, userID)
}

// GetBalance returns the user's balance snapshot
func (s *WalletService) GetBalance(ctx context.Context, userID string) (*domain.BalanceSnapshot, error) {
	if s.cache != nil {
		var cached domain.BalanceSnapshot
		// Try to get from cache
		if found, err := s.cache.Get(ctx, balanceKey(userID), &cached); err == nil && found {
			return &cached, nil
		}
	}
	wallet, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshot(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, balanceKey(userID), snapshot) // Cache the snapshot
	}
	return snapshot, nil
}

// Credit appends a CREDIT and returns the new snapshot including the transaction
func (s *WalletService) Credit(ctx context.Context, userID string, amount int64, description *string) (*domain.BalanceSnapshot, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	wallet, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	tx, err := s.wallets.Credit(ctx, wallet.ID, amount, description)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"amount":  amount,      // Credit amount
			"error":   err.Error(), // Error message
		}).Error("Credit failed")
		return nil, err
	}
	s.invalidate(ctx, userID)
	logTransaction(userID, tx)
	return s.snapshotWith(ctx, wallet, tx)
}

// Debit appends a DEBIT if the balance covers amount, otherwise returns
// domain.ErrInsufficientBalance and appends nothing
func (s *WalletService) Debit(ctx context.Context, userID string, amount int64, description *string) (*domain.BalanceSnapshot, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	wallet, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	tx, err := s.wallets.Debit(ctx, wallet.ID, amount, description)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"amount":  amount,      // Debit amount
			"error":   err.Error(), // Error message
		}).Warn("Debit rejected")
		return nil, err
	}
	s.invalidate(ctx, userID)
	logTransaction(userID, tx)
	return s.snapshotWith(ctx, wallet, tx)
}

// ListTransactions returns transactions newest first. skip must be >= 0 and take in [1, MaxTake].
func (s *WalletService) ListTransactions(ctx context.Context, userID string, skip, take int) (*domain.TransactionPage, error) {
	if skip < 0 {
		return nil, domain.NewValidationError("skip must not be negative")
	}
	if take < 1 || take > MaxTake {
		return nil, domain.NewValidationError("take must be between 1 and 100")
	}
	wallet, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, total, err := s.wallets.ListTransactions(ctx, wallet.ID, skip, take)
	if err != nil {
		return nil, err
	}
	return &domain.TransactionPage{
		WalletID: wallet.ID,     // Wallet ID
		UserID:   wallet.UserID, // Owner
		Items:    items,         // Current window
		Total:    total,         // Full count
		Skip:     skip,          // Offset
		Take:     take,          // Limit
	}, nil
}

func (s *WalletService) snapshot(ctx context.Context, wallet *domain.Wallet) (*domain.BalanceSnapshot, error) {
	credits, debits, err := s.wallets.Sums(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}
	return &domain.BalanceSnapshot{
		WalletID: wallet.ID,        // Wallet ID
		UserID:   wallet.UserID,    // Owner
		Balance:  credits - debits, // Derived balance
		Credits:  credits,          // Credit total
		Debits:   debits,           // Debit total
	}, nil
}

func (s *WalletService) snapshotWith(ctx context.Context, wallet *domain.Wallet, tx *domain.WalletTransaction) (*domain.BalanceSnapshot, error) {
	snapshot, err := s.snapshot(ctx, wallet)
	if err != nil {
		return nil, err
	}
	snapshot.Transaction = tx
	return snapshot, nil
}

// invalidate drops the cached balance; cache errors are ignored
func (s *WalletService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, balanceKey(userID))
	}
}

func logTransaction(userID string, tx *domain.WalletTransaction) {
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,                          // User ID
		"wallet_id": tx.WalletID,                     // Wallet ID
		"amount":    tx.Amount,                       // Amount
		"type":      tx.Type,                         // Transaction type
		"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Wallet transaction")
}
