package repository

import (
	"context"                       // Request scoped context
	"errors"                        // Error inspection
	"wallet_ledger/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert and locking clauses
)

// WalletRepository owns wallets and their transactions
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a WalletRepository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate returns the wallet for userID, creating it if needed
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	db := r.db.WithContext(ctx)
	wallet := domain.Wallet{UserID: userID}
	// Insert unless a wallet already exists for this user
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wallet).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, storageErr("create wallet", err)
	}
	// Re-read: on conflict the generated id was not stored
	var stored domain.Wallet
	if err := db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, storageErr("load wallet", err)
	}
	return &stored, nil
}

// FindByUserID returns the wallet for userID or domain.ErrWalletNotFound
func (r *WalletRepository) FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, storageErr("find wallet", err)
	}
	return &wallet, nil
}

// Sums returns the credit and debit totals of a wallet, zero when there are no rows
func (r *WalletRepository) Sums(ctx context.Context, walletID string) (credits, debits int64, err error) {
	if credits, debits, err = sums(r.db.WithContext(ctx), walletID); err != nil {
		return 0, 0, storageErr("sum transactions", err)
	}
	return credits, debits, nil
}

// Credit appends a CREDIT transaction
func (r *WalletRepository) Credit(ctx context.Context, walletID string, amount int64, description *string) (*domain.WalletTransaction, error) {
	tx := domain.WalletTransaction{
		WalletID:    walletID,                 // Owning wallet
		Type:        domain.TransactionCredit, // Transaction type
		Amount:      amount,                   // Credit amount
		Description: description,              // Optional description
	}
	if err := r.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return nil, storageErr("credit", err)
	}
	return &tx, nil
}

// Debit appends a DEBIT transaction if the wallet balance covers amount. The balance check
// and the insert run in one transaction holding the wallet row lock, so concurrent debits on
// the same wallet are serialized.
func (r *WalletRepository) Debit(ctx context.Context, walletID string, amount int64, description *string) (*domain.WalletTransaction, error) {
	var created domain.WalletTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet domain.Wallet
		// Lock the wallet row for the rest of the transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", walletID).First(&wallet).Error; err != nil {
			return err
		}
		credits, debits, err := sums(tx, walletID)
		if err != nil {
			return err
		}
		// Check sufficient funds
		if credits-debits < amount {
			return domain.ErrInsufficientBalance
		}
		created = domain.WalletTransaction{
			WalletID:    walletID,                // Owning wallet
			Type:        domain.TransactionDebit, // Transaction type
			Amount:      amount,                  // Debit amount
			Description: description,             // Optional description
		}
		return tx.Create(&created).Error // Commit on success
	})
	switch {
	case err == nil:
		return &created, nil
	case errors.Is(err, domain.ErrInsufficientBalance):
		return nil, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrWalletNotFound
	default:
		return nil, storageErr("debit", err)
	}
}

// ListTransactions returns one page of a wallet's transactions, newest first, plus the total count
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string, skip, take int) ([]domain.WalletTransaction, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64 // Total count of transactions
	// Count total transactions for pagination
	if err := db.Model(&domain.WalletTransaction{}).Where("wallet_id = ?", walletID).Count(&total).Error; err != nil {
		return nil, 0, storageErr("count transactions", err)
	}
	items := []domain.WalletTransaction{} // Never null in JSON
	// Fetch paginated transactions
	if err := db.Where("wallet_id = ?", walletID).
		Order("created_at desc").
		Order("id desc").
		Offset(skip).
		Limit(take).
		Find(&items).Error; err != nil {
		return nil, 0, storageErr("list transactions", err)
	}
	return items, total, nil
}

// sums runs the two independent aggregates on db, which may be a transaction
func sums(db *gorm.DB, walletID string) (credits, debits int64, err error) {
	if credits, err = sumByType(db, walletID, domain.TransactionCredit); err != nil {
		return 0, 0, err
	}
	if debits, err = sumByType(db, walletID, domain.TransactionDebit); err != nil {
		return 0, 0, err
	}
	return credits, debits, nil
}

func sumByType(db *gorm.DB, walletID string, txType domain.TransactionType) (int64, error) {
	var total int64
	err := db.Model(&domain.WalletTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("wallet_id = ? AND type = ?", walletID, txType).
		Scan(&total).Error
	return total, err
}
