package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Opaque identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// TransactionType distinguishes credits from debits
type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT" // Money in
	TransactionDebit  TransactionType = "DEBIT"  // Money out
)

// WalletTransaction Model. Rows are append-only.
type WalletTransaction struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`                                        // Primary key (uuid)
	WalletID    string          `gorm:"index:idx_wallet_tx_wallet_created;size:36;not null" json:"walletId"` // Owning wallet
	Type        TransactionType `gorm:"size:6;not null" json:"type"`                                         // CREDIT or DEBIT
	Amount      int64           `gorm:"not null" json:"amount"`                                              // Positive, in minor units
	Description *string         `gorm:"size:255" json:"description,omitempty"`                               // Optional free text
	CreatedAt   time.Time       `gorm:"index:idx_wallet_tx_wallet_created" json:"createdAt"`                 // Timestamp of creation
}

// BeforeCreate assigns a uuid when the caller did not set one
func (t *WalletTransaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString() // Generate opaque id
	}
	return nil
}

// TransactionPage is one window of a wallet's transaction history
type TransactionPage struct {
	WalletID string              `json:"walletId"` // Wallet ID
	UserID   string              `json:"userId"`   // Owner user ID
	Items    []WalletTransaction `json:"items"`    // Newest first
	Total    int64               `json:"total"`    // Count regardless of the window
	Skip     int                 `json:"skip"`     // Offset used
	Take     int                 `json:"take"`     // Limit used
}
