package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Opaque identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// Wallet Model
type Wallet struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`               // Primary key (uuid)
	UserID    string    `gorm:"uniqueIndex;size:36;not null" json:"userId"` // One wallet per user
	CreatedAt time.Time `json:"createdAt"`                                  // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                                  // Timestamp of last update
}

// BeforeCreate assigns a uuid when the caller did not set one
func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString() // Generate opaque id
	}
	return nil
}

// BalanceSnapshot is returned by balance queries and after every ledger mutation
type BalanceSnapshot struct {
	WalletID    string             `json:"walletId"`              // Wallet ID
	UserID      string             `json:"userId"`                // Owner user ID
	Balance     int64              `json:"balance"`               // Credits minus debits
	Credits     int64              `json:"credits"`               // Sum of CREDIT amounts
	Debits      int64              `json:"debits"`                // Sum of DEBIT amounts
	Transaction *WalletTransaction `json:"transaction,omitempty"` // Transaction appended by the mutation, if any
}
