package repository

import (
	"fmt"                           // Error wrapping
	"wallet_ledger/internal/domain" // Importing domain errors
)

// storageErr marks err as an infrastructure failure
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
