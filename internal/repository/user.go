package repository

import (
	"context"                       // Request scoped context
	"errors"                        // Error inspection
	"wallet_ledger/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserRepository is the credential store
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the user with email, or nil when there is none
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No such user
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return &user, nil
}

// Create inserts user and runs afterCreate before committing. An error from afterCreate
// rolls the insert back and is returned unchanged.
func (r *UserRepository) Create(ctx context.Context, user *domain.User, afterCreate func(*domain.User) error) error {
	var hookErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err // Return error to rollback
		}
		if afterCreate != nil {
			if hookErr = afterCreate(user); hookErr != nil {
				return hookErr // Return error to rollback
			}
		}
		return nil // Commit transaction
	})
	switch {
	case err == nil:
		return nil
	case hookErr != nil:
		return hookErr
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateEmail
	default:
		return storageErr("create user", err)
	}
}
