package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Opaque identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`                 // Primary key (uuid)
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`   // Unique email, stored as given
	PasswordHash string    `gorm:"not null" json:"-"`                            // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"createdAt"`                                    // Timestamp of creation
}

// BeforeCreate assigns a uuid when the caller did not set one
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString() // Generate opaque id
	}
	return nil
}

// PublicUser is the user shape returned to clients
type PublicUser struct {
	ID        string    `json:"id"`        // User ID
	Email     string    `json:"email"`     // Email
	CreatedAt time.Time `json:"createdAt"` // Timestamp of creation
}

// Public strips the password hash
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
