package service

import (
	"context"                       // Request scoped context
	"errors"                        // Error construction
	"time"                          // Token lifetime
	"wallet_ledger/internal/domain" // Importing domain models
	"wallet_ledger/internal/utils"  // Password and JWT helpers

	"github.com/sirupsen/logrus" // Logging library
)

// UserStore persists user records
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User, afterCreate func(*domain.User) error) error
}

// UserEventPublisher notifies other services about new users
type UserEventPublisher interface {
	PublishUserCreated(ctx context.Context, userID, email string) error
}

// SignupResult is returned by Signup
type SignupResult struct {
	User        domain.PublicUser `json:"user"`        // Created user
	AccessToken string            `json:"accessToken"` // JWT access token
}

// LoginResult is returned by Login
type LoginResult struct {
	AccessToken string `json:"accessToken"` // JWT access token
}

// AuthService handles signup and login
type AuthService struct {
	users  UserStore          // Credential store
	events UserEventPublisher // Downstream notification
	secret string             // Access token secret
	ttl    time.Duration      // Access token lifetime
}

// NewAuthService creates an AuthService. An empty secret is rejected.
func NewAuthService(users UserStore, events UserEventPublisher, secret string, ttl time.Duration) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is missing")
	}
	if ttl <= 0 {
		ttl = time.Hour // Default expiry
	}
	return &AuthService{users: users, events: events, secret: secret, ttl: ttl}, nil
}

// Signup creates a user and publishes user.created. The user row is committed only if the
// event was handed to the transport.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Reject duplicate email
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Email: email, PasswordHash: hash}
	var token string
	// Sign and publish before the insert commits
	err = s.users.Create(ctx, user, func(u *domain.User) error {
		var signErr error
		if token, signErr = utils.GenerateJWT(u.ID, u.Email, s.secret, s.ttl); signErr != nil {
			return signErr
		}
		return s.events.PublishUserCreated(ctx, u.ID, u.Email)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"email": email,       // Requested email
			"error": err.Error(), // Error message
		}).Error("Signup failed")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID, // New user ID
		"type":    "signup",
	}).Info("User registered")
	return &SignupResult{User: user.Public(), AccessToken: token}, nil
}

// Login checks credentials and issues an access token. Unknown email and wrong password
// both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token}, nil
}
