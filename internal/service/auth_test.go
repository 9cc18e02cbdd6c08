package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/repository"
	"wallet_ledger/internal/service"
	"wallet_ledger/internal/testutil"
	"wallet_ledger/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, events service.UserEventPublisher) (*service.AuthService, *repository.UserRepository) {
	users := repository.NewUserRepository(testutil.NewDB(t))
	auth, err := service.NewAuthService(users, events, "test-secret", time.Hour)
	require.NoError(t, err)
	return auth, users
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := service.NewAuthService(nil, nil, "", time.Hour)
	assert.Error(t, err)
}

func TestSignup_Success(t *testing.T) {
	events := &MockUserEventPublisher{}
	auth, users := newAuthService(t, events)
	ctx := context.Background()

	events.On("PublishUserCreated", ctx, mock.AnythingOfType("string"), "nelson@test.com").Return(nil).Once()

	res, err := auth.Signup(ctx, "nelson@test.com", "123456")

	require.NoError(t, err)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "nelson@test.com", res.User.Email)
	assert.Greater(t, len(res.AccessToken), 10)

	claims, err := utils.ParseJWT(res.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, "nelson@test.com", claims.Email)

	stored, err := users.FindByEmail(ctx, "nelson@test.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "123456", stored.PasswordHash)
	events.AssertExpectations(t)
	events.AssertCalled(t, "PublishUserCreated", ctx, res.User.ID, "nelson@test.com")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	events := &MockUserEventPublisher{}
	auth, _ := newAuthService(t, events)
	ctx := context.Background()
	events.On("PublishUserCreated", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := auth.Signup(ctx, "dup@test.com", "123456")
	require.NoError(t, err)

	for _, password := range []string{"123456", "different-password"} {
		_, err = auth.Signup(ctx, "dup@test.com", password)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	}
	events.AssertNumberOfCalls(t, "PublishUserCreated", 1)
}

func TestSignup_PublishFailureLeavesNoUser(t *testing.T) {
	events := &MockUserEventPublisher{}
	auth, users := newAuthService(t, events)
	ctx := context.Background()
	publishErr := fmt.Errorf("%w: broker down", domain.ErrPublishFailed)
	events.On("PublishUserCreated", ctx, mock.Anything, "lost@test.com").Return(publishErr).Once()

	res, err := auth.Signup(ctx, "lost@test.com", "123456")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrPublishFailed)
	stored, err := users.FindByEmail(ctx, "lost@test.com")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLogin(t *testing.T) {
	events := &MockUserEventPublisher{}
	auth, _ := newAuthService(t, events)
	ctx := context.Background()
	events.On("PublishUserCreated", ctx, mock.Anything, mock.Anything).Return(nil)

	signup, err := auth.Signup(ctx, "login@test.com", "123456")
	require.NoError(t, err)

	res, err := auth.Login(ctx, "login@test.com", "123456")
	require.NoError(t, err)
	assert.Greater(t, len(res.AccessToken), 10)
	claims, err := utils.ParseJWT(res.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, claims.Subject)

	_, wrongPassword := auth.Login(ctx, "login@test.com", "654321")
	_, unknownUser := auth.Login(ctx, "ghost@test.com", "123456")
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

type failingUserStore struct{}

func (failingUserStore) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, fmt.Errorf("%w: connection refused", domain.ErrStorageUnavailable)
}

func (failingUserStore) Create(context.Context, *domain.User, func(*domain.User) error) error {
	return errors.New("unreachable")
}

func TestLogin_StorageFailureIsNotInvalidCredentials(t *testing.T) {
	auth, err := service.NewAuthService(failingUserStore{}, &MockUserEventPublisher{}, "s", time.Hour)
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), "a@test.com", "123456")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}
