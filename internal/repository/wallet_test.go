package repository

import (
	"context"
	"sync"
	"testing"
	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository_GetOrCreateIsIdempotent(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "user-1", second.UserID)

	other, err := repo.GetOrCreate(ctx, "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestWalletRepository_FindByUserID(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.FindByUserID(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)

	created, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	found, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestWalletRepository_SumsAreZeroWithoutRows(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()
	wallet, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	credits, debits, err := repo.Sums(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credits)
	assert.Equal(t, int64(0), debits)
}

func TestWalletRepository_CreditAndDebit(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()
	wallet, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	desc := "Signup bonus"
	credit, err := repo.Credit(ctx, wallet.ID, 1000, &desc)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionCredit, credit.Type)
	assert.Equal(t, "Signup bonus", *credit.Description)

	debit, err := repo.Debit(ctx, wallet.ID, 400, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionDebit, debit.Type)
	assert.Nil(t, debit.Description)

	credits, debits, err := repo.Sums(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), credits)
	assert.Equal(t, int64(400), debits)
}

func TestWalletRepository_DebitInsufficientAppendsNothing(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()
	wallet, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	_, err = repo.Credit(ctx, wallet.ID, 100, nil)
	require.NoError(t, err)

	_, err = repo.Debit(ctx, wallet.ID, 101, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, total, err := repo.ListTransactions(ctx, wallet.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestWalletRepository_DebitUnknownWallet(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))

	_, err := repo.Debit(context.Background(), "missing", 1, nil)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()
	wallet, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	_, err = repo.Credit(ctx, wallet.ID, 500, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Debit(ctx, wallet.ID, 100, nil); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	credits, debits, err := repo.Sums(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credits-debits)
}

func TestWalletRepository_ListTransactionsPaginates(t *testing.T) {
	repo := NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()
	wallet, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		_, err := repo.Credit(ctx, wallet.ID, int64(i), nil)
		require.NoError(t, err)
	}

	items, total, err := repo.ListTransactions(ctx, wallet.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(4), items[0].Amount)
	assert.Equal(t, int64(3), items[1].Amount)

	empty, total, err := repo.ListTransactions(ctx, "other-wallet", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}
