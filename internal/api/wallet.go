package api

import (
	"context"                           // Request scoped context
	"net/http"                          // HTTP status codes
	"strconv"                           // String conversion
	"wallet_ledger/internal/domain"     // Importing domain models
	"wallet_ledger/internal/middleware" // Current user extraction
	"wallet_ledger/internal/service"    // Pagination defaults

	"github.com/gin-gonic/gin" // Gin web framework
)

// Ledger is the wallet service as seen by handlers
type Ledger interface {
	GetOrCreateWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	GetBalance(ctx context.Context, userID string) (*domain.BalanceSnapshot, error)
	Credit(ctx context.Context, userID string, amount int64, description *string) (*domain.BalanceSnapshot, error)
	Debit(ctx context.Context, userID string, amount int64, description *string) (*domain.BalanceSnapshot, error)
	ListTransactions(ctx context.Context, userID string, skip, take int) (*domain.TransactionPage, error)
}

// AmountRequest is the body of the credit and debit endpoints
type AmountRequest struct {
	Amount      int64   `json:"amount" binding:"required,gt=0"`          // Amount in minor units
	Description *string `json:"description" binding:"omitempty,max=255"` // Optional description
}

// currentUser returns the principal or writes 401
func currentUser(c *gin.Context) (middleware.Principal, bool) {
	p, ok := middleware.CurrentUser(c) // Get principal from context
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
	}
	return p, ok
}

// CreateWalletHandler returns the caller's wallet, creating it if needed
func CreateWalletHandler(ledger Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		wallet, err := ledger.GetOrCreateWallet(c.Request.Context(), user.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, wallet)
	}
}

// GetWalletHandler returns the caller's wallet or 404
func GetWalletHandler(ledger Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		wallet, err := ledger.GetWallet(c.Request.Context(), user.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, wallet)
	}
}

// BalanceHandler returns the caller's balance snapshot
func BalanceHandler(ledger Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		snapshot, err := ledger.GetBalance(c.Request.Context(), user.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// CreditHandler credits the caller's wallet
func CreditHandler(ledger Ledger) gin.HandlerFunc {
	return amountHandler(ledger.Credit)
}

// DebitHandler debits the caller's wallet
func DebitHandler(ledger Ledger) gin.HandlerFunc {
	return amountHandler(ledger.Debit)
}

type amountOp func(ctx context.Context, userID string, amount int64, description *string) (*domain.BalanceSnapshot, error)

func amountHandler(op amountOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req AmountRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err) // Return bad request
			return
		}
		snapshot, err := op(c.Request.Context(), user.UserID, req.Amount, req.Description)
		if err != nil {
			writeError(c, err) // Insufficient balance or infrastructure failure
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// TransactionsHandler returns the caller's transactions, newest first
func TransactionsHandler(ledger Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		skip := 0                   // Default offset
		take := service.DefaultTake // Default page size
		// If skip exists in query
		if s := c.Query("skip"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				writeError(c, domain.NewValidationError("skip must be an integer"))
				return
			}
			skip = v
		}
		// If take exists in query
		if t := c.Query("take"); t != "" {
			v, err := strconv.Atoi(t)
			if err != nil {
				writeError(c, domain.NewValidationError("take must be an integer"))
				return
			}
			take = v
		}
		page, err := ledger.ListTransactions(c.Request.Context(), user.UserID, skip, take)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
