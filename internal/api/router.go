package api

import (
	"net/http"                          // HTTP status codes
	"wallet_ledger/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin" // Gin web framework
)

func newEngine() (*gin.Engine, error) {
	r := gin.Default() // Gin router instance
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, err
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r, nil
}

// NewUserRouter builds the user service routes
func NewUserRouter(auth Authenticator) (*gin.Engine, error) {
	r, err := newEngine()
	if err != nil {
		return nil, err
	}
	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/signup", SignupHandler(auth)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(auth))   // Login endpoint
	return r, nil
}

// NewWalletRouter builds the wallet service routes
func NewWalletRouter(ledger Ledger, jwtSecret string, internal middleware.InternalVerifier) (*gin.Engine, error) {
	r, err := newEngine()
	if err != nil {
		return nil, err
	}
	// Wallet routes (protected by user JWT)
	walletGroup := r.Group("/wallets/me")
	walletGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	walletGroup.POST("", CreateWalletHandler(ledger))             // Get or create wallet
	walletGroup.GET("", GetWalletHandler(ledger))                 // Get wallet
	walletGroup.POST("/credit", CreditHandler(ledger))            // Credit endpoint
	walletGroup.POST("/debit", DebitHandler(ledger))              // Debit endpoint
	walletGroup.GET("/balance", BalanceHandler(ledger))           // Balance endpoint
	walletGroup.GET("/transactions", TransactionsHandler(ledger)) // Transaction history endpoint

	// Internal routes (protected by internal service token)
	internalGroup := r.Group("/internal")
	internalGroup.Use(middleware.InternalAuthMiddleware(internal))
	internalGroup.POST("/wallets/:userId", InternalCreateWalletHandler(ledger)) // Provision wallet
	return r, nil
}
