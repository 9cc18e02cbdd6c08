package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// InternalCreateWalletHandler provisions a wallet for the :userId path parameter
func InternalCreateWalletHandler(ledger Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		wallet, err := ledger.GetOrCreateWallet(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, wallet)
	}
}
