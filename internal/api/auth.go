package api

import (
	"context"                        // Request scoped context
	"net/http"                       // HTTP status codes
	"wallet_ledger/internal/service" // Auth results

	"github.com/gin-gonic/gin" // Gin web framework
)

// Authenticator is the auth service as seen by handlers
type Authenticator interface {
	Signup(ctx context.Context, email, password string) (*service.SignupResult, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"` // Email must be valid
	Password string `json:"password" binding:"required,min=6"`      // At least 6 characters
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be valid
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// SignupHandler registers a user and returns the user plus an access token
func SignupHandler(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err) // Return bad request
			return
		}
		res, err := auth.Signup(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err) // Duplicate email or infrastructure failure
			return
		}
		c.JSON(http.StatusCreated, res) // Return the created user and token
	}
}

// LoginHandler authenticates a user and returns an access token
func LoginHandler(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			writeError(c, err) // Return bad request
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err) // Uniform invalid credentials
			return
		}
		c.JSON(http.StatusOK, res) // Return the token in the response
	}
}
