package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"wallet_ledger/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(string) (*utils.InternalClaims, error)

func (f verifierFunc) Verify(token string) (*utils.InternalClaims, error) { return f(token) }

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		p, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user": p.UserID, "service": c.GetString("service")})
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter(JWTAuthMiddleware("secret"))
	token, err := utils.GenerateJWT("user-1", "a@test.com", "secret", time.Hour)
	require.NoError(t, err)
	internalToken, err := utils.GenerateInternalJWT("users-service", "secret", time.Now())
	require.NoError(t, err)

	ok := do(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"user":"user-1"`)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+internalToken).Code)
}

func TestInternalAuthMiddleware(t *testing.T) {
	r := newRouter(InternalAuthMiddleware(verifierFunc(func(token string) (*utils.InternalClaims, error) {
		return utils.ParseInternalJWT(token, "internal", "users-service")
	})))
	internalToken, err := utils.GenerateInternalJWT("users-service", "internal", time.Now())
	require.NoError(t, err)
	userToken, err := utils.GenerateJWT("user-1", "a@test.com", "internal", time.Hour)
	require.NoError(t, err)

	ok := do(r, "Bearer "+internalToken)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"service":"users-service"`)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+userToken).Code)
}
