package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/internal/token"
	"eonestep.com/institutebackend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newProtectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := NewAuthMiddleware(testSecret)
	router.GET("/protected", m.RequireAuth(roles...), func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": claims.Role})
	})

	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthMissingToken(t *testing.T) {
	router := newProtectedRouter()

	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "NotBearer xyz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	router := newProtectedRouter()

	signed, _, err := token.Generate(testSecret, time.Hour, 1, model.RoleAdmin, nil)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+signed)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.RoleAdmin)
}

func TestRequireAuthExpiredTokenUses498(t *testing.T) {
	router := newProtectedRouter()

	signed, _, err := token.Generate(testSecret, -time.Minute, 1, model.RoleAdmin, nil)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+signed)
	assert.Equal(t, apperror.StatusTokenExpired, rec.Code)
}

func TestRequireAuthWrongSecretUses498(t *testing.T) {
	router := newProtectedRouter()

	signed, _, err := token.Generate("other-secret", time.Hour, 1, model.RoleAdmin, nil)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+signed)
	assert.Equal(t, apperror.StatusTokenExpired, rec.Code)

	rec = doRequest(router, "Bearer not-a-jwt")
	assert.Equal(t, apperror.StatusTokenExpired, rec.Code)
}

func TestRequireAuthRoleGate(t *testing.T) {
	router := newProtectedRouter(model.RoleAdmin)

	signed, _, err := token.Generate(testSecret, time.Hour, 1, model.RoleFranchise, nil)
	require.NoError(t, err)

	rec := doRequest(router, "Bearer "+signed)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	signed, _, err = token.Generate(testSecret, time.Hour, 1, model.RoleAdmin, nil)
	require.NoError(t, err)

	rec = doRequest(router, "Bearer "+signed)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClaimsCarryFranchiseID(t *testing.T) {
	franchiseID := uint(12)
	signed, _, err := token.Generate(testSecret, time.Hour, 3, model.RoleFranchise, &franchiseID)
	require.NoError(t, err)

	claims, err := token.Parse(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	require.NotNil(t, claims.FranchiseID)
	assert.Equal(t, franchiseID, *claims.FranchiseID)
}
