package middleware

import (
	"net/http"
	"strings"

	"eonestep.com/institutebackend/internal/token"
	"eonestep.com/institutebackend/pkg/apperror"
	"eonestep.com/institutebackend/pkg/response"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth verifies the bearer token and gates by role when roles are
// given. Missing credentials are 401; expired or invalid tokens use the 498
// status the frontend watches for; a wrong role is 403.
func (m *AuthMiddleware) RequireAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			response.Error(c, apperror.New(http.StatusUnauthorized, "Missing token", apperror.ErrUnauthorized))
			return
		}

		claims, err := token.Parse(m.secret, tokenString)
		if err != nil {
			response.Error(c, err)
			return
		}

		if len(roles) > 0 && !contains(roles, claims.Role) {
			response.Error(c, apperror.New(http.StatusForbidden, "Access denied", apperror.ErrForbidden))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the verified token claims placed on the context by
// RequireAuth.
func GetClaims(c *gin.Context) (*token.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*token.Claims)
	return claims, ok
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
