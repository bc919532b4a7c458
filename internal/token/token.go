package token

import (
	"errors"
	"fmt"
	"time"

	"eonestep.com/institutebackend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer token payload shared by the auth service (signing)
// and the middleware (verification).
type Claims struct {
	UserID      uint   `json:"id"`
	Role        string `json:"role"`
	FranchiseID *uint  `json:"franchiseId"`
	jwt.RegisteredClaims
}

// Generate signs a HS256 token carrying the user identity and tenant.
func Generate(secret string, ttl time.Duration, userID uint, role string, franchiseID *uint) (string, int64, error) {
	expiresAt := time.Now().Add(ttl)

	claims := Claims{
		UserID:      userID,
		Role:        role,
		FranchiseID: franchiseID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// Parse verifies the signature and expiry, distinguishing expired tokens
// from otherwise invalid ones.
func Parse(secret, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrTokenExpired
		}
		return nil, apperror.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperror.ErrInvalidToken
	}

	return claims, nil
}
