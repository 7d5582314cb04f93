// Package auth extracts the caller's creator identity from bearer tokens
// issued by the external identity layer.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/daylog-app/daylog/internal/common"
)

// Claims carries the registered claims plus the creator identity.
type Claims struct {
	jwt.RegisteredClaims
	CreatorID string
}

// GenerateToken signs a token for creatorID, valid for validityDuration.
// Used by tests and local tooling; production tokens come from the identity
// layer.
func GenerateToken(creatorID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		CreatorID: creatorID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// CreatorFromToken validates tokenString against secretKey and returns the
// creator identity it carries.
func CreatorFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.CreatorID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.CreatorID, nil
}
