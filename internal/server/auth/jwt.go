// Package auth verifies the HS256 session tokens minted by the identity
// provider integration. The server never issues credentials of its own; it
// only checks the shared-secret signature and lifts the subject and email
// out of the claims.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/mailx"
)

// Identity is the authenticated caller as seen by every handler:
// the provider's stable subject plus a normalized email.
type Identity struct {
	ExternalID string
	Email      string
}

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateToken mints a token for the given identity. In production tokens
// come from the identity provider; this is used by tests and the CLI's dev
// login.
func GenerateToken(externalID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IdentityFromToken validates tokenString and returns the caller identity.
// The email claim is normalized here so downstream code can compare it
// against stored recipient emails directly.
func IdentityFromToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{
		ExternalID: claims.Subject,
		Email:      mailx.Normalize(claims.Email),
	}, nil
}
