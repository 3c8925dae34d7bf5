// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const stateIssuer = "catalog-backend"

type StateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// GenerateStateToken signs a short-lived OAuth state value so the callback
// can be verified without server-side session storage.
func GenerateStateToken(secret string, ttl time.Duration) (string, error) {
	nonce, err := GenerateRandomString(24)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := StateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    stateIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateStateToken(tokenString, secret string) error {
	if tokenString == "" {
		return errors.New("missing state")
	}

	token, err := jwt.ParseWithClaims(tokenString, &StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid {
		return errors.New("invalid state")
	}
	if claims.Issuer != stateIssuer {
		return errors.New("unexpected state issuer")
	}

	return nil
}
