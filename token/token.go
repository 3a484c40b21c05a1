package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User roles carried in the session token.
const (
	RoleCustomer    = "customer"
	RoleAdmin       = "admin"
	RoleDeliveryMan = "deliveryman"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the authenticated identity carried on every request:
// the user id, its role and a display name.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Generate signs a session token valid for 24 hours.
func Generate(secret []byte, userID, role, name string) (string, error) {
	claims := &SessionClaims{
		UserID: userID,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(secret)
}

// Parse validates a signed session token and returns its claims.
func Parse(secret []byte, tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
