// Package auth issues and verifies the stateless bearer tokens the API uses
// for sessions, and hashes user passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resolvedesk/backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Name          string               `json:"name"`
	Role          models.UserRole      `json:"role"`
	EngineerLevel models.EngineerLevel `json:"engineer_level,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func (t TokenIssuer) Issue(u models.User, now time.Time) (string, error) {
	claims := Claims{
		Name:          u.Name,
		Role:          u.Role,
		EngineerLevel: u.Level(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t TokenIssuer) Parse(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
