package studio

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the access-token payload issued by the auth frontend.
type TokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// parseToken verifies an HS256 access token and returns the user id.
func (s *Server) parseToken(tokenStr string) (string, error) {
	claims := &TokenClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", errors.New("invalid token")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", errors.New("token carries no user id")
	}
	return userID, nil
}
