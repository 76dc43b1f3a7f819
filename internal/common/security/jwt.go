package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the local API sets next to the bearer token.
// jwtauth.TokenFromCookie reads a cookie of this name.
const TokenCookie = "jwt"

// TokenIssuer signs the local API's HS256 tokens. They identify the session's
// user to the local API only; the backend keeps its own cookie.
type TokenIssuer struct {
	Auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenIssuer(key []byte, exp time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Auth: jwtauth.New("HS256", key, nil),
		exp:  exp,
	}
}

func (t *TokenIssuer) GenerateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(t.exp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := t.Auth.Encode(claims)
	return tokenString, err
}

func (t *TokenIssuer) Expiry() time.Duration { return t.exp }

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
