package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const usernameScopePrefix = "username:"

// TokenClaims carries no time based claims, so a login always maps
// to the same token.
type TokenClaims struct {
	Username string   `json:"username"`
	Scopes   []string `json:"scopes"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	signingKey []byte
}

func NewTokenManager(signingKey string) *TokenManager {
	return &TokenManager{signingKey: []byte(signingKey)}
}

func (m *TokenManager) Issue(login string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		Username: login,
		Scopes:   []string{usernameScopePrefix + login},
	})

	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&TokenClaims{},
		func(token *jwt.Token) (any, error) {
			return m.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	if !claims.HasScope(UsernameScope(claims.Username)) {
		return nil, fmt.Errorf("%w: missing %s scope", ErrInvalidToken, usernameScopePrefix)
	}
	return claims, nil
}

// HasScope reports whether the claims grant the given scope.
func (c *TokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// UsernameScope returns the scope every token carries for its own login.
func UsernameScope(login string) string {
	return usernameScopePrefix + login
}
