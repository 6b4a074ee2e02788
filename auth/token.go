package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long a session token stays valid. Matches the session
// store TTL so the JWT and the stored session expire together.
const TokenTTL = 24 * time.Hour

// Tokens mints and verifies session tokens.
type Tokens struct {
	secret []byte
}

// NewTokens builds a token minter around an HMAC secret.
func NewTokens(secret []byte) *Tokens {
	return &Tokens{secret: secret}
}

// Mint issues a fresh token for username. The random jti makes every token
// unique, so replacing a session is observable.
func (t *Tokens) Mint(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token for %s: %w", username, err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the username the token
// was minted for.
func (t *Tokens) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
