package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ratehub/ratehub/internal/model"
)

// TokenTTL is the fixed lifetime of issued tokens.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is the single failure outcome of token verification.
// Signature mismatch, expiry, and malformed input all collapse into it so
// callers cannot distinguish why a token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload carried by issued tokens.
// Subject holds the user ID as a decimal string.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenService issues and verifies signed bearer tokens.
// The secret is process-wide configuration; rotating it invalidates all
// outstanding tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret.
// A non-positive ttl falls back to TokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token for the given principal.
func (s *TokenService) Issue(principal model.Principal) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principal.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: principal.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", ErrInvalidToken
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the embedded principal.
// Fails closed: every verification problem yields ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (model.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.Principal{}, ErrInvalidToken
	}

	return model.Principal{UserID: userID, Username: claims.Username}, nil
}
