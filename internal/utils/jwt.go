package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager mints and validates the bearer tokens that stand in for an
// authenticated Telegram session. The token embeds the session blob itself, so
// a holder can be served even after the persisted record has expired.
type TokenManager struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type SessionClaims struct {
	SessionID   string `json:"sid"`
	PhoneNumber string `json:"phone"`
	SessionBlob string `json:"blob"`
	jwt.RegisteredClaims
}

func (m TokenManager) Issue(sessionID string, phoneNumber string, sessionBlob string) (string, time.Duration, error) {
	ttl := m.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := SessionClaims{
		SessionID:   sessionID,
		PhoneNumber: phoneNumber,
		SessionBlob: sessionBlob,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
