package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := TokenManager{Secret: []byte("secret"), Issuer: "tgbridge", TTL: time.Hour}

	token, ttl, err := manager.Issue("sess-1", "+1 555-0100", "blob-data")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "+1 555-0100", claims.PhoneNumber)
	assert.Equal(t, "blob-data", claims.SessionBlob)
	assert.Equal(t, "tgbridge", claims.Issuer)
	assert.Equal(t, "sess-1", claims.Subject)
}

func TestTokenDefaultTTL(t *testing.T) {
	manager := TokenManager{Secret: []byte("secret")}

	_, ttl, err := manager.Issue("sess-1", "15550100", "")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestParseExpiredToken(t *testing.T) {
	manager := TokenManager{Secret: []byte("secret"), TTL: -time.Minute}

	token, _, err := manager.Issue("sess-1", "15550100", "")
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	minted := TokenManager{Secret: []byte("secret"), TTL: time.Hour}
	token, _, err := minted.Issue("sess-1", "15550100", "")
	require.NoError(t, err)

	other := TokenManager{Secret: []byte("different")}
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := TokenManager{Secret: []byte("secret")}

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := manager.Parse(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}
