package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)

	userID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	expired, err := NewTokenManager("secret", -time.Minute).Issue(1)
	require.NoError(t, err)
	otherKey, err := NewTokenManager("other", time.Hour).Issue(1)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ana"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"none alg":    noneAlg,
		"bad subject": badSubject,
		"garbage":     "not.a.token",
	} {
		_, err := m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
