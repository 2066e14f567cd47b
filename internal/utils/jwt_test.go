package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundtrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "landlord", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	uid, role, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "landlord", role)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "user", 15)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  float64(7),
		"role": "user",
		"exp":  time.Now().UTC().Add(-time.Minute).Unix(),
		"iat":  time.Now().UTC().Add(-time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenUnsignedAlgRejected(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  float64(7),
		"role": "admin",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
	}
	// alg=none must never be accepted, even with the "signature" the
	// library requires for it.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, _, err := ParseAccessToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}

func TestRefreshTokenHashStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.True(t, rt.Exp.After(time.Now()))

	// Same raw always hashes the same, different raws differ.
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
	other, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(other.Raw))
}
