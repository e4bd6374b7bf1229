package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret, "job-board", time.Hour)
	require.NoError(t, err)
	return ts
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, h.Verify("correct horse", hash))
	assert.False(t, h.Verify("wrong horse", hash))
	assert.False(t, h.Verify("correct horse", "not-a-hash"))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_RejectsLongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := h.Hash(string(long))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultCost, NewBcryptHasher(99).cost)
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short", "job-board", time.Hour)
	assert.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(42)
	require.NoError(t, err)

	userID, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenService_Expired(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration(42, -time.Minute)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("a-completely-different-secret", "job-board", time.Hour)
	require.NoError(t, err)

	token, err := other.Generate(42)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)

	token, err := other.Generate(42)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	ts := newTestTokenService(t)
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		Issuer:    "job-board",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNonNumericSubject(t *testing.T) {
	ts := newTestTokenService(t)
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "job-board",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	ts := newTestTokenService(t)
	_, err := ts.Validate("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
