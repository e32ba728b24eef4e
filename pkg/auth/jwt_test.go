package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("access", "refresh", 10*time.Minute, time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewJWTManager_RequiresSecrets(t *testing.T) {
	_, err := NewJWTManager("", "refresh", 0, 0)
	assert.Error(t, err)

	m, err := NewJWTManager("a", "b", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, m.accessTTL)
	assert.Equal(t, time.Hour, m.refreshTTL)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, err := m.CreateAccessToken(42)
	require.NoError(t, err)

	id, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokens_AreNotInterchangeable(t *testing.T) {
	m := newTestManager(t)

	access, err := m.CreateAccessToken(1)
	require.NoError(t, err)
	refresh, err := m.CreateRefreshToken(1)
	require.NoError(t, err)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := newTestManager(t)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.CreateAccessToken(7)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(11 * time.Minute) }
	_, err = m.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "Token has expired", err.Error())

	// refresh tokens live longer
	m.now = func() time.Time { return issued }
	refresh, err := m.CreateRefreshToken(7)
	require.NoError(t, err)
	m.now = func() time.Time { return issued.Add(30 * time.Minute) }
	id, err := m.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestVerify_Rejects(t *testing.T) {
	m := newTestManager(t)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("access"))
	require.NoError(t, err)

	otherAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("access"))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("access"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "not.a.jwt",
		"missing exp":    noExp,
		"wrong alg":      otherAlg,
		"missing userid": noUser,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.VerifyAccessToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
