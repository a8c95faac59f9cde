package middleware

import (
	"testing"
	"time"

	"househelper/apperr"
	"househelper/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(t *testing.T) *JWTManager {
	m, err := NewJWTManager(config.JWTConfig{Secret: "test-jwt-secret-key", Algorithm: "HS256", ExpireTime: time.Hour})
	require.NoError(t, err)
	return m
}

func TestNewJWTManager(t *testing.T) {
	_, err := NewJWTManager(config.JWTConfig{Algorithm: "HS256"})
	assert.Error(t, err)

	_, err = NewJWTManager(config.JWTConfig{Secret: "s", Algorithm: "RS256"})
	assert.Error(t, err)

	m, err := NewJWTManager(config.JWTConfig{Secret: "s", Algorithm: "hs512"})
	require.NoError(t, err)
	assert.Equal(t, "HS512", m.method.Alg())
	assert.Equal(t, 7*24*time.Hour, m.ttl)
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := newTestJWT(t)

	token, err := m.Issue("testuser", 1, 0)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims.Subject)
	assert.Equal(t, uint(1), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTManager_VerifyRejects(t *testing.T) {
	m := newTestJWT(t)

	// Issue 的 ttl <= 0 会使用默认有效期，过期令牌手工构造
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "old",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-jwt-secret-key"))
	require.NoError(t, err)

	other, err := NewJWTManager(config.JWTConfig{Secret: "another-secret", Algorithm: "HS256"})
	require.NoError(t, err)
	foreign, err := other.Issue("testuser", 1, time.Hour)
	require.NoError(t, err)

	hs512, err := NewJWTManager(config.JWTConfig{Secret: "test-jwt-secret-key", Algorithm: "HS512"})
	require.NoError(t, err)
	wrongAlg, err := hs512.Issue("testuser", 1, time.Hour)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString([]byte("test-jwt-secret-key"))
	require.NoError(t, err)

	valid, err := m.Issue("testuser", 1, time.Hour)
	require.NoError(t, err)
	tampered := valid[:len(valid)-2] + "xx"

	for name, tok := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.valid.jwt",
		"expired":   expired,
		"foreign":   foreign,
		"wrong alg": wrongAlg,
		"no sub":    noSub,
		"tampered":  tampered,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(tok)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
			assert.Equal(t, "无效的身份验证凭据", apperr.Message(err))
		})
	}
}
