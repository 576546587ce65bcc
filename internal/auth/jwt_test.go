package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialcheck/serialcheck-server/internal/model"
)

var testAdmin = model.AdminIdentity{ID: 1, Username: "admin"}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-key", time.Hour)

	token, expiresAt, err := mgr.GenerateToken(testAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, testAdmin, *identity)
}

func TestTokensAreUnique(t *testing.T) {
	mgr := NewJWTManager("test-secret-key", time.Hour)

	token1, _, err := mgr.GenerateToken(testAdmin)
	require.NoError(t, err)
	token2, _, err := mgr.GenerateToken(testAdmin)
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}

func TestInvalidSecretRejected(t *testing.T) {
	mgr1 := NewJWTManager("secret-1", time.Hour)
	mgr2 := NewJWTManager("secret-2", time.Hour)

	token, _, err := mgr1.GenerateToken(testAdmin)
	require.NoError(t, err)

	_, err = mgr2.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	token, _, err := mgr.GenerateToken(testAdmin)
	require.NoError(t, err)

	mgr.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = mgr.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTamperedTokenRejected(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	token, _, err := mgr.GenerateToken(testAdmin)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	forged := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		Username: "root",
	}
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString([]byte("secret"))
	require.NoError(t, err)
	otherParts := strings.Split(other, ".")

	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]
	_, err = mgr.ValidateToken(tampered)
	assert.Error(t, err)

	_, err = mgr.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestUnsignedTokenRejected(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenWithoutExpiryRejected(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
		Username:         "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestMalformedSubjectRejected(t *testing.T) {
	mgr := NewJWTManager("secret", time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
