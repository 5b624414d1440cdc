package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"microblogSync/internal/config"
	"microblogSync/internal/security"
)

func newTestAuthService(t *testing.T, duration time.Duration) AuthService {
	sealer, err := security.NewSealer("test-credentials-key")
	require.NoError(t, err)
	return NewAuthService(sealer, &config.Config{JWTSecretKey: "test-secret", SessionTokenDuration: duration})
}

func TestAuthService_IssueAndRead(t *testing.T) {
	svc := newTestAuthService(t, time.Hour)

	token, err := svc.IssueToken("1234-access-token")
	require.NoError(t, err)
	assert.NotContains(t, token, "1234-access-token")

	account, err := svc.GetAccountFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1234-access-token", account)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc := newTestAuthService(t, -time.Minute)

	token, err := svc.IssueToken("acc")
	require.NoError(t, err)

	_, err = svc.GetAccountFromToken(token)
	assert.Error(t, err)
}

func TestAuthService_ForeignSignature(t *testing.T) {
	svc := newTestAuthService(t, time.Hour)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account": "whatever",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := other.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestAuthService_UnsealedAccountClaim(t *testing.T) {
	svc := newTestAuthService(t, time.Hour)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account": "plain-account",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := forged.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.GetAccountFromToken(tokenString)
	assert.Error(t, err)
}
