package auth

import (
	"testing"
	"time"

	"localpro_backend/internal/config"
	"localpro_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokenTestService(secret string) *JWTService {
	cfg := &config.Config{
		JWTSecretKey:         secret,
		JWTAccessTokenExpiry: time.Hour,
	}
	return NewJWTService(cfg, zap.NewNop()).(*JWTService)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTokenTestService("test-secret")

	usr := &user.User{
		Role:         user.RoleProvider,
		TokenVersion: 3,
	}
	usr.ID = uuid.New()

	tokenString, expiry, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, claims.UserID)
	assert.Equal(t, user.RoleProvider, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, usr.ID.String(), claims.Subject)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := newTokenTestService("secret-one")
	verifier := newTokenTestService("secret-two")

	usr := &user.User{Role: user.RoleCustomer}
	usr.ID = uuid.New()

	tokenString, _, err := issuer.GenerateAccessToken(usr)
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(tokenString)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	cfg := &config.Config{
		JWTSecretKey:         "test-secret",
		JWTAccessTokenExpiry: -time.Minute,
	}
	svc := NewJWTService(cfg, zap.NewNop()).(*JWTService)

	usr := &user.User{Role: user.RoleProvider}
	usr.ID = uuid.New()

	tokenString, _, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	svc := newTokenTestService("test-secret")

	claims, err := svc.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Nil(t, claims)
}
