package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
)

func newTestAuthService() AuthService {
	return NewAuthService(config.App{
		TokenSignKey:  "test-secret",
		TokenIssuer:   "delta-sync",
		TokenDuration: time.Hour,
	}, logger.Nop())
}

func TestAuthService_CreateToken(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.CreateToken(context.Background(), "user-1")

	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, "user-1", token.OwnerID)
	assert.Equal(t, "delta-sync", token.Issuer)
}

func TestAuthService_CreateToken_EmptyOwner(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.CreateToken(context.Background(), "")

	require.ErrorIs(t, err, ErrEmptyOwnerID)
}

func TestAuthService_CreateToken_MissingSignKey(t *testing.T) {
	svc := NewAuthService(config.App{TokenIssuer: "delta-sync", TokenDuration: time.Hour}, logger.Nop())

	_, err := svc.CreateToken(context.Background(), "user-1")

	require.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestAuthService_ParseToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	created, err := svc.CreateToken(ctx, "user-1")
	require.NoError(t, err)

	parsed, err := svc.ParseToken(ctx, created.SignedString)

	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.OwnerID)
}

func TestAuthService_ParseToken_Rejected(t *testing.T) {
	svc := newTestAuthService()

	foreign, err := utils.GenerateJWTToken("delta-sync", "user-1", time.Hour, "another-secret")
	require.NoError(t, err)
	wrongIssuer, err := utils.GenerateJWTToken("someone-else", "user-1", time.Hour, "test-secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"foreign signature", foreign.SignedString},
		{"wrong issuer", wrongIssuer.SignedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
