package auth

import (
	"testing"
	"time"

	"inovocb/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "test-secret", AccessExpiry: time.Minute, Issuer: "inovocb"}

	token, err := GenerateAccessToken(cfg, 42, "SERVICE")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "SERVICE", claims.Role)
	assert.Equal(t, "inovocb", claims.Issuer)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "test-secret", AccessExpiry: time.Minute}
	token, err := GenerateAccessToken(cfg, 42, "USER")
	require.NoError(t, err)

	other := &config.JWTConfig{AccessSecret: "different-secret", AccessExpiry: time.Minute}
	_, err = ParseAccessToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "test-secret", AccessExpiry: -time.Minute}
	token, err := GenerateAccessToken(cfg, 42, "USER")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	cfg := &config.JWTConfig{AccessSecret: "test-secret"}
	_, err := ParseAccessToken(cfg, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
