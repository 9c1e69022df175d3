package auth

import (
	"testing"
	"time"

	"kefu/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{Secret: "s3cret", Expiry: time.Hour, Issuer: "kefu"}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testJWT()
	tok, exp, err := GenerateAccessToken(cfg, "1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.AdminID)
	assert.Equal(t, RoleAdmin, claims.Role)

	other := *cfg
	other.Secret = "different"
	_, err = ParseAccessToken(&other, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := *cfg
	expired.Expiry = -time.Minute
	tok, _, err = GenerateAccessToken(&expired, "1")
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticator(t *testing.T) {
	open, err := NewAuthenticator(&config.AdminConfig{}, testJWT())
	require.NoError(t, err)
	assert.False(t, open.Enabled())
	_, _, err = open.Login("1", "anything")
	assert.ErrorIs(t, err, ErrDisabled)

	a, err := NewAuthenticator(&config.AdminConfig{Password: "hunter2"}, testJWT())
	require.NoError(t, err)
	assert.True(t, a.Enabled())

	_, _, err = a.Login("1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	tok, _, err := a.Login("1", "hunter2")
	require.NoError(t, err)
	claims, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
}
