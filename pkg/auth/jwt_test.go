package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{SecretKey: "test-secret", Issuer: "relatree"}
}

func TestTokenRoundTrip(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig(), time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "Avery", true)
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Avery", claims.Name)
	assert.True(t, claims.Privileged)
}

func TestValidateTokenStripsBearerPrefix(t *testing.T) {
	generator, _ := NewJWTGenerator(testConfig(), time.Hour)
	validator, _ := NewJWTValidator(testConfig())

	token, err := generator.GenerateToken("user-1", "", false)
	require.NoError(t, err)

	claims, err := validator.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.False(t, claims.Privileged)
}

func TestValidateTokenRejectsEmpty(t *testing.T) {
	validator, _ := NewJWTValidator(testConfig())

	_, err := validator.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	generator, _ := NewJWTGenerator(JWTConfig{SecretKey: "other-secret", Issuer: "relatree"}, time.Hour)
	validator, _ := NewJWTValidator(testConfig())

	token, err := generator.GenerateToken("user-1", "", false)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	generator, _ := NewJWTGenerator(testConfig(), -time.Minute)
	validator, _ := NewJWTValidator(testConfig())

	token, err := generator.GenerateToken("user-1", "", false)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	generator, _ := NewJWTGenerator(JWTConfig{SecretKey: "test-secret", Issuer: "somewhere-else"}, time.Hour)
	validator, _ := NewJWTValidator(testConfig())

	token, err := generator.GenerateToken("user-1", "", false)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestSlidingWindowLimiter(t *testing.T) {
	limiter := NewSlidingWindowLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "key")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other keys have their own window.
	allowed, _ = limiter.Allow(ctx, "other")
	assert.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "key"))
	allowed, _ = limiter.Allow(ctx, "key")
	assert.True(t, allowed)
}
