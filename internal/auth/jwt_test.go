package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/domain"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestIssueAndValidateAccessToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	token, err := auth.IssueAccessToken(testSecret, userID, domain.RoleTenant, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, domain.RoleTenant, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "rentora", claims.Issuer)
}

func TestIssueRefreshTokenType(t *testing.T) {
	t.Parallel()

	token, err := auth.IssueRefreshToken(testSecret, uuid.New(), domain.RoleLandlord, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, uuid.New(), domain.RoleTenant, time.Minute)
		require.NoError(t, err)

		_, err = auth.ValidateToken("a-completely-different-secret", token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, uuid.New(), domain.RoleTenant, -time.Minute)
		require.NoError(t, err)

		_, err = auth.ValidateToken(testSecret, token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		_, err := auth.ValidateToken(testSecret, "not.a.jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
