package utils

import (
	"testing"

	"github.com/avinash-ch/UnionSathi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Sathi2026")
	require.NoError(t, err)
	assert.NotEqual(t, "Sathi2026", hash)

	assert.True(t, CheckPassword("Sathi2026", hash))
	assert.False(t, CheckPassword("sathi2026", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 42}, Phone: "9876543210"}
	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenValidationFailures(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 1}, Phone: "9876543210"}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "rotated-secret")
		_, err := ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("admin tokens carry no user_id claim", func(t *testing.T) {
		admin := &models.Admin{Model: gorm.Model{ID: 7}, Email: "admin@union.org"}
		adminToken, err := GenerateAdminToken(admin)
		require.NoError(t, err)

		_, err = ValidateToken(adminToken)
		assert.Error(t, err)
	})
}
