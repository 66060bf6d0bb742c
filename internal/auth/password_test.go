package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces a verifiable digest", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.True(t, CheckPassword("correct horse battery staple", hash))
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		first, err := HashPassword("password123")
		require.NoError(t, err)
		second, err := HashPassword("password123")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, CheckPassword("password123", first))
		assert.True(t, CheckPassword("password123", second))
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	t.Run("rejects wrong password", func(t *testing.T) {
		assert.False(t, CheckPassword("password124", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		assert.False(t, CheckPassword("", hash))
	})

	t.Run("rejects malformed digest", func(t *testing.T) {
		assert.False(t, CheckPassword("password123", "not-a-bcrypt-digest"))
	})
}
