package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash never equals plaintext", func(t *testing.T) {
		hash, err := HashPassword("longpass1")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "longpass1", hash)
	})

	t.Run("same password hashes differently per call", func(t *testing.T) {
		first, err := HashPassword("samepassword")
		require.NoError(t, err)
		second, err := HashPassword("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correctpassword")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		assert.True(t, VerifyPassword("correctpassword", hash))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, VerifyPassword("wrongpassword", hash))
	})

	t.Run("verifies against either of two hashes of same input", func(t *testing.T) {
		other, err := HashPassword("correctpassword")
		require.NoError(t, err)
		assert.True(t, VerifyPassword("correctpassword", other))
	})

	t.Run("malformed hash fails closed", func(t *testing.T) {
		assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
		assert.False(t, VerifyPassword("anything", ""))
	})
}
