package secret_test

import (
	"testing"

	"github.com/serroba/nexus/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	gate := secret.NewGate()

	t.Run("hash verifies against its plaintext", func(t *testing.T) {
		hash, err := gate.Hash("hunter2")
		require.NoError(t, err)
		assert.NotEqual(t, "hunter2", hash)

		matched, err := gate.Check("hunter2", hash)
		require.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("wrong plaintext does not match", func(t *testing.T) {
		hash, err := gate.Hash("hunter2")
		require.NoError(t, err)

		matched, err := gate.Check("hunter3", hash)
		require.NoError(t, err)
		assert.False(t, matched)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := gate.Hash("hunter2")
		require.NoError(t, err)

		second, err := gate.Hash("hunter2")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("garbage hash is an error, not a mismatch", func(t *testing.T) {
		_, err := gate.Check("hunter2", "not-a-bcrypt-hash")

		assert.Error(t, err)
	})
}
