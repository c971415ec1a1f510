package auth

import (
	"testing"

	"triplan/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 4}})

	hash, err := hasher.Hash("Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Passw0rd!", hash)

	assert.True(t, hasher.Check("Passw0rd!", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
}

func TestBcryptHasher_SaltsPerCall(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	first, err := hasher.Hash("Passw0rd!")
	require.NoError(t, err)
	second, err := hasher.Hash("Passw0rd!")
	require.NoError(t, err)

	// bcrypt embeds a fresh salt per call, so the hashes differ.
	assert.NotEqual(t, first, second)
}
