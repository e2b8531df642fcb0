package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	salt, err := RandBytes(SaltLen)
	require.NoError(t, err)
	require.Len(t, salt, SaltLen)

	hash := HashPassword([]byte("correct horse battery staple"), salt)

	assert.True(t, VerifyPassword([]byte("correct horse battery staple"), salt, hash))
	assert.False(t, VerifyPassword([]byte("wrong password"), salt, hash))

	otherSalt, err := RandBytes(SaltLen)
	require.NoError(t, err)
	assert.False(t, VerifyPassword([]byte("correct horse battery staple"), otherSalt, hash))
}

func TestHashIsDeterministicPerSalt(t *testing.T) {
	salt := make([]byte, SaltLen)
	a := HashPassword([]byte("secret"), salt)
	b := HashPassword([]byte("secret"), salt)
	assert.Equal(t, a, b)
}

func TestRandBytesAreRandom(t *testing.T) {
	a, err := RandBytes(SaltLen)
	require.NoError(t, err)
	b, err := RandBytes(SaltLen)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
