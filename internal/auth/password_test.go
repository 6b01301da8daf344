package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndVerify(t *testing.T) {
	hash, salt, err := Register("s3cret")
	require.NoError(t, err)
	assert.Len(t, salt, 32)  // 16 bytes hex encoded
	assert.Len(t, hash, 128) // 64 bytes hex encoded

	assert.True(t, Verify("s3cret", salt, hash))
	assert.False(t, Verify("wrong", salt, hash))
	assert.False(t, Verify("s3cret", "00000000000000000000000000000000", hash))
}

func TestRegister_SaltsDiffer(t *testing.T) {
	hash1, salt1, err := Register("same")
	require.NoError(t, err)
	hash2, salt2, err := Register("same")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestChangePassword_RejectsWrongOldPassword(t *testing.T) {
	hash, salt, err := Register("original")
	require.NoError(t, err)

	_, _, err = ChangePassword("not-original", "next", salt, hash)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestChangePassword_RotatesSaltAndHash(t *testing.T) {
	hash, salt, err := Register("original")
	require.NoError(t, err)

	newHash, newSalt, err := ChangePassword("original", "next", salt, hash)
	require.NoError(t, err)
	assert.NotEqual(t, salt, newSalt)
	assert.NotEqual(t, hash, newHash)

	// Old password no longer verifies, new one does.
	assert.False(t, Verify("original", newSalt, newHash))
	assert.True(t, Verify("next", newSalt, newHash))
}
