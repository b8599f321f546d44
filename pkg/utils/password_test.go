package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passphrase", hash)

	assert.True(t, CheckPassword("s3cret-passphrase", hash))
	assert.False(t, CheckPassword("wrong-passphrase", hash))
	assert.False(t, CheckPassword("s3cret-passphrase", "not-a-hash"))
}
