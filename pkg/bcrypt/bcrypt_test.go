package bcrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	b := NewWithCost(1)

	hash, err := b.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, b.ComparePassword(hash, "s3cret"))
	assert.ErrorIs(t, b.ComparePassword(hash, "wrong"), ErrMismatch)
	assert.Error(t, b.ComparePassword("not-a-hash", "s3cret"))
}
