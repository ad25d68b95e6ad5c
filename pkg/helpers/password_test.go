package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Abcd1234!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd1234!", hash)
	assert.True(t, CompareHashAndPassword(hash, "Abcd1234!"))
	assert.False(t, CompareHashAndPassword(hash, "abcd1234!"))
}

func TestCompareHashAndPassword_EmptyHash(t *testing.T) {
	assert.False(t, CompareHashAndPassword("", ""))
}
