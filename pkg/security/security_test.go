package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.Error(t, h.Compare(hash, "wrong horse"))
	assert.Error(t, h.Compare("", "correct horse"))

	_, err = h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordShort)
}

func TestPrefixedToken(t *testing.T) {
	tok, err := PrefixedToken("his_", 24)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, "his_"))
	assert.Len(t, tok, 4+48)

	other, err := PrefixedToken("his_", 24)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
