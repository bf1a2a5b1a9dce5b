package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueLengths(t *testing.T) {
	raw, hash, err := Issue(InviteBytes)
	require.NoError(t, err)
	assert.Len(t, raw, InviteBytes*2, "raw token is hex, two chars per byte")
	assert.Len(t, hash, 64, "sha256 hex digest")

	raw, _, err = Issue(SessionBytes)
	require.NoError(t, err)
	assert.Len(t, raw, SessionBytes*2)
}

func TestIssueUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		raw, _, err := Issue(InviteBytes)
		require.NoError(t, err)
		assert.False(t, seen[raw], "duplicate token issued")
		seen[raw] = true
	}
}

func TestHashDeterministic(t *testing.T) {
	raw, hash, err := Issue(SessionBytes)
	require.NoError(t, err)
	assert.Equal(t, hash, Hash(raw), "stored hash must be reproducible from the raw token")
	assert.NotEqual(t, raw, hash)
	assert.NotEqual(t, Hash(raw), Hash(raw+"x"))
}
