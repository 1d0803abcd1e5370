package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewHasher(bcrypt.MinCost)

	for _, pw := range []string{"pw1", "correct horse battery staple", "пароль", strings.Repeat("x", 72)} {
		digest, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, digest)
		assert.True(t, h.Verify(pw, digest), "password %q must verify", pw)
		assert.False(t, h.Verify(pw+"!", digest))
	}
}

func TestHasher_LongPasswords(t *testing.T) {
	t.Parallel()
	h := NewHasher(bcrypt.MinCost)

	max := strings.Repeat("x", MaxPasswordBytes)
	digest, err := h.Hash(max)
	require.NoError(t, err)

	// bcrypt alone would accept these: it only reads the first 72 bytes.
	assert.False(t, h.Verify(max+"WRONG-SUFFIX", digest))
	assert.False(t, h.Verify(max+"x", digest))

	_, err = h.Hash(max + "x")
	require.ErrorIs(t, err, ErrPasswordTooLong)

	// 36 two-byte runes are 72 bytes; one more rune is over the limit.
	multi := strings.Repeat("я", 36)
	digest, err = h.Hash(multi)
	require.NoError(t, err)
	assert.True(t, h.Verify(multi, digest))
	_, err = h.Hash(multi + "я")
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasher_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_EmptyPassword(t *testing.T) {
	t.Parallel()
	_, err := NewHasher(bcrypt.MinCost).Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHasher_VerifyMalformedDigest(t *testing.T) {
	t.Parallel()
	h := NewHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("pw", ""))
	assert.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("pw", "$2a$10$short"))
}

func TestNewHasher_CostFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}
