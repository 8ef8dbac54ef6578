package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher(t *testing.T) {
	ctx := context.Background()
	h := testHasher

	a, err := h.Hash(ctx, "correct horse")
	require.NoError(t, err)
	b, err := h.Hash(ctx, "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "salts differ")
	assert.True(t, strings.HasPrefix(a, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify(ctx, "correct horse", a)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, "wrong horse", a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasherVerifyUsesEncodedParams(t *testing.T) {
	ctx := context.Background()
	enc, err := Hasher{Time: 2, Memory: 2048, Threads: 2, KeyLen: 24, SaltLen: 16}.Hash(ctx, "pw")
	require.NoError(t, err)

	ok, err := testHasher.Verify(ctx, "pw", enc)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasherVerifyMalformed(t *testing.T) {
	for _, enc := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=18$m=1024,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=19$garbage$AAAA$AAAA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$AAAA",
		"$argon2id$v=19$m=1024,t=0,p=1$AAAA$AAAA",
		"$argon2id$v=19$m=1024,t=1,p=0$AAAA$AAAA",
		"$argon2id$v=19$m=4194304,t=1,p=1$AAAA$AAAA",
	} {
		var err error
		assert.NotPanics(t, func() { _, err = testHasher.Verify(context.Background(), "pw", enc) }, enc)
		assert.ErrorIs(t, err, errMalformedHash, enc)
	}
}

func TestHasherRejectsZeroParams(t *testing.T) {
	_, err := Hasher{Time: 0, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}.Hash(context.Background(), "pw")
	assert.Error(t, err)
	_, err = Hasher{Time: 1, Memory: 1024, Threads: 0, KeyLen: 16, SaltLen: 8}.Hash(context.Background(), "pw")
	assert.Error(t, err)
}

func TestHasherWaitsForMemoryBudget(t *testing.T) {
	require.NoError(t, kdfSem.Acquire(context.Background(), kdfMemoryBudget))
	released := false
	release := func() {
		if !released {
			released = true
			kdfSem.Release(kdfMemoryBudget)
		}
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := testHasher.Hash(ctx, "pw")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	enc := "$argon2id$v=19$m=1024,t=1,p=1$AAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA"
	_, err = testHasher.Verify(ctx, "pw", enc)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	_, err = testHasher.Hash(context.Background(), "pw")
	require.NoError(t, err)
}
