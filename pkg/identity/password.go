package identity

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

var errMalformedHash = errors.New("malformed password hash")

const (
	// kdfMemoryBudget caps the KiB held by concurrent key derivations.
	kdfMemoryBudget = 256 * 1024
	// maxMemory is the largest m= accepted from an encoded hash (1 GiB).
	maxMemory = 1 << 20
)

// kdfSem bounds the memory of in-flight argon2 derivations process-wide, so
// a burst of logins queues instead of allocating 64 MiB per request.
var kdfSem = semaphore.NewWeighted(kdfMemoryBudget)

// Hasher derives argon2id password hashes encoded in the PHC string format:
// $argon2id$v=19$m=<KiB>,t=<passes>,p=<threads>$<salt>$<key>
type Hasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultHasher follows the argon2id recommendation of one pass over 64 MiB.
func DefaultHasher() Hasher {
	return Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

// Hash returns the encoded hash of password with a fresh random salt.
func (h Hasher) Hash(ctx context.Context, password string) (string, error) {
	if h.Time == 0 || h.Threads == 0 || h.KeyLen == 0 {
		return "", fmt.Errorf("argon2id parameters t=%d,p=%d,keylen=%d: must be positive", h.Time, h.Threads, h.KeyLen)
	}
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key, err := deriveKey(ctx, []byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches encoded. Parameters are read from
// the encoded string, so hashes made with other settings still verify.
func (h Hasher) Verify(ctx context.Context, password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errMalformedHash
	}
	var memory, passes uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &passes, &threads); err != nil {
		return false, errMalformedHash
	}
	if passes == 0 || threads == 0 || memory > maxMemory {
		return false, errMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, errMalformedHash
	}
	got, err := deriveKey(ctx, []byte(password), salt, passes, memory, threads, uint32(len(want)))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func deriveKey(ctx context.Context, password, salt []byte, passes, memory uint32, threads uint8, keyLen uint32) ([]byte, error) {
	weight := min(int64(memory), kdfMemoryBudget)
	if err := kdfSem.Acquire(ctx, weight); err != nil {
		return nil, fmt.Errorf("wait for key derivation: %w", err)
	}
	defer kdfSem.Release(weight)
	return argon2.IDKey(password, salt, passes, memory, threads, keyLen), nil
}
