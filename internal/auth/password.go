package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. The encoded hash carries them, so they can change
// without invalidating stored credentials.
const (
	passwordSaltLength  = 16
	passwordKeyLength   = 32
	passwordIterations  = 3
	passwordMemoryKiB   = 64 * 1024
	passwordParallelism = 2
)

// ErrPasswordMismatch indicates a plaintext password did not match its hash.
var ErrPasswordMismatch = errors.New("auth: password does not match")

// PasswordHasher hashes and verifies credentials using argon2id in PHC
// string format.
type PasswordHasher struct{}

// NewPasswordHasher constructs the argon2id password hasher.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash generates a PHC-format argon2id hash string including salt and
// parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, passwordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password),
		salt,
		passwordIterations,
		passwordMemoryKiB,
		passwordParallelism,
		passwordKeyLength,
	)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		passwordMemoryKiB,
		passwordIterations,
		passwordParallelism,
		encodedSalt,
		encodedHash,
	), nil
}

// Verify compares a plaintext password against a PHC-format argon2id hash in
// constant time.
func (h *PasswordHasher) Verify(password, encodedHash string) error {
	// Expected structure: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return errors.New("auth: invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return errors.New("auth: invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return errors.New("auth: invalid hash format: wrong version")
	}

	var memoryKiB, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memoryKiB, &iterations, &parallelism); err != nil {
		return fmt.Errorf("auth: invalid hash format: failed to parse parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("auth: invalid hash format: failed to decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("auth: invalid hash format: failed to decode hash: %w", err)
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		iterations,
		memoryKiB,
		parallelism,
		uint32(len(expected)),
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
