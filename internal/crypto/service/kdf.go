package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// PBKDF2KeyDeriver implements the KeyDeriver interface using PBKDF2-HMAC-SHA256.
//
// Every stored field was encrypted under a key derived with exactly these
// parameters (100,000 iterations, SHA-256, 32-byte output), so they are fixed
// by cryptoDomain constants rather than configurable. Raising the iteration
// count would be a data migration, not a configuration change.
//
// The salt argument is the raw bytes the caller feeds in; envelope services
// pass the encoded salt string's bytes, preserving compatibility with data
// written by earlier versions of this system.
//
// Derivation is deliberately expensive (tens of milliseconds per call).
// Callers that derive keys in bulk should bound their concurrency.
type PBKDF2KeyDeriver struct {
	iterations int
	keySize    int
}

// NewPBKDF2KeyDeriver creates a key deriver with the fixed production parameters.
func NewPBKDF2KeyDeriver() *PBKDF2KeyDeriver {
	return &PBKDF2KeyDeriver{
		iterations: cryptoDomain.KDFIterations,
		keySize:    cryptoDomain.KeySize,
	}
}

// DeriveKey derives a 32-byte key from the user secret and salt.
//
// The same (secret, salt) pair always yields the same key; different salts
// yield unrelated keys. The returned buffer is owned by the caller, who must
// Zero it once the operation that needed it completes.
//
// Returns ErrKeyDerivationFailed for an empty secret or salt. Neither value
// is ever logged or included in errors.
func (d *PBKDF2KeyDeriver) DeriveKey(secret string, salt []byte) ([]byte, error) {
	if secret == "" {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyDerivationFailed, "secret must not be empty")
	}
	if len(salt) == 0 {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyDerivationFailed, "salt must not be empty")
	}

	return pbkdf2.Key([]byte(secret), salt, d.iterations, d.keySize, sha256.New), nil
}
