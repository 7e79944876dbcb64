package service

import (
	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// envelopeCore is the derive-encrypt-encode pipeline shared by every
// envelope service. Services differ only in their parameter set and their
// validation rules; the pipeline itself is identical.
type envelopeCore struct {
	params     envelopeDomain.Params
	keyDeriver cryptoService.KeyDeriver
	cipher     cryptoService.FieldCipher
}

// deriveKey checks the stored salt's shape and derives the field key from
// the encoded salt string's bytes. The salt is never decoded before
// derivation; existing envelopes were keyed on the encoded text. Callers
// own the returned key and must Zero it.
func (c envelopeCore) deriveKey(secret, salt string) ([]byte, error) {
	if err := c.params.CheckSalt(salt); err != nil {
		return nil, err
	}

	return c.keyDeriver.DeriveKey(secret, []byte(salt))
}

// seal encrypts one plaintext under an already-derived key and encodes the
// blob for storage.
func (c envelopeCore) seal(key []byte, value string) (string, error) {
	blob, err := c.cipher.Encrypt(key, c.params.Algorithm, []byte(value))
	if err != nil {
		return "", err
	}

	return c.params.Encode(blob), nil
}

// open decodes a stored blob and decrypts it under an already-derived key.
func (c envelopeCore) open(key []byte, encrypted string) (string, error) {
	blob, err := c.params.DecodeBlob(encrypted)
	if err != nil {
		return "", err
	}

	plaintext, err := c.cipher.Decrypt(key, c.params.Algorithm, blob)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// sealValue runs the full single-field encryption pipeline: derive, seal,
// zero the key on every exit path.
func (c envelopeCore) sealValue(value, secret, salt string) (string, error) {
	key, err := c.deriveKey(secret, salt)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	return c.seal(key, value)
}

// openValue runs the full single-field decryption pipeline.
func (c envelopeCore) openValue(encrypted, secret, salt string) (string, error) {
	key, err := c.deriveKey(secret, salt)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	return c.open(key, encrypted)
}

// checkSecret rejects an empty secret before any derivation work. The
// secret's value is never logged or echoed into errors.
func checkSecret(secret string) error {
	if secret == "" {
		return apperrors.Wrap(envelopeDomain.ErrValidationFailed, "secret must not be empty")
	}

	return nil
}

// checkEncrypted rejects an empty stored value before any derivation work.
func checkEncrypted(encrypted string) error {
	if encrypted == "" {
		return apperrors.Wrap(envelopeDomain.ErrValidationFailed, "encrypted value must not be empty")
	}

	return nil
}
