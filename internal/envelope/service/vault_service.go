package service

import (
	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// VaultService encrypts and decrypts generic vault item values: opaque
// non-empty strings with no domain format beyond presence. It is the
// envelope service for data classes that carry no structure of their own.
//
// Salts are 32 bytes, base64-encoded; encrypted blobs are base64-encoded.
type VaultService struct {
	core envelopeCore
}

// NewVaultService creates a vault item envelope service. An empty alg
// selects AESGCM, the algorithm every stored vault item was written with;
// passing another registered algorithm is supported for new deployments
// that have no stored data to stay compatible with.
func NewVaultService(
	keyDeriver cryptoService.KeyDeriver,
	cipher cryptoService.FieldCipher,
	alg cryptoDomain.Algorithm,
) *VaultService {
	params := envelopeDomain.VaultItemParams()
	if alg != "" {
		params.Algorithm = alg
	}

	return &VaultService{
		core: envelopeCore{
			params:     params,
			keyDeriver: keyDeriver,
			cipher:     cipher,
		},
	}
}

// Kind identifies the service's data class.
func (s *VaultService) Kind() envelopeDomain.FieldKind {
	return s.core.params.Kind
}

// GenerateSalt produces a fresh random 32-byte salt, base64-encoded.
func (s *VaultService) GenerateSalt() (string, error) {
	return s.core.params.GenerateSalt()
}

// Encrypt validates that the value is non-empty, generates a fresh salt,
// and encrypts.
func (s *VaultService) Encrypt(value, secret string) (*envelopeDomain.Envelope, error) {
	salt, err := s.GenerateSalt()
	if err != nil {
		return nil, err
	}

	return s.EncryptWithSalt(value, secret, salt)
}

// EncryptWithSalt encrypts the value under a caller-supplied salt.
// Validation runs before any key derivation.
func (s *VaultService) EncryptWithSalt(value, secret, salt string) (*envelopeDomain.Envelope, error) {
	if value == "" {
		return nil, apperrors.Wrap(envelopeDomain.ErrValidationFailed, "value must not be empty")
	}
	if err := checkSecret(secret); err != nil {
		return nil, err
	}

	encrypted, err := s.core.sealValue(value, secret, salt)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.Envelope{EncryptedValue: encrypted, Salt: salt}, nil
}

// Decrypt recovers the value and re-checks that it is non-empty.
func (s *VaultService) Decrypt(encrypted, secret, salt string) (string, error) {
	if err := checkEncrypted(encrypted); err != nil {
		return "", err
	}
	if err := checkSecret(secret); err != nil {
		return "", err
	}

	value, err := s.core.openValue(encrypted, secret, salt)
	if err != nil {
		return "", err
	}

	if value == "" {
		return "", apperrors.Wrap(envelopeDomain.ErrFormatMismatch, "decrypted value is empty")
	}

	return value, nil
}

// Verify reports whether the stored value decrypts cleanly. Health checks
// and migration spot checks only; never an authorization decision.
func (s *VaultService) Verify(encrypted, secret, salt string) bool {
	_, err := s.Decrypt(encrypted, secret, salt)
	return err == nil
}
