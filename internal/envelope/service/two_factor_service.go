package service

import (
	validation "github.com/jellydator/validation"

	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	customValidation "github.com/keyhaven/fieldcrypt/internal/validation"
)

// TwoFactorService encrypts and decrypts TOTP shared secrets.
//
// Encryption accepts any non-blank value up to the class's length cap; the
// base32 shape is deliberately NOT enforced at encryption time, matching
// how enrollment flows historically stored secrets. Decryption re-checks
// the base32 shape: a decrypted secret that is not base32 indicates
// corruption or a field-order bug and surfaces as ErrFormatMismatch.
//
// Salts are 16 bytes, hex-encoded; encrypted blobs are hex-encoded.
type TwoFactorService struct {
	core envelopeCore
}

// NewTwoFactorService creates a two-factor secret envelope service.
func NewTwoFactorService(keyDeriver cryptoService.KeyDeriver, cipher cryptoService.FieldCipher) *TwoFactorService {
	return &TwoFactorService{
		core: envelopeCore{
			params:     envelopeDomain.TwoFactorSecretParams(),
			keyDeriver: keyDeriver,
			cipher:     cipher,
		},
	}
}

// Kind identifies the service's data class.
func (s *TwoFactorService) Kind() envelopeDomain.FieldKind {
	return s.core.params.Kind
}

// GenerateSalt produces a fresh random 16-byte salt as 32 hex chars.
func (s *TwoFactorService) GenerateSalt() (string, error) {
	return s.core.params.GenerateSalt()
}

// Encrypt validates the secret's presence and length, generates a fresh
// salt, and encrypts.
func (s *TwoFactorService) Encrypt(totpSecret, secret string) (*envelopeDomain.Envelope, error) {
	salt, err := s.GenerateSalt()
	if err != nil {
		return nil, err
	}

	return s.EncryptWithSalt(totpSecret, secret, salt)
}

// EncryptWithSalt encrypts the TOTP secret under a caller-supplied salt.
// Validation runs before any key derivation.
func (s *TwoFactorService) EncryptWithSalt(totpSecret, secret, salt string) (*envelopeDomain.Envelope, error) {
	err := validation.Validate(totpSecret,
		validation.Required,
		customValidation.NotBlank,
		validation.Length(1, envelopeDomain.TwoFactorSecretMaxLength),
	)
	if err != nil {
		return nil, envelopeDomain.WrapValidation(err)
	}
	if err := checkSecret(secret); err != nil {
		return nil, err
	}

	encrypted, err := s.core.sealValue(totpSecret, secret, salt)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.Envelope{EncryptedValue: encrypted, Salt: salt}, nil
}

// Decrypt recovers the TOTP secret and re-checks its base32 shape.
func (s *TwoFactorService) Decrypt(encrypted, secret, salt string) (string, error) {
	if err := checkEncrypted(encrypted); err != nil {
		return "", err
	}
	if err := checkSecret(secret); err != nil {
		return "", err
	}

	totpSecret, err := s.core.openValue(encrypted, secret, salt)
	if err != nil {
		return "", err
	}

	err = validation.Validate(totpSecret,
		validation.Required,
		customValidation.Base32Secret,
	)
	if err != nil {
		return "", envelopeDomain.WrapFormat(err)
	}

	return totpSecret, nil
}

// Verify reports whether the stored value decrypts cleanly. Health checks
// and migration spot checks only; never an authorization decision.
func (s *TwoFactorService) Verify(encrypted, secret, salt string) bool {
	_, err := s.Decrypt(encrypted, secret, salt)
	return err == nil
}
