package service

import (
	validation "github.com/jellydator/validation"

	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	customValidation "github.com/keyhaven/fieldcrypt/internal/validation"
)

// PhoneService encrypts and decrypts phone numbers. Values must match the
// E.164-style format both before encryption and after decryption; a
// decrypted value that no longer matches indicates corruption or a
// field-order bug and surfaces as ErrFormatMismatch.
//
// Salts are 16 bytes, hex-encoded; encrypted blobs are hex-encoded.
type PhoneService struct {
	core envelopeCore
}

// NewPhoneService creates a phone number envelope service.
func NewPhoneService(keyDeriver cryptoService.KeyDeriver, cipher cryptoService.FieldCipher) *PhoneService {
	return &PhoneService{
		core: envelopeCore{
			params:     envelopeDomain.PhoneNumberParams(),
			keyDeriver: keyDeriver,
			cipher:     cipher,
		},
	}
}

// Kind identifies the service's data class.
func (s *PhoneService) Kind() envelopeDomain.FieldKind {
	return s.core.params.Kind
}

// GenerateSalt produces a fresh random 16-byte salt as 32 hex chars.
func (s *PhoneService) GenerateSalt() (string, error) {
	return s.core.params.GenerateSalt()
}

func (s *PhoneService) validate(phoneNumber string) error {
	return validation.Validate(phoneNumber,
		validation.Required,
		customValidation.PhoneNumber,
	)
}

// Encrypt validates the phone number, generates a fresh salt, and encrypts.
func (s *PhoneService) Encrypt(phoneNumber, secret string) (*envelopeDomain.Envelope, error) {
	salt, err := s.GenerateSalt()
	if err != nil {
		return nil, err
	}

	return s.EncryptWithSalt(phoneNumber, secret, salt)
}

// EncryptWithSalt encrypts the phone number under a caller-supplied salt.
// Validation runs before any key derivation.
func (s *PhoneService) EncryptWithSalt(phoneNumber, secret, salt string) (*envelopeDomain.Envelope, error) {
	if err := envelopeDomain.WrapValidation(s.validate(phoneNumber)); err != nil {
		return nil, err
	}
	if err := checkSecret(secret); err != nil {
		return nil, err
	}

	encrypted, err := s.core.sealValue(phoneNumber, secret, salt)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.Envelope{EncryptedValue: encrypted, Salt: salt}, nil
}

// Decrypt recovers the phone number and re-validates its format.
func (s *PhoneService) Decrypt(encrypted, secret, salt string) (string, error) {
	if err := checkEncrypted(encrypted); err != nil {
		return "", err
	}
	if err := checkSecret(secret); err != nil {
		return "", err
	}

	phoneNumber, err := s.core.openValue(encrypted, secret, salt)
	if err != nil {
		return "", err
	}

	if err := s.validate(phoneNumber); err != nil {
		return "", envelopeDomain.WrapFormat(err)
	}

	return phoneNumber, nil
}

// Verify reports whether the stored value decrypts cleanly. Health checks
// and migration spot checks only; never an authorization decision.
func (s *PhoneService) Verify(encrypted, secret, salt string) bool {
	_, err := s.Decrypt(encrypted, secret, salt)
	return err == nil
}
