package service

import (
	"encoding/json"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// NotificationService encrypts and decrypts notification content: a title,
// a message, and an optional structured data payload. All fields of one
// notification share a single salt and the key is derived once per
// operation, but each field is sealed independently with its own nonce, so
// the expensive derivation runs once per record rather than once per field.
//
// The data payload is JSON-encoded before encryption and must decode back
// into a JSON object after decryption; a payload that fails to decode after
// a successful tag check surfaces as ErrFormatMismatch, not as a decryption
// failure.
//
// Salts are 32 bytes, base64-encoded; encrypted blobs are base64-encoded.
type NotificationService struct {
	core envelopeCore
}

// NewNotificationService creates a notification content envelope service.
func NewNotificationService(keyDeriver cryptoService.KeyDeriver, cipher cryptoService.FieldCipher) *NotificationService {
	return &NotificationService{
		core: envelopeCore{
			params:     envelopeDomain.NotificationContentParams(),
			keyDeriver: keyDeriver,
			cipher:     cipher,
		},
	}
}

// Kind identifies the service's data class.
func (s *NotificationService) Kind() envelopeDomain.FieldKind {
	return s.core.params.Kind
}

// GenerateSalt produces a fresh random 32-byte salt, base64-encoded.
func (s *NotificationService) GenerateSalt() (string, error) {
	return s.core.params.GenerateSalt()
}

// EncryptContent validates the content, generates a fresh salt, and
// encrypts every present field under one derived key.
func (s *NotificationService) EncryptContent(
	content envelopeDomain.NotificationContent,
	secret string,
) (*envelopeDomain.NotificationEnvelope, error) {
	salt, err := s.GenerateSalt()
	if err != nil {
		return nil, err
	}

	return s.EncryptContentWithSalt(content, secret, salt)
}

// EncryptContentWithSalt encrypts the content under a caller-supplied salt.
// Validation and data encoding run before any key derivation.
func (s *NotificationService) EncryptContentWithSalt(
	content envelopeDomain.NotificationContent,
	secret, salt string,
) (*envelopeDomain.NotificationEnvelope, error) {
	if err := envelopeDomain.WrapValidation(content.Validate()); err != nil {
		return nil, err
	}
	if err := checkSecret(secret); err != nil {
		return nil, err
	}

	var dataJSON []byte
	if content.Data != nil {
		var err error
		dataJSON, err = json.Marshal(content.Data)
		if err != nil {
			return nil, apperrors.Wrap(envelopeDomain.ErrValidationFailed, "data is not JSON-encodable")
		}
	}

	key, err := s.core.deriveKey(secret, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	encryptedTitle, err := s.core.seal(key, content.Title)
	if err != nil {
		return nil, err
	}

	encryptedMessage, err := s.core.seal(key, content.Message)
	if err != nil {
		return nil, err
	}

	envelope := &envelopeDomain.NotificationEnvelope{
		EncryptedTitle:   encryptedTitle,
		EncryptedMessage: encryptedMessage,
		Salt:             salt,
	}

	if dataJSON != nil {
		encryptedData, err := s.core.seal(key, string(dataJSON))
		if err != nil {
			return nil, err
		}
		envelope.EncryptedData = &encryptedData
	}

	return envelope, nil
}

// DecryptContent recovers all fields of one notification under a single
// derived key and re-validates the result.
func (s *NotificationService) DecryptContent(
	envelope envelopeDomain.NotificationEnvelope,
	secret string,
) (*envelopeDomain.NotificationContent, error) {
	if err := checkEncrypted(envelope.EncryptedTitle); err != nil {
		return nil, err
	}
	if err := checkEncrypted(envelope.EncryptedMessage); err != nil {
		return nil, err
	}
	if envelope.EncryptedData != nil && *envelope.EncryptedData == "" {
		return nil, apperrors.Wrap(envelopeDomain.ErrValidationFailed, "encrypted data must not be empty when present")
	}
	if err := checkSecret(secret); err != nil {
		return nil, err
	}

	key, err := s.core.deriveKey(secret, envelope.Salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	title, err := s.core.open(key, envelope.EncryptedTitle)
	if err != nil {
		return nil, err
	}

	message, err := s.core.open(key, envelope.EncryptedMessage)
	if err != nil {
		return nil, err
	}

	content := &envelopeDomain.NotificationContent{Title: title, Message: message}

	if envelope.EncryptedData != nil {
		dataJSON, err := s.core.open(key, *envelope.EncryptedData)
		if err != nil {
			return nil, err
		}

		// json.Unmarshal accepts the literal null and leaves the map nil.
		var data map[string]any
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil || data == nil {
			return nil, apperrors.Wrap(envelopeDomain.ErrFormatMismatch, "decrypted data is not a JSON object")
		}
		content.Data = data
	}

	if err := envelopeDomain.WrapFormat(content.Validate()); err != nil {
		return nil, err
	}

	return content, nil
}

// VerifyContent reports whether the envelope decrypts and re-validates
// cleanly. Health checks and migration spot checks only; never an
// authorization decision.
func (s *NotificationService) VerifyContent(envelope envelopeDomain.NotificationEnvelope, secret string) bool {
	_, err := s.DecryptContent(envelope, secret)
	return err == nil
}
