package domain

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// Salt sizes in raw bytes, before encoding. Fixed per data class: phone
// numbers and two-factor secrets were historically stored with 16-byte hex
// salts, notification content and vault items with 32-byte base64 salts.
// Changing either would make previously written envelopes underivable.
const (
	CompactSaltSize = 16
	WideSaltSize    = 32
)

// Params is the immutable parameter set of one envelope data class: the
// AEAD algorithm, the raw salt size, and the storage encoding shared by the
// salt and the encrypted blob. Services hold a Params value, never a
// pointer, so a constructed service can never observe parameter mutation.
//
// The hex-versus-base64 split between data classes is a storage
// compatibility artifact, not a security property.
type Params struct {
	Kind      FieldKind
	Algorithm cryptoDomain.Algorithm
	SaltSize  int
	Encoding  Encoding
}

// PhoneNumberParams returns the parameter set for encrypted phone numbers.
func PhoneNumberParams() Params {
	return Params{
		Kind:      FieldKindPhoneNumber,
		Algorithm: cryptoDomain.AESGCM,
		SaltSize:  CompactSaltSize,
		Encoding:  EncodingHex,
	}
}

// TwoFactorSecretParams returns the parameter set for encrypted TOTP secrets.
func TwoFactorSecretParams() Params {
	return Params{
		Kind:      FieldKindTwoFactorSecret,
		Algorithm: cryptoDomain.AESGCM,
		SaltSize:  CompactSaltSize,
		Encoding:  EncodingHex,
	}
}

// NotificationContentParams returns the parameter set for encrypted
// notification content.
func NotificationContentParams() Params {
	return Params{
		Kind:      FieldKindNotificationContent,
		Algorithm: cryptoDomain.AESGCM,
		SaltSize:  WideSaltSize,
		Encoding:  EncodingBase64,
	}
}

// VaultItemParams returns the parameter set for encrypted vault items.
func VaultItemParams() Params {
	return Params{
		Kind:      FieldKindVaultItem,
		Algorithm: cryptoDomain.AESGCM,
		SaltSize:  WideSaltSize,
		Encoding:  EncodingBase64,
	}
}

// ParamsFor returns the parameter set for a data class.
func ParamsFor(kind FieldKind) (Params, error) {
	switch kind {
	case FieldKindPhoneNumber:
		return PhoneNumberParams(), nil
	case FieldKindTwoFactorSecret:
		return TwoFactorSecretParams(), nil
	case FieldKindNotificationContent:
		return NotificationContentParams(), nil
	case FieldKindVaultItem:
		return VaultItemParams(), nil
	default:
		return Params{}, apperrors.Wrapf(ErrValidationFailed, "unknown field kind %q", kind)
	}
}

// GenerateSalt produces a fresh random salt in the class's storage encoding
// (16 bytes -> 32 hex chars, or 32 bytes -> base64).
func (p Params) GenerateSalt() (string, error) {
	salt := make([]byte, p.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", apperrors.Wrap(err, "failed to generate salt")
	}

	return p.Encode(salt), nil
}

// CheckSalt verifies a stored salt decodes under the class's encoding to
// exactly the class's salt size. A salt that fails this check can never
// derive the right key, so the failure is classified as key derivation.
func (p Params) CheckSalt(salt string) error {
	raw, err := p.Decode(salt)
	if err != nil {
		return apperrors.Wrap(cryptoDomain.ErrKeyDerivationFailed, "salt is not valid "+string(p.Encoding))
	}
	if len(raw) != p.SaltSize {
		return apperrors.Wrapf(
			cryptoDomain.ErrKeyDerivationFailed,
			"salt must decode to %d bytes, got %d",
			p.SaltSize,
			len(raw),
		)
	}

	return nil
}

// Encode renders raw bytes in the class's storage encoding.
func (p Params) Encode(b []byte) string {
	if p.Encoding == EncodingBase64 {
		return base64.StdEncoding.EncodeToString(b)
	}

	return hex.EncodeToString(b)
}

// Decode parses a string in the class's storage encoding.
func (p Params) Decode(s string) ([]byte, error) {
	if p.Encoding == EncodingBase64 {
		return base64.StdEncoding.DecodeString(s)
	}

	return hex.DecodeString(s)
}

// DecodeBlob parses a stored encrypted value into raw blob bytes. An
// undecodable blob is malformed ciphertext and is classified as a
// decryption failure.
func (p Params) DecodeBlob(encrypted string) ([]byte, error) {
	blob, err := p.Decode(encrypted)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrDecryptionFailed, "encrypted value is not valid "+string(p.Encoding))
	}

	return blob, nil
}
