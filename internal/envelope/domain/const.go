// Package domain defines the core types for per-field envelope encryption:
// the protected data classes, their immutable parameter sets, and the
// at-rest envelope shapes. Every field value is encrypted under a key
// derived from the user's live login password plus a per-envelope salt;
// only the salt and the encrypted blob are ever persisted.
package domain

import (
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// Encoding identifies the textual encoding a data class uses for salts and
// encrypted blobs at rest.
type Encoding string

const (
	// EncodingHex stores salts and blobs as hex strings.
	EncodingHex Encoding = "hex"

	// EncodingBase64 stores salts and blobs as standard base64 strings.
	EncodingBase64 Encoding = "base64"
)

// FieldKind identifies one protected data class.
type FieldKind string

const (
	FieldKindPhoneNumber         FieldKind = "phone-number"
	FieldKindTwoFactorSecret     FieldKind = "two-factor-secret"
	FieldKindNotificationContent FieldKind = "notification-content"
	FieldKindVaultItem           FieldKind = "vault-item"
)

// TwoFactorSecretMaxLength caps the accepted length of a TOTP secret at
// encryption time. The base32 shape itself is only re-checked after
// decryption; encryption accepts any non-empty value up to this length.
const TwoFactorSecretMaxLength = 128

// ParseFieldKind converts a string to a FieldKind.
// Returns an error wrapping ErrValidationFailed for unknown kinds.
func ParseFieldKind(kind string) (FieldKind, error) {
	switch kind {
	case "phone-number":
		return FieldKindPhoneNumber, nil
	case "two-factor-secret":
		return FieldKindTwoFactorSecret, nil
	case "notification-content":
		return FieldKindNotificationContent, nil
	case "vault-item":
		return FieldKindVaultItem, nil
	default:
		return "", apperrors.Wrapf(
			ErrValidationFailed,
			"invalid field kind %q: must be 'phone-number', 'two-factor-secret', 'notification-content', or 'vault-item'",
			kind,
		)
	}
}
