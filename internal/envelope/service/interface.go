// Package service implements the envelope encryption services, one per
// protected data class: phone numbers, two-factor secrets, notification
// content, and vault items. Each service composes the PBKDF2 key deriver
// and the authenticated field cipher with its class's validation rules,
// salt policy, and storage encoding.
//
// All services are stateless and safe for concurrent use. The field key is
// derived transiently from the caller-supplied secret on every operation,
// zeroed after use, and never persisted or logged.
package service

import (
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
)

// FieldService is the contract shared by the single-value envelope services
// (phone number, two-factor secret, vault item).
type FieldService interface {
	// Kind identifies the service's data class.
	Kind() envelopeDomain.FieldKind

	// GenerateSalt produces a fresh random salt in the class's storage
	// encoding.
	GenerateSalt() (string, error)

	// Encrypt validates value, generates a fresh salt, and encrypts value
	// under a key derived from secret and that salt.
	Encrypt(value, secret string) (*envelopeDomain.Envelope, error)

	// EncryptWithSalt is Encrypt with a caller-supplied salt, for records
	// whose sibling fields share one salt.
	EncryptWithSalt(value, secret, salt string) (*envelopeDomain.Envelope, error)

	// Decrypt derives the key from secret and salt, decrypts the stored
	// value, and re-validates the plaintext against the class's format.
	Decrypt(encrypted, secret, salt string) (string, error)

	// Verify reports whether encrypted decrypts and re-validates cleanly
	// under secret and salt. It swallows every error class by design and
	// must only be used for health checks and migration spot checks, never
	// for authorization decisions.
	Verify(encrypted, secret, salt string) bool
}
