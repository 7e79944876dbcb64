package usecase

import (
	"context"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
)

// FieldEncryptor defines the single-value encryption surface the use cases need.
type FieldEncryptor interface {
	Kind() envelopeDomain.FieldKind
	Encrypt(value, secret string) (*envelopeDomain.Envelope, error)
	Decrypt(encrypted, secret, salt string) (string, error)
	Verify(encrypted, secret, salt string) bool
}

// ContentEncryptor defines the notification content surface the use cases need.
type ContentEncryptor interface {
	EncryptContent(
		content envelopeDomain.NotificationContent,
		secret string,
	) (*envelopeDomain.NotificationEnvelope, error)
	DecryptContent(
		envelope envelopeDomain.NotificationEnvelope,
		secret string,
	) (*envelopeDomain.NotificationContent, error)
	VerifyContent(envelope envelopeDomain.NotificationEnvelope, secret string) bool
}

// MigrationUseCase defines the interface for re-encrypting plaintext fields
// into envelopes.
type MigrationUseCase interface {
	MigratePhoneNumber(ctx context.Context, phoneNumber, secret string) (*envelopeDomain.MigratedPhoneNumber, error)
	MigrateTwoFactorSecret(
		ctx context.Context,
		twoFactorSecret, secret string,
	) (*envelopeDomain.MigratedTwoFactorSecret, error)
	MigrateNotificationContent(
		ctx context.Context,
		content envelopeDomain.NotificationContent,
		secret string,
	) (*envelopeDomain.MigratedNotificationContent, error)
	MigrateVaultItem(ctx context.Context, data, secret string) (*envelopeDomain.MigratedVaultItem, error)

	// MigrateBatch encrypts every field concurrently and returns results in
	// input order. A fresh salt is generated per field, so re-running a batch
	// never reproduces earlier ciphertexts.
	//
	// Security Note: the user secret is shared across all rows of the batch
	// but is never stored on the use case and never appears in errors or log
	// records.
	MigrateBatch(
		ctx context.Context,
		kind envelopeDomain.FieldKind,
		secret string,
		fields []envelopeDomain.LegacyField,
	) ([]envelopeDomain.MigratedField, error)
}

// SelfCheckUseCase defines the interface for runtime verification of the
// encryption stack.
type SelfCheckUseCase interface {
	Run(ctx context.Context) *envelopeDomain.SelfCheckReport
}
