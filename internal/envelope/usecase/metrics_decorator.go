package usecase

import (
	"context"
	"time"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	"github.com/keyhaven/fieldcrypt/internal/metrics"
)

// migrationUseCaseWithMetrics decorates MigrationUseCase with metrics instrumentation.
type migrationUseCaseWithMetrics struct {
	next    MigrationUseCase
	metrics metrics.BusinessMetrics
}

// NewMigrationUseCaseWithMetrics wraps a MigrationUseCase with metrics recording.
func NewMigrationUseCaseWithMetrics(useCase MigrationUseCase, m metrics.BusinessMetrics) MigrationUseCase {
	return &migrationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// MigratePhoneNumber records metrics for phone number migrations.
func (u *migrationUseCaseWithMetrics) MigratePhoneNumber(
	ctx context.Context,
	phoneNumber, secret string,
) (*envelopeDomain.MigratedPhoneNumber, error) {
	start := time.Now()
	migrated, err := u.next.MigratePhoneNumber(ctx, phoneNumber, secret)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "envelope", "migrate_phone_number", status)
	u.metrics.RecordDuration(ctx, "envelope", "migrate_phone_number", time.Since(start), status)

	return migrated, err
}

// MigrateTwoFactorSecret records metrics for 2FA secret migrations.
func (u *migrationUseCaseWithMetrics) MigrateTwoFactorSecret(
	ctx context.Context,
	twoFactorSecret, secret string,
) (*envelopeDomain.MigratedTwoFactorSecret, error) {
	start := time.Now()
	migrated, err := u.next.MigrateTwoFactorSecret(ctx, twoFactorSecret, secret)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "envelope", "migrate_two_factor_secret", status)
	u.metrics.RecordDuration(ctx, "envelope", "migrate_two_factor_secret", time.Since(start), status)

	return migrated, err
}

// MigrateNotificationContent records metrics for notification content migrations.
func (u *migrationUseCaseWithMetrics) MigrateNotificationContent(
	ctx context.Context,
	content envelopeDomain.NotificationContent,
	secret string,
) (*envelopeDomain.MigratedNotificationContent, error) {
	start := time.Now()
	migrated, err := u.next.MigrateNotificationContent(ctx, content, secret)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "envelope", "migrate_notification_content", status)
	u.metrics.RecordDuration(ctx, "envelope", "migrate_notification_content", time.Since(start), status)

	return migrated, err
}

// MigrateVaultItem records metrics for vault item migrations.
func (u *migrationUseCaseWithMetrics) MigrateVaultItem(
	ctx context.Context,
	data, secret string,
) (*envelopeDomain.MigratedVaultItem, error) {
	start := time.Now()
	migrated, err := u.next.MigrateVaultItem(ctx, data, secret)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "envelope", "migrate_vault_item", status)
	u.metrics.RecordDuration(ctx, "envelope", "migrate_vault_item", time.Since(start), status)

	return migrated, err
}

// MigrateBatch records metrics for batch migrations.
func (u *migrationUseCaseWithMetrics) MigrateBatch(
	ctx context.Context,
	kind envelopeDomain.FieldKind,
	secret string,
	fields []envelopeDomain.LegacyField,
) ([]envelopeDomain.MigratedField, error) {
	start := time.Now()
	migrated, err := u.next.MigrateBatch(ctx, kind, secret, fields)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "envelope", "migrate_batch", status)
	u.metrics.RecordDuration(ctx, "envelope", "migrate_batch", time.Since(start), status)

	return migrated, err
}
