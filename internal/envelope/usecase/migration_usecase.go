// Package usecase implements the envelope encryption business logic:
// plaintext-to-envelope migration and the runtime self check.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// Config holds migration use case configuration
type Config struct {
	// Workers caps the number of concurrent encryption goroutines in
	// MigrateBatch. Each worker runs one full key derivation per field.
	Workers int

	// KDFPerSec throttles batch key derivations per second across all
	// workers. Zero disables throttling.
	KDFPerSec float64

	// KDFBurst is the token bucket burst used when KDFPerSec is set.
	KDFBurst int
}

// migrationUseCase re-encrypts legacy plaintext fields into envelopes.
type migrationUseCase struct {
	config              Config
	phoneService        FieldEncryptor
	twoFactorService    FieldEncryptor
	vaultService        FieldEncryptor
	notificationService ContentEncryptor
	kdfLimiter          *rate.Limiter
	logger              *slog.Logger
}

// NewMigrationUseCase creates a new migration use case. A zero or negative
// Workers value falls back to serial processing.
func NewMigrationUseCase(
	config Config,
	phoneService FieldEncryptor,
	twoFactorService FieldEncryptor,
	vaultService FieldEncryptor,
	notificationService ContentEncryptor,
	logger *slog.Logger,
) MigrationUseCase {
	if config.Workers < 1 {
		config.Workers = 1
	}

	var kdfLimiter *rate.Limiter
	if config.KDFPerSec > 0 {
		burst := config.KDFBurst
		if burst < 1 {
			burst = 1
		}
		kdfLimiter = rate.NewLimiter(rate.Limit(config.KDFPerSec), burst)
	}

	return &migrationUseCase{
		config:              config,
		phoneService:        phoneService,
		twoFactorService:    twoFactorService,
		vaultService:        vaultService,
		notificationService: notificationService,
		kdfLimiter:          kdfLimiter,
		logger:              logger,
	}
}

// MigratePhoneNumber encrypts one plaintext phone number under a fresh salt.
// The IV column stays nil; the nonce lives inside the encrypted blob.
func (m *migrationUseCase) MigratePhoneNumber(
	ctx context.Context,
	phoneNumber, secret string,
) (*envelopeDomain.MigratedPhoneNumber, error) {
	envelope, err := m.phoneService.Encrypt(phoneNumber, secret)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.MigratedPhoneNumber{
		EncryptedPhoneNumber: envelope.EncryptedValue,
		PhoneNumberSalt:      envelope.Salt,
	}, nil
}

// MigrateTwoFactorSecret encrypts one plaintext 2FA secret under a fresh salt.
func (m *migrationUseCase) MigrateTwoFactorSecret(
	ctx context.Context,
	twoFactorSecret, secret string,
) (*envelopeDomain.MigratedTwoFactorSecret, error) {
	envelope, err := m.twoFactorService.Encrypt(twoFactorSecret, secret)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.MigratedTwoFactorSecret{
		EncryptedSecret: envelope.EncryptedValue,
		SecretSalt:      envelope.Salt,
	}, nil
}

// MigrateNotificationContent encrypts one notification's fields under a
// single fresh salt.
func (m *migrationUseCase) MigrateNotificationContent(
	ctx context.Context,
	content envelopeDomain.NotificationContent,
	secret string,
) (*envelopeDomain.MigratedNotificationContent, error) {
	envelope, err := m.notificationService.EncryptContent(content, secret)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.MigratedNotificationContent{
		EncryptedTitle:   envelope.EncryptedTitle,
		EncryptedMessage: envelope.EncryptedMessage,
		EncryptedData:    envelope.EncryptedData,
		ContentSalt:      envelope.Salt,
	}, nil
}

// MigrateVaultItem encrypts one plaintext vault item under a fresh salt.
func (m *migrationUseCase) MigrateVaultItem(
	ctx context.Context,
	data, secret string,
) (*envelopeDomain.MigratedVaultItem, error) {
	envelope, err := m.vaultService.Encrypt(data, secret)
	if err != nil {
		return nil, err
	}

	return &envelopeDomain.MigratedVaultItem{
		EncryptedData: envelope.EncryptedValue,
		DataSalt:      envelope.Salt,
	}, nil
}

// MigrateBatch encrypts every field concurrently and returns results in
// input order. The first failing field aborts the batch; its error carries
// the field ID, never its value.
func (m *migrationUseCase) MigrateBatch(
	ctx context.Context,
	kind envelopeDomain.FieldKind,
	secret string,
	fields []envelopeDomain.LegacyField,
) ([]envelopeDomain.MigratedField, error) {
	service, err := m.serviceFor(kind)
	if err != nil {
		return nil, err
	}

	// Fail before spawning workers; every row would hit the same error.
	if secret == "" {
		return nil, apperrors.Wrap(envelopeDomain.ErrValidationFailed, "secret must not be empty")
	}

	start := time.Now()
	if m.logger != nil {
		m.logger.Info("starting batch migration",
			slog.String("kind", string(kind)),
			slog.Int("fields", len(fields)),
			slog.Int("workers", m.config.Workers),
		)
	}

	results := make([]envelopeDomain.MigratedField, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.config.Workers)

	for i, field := range fields {
		i, field := i, field // per-iteration copies for the closure (pre-go1.22 loop semantics)
		g.Go(func() error {
			// The group keeps starting queued functions after a failure;
			// skip the key derivation once the batch is already dead.
			if err := gctx.Err(); err != nil {
				return err
			}

			if m.kdfLimiter != nil {
				if err := m.kdfLimiter.Wait(gctx); err != nil {
					return err
				}
			}

			envelope, err := service.Encrypt(field.Value, secret)
			if err != nil {
				return apperrors.Wrapf(err, "field %s", field.ID)
			}

			results[i] = envelopeDomain.MigratedField{
				ID:        field.ID,
				Encrypted: envelope.EncryptedValue,
				Salt:      envelope.Salt,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if m.logger != nil {
		m.logger.Info("batch migration finished",
			slog.String("kind", string(kind)),
			slog.Int("fields", len(fields)),
			slog.Duration("duration", time.Since(start)),
		)
	}

	return results, nil
}

// serviceFor maps a batch-migratable kind to its service. Notification
// content records carry multiple encrypted fields per row and do not fit
// the single-value batch format.
func (m *migrationUseCase) serviceFor(kind envelopeDomain.FieldKind) (FieldEncryptor, error) {
	switch kind {
	case envelopeDomain.FieldKindPhoneNumber:
		return m.phoneService, nil
	case envelopeDomain.FieldKindTwoFactorSecret:
		return m.twoFactorService, nil
	case envelopeDomain.FieldKindVaultItem:
		return m.vaultService, nil
	default:
		return nil, apperrors.Wrapf(envelopeDomain.ErrValidationFailed, "field kind %q cannot be batch migrated", kind)
	}
}
