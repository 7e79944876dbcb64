package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	customValidation "github.com/keyhaven/fieldcrypt/internal/validation"
)

// Sample values for the self check round trips. These are fixtures, not
// real user data; the secret protecting them is random per run.
const (
	samplePhoneNumber     = "+15551234567"
	sampleTwoFactorSecret = "JBSWY3DPEHPK3PXP"
	sampleVaultItem       = `{"api_key":"self-check"}`
	sampleTitle           = "Self check"
	sampleMessage         = "envelope encryption self check"
)

// selfCheckUseCase verifies the encryption stack end to end at runtime.
type selfCheckUseCase struct {
	phoneService        FieldEncryptor
	twoFactorService    FieldEncryptor
	vaultService        FieldEncryptor
	notificationService ContentEncryptor
	logger              *slog.Logger
}

// NewSelfCheckUseCase creates a new self check use case.
func NewSelfCheckUseCase(
	phoneService FieldEncryptor,
	twoFactorService FieldEncryptor,
	vaultService FieldEncryptor,
	notificationService ContentEncryptor,
	logger *slog.Logger,
) SelfCheckUseCase {
	return &selfCheckUseCase{
		phoneService:        phoneService,
		twoFactorService:    twoFactorService,
		vaultService:        vaultService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// Run round-trips a sample value through every data class under a throwaway
// random secret and probes Verify with a wrong secret. The throwaway secret
// never appears in the report or in log records.
func (s *selfCheckUseCase) Run(ctx context.Context) *envelopeDomain.SelfCheckReport {
	start := time.Now()
	secret := uuid.NewString()
	wrongSecret := uuid.NewString()

	results := []envelopeDomain.SelfCheckResult{
		s.checkFieldService(ctx, s.phoneService, samplePhoneNumber, secret, wrongSecret),
		s.checkFieldService(ctx, s.twoFactorService, sampleTwoFactorSecret, secret, wrongSecret),
		s.checkFieldService(ctx, s.vaultService, sampleVaultItem, secret, wrongSecret),
		s.checkNotificationService(ctx, secret, wrongSecret),
	}

	report := &envelopeDomain.SelfCheckReport{
		Results:  results,
		Passed:   true,
		Duration: time.Since(start),
	}
	for _, result := range results {
		if !result.Passed {
			report.Passed = false

			if s.logger != nil {
				s.logger.Warn("self check failed",
					slog.String("kind", string(result.Kind)),
					slog.String("detail", result.Detail),
				)
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("self check finished",
			slog.Bool("passed", report.Passed),
			slog.Duration("duration", report.Duration),
		)
	}

	return report
}

// checkFieldService runs the single-value probes: encrypt, salt shape,
// decrypt, round trip equality, verify, and verify under a wrong secret.
func (s *selfCheckUseCase) checkFieldService(
	ctx context.Context,
	service FieldEncryptor,
	sample, secret, wrongSecret string,
) envelopeDomain.SelfCheckResult {
	start := time.Now()
	result := envelopeDomain.SelfCheckResult{Kind: service.Kind(), Passed: true}

	fail := func(detail string) envelopeDomain.SelfCheckResult {
		result.Passed = false
		result.Detail = detail
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail("canceled: " + err.Error())
	}

	envelope, err := service.Encrypt(sample, secret)
	if err != nil {
		return fail("encrypt failed: " + err.Error())
	}

	if err := checkSaltShape(service.Kind(), envelope.Salt); err != nil {
		return fail("salt shape: " + err.Error())
	}

	decrypted, err := service.Decrypt(envelope.EncryptedValue, secret, envelope.Salt)
	if err != nil {
		return fail("decrypt failed: " + err.Error())
	}
	if decrypted != sample {
		return fail("decrypted value does not match the sample")
	}

	if !service.Verify(envelope.EncryptedValue, secret, envelope.Salt) {
		return fail("verify rejected a valid envelope")
	}
	if service.Verify(envelope.EncryptedValue, wrongSecret, envelope.Salt) {
		return fail("verify accepted a wrong secret")
	}

	result.Duration = time.Since(start)
	return result
}

// checkNotificationService runs the multi-field probes for notification
// content: all fields must recover under one salt and one derived key.
func (s *selfCheckUseCase) checkNotificationService(
	ctx context.Context,
	secret, wrongSecret string,
) envelopeDomain.SelfCheckResult {
	start := time.Now()
	result := envelopeDomain.SelfCheckResult{Kind: envelopeDomain.FieldKindNotificationContent, Passed: true}

	fail := func(detail string) envelopeDomain.SelfCheckResult {
		result.Passed = false
		result.Detail = detail
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail("canceled: " + err.Error())
	}

	content := envelopeDomain.NotificationContent{
		Title:   sampleTitle,
		Message: sampleMessage,
		Data:    map[string]any{"check": true},
	}

	envelope, err := s.notificationService.EncryptContent(content, secret)
	if err != nil {
		return fail("encrypt failed: " + err.Error())
	}

	if err := checkSaltShape(envelopeDomain.FieldKindNotificationContent, envelope.Salt); err != nil {
		return fail("salt shape: " + err.Error())
	}

	decrypted, err := s.notificationService.DecryptContent(*envelope, secret)
	if err != nil {
		return fail("decrypt failed: " + err.Error())
	}
	if decrypted.Title != content.Title || decrypted.Message != content.Message {
		return fail("decrypted content does not match the sample")
	}
	if checked, ok := decrypted.Data["check"].(bool); !ok || !checked {
		return fail("decrypted data does not match the sample")
	}

	if !s.notificationService.VerifyContent(*envelope, secret) {
		return fail("verify rejected a valid envelope")
	}
	if s.notificationService.VerifyContent(*envelope, wrongSecret) {
		return fail("verify accepted a wrong secret")
	}

	result.Duration = time.Since(start)
	return result
}

// checkSaltShape asserts a generated salt is storage compatible: non-empty
// and in the data class's configured encoding.
func checkSaltShape(kind envelopeDomain.FieldKind, salt string) error {
	params, err := envelopeDomain.ParamsFor(kind)
	if err != nil {
		return err
	}

	encodingRule := customValidation.Hex
	if params.Encoding == envelopeDomain.EncodingBase64 {
		encodingRule = customValidation.Base64
	}

	if err := validation.Validate(salt, validation.Required, encodingRule); err != nil {
		return err
	}

	return params.CheckSalt(salt)
}
