// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/keyhaven/fieldcrypt/internal/config"
	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeService "github.com/keyhaven/fieldcrypt/internal/envelope/service"
	envelopeUsecase "github.com/keyhaven/fieldcrypt/internal/envelope/usecase"
	"github.com/keyhaven/fieldcrypt/internal/http"
	"github.com/keyhaven/fieldcrypt/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto services
	aeadManager cryptoService.AEADManager
	keyDeriver  cryptoService.KeyDeriver
	fieldCipher cryptoService.FieldCipher

	// Envelope services
	phoneService        envelopeService.FieldService
	twoFactorService    envelopeService.FieldService
	vaultService        envelopeService.FieldService
	notificationService *envelopeService.NotificationService

	// Use cases
	migrationUseCase envelopeUsecase.MigrationUseCase
	selfCheckUseCase envelopeUsecase.SelfCheckUseCase

	// Servers
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	aeadManagerInit         sync.Once
	keyDeriverInit          sync.Once
	fieldCipherInit         sync.Once
	phoneServiceInit        sync.Once
	twoFactorServiceInit    sync.Once
	vaultServiceInit        sync.Once
	notificationServiceInit sync.Once
	migrationUseCaseInit    sync.Once
	selfCheckUseCaseInit    sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider instance.
// Returns nil when metrics are disabled in the configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}

		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		businessMetrics, err := metrics.NewBusinessMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// AEADManager returns the AEAD cipher manager.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the PBKDF2 key deriver.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewPBKDF2KeyDeriver()
	})
	return c.keyDeriver
}

// FieldCipher returns the authenticated field cipher.
func (c *Container) FieldCipher() cryptoService.FieldCipher {
	c.fieldCipherInit.Do(func() {
		c.fieldCipher = cryptoService.NewFieldCipher(c.AEADManager())
	})
	return c.fieldCipher
}

// PhoneService returns the phone number envelope service.
func (c *Container) PhoneService() envelopeService.FieldService {
	c.phoneServiceInit.Do(func() {
		c.phoneService = envelopeService.NewPhoneService(c.KeyDeriver(), c.FieldCipher())
	})
	return c.phoneService
}

// TwoFactorService returns the two-factor secret envelope service.
func (c *Container) TwoFactorService() envelopeService.FieldService {
	c.twoFactorServiceInit.Do(func() {
		c.twoFactorService = envelopeService.NewTwoFactorService(c.KeyDeriver(), c.FieldCipher())
	})
	return c.twoFactorService
}

// VaultService returns the vault item envelope service. Stored vault data is
// AES-GCM; the algorithm is pinned here, not configurable.
func (c *Container) VaultService() envelopeService.FieldService {
	c.vaultServiceInit.Do(func() {
		c.vaultService = envelopeService.NewVaultService(c.KeyDeriver(), c.FieldCipher(), cryptoDomain.AESGCM)
	})
	return c.vaultService
}

// NotificationService returns the notification content envelope service.
func (c *Container) NotificationService() *envelopeService.NotificationService {
	c.notificationServiceInit.Do(func() {
		c.notificationService = envelopeService.NewNotificationService(c.KeyDeriver(), c.FieldCipher())
	})
	return c.notificationService
}

// MigrationUseCase returns the migration use case, decorated with metrics
// when metrics are enabled.
func (c *Container) MigrationUseCase() (envelopeUsecase.MigrationUseCase, error) {
	c.migrationUseCaseInit.Do(func() {
		useCaseConfig := envelopeUsecase.Config{
			Workers:   c.config.MigrationWorkers,
			KDFPerSec: c.config.MigrationKDFPerSec,
			KDFBurst:  c.config.MigrationKDFBurst,
		}

		baseUseCase := envelopeUsecase.NewMigrationUseCase(
			useCaseConfig,
			c.PhoneService(),
			c.TwoFactorService(),
			c.VaultService(),
			c.NotificationService(),
			c.Logger(),
		)

		if !c.config.MetricsEnabled {
			c.migrationUseCase = baseUseCase
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["migrationUseCase"] = fmt.Errorf(
				"failed to get business metrics for migration use case: %w", err)
			return
		}
		c.migrationUseCase = envelopeUsecase.NewMigrationUseCaseWithMetrics(baseUseCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["migrationUseCase"]; exists {
		return nil, storedErr
	}
	return c.migrationUseCase, nil
}

// SelfCheckUseCase returns the self check use case.
func (c *Container) SelfCheckUseCase() envelopeUsecase.SelfCheckUseCase {
	c.selfCheckUseCaseInit.Do(func() {
		c.selfCheckUseCase = envelopeUsecase.NewSelfCheckUseCase(
			c.PhoneService(),
			c.TwoFactorService(),
			c.VaultService(),
			c.NotificationService(),
			c.Logger(),
		)
	})
	return c.selfCheckUseCase
}

// MetricsServer returns the metrics HTTP server instance.
// Returns nil when metrics are disabled in the configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf(
				"failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}

		c.metricsServer = http.NewMetricsServer(
			c.config.MetricsHost,
			c.config.MetricsPort,
			c.config.MetricsNamespace,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Flush pending metrics if the provider was initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
