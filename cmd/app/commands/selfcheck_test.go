package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
)

type mockSelfCheckUseCase struct {
	mock.Mock
}

func (m *mockSelfCheckUseCase) Run(ctx context.Context) *envelopeDomain.SelfCheckReport {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*envelopeDomain.SelfCheckReport)
}

func passingReport() *envelopeDomain.SelfCheckReport {
	return &envelopeDomain.SelfCheckReport{
		Passed:   true,
		Duration: 120 * time.Millisecond,
		Results: []envelopeDomain.SelfCheckResult{
			{Kind: envelopeDomain.FieldKindPhoneNumber, Passed: true, Duration: 30 * time.Millisecond},
			{Kind: envelopeDomain.FieldKindTwoFactorSecret, Passed: true, Duration: 30 * time.Millisecond},
			{Kind: envelopeDomain.FieldKindVaultItem, Passed: true, Duration: 30 * time.Millisecond},
			{Kind: envelopeDomain.FieldKindNotificationContent, Passed: true, Duration: 30 * time.Millisecond},
		},
	}
}

func TestRunSelfCheck(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockSelfCheckUseCase{}
		mockUseCase.On("Run", ctx).Return(passingReport())

		var out bytes.Buffer
		err := RunSelfCheck(ctx, mockUseCase, logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "ok   phone-number")
		require.Contains(t, out.String(), "ok   notification-content")
		require.Contains(t, out.String(), "self check passed")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockSelfCheckUseCase{}
		mockUseCase.On("Run", ctx).Return(passingReport())

		var out bytes.Buffer
		err := RunSelfCheck(ctx, mockUseCase, logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"passed": true`)
		require.Contains(t, out.String(), `"kind": "two-factor-secret"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("failed-check", func(t *testing.T) {
		report := passingReport()
		report.Passed = false
		report.Results[1].Passed = false
		report.Results[1].Detail = "verify rejected a valid envelope"

		mockUseCase := &mockSelfCheckUseCase{}
		mockUseCase.On("Run", ctx).Return(report)

		var out bytes.Buffer
		err := RunSelfCheck(ctx, mockUseCase, logger, &out, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "self check failed")
		require.Contains(t, out.String(), "FAIL two-factor-secret")
		require.Contains(t, out.String(), "verify rejected a valid envelope")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-format", func(t *testing.T) {
		mockUseCase := &mockSelfCheckUseCase{}

		err := RunSelfCheck(ctx, mockUseCase, logger, &bytes.Buffer{}, "yaml")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
		mockUseCase.AssertNotCalled(t, "Run")
	})
}
