package commands

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	envelopeService "github.com/keyhaven/fieldcrypt/internal/envelope/service"
)

type mockSaltGenerator struct {
	mock.Mock
}

func (m *mockSaltGenerator) Kind() envelopeDomain.FieldKind {
	args := m.Called()
	return args.Get(0).(envelopeDomain.FieldKind)
}

func (m *mockSaltGenerator) GenerateSalt() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func TestRunGenerateSalt(t *testing.T) {
	logger := slog.Default()

	t.Run("hex-salts", func(t *testing.T) {
		deriver := cryptoService.NewPBKDF2KeyDeriver()
		cipher := cryptoService.NewFieldCipher(cryptoService.NewAEADManager())
		service := envelopeService.NewPhoneService(deriver, cipher)

		var out bytes.Buffer
		err := RunGenerateSalt(service, logger, &out, 3)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			require.Regexp(t, "^[0-9a-f]{32}$", line)
		}
		require.NotEqual(t, lines[0], lines[1])
	})

	t.Run("base64-salts", func(t *testing.T) {
		deriver := cryptoService.NewPBKDF2KeyDeriver()
		cipher := cryptoService.NewFieldCipher(cryptoService.NewAEADManager())
		service := envelopeService.NewNotificationService(deriver, cipher)

		var out bytes.Buffer
		err := RunGenerateSalt(service, logger, &out, 1)

		require.NoError(t, err)
		salt := strings.TrimSpace(out.String())
		require.NoError(t, envelopeDomain.NotificationContentParams().CheckSalt(salt))
	})

	t.Run("invalid-count", func(t *testing.T) {
		mockGenerator := &mockSaltGenerator{}

		err := RunGenerateSalt(mockGenerator, logger, &bytes.Buffer{}, 0)

		require.Error(t, err)
		require.Contains(t, err.Error(), "count must be a positive number")
		mockGenerator.AssertNotCalled(t, "GenerateSalt")
	})

	t.Run("generator-error", func(t *testing.T) {
		mockGenerator := &mockSaltGenerator{}
		mockGenerator.On("GenerateSalt").Return("", errors.New("entropy source unavailable"))

		err := RunGenerateSalt(mockGenerator, logger, &bytes.Buffer{}, 1)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to generate salt")
		mockGenerator.AssertExpectations(t)
	})
}
