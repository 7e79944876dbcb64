package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProviderWithNamespace", func(t *testing.T) {
		provider, err := NewProvider("fieldcrypt_test")

		require.NoError(t, err)
		assert.NotNil(t, provider)
		assert.NotNil(t, provider.meterProvider)
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
	})

	t.Run("Success_CreateProviderWithEmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")

		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}

func TestProvider_MeterProvider(t *testing.T) {
	provider, err := NewProvider("fieldcrypt_test")
	require.NoError(t, err)

	meterProvider := provider.MeterProvider()
	assert.NotNil(t, meterProvider)
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("fieldcrypt_test")
	require.NoError(t, err)

	handler := provider.Handler()
	assert.NotNil(t, handler)

	t.Run("Success_ServeRecordedEnvelopeMetric", func(t *testing.T) {
		meter := provider.MeterProvider().Meter("fieldcrypt_test")
		counter, err := meter.Int64Counter("fieldcrypt_test_envelopes_sealed")
		require.NoError(t, err)
		counter.Add(context.Background(), 3)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "fieldcrypt_test_envelopes_sealed")
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("fieldcrypt_test")
		require.NoError(t, err)

		err = provider.Shutdown(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		err := provider.Shutdown(context.Background())
		assert.NoError(t, err)
	})
}
