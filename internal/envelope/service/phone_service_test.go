package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
)

// MockKeyDeriver is a mock implementation of cryptoService.KeyDeriver
type MockKeyDeriver struct {
	mock.Mock
}

func (m *MockKeyDeriver) DeriveKey(secret string, salt []byte) ([]byte, error) {
	args := m.Called(secret, salt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newFieldCipher() *cryptoService.FieldCipherService {
	return cryptoService.NewFieldCipher(cryptoService.NewAEADManager())
}

func newPhoneService() *PhoneService {
	return NewPhoneService(cryptoService.NewPBKDF2KeyDeriver(), newFieldCipher())
}

// flipHexChar swaps one hex digit so exactly one stored character changes
// while the string stays decodable.
func flipHexChar(s string, i int) string {
	b := []byte(s)
	if b[i] == '0' {
		b[i] = '1'
	} else {
		b[i] = '0'
	}
	return string(b)
}

func TestPhoneServiceRoundTrip(t *testing.T) {
	service := newPhoneService()

	envelope, err := service.Encrypt("+15551234567", "correct-password")
	require.NoError(t, err)
	require.NotNil(t, envelope)

	t.Run("salt is 32 hex chars", func(t *testing.T) {
		assert.Len(t, envelope.Salt, 32)
		_, err := hex.DecodeString(envelope.Salt)
		assert.NoError(t, err)
	})

	t.Run("blob is hex and carries nonce plus tag", func(t *testing.T) {
		raw, err := hex.DecodeString(envelope.EncryptedValue)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(raw), cryptoDomain.MinBlobSize)
	})

	t.Run("decrypts with the right password", func(t *testing.T) {
		phoneNumber, err := service.Decrypt(envelope.EncryptedValue, "correct-password", envelope.Salt)
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", phoneNumber)
	})

	t.Run("wrong password fails as decryption", func(t *testing.T) {
		_, err := service.Decrypt(envelope.EncryptedValue, "wrong-password", envelope.Salt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("another instance decrypts the same envelope", func(t *testing.T) {
		other := newPhoneService()
		phoneNumber, err := other.Decrypt(envelope.EncryptedValue, "correct-password", envelope.Salt)
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", phoneNumber)
	})
}

func TestPhoneServiceEncrypt(t *testing.T) {
	service := newPhoneService()

	t.Run("invalid phone number fails validation", func(t *testing.T) {
		_, err := service.Encrypt("not-a-number", "password")
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)
	})

	t.Run("empty value fails validation", func(t *testing.T) {
		_, err := service.Encrypt("", "password")
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)
	})

	t.Run("empty secret fails validation", func(t *testing.T) {
		_, err := service.Encrypt("+15551234567", "")
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)
	})

	t.Run("same number encrypts to different envelopes", func(t *testing.T) {
		first, err := service.Encrypt("+15551234567", "password")
		require.NoError(t, err)
		second, err := service.Encrypt("+15551234567", "password")
		require.NoError(t, err)

		assert.NotEqual(t, first.EncryptedValue, second.EncryptedValue)
		assert.NotEqual(t, first.Salt, second.Salt)
	})
}

func TestPhoneServiceEncryptWithSalt(t *testing.T) {
	service := newPhoneService()

	salt, err := service.GenerateSalt()
	require.NoError(t, err)

	t.Run("shared salt produces independent blobs", func(t *testing.T) {
		first, err := service.EncryptWithSalt("+15551234567", "password", salt)
		require.NoError(t, err)
		second, err := service.EncryptWithSalt("+15551234567", "password", salt)
		require.NoError(t, err)

		assert.Equal(t, salt, first.Salt)
		assert.Equal(t, salt, second.Salt)
		assert.NotEqual(t, first.EncryptedValue, second.EncryptedValue)

		phoneNumber, err := service.Decrypt(second.EncryptedValue, "password", salt)
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", phoneNumber)
	})

	t.Run("malformed salt fails as key derivation", func(t *testing.T) {
		_, err := service.EncryptWithSalt("+15551234567", "password", "not-hex")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyDerivationFailed)
	})

	t.Run("wrong-size salt fails as key derivation", func(t *testing.T) {
		_, err := service.EncryptWithSalt("+15551234567", "password", "deadbeef")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyDerivationFailed)
	})
}

func TestPhoneServiceValidationPrecedesKeyDerivation(t *testing.T) {
	mockDeriver := new(MockKeyDeriver)
	service := NewPhoneService(mockDeriver, newFieldCipher())

	t.Run("invalid input never reaches the deriver", func(t *testing.T) {
		_, err := service.Encrypt("not-a-number", "password")
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)

		_, err = service.Encrypt("+15551234567", "")
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)

		mockDeriver.AssertNotCalled(t, "DeriveKey", mock.Anything, mock.Anything)
	})

	t.Run("valid input derives exactly once", func(t *testing.T) {
		mockDeriver.On("DeriveKey", mock.Anything, mock.Anything).Return(make([]byte, cryptoDomain.KeySize), nil)

		_, err := service.Encrypt("+15551234567", "password")
		require.NoError(t, err)

		mockDeriver.AssertNumberOfCalls(t, "DeriveKey", 1)
	})
}

func TestPhoneServiceDecrypt(t *testing.T) {
	service := newPhoneService()

	envelope, err := service.Encrypt("+15551234567", "password")
	require.NoError(t, err)

	t.Run("tampered nonce region fails as decryption", func(t *testing.T) {
		_, err := service.Decrypt(flipHexChar(envelope.EncryptedValue, 0), "password", envelope.Salt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered tag region fails as decryption", func(t *testing.T) {
		_, err := service.Decrypt(flipHexChar(envelope.EncryptedValue, 30), "password", envelope.Salt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext region fails as decryption", func(t *testing.T) {
		tampered := flipHexChar(envelope.EncryptedValue, len(envelope.EncryptedValue)-1)
		_, err := service.Decrypt(tampered, "password", envelope.Salt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("undecodable blob fails as decryption", func(t *testing.T) {
		_, err := service.Decrypt("zz"+envelope.EncryptedValue[2:], "password", envelope.Salt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("truncated blob fails as decryption", func(t *testing.T) {
		_, err := service.Decrypt(envelope.EncryptedValue[:20], "password", envelope.Salt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("salt from another envelope fails as decryption", func(t *testing.T) {
		otherSalt, err := service.GenerateSalt()
		require.NoError(t, err)
		_, err = service.Decrypt(envelope.EncryptedValue, "password", otherSalt)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("malformed salt fails as key derivation", func(t *testing.T) {
		_, err := service.Decrypt(envelope.EncryptedValue, "password", "nope")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyDerivationFailed)
	})

	t.Run("empty encrypted value fails validation", func(t *testing.T) {
		_, err := service.Decrypt("", "password", envelope.Salt)
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)
	})

	t.Run("empty secret fails validation", func(t *testing.T) {
		_, err := service.Decrypt(envelope.EncryptedValue, "", envelope.Salt)
		assert.ErrorIs(t, err, envelopeDomain.ErrValidationFailed)
	})

	t.Run("non-phone plaintext fails as format mismatch", func(t *testing.T) {
		core := envelopeCore{
			params:     envelopeDomain.PhoneNumberParams(),
			keyDeriver: cryptoService.NewPBKDF2KeyDeriver(),
			cipher:     newFieldCipher(),
		}
		salt, err := core.params.GenerateSalt()
		require.NoError(t, err)
		crafted, err := core.sealValue("definitely not a phone number", "password", salt)
		require.NoError(t, err)

		_, err = service.Decrypt(crafted, "password", salt)
		assert.ErrorIs(t, err, envelopeDomain.ErrFormatMismatch)
	})
}

func TestPhoneServiceVerify(t *testing.T) {
	service := newPhoneService()

	envelope, err := service.Encrypt("+15551234567", "password")
	require.NoError(t, err)

	t.Run("true for intact envelope", func(t *testing.T) {
		assert.True(t, service.Verify(envelope.EncryptedValue, "password", envelope.Salt))
	})

	t.Run("false for wrong password", func(t *testing.T) {
		assert.False(t, service.Verify(envelope.EncryptedValue, "wrong", envelope.Salt))
	})

	t.Run("false for tampered blob", func(t *testing.T) {
		assert.False(t, service.Verify(flipHexChar(envelope.EncryptedValue, 0), "password", envelope.Salt))
	})

	t.Run("false for malformed salt", func(t *testing.T) {
		assert.False(t, service.Verify(envelope.EncryptedValue, "password", "bad-salt"))
	})

	t.Run("false for empty inputs", func(t *testing.T) {
		assert.False(t, service.Verify("", "password", envelope.Salt))
		assert.False(t, service.Verify(envelope.EncryptedValue, "", envelope.Salt))
	})
}
