package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
)

func newTestFieldCipher(t *testing.T) (*FieldCipherService, []byte) {
	t.Helper()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	return NewFieldCipher(NewAEADManager()), key
}

func TestFieldCipherService_Encrypt(t *testing.T) {
	fieldCipher, key := newTestFieldCipher(t)

	t.Run("blob layout is nonce, tag, ciphertext", func(t *testing.T) {
		plaintext := []byte("+15551234567")

		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, plaintext)
		require.NoError(t, err)

		assert.Equal(t, cryptoDomain.MinBlobSize+len(plaintext), len(blob))
	})

	t.Run("empty plaintext produces minimum-size blob", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte{})
		require.NoError(t, err)

		assert.Equal(t, cryptoDomain.MinBlobSize, len(blob))
	})

	t.Run("nonces are unique across many encryptions", func(t *testing.T) {
		plaintext := []byte("same value every time")
		seen := make(map[string]bool)

		for i := 0; i < 1000; i++ {
			blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, plaintext)
			require.NoError(t, err)

			nonce := string(blob[:cryptoDomain.NonceSize])
			assert.False(t, seen[nonce], "nonce reused at iteration %d", i)
			seen[nonce] = true
		}
	})

	t.Run("same plaintext encrypts to different blobs", func(t *testing.T) {
		plaintext := []byte("deterministic input")

		blob1, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, plaintext)
		require.NoError(t, err)

		blob2, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, plaintext)
		require.NoError(t, err)

		assert.NotEqual(t, blob1, blob2)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := fieldCipher.Encrypt(make([]byte, 16), cryptoDomain.AESGCM, []byte("x"))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := fieldCipher.Encrypt(key, cryptoDomain.Algorithm("rot13"), []byte("x"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestFieldCipherService_Decrypt(t *testing.T) {
	fieldCipher, key := newTestFieldCipher(t)

	t.Run("round trip", func(t *testing.T) {
		plaintext := []byte("JBSWY3DPEHPK3PXP")

		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, plaintext)
		require.NoError(t, err)

		decrypted, err := fieldCipher.Decrypt(key, cryptoDomain.AESGCM, blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("round trip with empty plaintext", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte{})
		require.NoError(t, err)

		decrypted, err := fieldCipher.Decrypt(key, cryptoDomain.AESGCM, blob)
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})

	t.Run("round trip with chacha20-poly1305", func(t *testing.T) {
		plaintext := []byte("vault item payload")

		blob, err := fieldCipher.Encrypt(key, cryptoDomain.ChaCha20, plaintext)
		require.NoError(t, err)

		decrypted, err := fieldCipher.Decrypt(key, cryptoDomain.ChaCha20, blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		wrongKey := make([]byte, cryptoDomain.KeySize)
		_, err = rand.Read(wrongKey)
		require.NoError(t, err)

		_, err = fieldCipher.Decrypt(wrongKey, cryptoDomain.AESGCM, blob)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered nonce fails", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		blob[0] ^= 1
		_, err = fieldCipher.Decrypt(key, cryptoDomain.AESGCM, blob)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered tag fails", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		blob[cryptoDomain.NonceSize] ^= 1
		_, err = fieldCipher.Decrypt(key, cryptoDomain.AESGCM, blob)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		blob[len(blob)-1] ^= 1
		_, err = fieldCipher.Decrypt(key, cryptoDomain.AESGCM, blob)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("truncated blob fails", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		_, err = fieldCipher.Decrypt(key, cryptoDomain.AESGCM, blob[:cryptoDomain.MinBlobSize-1])
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("empty blob fails", func(t *testing.T) {
		_, err := fieldCipher.Decrypt(key, cryptoDomain.AESGCM, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("algorithm mismatch fails", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		_, err = fieldCipher.Decrypt(key, cryptoDomain.ChaCha20, blob)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("invalid key size", func(t *testing.T) {
		blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("secret"))
		require.NoError(t, err)

		_, err = fieldCipher.Decrypt(make([]byte, 16), cryptoDomain.AESGCM, blob)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestFieldCipherService_DerivedKeyRoundTrip(t *testing.T) {
	fieldCipher := NewFieldCipher(NewAEADManager())
	deriver := NewPBKDF2KeyDeriver()
	salt := []byte("a1b2c3d4e5f60718293a4b5c6d7e8f90")

	key, err := deriver.DeriveKey("user-password", salt)
	require.NoError(t, err)
	defer cryptoDomain.Zero(key)

	blob, err := fieldCipher.Encrypt(key, cryptoDomain.AESGCM, []byte("+15551234567"))
	require.NoError(t, err)

	// A key derived independently from the same secret and salt opens the blob.
	key2, err := deriver.DeriveKey("user-password", salt)
	require.NoError(t, err)
	defer cryptoDomain.Zero(key2)

	decrypted, err := fieldCipher.Decrypt(key2, cryptoDomain.AESGCM, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("+15551234567"), decrypted)

	// A key derived from a different secret does not.
	wrongKey, err := deriver.DeriveKey("not-the-password", salt)
	require.NoError(t, err)
	defer cryptoDomain.Zero(wrongKey)

	_, err = fieldCipher.Decrypt(wrongKey, cryptoDomain.AESGCM, blob)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}
