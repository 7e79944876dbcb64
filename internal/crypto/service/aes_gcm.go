package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM
// (Advanced Encryption Standard with Galois/Counter Mode).
//
// AES-GCM provides authenticated encryption with associated data (AEAD), combining
// the confidentiality of AES encryption with the authenticity of GMAC. This is the
// algorithm every stored field class was written with, so it is the default for
// all envelope services.
//
// Security properties:
//   - 256-bit key size (keys come from PBKDF2, never stored)
//   - 12-byte nonce (96 bits, randomly generated per encryption)
//   - 16-byte authentication tag (128 bits, appended to ciphertext)
//   - Authenticated encryption prevents tampering and forgery
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines. Each encryption operation generates a unique nonce independently.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits) for AES-256. Using a shorter or
// longer key will result in an error. In this system keys are derived from user
// secrets via PBKDF2 and exist only for the duration of a single operation.
//
// Returns an error if the key size is invalid or cipher initialization fails.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional authenticated data.
//
// The AAD (Additional Authenticated Data) is authenticated but not encrypted,
// allowing ciphertext to be bound to context (a record ID, a column name)
// without encrypting it. Pass nil for AAD if no additional data needs to be
// authenticated; the stored field layout uses no AAD.
//
// A unique 12-byte nonce is randomly generated for each encryption operation
// using crypto/rand. The nonce must be stored alongside the ciphertext for
// later decryption. With GCM, nonces must never be reused with the same key.
//
// The returned ciphertext includes the 16-byte authentication tag appended to
// the end. Empty plaintext is valid and yields a tag-only ciphertext.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM with the provided nonce and AAD.
//
// The same AAD used during encryption must be provided for successful decryption.
// This method verifies the authentication tag before returning plaintext, ensuring
// the ciphertext hasn't been tampered with. If verification fails, no plaintext is
// returned to prevent processing of potentially malicious data.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
