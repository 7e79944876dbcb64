// Package service provides the cryptographic building blocks for per-field
// envelope encryption: password-based key derivation and AEAD ciphers packed
// into the fixed storage blob layout.
package service

import (
	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver defines the interface for stretching user secrets into encryption keys.
type KeyDeriver interface {
	// DeriveKey derives a KeySize-byte key from a user secret and salt.
	// Callers own the returned buffer and must Zero it as soon as the
	// operation that needed it completes.
	DeriveKey(secret string, salt []byte) ([]byte, error)
}

// FieldCipher defines the interface for sealing field values into the stored
// blob layout (nonce || tag || ciphertext) and opening them again.
type FieldCipher interface {
	// Encrypt seals plaintext under key and returns the packed blob.
	Encrypt(key []byte, alg cryptoDomain.Algorithm, plaintext []byte) ([]byte, error)

	// Decrypt opens a packed blob sealed by Encrypt.
	Decrypt(key []byte, alg cryptoDomain.Algorithm, blob []byte) ([]byte, error)
}
