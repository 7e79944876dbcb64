package service

import (
	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	apperrors "github.com/keyhaven/fieldcrypt/internal/errors"
)

// FieldCipherService implements the FieldCipher interface on top of an AEADManager.
//
// Stored blobs are laid out as nonce || tag || ciphertext. Go's AEAD
// implementations return the ciphertext with the tag appended, so sealing
// moves the trailing tag in front of the ciphertext and opening moves it
// back. The layout matches every blob already written by this system and is
// shared by both supported algorithms (12-byte nonce, 16-byte tag).
type FieldCipherService struct {
	aeadManager AEADManager
}

// NewFieldCipher creates a new FieldCipherService with the provided AEADManager.
func NewFieldCipher(aeadManager AEADManager) *FieldCipherService {
	return &FieldCipherService{
		aeadManager: aeadManager,
	}
}

// Encrypt seals plaintext under key and packs the result as nonce || tag || ciphertext.
//
// Empty plaintext is valid and produces a MinBlobSize blob. The key must be
// exactly KeySize bytes; the caller keeps ownership of it and is responsible
// for zeroing it afterwards.
func (f *FieldCipherService) Encrypt(
	key []byte,
	alg cryptoDomain.Algorithm,
	plaintext []byte,
) ([]byte, error) {
	aead, err := f.aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	sealed, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt field value")
	}

	// sealed is ciphertext with the tag appended; split it for the stored layout.
	ctLen := len(sealed) - cryptoDomain.TagSize
	ciphertext, tag := sealed[:ctLen], sealed[ctLen:]

	blob := make([]byte, 0, cryptoDomain.MinBlobSize+ctLen)
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)

	return blob, nil
}

// Decrypt opens a nonce || tag || ciphertext blob sealed with Encrypt.
//
// Returns ErrDecryptionFailed if the blob cannot hold a nonce and a tag,
// or if authentication fails (wrong key, tampered ciphertext, corrupted
// nonce or tag). The error never reveals which part of the blob was wrong.
func (f *FieldCipherService) Decrypt(
	key []byte,
	alg cryptoDomain.Algorithm,
	blob []byte,
) ([]byte, error) {
	if len(blob) < cryptoDomain.MinBlobSize {
		return nil, apperrors.Wrapf(
			cryptoDomain.ErrDecryptionFailed,
			"blob must be at least %d bytes, got %d",
			cryptoDomain.MinBlobSize,
			len(blob),
		)
	}

	aead, err := f.aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	nonce := blob[:cryptoDomain.NonceSize]
	tag := blob[cryptoDomain.NonceSize:cryptoDomain.MinBlobSize]
	ciphertext := blob[cryptoDomain.MinBlobSize:]

	// Reassemble ciphertext || tag, the form Go's AEAD Open expects.
	sealed := make([]byte, 0, len(ciphertext)+cryptoDomain.TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Decrypt(sealed, nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}
