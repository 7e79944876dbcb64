package domain

import (
	"github.com/keyhaven/fieldcrypt/internal/errors"
)

// Envelope operation error definitions.
//
// Together with the crypto domain errors (ErrKeyDerivationFailed,
// ErrDecryptionFailed) these form the four failure classes an envelope
// operation can surface. They are distinct under errors.Is so callers can
// alert differently: repeated decryption failures may indicate wrong-password
// probing, while a format mismatch after a successful tag check indicates
// data corruption or a versioning bug.
var (
	// ErrValidationFailed indicates an input value failed its data-class
	// format rules, or a required input was empty. Raised before any key
	// derivation runs.
	ErrValidationFailed = errors.Wrap(errors.ErrInvalidInput, "validation failed")

	// ErrFormatMismatch indicates a decrypted value failed the data-class
	// re-validation that runs after successful authentication. Distinct from
	// ErrDecryptionFailed: the tag verified, the plaintext is wrong.
	ErrFormatMismatch = errors.Wrap(errors.ErrInvalidInput, "decrypted value format mismatch")
)

// WrapValidation classifies a validation error under ErrValidationFailed.
// Returns nil when err is nil.
func WrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(ErrValidationFailed, err.Error())
}

// WrapFormat classifies a post-decrypt re-validation error under
// ErrFormatMismatch. Returns nil when err is nil.
func WrapFormat(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(ErrFormatMismatch, err.Error())
}
