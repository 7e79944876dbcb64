package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/keyhaven/fieldcrypt/internal/validation"
)

// NotificationContent is the plaintext form of one notification's protected
// fields. Title and Message are required; Data is an optional structured
// payload, JSON-encoded before encryption.
type NotificationContent struct {
	Title   string
	Message string
	Data    map[string]any
}

// Validate checks that title and message are present and not blank. The
// services classify the result: ErrValidationFailed before encryption,
// ErrFormatMismatch when re-checking decrypted content.
func (c NotificationContent) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&c.Message,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// NotificationEnvelope is the at-rest form of one notification's protected
// fields. All sibling fields share one salt (the key is derived once per
// record) but each carries an independently encrypted blob with its own
// nonce. EncryptedData is nil when the notification had no structured
// payload.
type NotificationEnvelope struct {
	EncryptedTitle   string
	EncryptedMessage string
	EncryptedData    *string
	Salt             string
}
