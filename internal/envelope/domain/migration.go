package domain

import (
	"github.com/google/uuid"
)

// LegacyField is one stored plaintext value awaiting migration to the
// envelope format. ID identifies the owning row so batch results can be
// matched back to storage.
type LegacyField struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// MigratedField is the storage-ready envelope form of one migrated legacy
// value. IV is always nil: AEAD embeds the nonce inside the encrypted blob,
// and the column survives only for schema backward compatibility. It is set
// to an explicit null sentinel rather than omitted so the storage layer
// overwrites any stale value.
type MigratedField struct {
	ID        uuid.UUID `json:"id"`
	Encrypted string    `json:"encrypted"`
	Salt      string    `json:"salt"`
	IV        *string   `json:"iv"`
}

// MigratedPhoneNumber holds the column values a migrated phone number row
// expects: encrypted_phone_number, phone_number_salt, phone_number_iv.
type MigratedPhoneNumber struct {
	EncryptedPhoneNumber string
	PhoneNumberSalt      string
	PhoneNumberIV        *string
}

// MigratedTwoFactorSecret holds the column values a migrated two-factor
// secret row expects: encrypted_secret, secret_salt, secret_iv.
type MigratedTwoFactorSecret struct {
	EncryptedSecret string
	SecretSalt      string
	SecretIV        *string
}

// MigratedNotificationContent holds the column values a migrated
// notification row expects. EncryptedData is nil when the notification had
// no structured payload; ContentIV is always nil.
type MigratedNotificationContent struct {
	EncryptedTitle   string
	EncryptedMessage string
	EncryptedData    *string
	ContentSalt      string
	ContentIV        *string
}

// MigratedVaultItem holds the column values a migrated vault item row
// expects: encrypted_data, data_salt, data_iv.
type MigratedVaultItem struct {
	EncryptedData string
	DataSalt      string
	DataIV        *string
}
