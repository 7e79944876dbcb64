package domain

// Envelope is the at-rest form of one protected field value.
//
// EncryptedValue is the nonce || tag || ciphertext blob in the data class's
// storage encoding; Salt is the per-envelope KDF salt in the same encoding.
// The derived key is never part of the envelope: it is re-derived from the
// caller-supplied secret on every operation and discarded after use.
//
// Envelopes are never mutated in place. Any value change produces a new
// envelope with at minimum a fresh nonce.
type Envelope struct {
	EncryptedValue string
	Salt           string
}
