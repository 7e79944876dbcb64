package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted field values. AEAD prevents
// both unauthorized reading and tampering with encrypted data.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on mobile devices or systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
//
// Stored blobs carry no algorithm tag, so the algorithm a field class was
// written with must never change once data exists.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM (Advanced Encryption Standard in Galois/Counter Mode) combines
	// AES encryption with GMAC authentication. It uses a 256-bit key and
	// provides excellent performance on hardware with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305 MAC
	// for authentication. It's designed for high performance on platforms without
	// AES hardware acceleration and is resistant to timing attacks.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Byte sizes shared by both supported AEAD algorithms. These values are fixed
// by the stored blob layout (nonce || tag || ciphertext); changing any of them
// would make previously written data unreadable.
const (
	// KeySize is the symmetric key size in bytes (256 bits).
	KeySize = 32

	// NonceSize is the AEAD nonce size in bytes (96 bits).
	NonceSize = 12

	// TagSize is the authentication tag size in bytes (128 bits).
	TagSize = 16

	// MinBlobSize is the smallest well-formed encrypted blob: a nonce and an
	// authentication tag around an empty ciphertext.
	MinBlobSize = NonceSize + TagSize
)

// Key derivation parameters. Every stored field was encrypted under a key
// derived with exactly these parameters, so they are as immutable as the
// blob layout itself.
const (
	// KDFIterations is the PBKDF2 iteration count.
	KDFIterations = 100000
)
