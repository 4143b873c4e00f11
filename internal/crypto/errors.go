package crypto

import "errors"

var (
	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCiphertextSize is returned when the KEM ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the IV size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrOpenFailed is returned when authenticated decryption fails.
	// This covers tampered ciphertext, a mismatched key, and corrupted storage;
	// GCM does not distinguish between them.
	ErrOpenFailed = errors.New("authenticated decryption failed")
)
