package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// RandomNonce draws a fresh 16-byte IV from the system CSPRNG.
func RandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("draw nonce: %w", err)
	}
	return nonce, nil
}

// SealAESGCM encrypts plaintext with AES-256-GCM under the given key and
// 16-byte nonce. The authentication tag is appended to the returned ciphertext.
func SealAESGCM(key, nonce, plaintext []byte) ([]byte, error) {
	aesGCM, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return aesGCM.Seal(nil, nonce, plaintext, nil), nil
}

// OpenAESGCM decrypts ciphertext produced by SealAESGCM and verifies its
// authentication tag. Returns ErrOpenFailed if the tag check fails.
func OpenAESGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	aesGCM, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCMWithNonceSize(block, NonceSize)
}
