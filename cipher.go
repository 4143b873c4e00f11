package pqchat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pqchat/e2ee-go/internal/crypto"
)

// DefaultDecryptSentinel is the fixed placeholder Decrypt returns when a
// message cannot be decrypted.
const DefaultDecryptSentinel = "[Decryption failed]"

// MessageCipher turns a plaintext string into an Envelope and back using
// hybrid KEM+AEAD: ML-KEM-768 encapsulation, SHA-256 key derivation, and
// AES-256-GCM. It holds no per-message state; every encryption is fully
// independent and safe to run concurrently.
type MessageCipher struct {
	keys     *KeyStore
	sentinel string
	log      zerolog.Logger
}

// NewMessageCipher creates a MessageCipher that loads the local private key
// from keys during decryption.
func NewMessageCipher(keys *KeyStore, opts ...CipherOption) *MessageCipher {
	mc := &MessageCipher{
		keys:     keys,
		sentinel: DefaultDecryptSentinel,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// Sentinel returns the placeholder string Decrypt substitutes for
// undecryptable messages.
func (mc *MessageCipher) Sentinel() string { return mc.sentinel }

// Encrypt encapsulates against the recipient's public key, derives the
// message key as SHA-256 of the full shared secret, draws a fresh 16-byte
// IV, and seals the UTF-8 plaintext with AES-256-GCM.
//
// Returns EncapsulationError if the public key is malformed or the wrong
// length for the configured parameter set.
func (mc *MessageCipher) Encrypt(plaintext string, recipientPublicKey []byte) (*Envelope, error) {
	sharedSecret, kemCiphertext, err := crypto.Encapsulate(recipientPublicKey)
	if err != nil {
		return nil, &EncapsulationError{Err: err}
	}

	key := crypto.DeriveMessageKey(sharedSecret)

	iv, err := crypto.RandomNonce()
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	ciphertext, err := crypto.SealAESGCM(key, iv, []byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return &Envelope{
		KEMCiphertext: crypto.ToBase64(kemCiphertext),
		IV:            crypto.ToBase64(iv),
		Ciphertext:    crypto.ToBase64(ciphertext),
	}, nil
}

// Decrypt recovers the plaintext of an envelope using the local private key.
//
// All failures — key absence, malformed fields, decapsulation failure,
// authentication failure — are absorbed and mapped to the sentinel string.
// This is a deliberate degradation policy: one corrupt or foreign-key
// message must never block rendering of a conversation.
func (mc *MessageCipher) Decrypt(ctx context.Context, env *Envelope) string {
	plaintext, err := mc.DecryptStrict(ctx, env)
	if err != nil {
		mc.log.Debug().Err(err).Msg("message decryption failed")
		return mc.sentinel
	}
	return plaintext
}

// DecryptStrict is Decrypt without the sentinel policy: it returns the typed
// error (KeyNotFoundError, DecapsulationError, AuthenticationError, ...) so
// callers that need the failure taxonomy can inspect it.
func (mc *MessageCipher) DecryptStrict(ctx context.Context, env *Envelope) (string, error) {
	if err := env.Validate(); err != nil {
		return "", &DecapsulationError{Stage: "decode", Err: err}
	}

	privateKey, err := mc.keys.LoadPrivateKey(ctx)
	if err != nil {
		return "", err
	}

	keypair, err := crypto.KeypairFromSecretKey(privateKey)
	if err != nil {
		return "", &DecapsulationError{Stage: "key", Err: err}
	}

	kemCiphertext, err := crypto.DecodeBase64(env.KEMCiphertext)
	if err != nil {
		return "", &DecapsulationError{Stage: "decode", Err: err}
	}

	sharedSecret, err := keypair.Decapsulate(kemCiphertext)
	if err != nil {
		return "", &DecapsulationError{Stage: "decapsulate", Err: err}
	}

	key := crypto.DeriveMessageKey(sharedSecret)

	iv, err := crypto.DecodeBase64(env.IV)
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}
	ciphertext, err := crypto.DecodeBase64(env.Ciphertext)
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}

	plaintext, err := crypto.OpenAESGCM(key, iv, ciphertext)
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}

	return string(plaintext), nil
}
