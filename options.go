package pqchat

import (
	"time"

	"github.com/rs/zerolog"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	logger   zerolog.Logger
	messages MessageStore
	sentinel string
	clock    func() time.Time
}

// Option configures the client.
type Option func(*clientConfig)

// KeyStoreOption configures a KeyStore.
type KeyStoreOption func(*KeyStore)

// CipherOption configures a MessageCipher.
type CipherOption func(*MessageCipher)

// WithLogger sets the logger used by the client, its key store, and its
// cipher. The default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMessageStore sets the store Send persists messages to and
// Conversation reads from.
func WithMessageStore(store MessageStore) Option {
	return func(c *clientConfig) {
		c.messages = store
	}
}

// WithSentinel overrides the placeholder string returned for messages that
// cannot be decrypted. Default: DefaultDecryptSentinel.
func WithSentinel(sentinel string) Option {
	return func(c *clientConfig) {
		c.sentinel = sentinel
	}
}

// WithClock overrides the time source used for key generation timestamps.
// Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *clientConfig) {
		c.clock = clock
	}
}

// WithKeyStoreLogger sets the KeyStore's logger.
func WithKeyStoreLogger(logger zerolog.Logger) KeyStoreOption {
	return func(ks *KeyStore) {
		ks.log = logger
	}
}

// WithKeyStoreClock overrides the KeyStore's time source.
func WithKeyStoreClock(clock func() time.Time) KeyStoreOption {
	return func(ks *KeyStore) {
		ks.now = clock
	}
}

// WithCipherLogger sets the MessageCipher's logger.
func WithCipherLogger(logger zerolog.Logger) CipherOption {
	return func(mc *MessageCipher) {
		mc.log = logger
	}
}

// WithCipherSentinel overrides the MessageCipher's decryption sentinel.
func WithCipherSentinel(sentinel string) CipherOption {
	return func(mc *MessageCipher) {
		mc.sentinel = sentinel
	}
}
