package pqchat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pqchat/e2ee-go/internal/crypto"
)

// Client is the explicitly constructed context object tying the encryption
// core to its collaborators: secret storage, the identity directory, and an
// optional message store. It replaces process-wide singletons; every
// dependency is passed in, and two clients never share mutable state.
type Client struct {
	identity  string
	secrets   SecretStore
	directory Directory
	messages  MessageStore
	keys      *KeyStore
	cipher    *MessageCipher
	log       zerolog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
}

// New creates a client for the given local identity.
// The SecretStore holds the keypair; the Directory publishes and resolves
// public keys.
func New(identity string, secrets SecretStore, directory Directory, opts ...Option) (*Client, error) {
	if identity == "" {
		return nil, fmt.Errorf("identity is required")
	}
	if secrets == nil {
		return nil, fmt.Errorf("secret store is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory is required")
	}

	cfg := &clientConfig{
		logger:   zerolog.Nop(),
		sentinel: DefaultDecryptSentinel,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	keys := NewKeyStore(secrets, directory,
		WithKeyStoreLogger(cfg.logger),
		WithKeyStoreClock(cfg.clock),
	)

	cipher := NewMessageCipher(keys,
		WithCipherLogger(cfg.logger),
		WithCipherSentinel(cfg.sentinel),
	)

	return &Client{
		identity:  identity,
		secrets:   secrets,
		directory: directory,
		messages:  cfg.messages,
		keys:      keys,
		cipher:    cipher,
		log:       cfg.logger.With().Str("identity", identity).Logger(),
		now:       cfg.clock,
	}, nil
}

// Identity returns the local identity this client encrypts for.
func (c *Client) Identity() string { return c.identity }

// KeyStore returns the client's key lifecycle manager.
func (c *Client) KeyStore() *KeyStore { return c.keys }

// Cipher returns the client's message cipher.
func (c *Client) Cipher() *MessageCipher { return c.cipher }

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// EnsureKeys provisions the local keypair if it is absent, publishing the
// public half to the directory. Call it on every authenticated session
// start, sequenced strictly before any send or render; it is a no-op when a
// keypair already exists.
func (c *Client) EnsureKeys(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	_, err := c.keys.EnsureKeys(ctx, c.identity)
	return err
}

// RecipientPublicKey resolves an identity's published public key from the
// directory. The key is trusted as stored: the protocol has no channel for
// verifying it belongs to the claimed identity.
func (c *Client) RecipientPublicKey(ctx context.Context, identity string) ([]byte, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	fields, err := c.directory.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	encoded, ok := fields[DirectoryFieldPublicKey]
	if !ok || encoded == "" {
		return nil, fmt.Errorf("%w: %s", ErrPublicKeyNotPublished, identity)
	}

	raw, err := crypto.DecodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode public key for %s: %w", identity, err)
	}
	return raw, nil
}

// Send encrypts plaintext for the recipient and, when a MessageStore is
// configured, persists the resulting message. Encryption errors propagate:
// a failed send must not silently appear sent.
func (c *Client) Send(ctx context.Context, recipient, plaintext string) (*Message, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	publicKey, err := c.RecipientPublicKey(ctx, recipient)
	if err != nil {
		return nil, err
	}

	envelope, err := c.cipher.Encrypt(plaintext, publicKey)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:             uuid.NewString(),
		ConversationID: ConversationIDFor(c.identity, recipient),
		Sender:         c.identity,
		Recipient:      recipient,
		Envelope:       envelope,
		SentAt:         c.now().UTC(),
	}

	if c.messages != nil {
		if err := c.messages.Save(ctx, msg); err != nil {
			return nil, &StorageError{Op: "write", Key: msg.ID, Err: err}
		}
	}

	c.log.Debug().Str("recipient", recipient).Str("message_id", msg.ID).Msg("message encrypted")
	return msg, nil
}

// DecryptAll decrypts many envelopes concurrently, preserving input order.
// Each result is independent: an envelope that cannot be opened yields the
// sentinel in its slot and never affects its neighbours.
func (c *Client) DecryptAll(ctx context.Context, envelopes []*Envelope) ([]string, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	results := make([]string, len(envelopes))

	var wg sync.WaitGroup
	for i, env := range envelopes {
		wg.Add(1)
		go func(i int, env *Envelope) {
			defer wg.Done()
			results[i] = c.cipher.Decrypt(ctx, env)
		}(i, env)
	}
	wg.Wait()

	return results, nil
}

// Conversation lists the stored messages exchanged with peer and renders
// each to plaintext. Only envelopes bound to the local key decrypt; messages
// this client sent are bound to the peer's key and render as the sentinel,
// as the protocol keeps no sender-side copy.
func (c *Client) Conversation(ctx context.Context, peer string) ([]*DecryptedMessage, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if c.messages == nil {
		return nil, fmt.Errorf("no message store configured")
	}

	msgs, err := c.messages.List(ctx, ConversationIDFor(c.identity, peer))
	if err != nil {
		return nil, &StorageError{Op: "read", Key: peer, Err: err}
	}

	rendered := make([]*DecryptedMessage, len(msgs))
	var wg sync.WaitGroup
	for i, msg := range msgs {
		wg.Add(1)
		go func(i int, msg *Message) {
			defer wg.Done()
			rendered[i] = &DecryptedMessage{
				ID:        msg.ID,
				Sender:    msg.Sender,
				Recipient: msg.Recipient,
				SentAt:    msg.SentAt,
				Text:      c.cipher.Decrypt(ctx, msg.Envelope),
			}
		}(i, msg)
	}
	wg.Wait()

	return rendered, nil
}

// Logout removes both halves of the local keypair. Previously received
// envelopes become undecryptable until a new keypair is generated, and then
// remain so permanently.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	return c.keys.Delete(ctx)
}

// Close marks the client closed. Further operations fail with
// ErrClientClosed. Close is idempotent and never touches stored keys.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
