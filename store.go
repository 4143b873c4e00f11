package pqchat

import "context"

// SecretStore is platform-level secret storage for the local identity's
// keypair. Implementations must guarantee stored values are not readable by
// other applications on the device.
type SecretStore interface {
	// Write stores value under key, overwriting any previous value.
	Write(ctx context.Context, key, value string) error
	// Read returns the value stored under key, or ErrSecretNotFound.
	Read(ctx context.Context, key string) (string, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Directory is the shared record store mapping a user identity to public
// profile fields, including the published public key.
type Directory interface {
	// Upsert merges fields into the identity's record. Merge semantics:
	// unrelated fields already in the record are never clobbered.
	Upsert(ctx context.Context, identity string, fields map[string]string) error
	// Get returns the identity's record, or ErrIdentityNotFound.
	Get(ctx context.Context, identity string) (map[string]string, error)
}

// MessageStore persists encrypted messages. Implementations only ever see
// envelopes, never plaintext.
type MessageStore interface {
	// Save persists one message.
	Save(ctx context.Context, msg *Message) error
	// List returns all messages in a conversation, oldest first.
	List(ctx context.Context, conversationID string) ([]*Message, error)
}
