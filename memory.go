package pqchat

import (
	"context"
	"sync"
)

// MemorySecretStore is an in-process SecretStore for tests, examples, and
// ephemeral identities. It provides no at-rest protection; production apps
// should back SecretStore with platform secret storage (or the securestore
// subpackage).
type MemorySecretStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySecretStore creates an empty in-memory secret store.
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{values: make(map[string]string)}
}

// Write stores value under key.
func (s *MemorySecretStore) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Read returns the value stored under key, or ErrSecretNotFound.
func (s *MemorySecretStore) Read(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// Delete removes key. Absent keys are ignored.
func (s *MemorySecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// MemoryDirectory is an in-process Directory with merge-upsert semantics.
type MemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]map[string]string
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{records: make(map[string]map[string]string)}
}

// Upsert merges fields into the identity's record, creating it if needed.
// Fields not named in the update are left untouched.
func (d *MemoryDirectory) Upsert(_ context.Context, identity string, fields map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	record, ok := d.records[identity]
	if !ok {
		record = make(map[string]string, len(fields))
		d.records[identity] = record
	}
	for k, v := range fields {
		record[k] = v
	}
	return nil
}

// Get returns a copy of the identity's record, or ErrIdentityNotFound.
func (d *MemoryDirectory) Get(_ context.Context, identity string) (map[string]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	record, ok := d.records[identity]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out, nil
}

// MemoryMessageStore is an in-process MessageStore preserving insertion
// order per conversation.
type MemoryMessageStore struct {
	mu            sync.RWMutex
	conversations map[string][]*Message
}

// NewMemoryMessageStore creates an empty in-memory message store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{conversations: make(map[string][]*Message)}
}

// Save appends the message to its conversation.
func (s *MemoryMessageStore) Save(_ context.Context, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[msg.ConversationID] = append(s.conversations[msg.ConversationID], msg)
	return nil
}

// List returns the conversation's messages, oldest first.
func (s *MemoryMessageStore) List(_ context.Context, conversationID string) ([]*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.conversations[conversationID]
	out := make([]*Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
