package pqchat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pqchat/e2ee-go/internal/crypto"
)

// Fixed names under which the keypair halves live in secret storage.
const (
	SecretKeyNamePublic  = "publicKey"
	SecretKeyNamePrivate = "secretKey"
)

// Directory record fields written when a public key is published.
const (
	DirectoryFieldPublicKey      = "publicKey"
	DirectoryFieldKeyGeneratedAt = "keyGeneratedAt"
)

// Keypair holds the two halves of the local identity's ML-KEM-768 keypair.
// The private key must never leave local secret storage; the public key is
// freely shareable.
type Keypair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// KeyStore owns the lifecycle of the local identity's keypair: generation,
// persisted storage, retrieval, and deletion. Generation and deletion are
// mutually exclusive with concurrent loads, so a decrypt racing a delete
// either completes against the old key or observes a cleanly absent pair.
type KeyStore struct {
	secrets   SecretStore
	directory Directory
	log       zerolog.Logger
	now       func() time.Time

	mu sync.RWMutex
}

// NewKeyStore creates a KeyStore over the given collaborators.
func NewKeyStore(secrets SecretStore, directory Directory, opts ...KeyStoreOption) *KeyStore {
	ks := &KeyStore{
		secrets:   secrets,
		directory: directory,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(ks)
	}
	return ks
}

// KeysExist reports whether both keypair halves are present in secret
// storage. It has no side effects.
func (ks *KeyStore) KeysExist(ctx context.Context) (bool, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.keysExistLocked(ctx)
}

func (ks *KeyStore) keysExistLocked(ctx context.Context) (bool, error) {
	for _, key := range []string{SecretKeyNamePublic, SecretKeyNamePrivate} {
		if _, err := ks.secrets.Read(ctx, key); err != nil {
			if errors.Is(err, ErrSecretNotFound) {
				return false, nil
			}
			return false, &StorageError{Op: "read", Key: key, Err: err}
		}
	}
	return true, nil
}

// GenerateAndStore generates a fresh ML-KEM-768 keypair, persists both
// halves locally, and publishes the base64-encoded public half to the
// directory under the identity's record together with a generation
// timestamp. The directory write is a merge-upsert and never overwrites
// unrelated fields.
func (ks *KeyStore) GenerateAndStore(ctx context.Context, identity string) (*Keypair, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.generateLocked(ctx, identity)
}

func (ks *KeyStore) generateLocked(ctx context.Context, identity string) (*Keypair, error) {
	kp, err := crypto.GenerateKeypair()
	if err != nil {
		return nil, &KeyGenerationError{Err: err}
	}

	if err := ks.secrets.Write(ctx, SecretKeyNamePrivate, crypto.ToBase64(kp.SecretKey)); err != nil {
		return nil, &StorageError{Op: "write", Key: SecretKeyNamePrivate, Err: err}
	}
	if err := ks.secrets.Write(ctx, SecretKeyNamePublic, crypto.ToBase64(kp.PublicKey)); err != nil {
		// Roll back so a failed generation never leaves a half-written pair.
		_ = ks.secrets.Delete(ctx, SecretKeyNamePrivate)
		return nil, &StorageError{Op: "write", Key: SecretKeyNamePublic, Err: err}
	}

	fields := map[string]string{
		DirectoryFieldPublicKey:      crypto.ToBase64(kp.PublicKey),
		DirectoryFieldKeyGeneratedAt: ks.now().UTC().Format(time.RFC3339),
	}
	if err := ks.directory.Upsert(ctx, identity, fields); err != nil {
		// Roll back the local halves too: an unpublished pair must not make
		// the next EnsureKeys believe the identity is provisioned.
		_ = ks.secrets.Delete(ctx, SecretKeyNamePrivate)
		_ = ks.secrets.Delete(ctx, SecretKeyNamePublic)
		return nil, &StorageError{Op: "publish", Key: identity, Err: err}
	}

	ks.log.Debug().Str("identity", identity).Msg("generated keypair and published public key")

	return &Keypair{PublicKey: kp.PublicKey, PrivateKey: kp.SecretKey}, nil
}

// EnsureKeys implements the ensure-exists policy run on every authenticated
// session start: if a keypair is already present it is returned untouched,
// otherwise a fresh one is generated and published. A user who lost local
// storage transparently gets a new keypair, at the cost of losing the
// ability to decrypt previously received messages; there is no key-recovery
// mechanism.
func (ks *KeyStore) EnsureKeys(ctx context.Context, identity string) (*Keypair, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	exists, err := ks.keysExistLocked(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return ks.loadKeypairLocked(ctx)
	}
	return ks.generateLocked(ctx, identity)
}

// LoadPrivateKey reads the local private key from secret storage.
// Returns KeyNotFoundError when absent; callers must not attempt decryption
// without first confirming key existence.
func (ks *KeyStore) LoadPrivateKey(ctx context.Context) ([]byte, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.loadKeyLocked(ctx, SecretKeyNamePrivate)
}

// LoadPublicKey reads the local public key from secret storage.
func (ks *KeyStore) LoadPublicKey(ctx context.Context) ([]byte, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.loadKeyLocked(ctx, SecretKeyNamePublic)
}

func (ks *KeyStore) loadKeyLocked(ctx context.Context, name string) ([]byte, error) {
	value, err := ks.secrets.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, &KeyNotFoundError{Key: name}
		}
		return nil, &StorageError{Op: "read", Key: name, Err: err}
	}

	raw, err := crypto.DecodeBase64(value)
	if err != nil {
		return nil, &StorageError{Op: "decode", Key: name, Err: err}
	}
	return raw, nil
}

func (ks *KeyStore) loadKeypairLocked(ctx context.Context) (*Keypair, error) {
	pub, err := ks.loadKeyLocked(ctx, SecretKeyNamePublic)
	if err != nil {
		return nil, err
	}
	priv, err := ks.loadKeyLocked(ctx, SecretKeyNamePrivate)
	if err != nil {
		return nil, err
	}
	return &Keypair{PublicKey: pub, PrivateKey: priv}, nil
}

// Delete removes both local key entries together. It is idempotent:
// deleting absent keys is not an error.
func (ks *KeyStore) Delete(ctx context.Context) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	for _, key := range []string{SecretKeyNamePrivate, SecretKeyNamePublic} {
		if err := ks.secrets.Delete(ctx, key); err != nil {
			return &StorageError{Op: "delete", Key: key, Err: err}
		}
	}

	ks.log.Debug().Msg("deleted local keypair")
	return nil
}
