package pqchat

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrKeyGeneration is returned when keypair generation fails.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrStorage is returned when a local or directory storage operation fails.
	ErrStorage = errors.New("storage operation failed")

	// ErrKeyNotFound is returned when the local private key is absent.
	ErrKeyNotFound = errors.New("encryption key not found")

	// ErrEncapsulation is returned when KEM encapsulation fails.
	ErrEncapsulation = errors.New("key encapsulation failed")

	// ErrDecapsulation is returned when KEM decapsulation fails.
	ErrDecapsulation = errors.New("key decapsulation failed")

	// ErrAuthentication is returned when the ciphertext authentication tag
	// check fails.
	ErrAuthentication = errors.New("message authentication failed")

	// ErrSecretNotFound is returned by a SecretStore when a key is absent.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrIdentityNotFound is returned by a Directory when an identity has
	// no record.
	ErrIdentityNotFound = errors.New("identity not found in directory")

	// ErrPublicKeyNotPublished is returned when a directory record exists
	// but carries no public key.
	ErrPublicKeyNotPublished = errors.New("identity has no published public key")
)

// PQChatError is implemented by all SDK errors.
type PQChatError interface {
	error
	PQChatError() // marker method
}

// KeyGenerationError indicates the KEM primitive or its RNG failed while
// generating a keypair.
type KeyGenerationError struct {
	Err error
}

func (e *KeyGenerationError) Error() string {
	return fmt.Sprintf("key generation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyGenerationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *KeyGenerationError) Is(target error) bool { return target == ErrKeyGeneration }

// PQChatError implements the PQChatError interface.
func (e *KeyGenerationError) PQChatError() {}

// StorageError indicates a SecretStore or Directory operation failed.
type StorageError struct {
	Op  string // "read", "write", "delete", "publish"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// PQChatError implements the PQChatError interface.
func (e *StorageError) PQChatError() {}

// KeyNotFoundError indicates the local private key is not in secret storage.
// Callers must confirm key existence before attempting decryption.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in secret storage", e.Key)
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyNotFoundError) Is(target error) bool { return target == ErrKeyNotFound }

// PQChatError implements the PQChatError interface.
func (e *KeyNotFoundError) PQChatError() {}

// EncapsulationError indicates the recipient public key was malformed or the
// wrong length for the configured parameter set.
type EncapsulationError struct {
	Err error
}

func (e *EncapsulationError) Error() string {
	return fmt.Sprintf("encapsulation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *EncapsulationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *EncapsulationError) Is(target error) bool { return target == ErrEncapsulation }

// PQChatError implements the PQChatError interface.
func (e *EncapsulationError) PQChatError() {}

// DecapsulationError indicates a malformed KEM ciphertext or an unusable
// private key.
type DecapsulationError struct {
	Stage string // "decode", "key", "decapsulate"
	Err   error
}

func (e *DecapsulationError) Error() string {
	return fmt.Sprintf("decapsulation failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecapsulationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *DecapsulationError) Is(target error) bool { return target == ErrDecapsulation }

// PQChatError implements the PQChatError interface.
func (e *DecapsulationError) PQChatError() {}

// AuthenticationError indicates the authentication tag check failed:
// tampering, a wrong key from a stale keypair, or corrupted storage.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthenticationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// PQChatError implements the PQChatError interface.
func (e *AuthenticationError) PQChatError() {}
