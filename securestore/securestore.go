// Package securestore provides a file-backed pqchat.SecretStore sealed with
// a passphrase. It stands in for platform secret storage on hosts that have
// none: the whole key/value map is serialized to JSON and encrypted with
// XChaCha20-Poly1305 under an Argon2id-derived key, so the file is useless
// without the passphrase.
package securestore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	pqchat "github.com/pqchat/e2ee-go"
)

const (
	envelopeVersion = 1
	saltSize        = 16
	filePrefix      = "PQCSEC1\n"

	argonTime     = 2
	argonMemoryKB = 64 * 1024
	argonThreads  = 1
)

var (
	// ErrAuthFailed is returned when the passphrase is wrong or the file was
	// tampered with.
	ErrAuthFailed = errors.New("securestore authentication failed")
	// ErrInvalid is returned when the file is not a sealed store.
	ErrInvalid = errors.New("securestore file is invalid")
)

// envelope is the on-disk representation of the sealed store.
type envelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// Store is a passphrase-sealed file-backed secret store.
type Store struct {
	path       string
	passphrase string

	mu sync.Mutex
}

// Open creates a Store over the file at path. The file is created lazily on
// first write; opening a path that does not exist yet is valid.
func Open(path, passphrase string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase is required")
	}
	return &Store{path: path, passphrase: passphrase}, nil
}

// Write stores value under key and reseals the file.
func (s *Store) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Read returns the value stored under key, or pqchat.ErrSecretNotFound.
func (s *Store) Read(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", pqchat.ErrSecretNotFound
	}
	return value, nil
}

// Delete removes key and reseals the file. Absent keys are ignored.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	plaintext, err := s.open(data)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, ErrInvalid
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return err
	}

	sealed, err := s.seal(plaintext)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, sealed, 0600)
}

func (s *Store) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := s.deriveKey(salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	env := envelope{
		Version:     envelopeVersion,
		KDF:         "argon2id",
		KDFTime:     argonTime,
		KDFMemoryKB: argonMemoryKB,
		KDFThreads:  argonThreads,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, plaintext, nil),
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(filePrefix), raw...), nil
}

func (s *Store) open(data []byte) ([]byte, error) {
	if !strings.HasPrefix(string(data), filePrefix) {
		return nil, ErrInvalid
	}
	data = data[len(filePrefix):]

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrInvalid
	}
	if env.Version != envelopeVersion || env.KDF != "argon2id" {
		return nil, ErrInvalid
	}

	key := argon2.IDKey([]byte(s.passphrase), env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads, chacha20poly1305.KeySize)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func (s *Store) deriveKey(salt []byte) []byte {
	return argon2.IDKey([]byte(s.passphrase), salt, argonTime, argonMemoryKB, argonThreads, chacha20poly1305.KeySize)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
