package crypto

import (
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// randReader is the random source used for key generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Keypair represents an ML-KEM-768 keypair for key encapsulation.
type Keypair struct {
	// PublicKey is the raw ML-KEM-768 public key bytes.
	PublicKey []byte
	// SecretKey is the raw ML-KEM-768 secret key bytes.
	SecretKey []byte
}

// GenerateKeypair creates a new ML-KEM-768 keypair.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, err
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &Keypair{
		PublicKey: pubBytes,
		SecretKey: privBytes,
	}, nil
}

// KeypairFromSecretKey reconstructs a keypair from the secret key.
// The public key is embedded in the secret key at offset 1152.
func KeypairFromSecretKey(secretKey []byte) (*Keypair, error) {
	if len(secretKey) != MLKEMSecretKeySize {
		return nil, ErrInvalidSecretKeySize
	}

	// Validate that the secret key can be parsed
	priv := &mlkem768.PrivateKey{}
	if err := priv.Unpack(secretKey); err != nil {
		return nil, err
	}

	publicKey := make([]byte, MLKEMPublicKeySize)
	copy(publicKey, secretKey[PublicKeyOffset:PublicKeyOffset+MLKEMPublicKeySize])

	return &Keypair{
		PublicKey: publicKey,
		SecretKey: secretKey,
	}, nil
}

// Encapsulate runs ML-KEM-768 encapsulation against a recipient's public key.
// It returns the shared secret and the KEM ciphertext that the recipient
// decapsulates to recover the same secret.
func Encapsulate(publicKey []byte) (sharedSecret, kemCiphertext []byte, err error) {
	if len(publicKey) != MLKEMPublicKeySize {
		return nil, nil, ErrInvalidPublicKeySize
	}

	var pub mlkem768.PublicKey
	if err := pub.Unpack(publicKey); err != nil {
		return nil, nil, err
	}

	kemCiphertext = make([]byte, MLKEMCiphertextSize)
	sharedSecret = make([]byte, MLKEMSharedKeySize)
	// nil seed draws encapsulation randomness from crypto/rand
	pub.EncapsulateTo(kemCiphertext, sharedSecret, nil)

	return sharedSecret, kemCiphertext, nil
}

// Decapsulate recovers the shared secret from a KEM ciphertext.
// ML-KEM uses implicit rejection: a ciphertext produced for a different
// keypair yields a valid-looking but unrelated secret, and the mismatch
// surfaces later as an authentication failure on the symmetric layer.
func (k *Keypair) Decapsulate(kemCiphertext []byte) ([]byte, error) {
	if len(kemCiphertext) != MLKEMCiphertextSize {
		return nil, ErrInvalidCiphertextSize
	}

	var priv mlkem768.PrivateKey
	if err := priv.Unpack(k.SecretKey); err != nil {
		return nil, err
	}

	sharedSecret := make([]byte, MLKEMSharedKeySize)
	priv.DecapsulateTo(sharedSecret, kemCiphertext)

	return sharedSecret, nil
}
