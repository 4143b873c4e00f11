package crypto

import "crypto/sha256"

// DeriveMessageKey derives the AES-256 key for one message as the SHA-256
// digest of the full KEM shared secret. The secret is always hashed, never
// truncated or sliced, so the derivation is uniform across KEM parameter
// sets whose native secret length differs from 32 bytes.
func DeriveMessageKey(sharedSecret []byte) []byte {
	key := sha256.Sum256(sharedSecret)
	return key[:]
}
