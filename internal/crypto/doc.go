// Package crypto provides the cryptographic primitives for the pqchat
// message protocol: post-quantum key encapsulation and authenticated
// symmetric encryption.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - ML-KEM-768 (NIST FIPS 203, the standardized Kyber768 parameter set):
//     post-quantum key encapsulation mechanism for establishing per-message
//     shared secrets. Provides 192-bit classical and quantum security levels.
//
//   - AES-256-GCM: authenticated encryption with associated data (AEAD)
//     for encrypting message content. Provides confidentiality and integrity.
//     The protocol fixes a 16-byte IV, so GCM is instantiated with a
//     non-default nonce size.
//
//   - SHA-256: key derivation. The AES key for a message is the SHA-256
//     digest of the full KEM shared secret, hashed unconditionally so the
//     derivation does not depend on the KEM's native secret length.
//
// # Security Model
//
// Each message encryption is fully self-contained: a fresh KEM encapsulation
// and a fresh IV, with no session or handshake state between calls. There is
// no signature scheme and no binding between a public key and the identity
// that published it; key authenticity is out of scope for this protocol.
//
// AES-GCM IVs MUST be unique for each encryption with the same key. Nonce
// reuse completely breaks the security of AES-GCM, allowing attackers to
// recover the authentication key and forge messages.
//
// # Key Management
//
// Use [GenerateKeypair] to create a new ML-KEM-768 keypair. The secret key
// contains an embedded copy of the public key at offset 1152, which can be
// extracted with [KeypairFromSecretKey].
//
// Keep secret keys secure. They should never be logged, transmitted in
// plaintext, or stored in version control.
//
// # Base64 Encoding
//
// Envelope fields and directory-published keys use standard base64 with
// padding ([ToBase64]/[FromBase64]); [DecodeBase64] accepts either alphabet
// for values written by other clients.
package crypto
