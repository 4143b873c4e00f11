// Package pqchat implements the end-to-end message encryption core of the
// pqchat messenger: post-quantum key lifecycle management and per-message
// hybrid encryption.
//
// Each message is protected independently with ML-KEM-768 key encapsulation
// and AES-256-GCM: the sender encapsulates against the recipient's published
// public key, derives a one-off AES key as SHA-256 of the shared secret, and
// seals the plaintext under a fresh 16-byte IV. The result is an [Envelope]
// of three base64 fields that travel and are stored together.
//
// There is no ratcheting, key rotation, or multi-device sync, and public
// keys fetched from the directory are trusted as stored; the protocol has no
// identity-binding channel.
//
// Basic usage:
//
//	client, err := pqchat.New("alice",
//	    pqchat.NewMemorySecretStore(),
//	    directory,
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Provision keys before anything else on session start.
//	if err := client.EnsureKeys(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	msg, err := client.Send(ctx, "bob", "hello quantum")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Rendering absorbs failures: a message that cannot be decrypted (foreign
// key, tampering, lost keypair) yields the "[Decryption failed]" sentinel
// instead of an error, so one bad message never blocks a conversation.
package pqchat
