package pqchat

import "fmt"

// Envelope is the wire/storage representation of one encrypted message:
// three opaque, independently base64-encoded fields. An envelope is
// meaningless without the private key of the recipient it was encapsulated
// for, and the three fields must travel and be stored together.
type Envelope struct {
	// KEMCiphertext is the ML-KEM-768 encapsulation output bound to the
	// recipient's public key.
	KEMCiphertext string `json:"kemCiphertext"`
	// IV is the fresh 16-byte random nonce drawn for this envelope.
	IV string `json:"iv"`
	// Ciphertext is the AES-256-GCM output with the authentication tag
	// appended.
	Ciphertext string `json:"cipherText"`
}

// Validate checks that all three fields are present. It does not decode them.
func (e *Envelope) Validate() error {
	if e == nil {
		return fmt.Errorf("envelope is nil")
	}
	if e.KEMCiphertext == "" {
		return fmt.Errorf("envelope missing kemCiphertext")
	}
	if e.IV == "" {
		return fmt.Errorf("envelope missing iv")
	}
	if e.Ciphertext == "" {
		return fmt.Errorf("envelope missing cipherText")
	}
	return nil
}
