package pqchat

import (
	"sort"
	"strings"
	"time"
)

// Message is one stored chat message: routing metadata plus the encrypted
// envelope. The plaintext is never part of a Message.
type Message struct {
	// ID is the unique message identifier.
	ID string `json:"id"`
	// ConversationID is the canonical identifier of the sender/recipient pair.
	ConversationID string `json:"conversationId"`
	// Sender is the identity that encrypted the message.
	Sender string `json:"sender"`
	// Recipient is the identity whose public key the envelope is bound to.
	Recipient string `json:"recipient"`
	// Envelope is the encrypted message content.
	Envelope *Envelope `json:"envelope"`
	// SentAt is when the message was created.
	SentAt time.Time `json:"sentAt"`
}

// DecryptedMessage is a Message rendered to plaintext. Text holds the
// decryption sentinel when the local key cannot open the envelope.
type DecryptedMessage struct {
	ID        string
	Sender    string
	Recipient string
	SentAt    time.Time
	Text      string
}

// ConversationIDFor returns the canonical conversation identifier for a pair
// of identities. It is symmetric: the pair (a, b) and (b, a) map to the same
// conversation.
func ConversationIDFor(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}
