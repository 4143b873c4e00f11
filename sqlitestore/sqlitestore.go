// Package sqlitestore provides a SQLite-backed pqchat.MessageStore for local
// message history. Only envelopes are persisted; the database never sees
// plaintext.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	pqchat "github.com/pqchat/e2ee-go"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	sender          TEXT NOT NULL,
	recipient       TEXT NOT NULL,
	kem_ciphertext  TEXT NOT NULL,
	iv              TEXT NOT NULL,
	ciphertext      TEXT NOT NULL,
	sent_at         TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages (conversation_id, sent_at);
`

// Store is a SQLite-backed message store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the message database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists one message. The three envelope fields are stored together
// in the same row; they are never separated.
func (s *Store) Save(ctx context.Context, msg *pqchat.Message) error {
	if msg == nil || msg.Envelope == nil {
		return fmt.Errorf("message and envelope are required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages
			(id, conversation_id, sender, recipient, kem_ciphertext, iv, ciphertext, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Sender, msg.Recipient,
		msg.Envelope.KEMCiphertext, msg.Envelope.IV, msg.Envelope.Ciphertext,
		msg.SentAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List returns the conversation's messages, oldest first.
func (s *Store) List(ctx context.Context, conversationID string) ([]*pqchat.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, recipient, kem_ciphertext, iv, ciphertext, sent_at
		 FROM messages
		 WHERE conversation_id = ?
		 ORDER BY sent_at, id`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []*pqchat.Message
	for rows.Next() {
		var (
			msg    pqchat.Message
			env    pqchat.Envelope
			sentAt time.Time
		)
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Recipient,
			&env.KEMCiphertext, &env.IV, &env.Ciphertext, &sentAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Envelope = &env
		msg.SentAt = sentAt.UTC()
		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return msgs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
