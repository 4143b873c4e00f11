package sqlitestore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	pqchat "github.com/pqchat/e2ee-go"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "messages.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testMessage(i int, sentAt time.Time) *pqchat.Message {
	return &pqchat.Message{
		ID:             fmt.Sprintf("msg-%d", i),
		ConversationID: "alice|bob",
		Sender:         "alice",
		Recipient:      "bob",
		Envelope: &pqchat.Envelope{
			KEMCiphertext: fmt.Sprintf("kem-%d", i),
			IV:            fmt.Sprintf("iv-%d", i),
			Ciphertext:    fmt.Sprintf("ct-%d", i),
		},
		SentAt: sentAt,
	}
}

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.Save(ctx, testMessage(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}

	msgs, err := s.List(ctx, "alice|bob")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}

	for i, msg := range msgs {
		if msg.ID != fmt.Sprintf("msg-%d", i) {
			t.Errorf("msgs[%d].ID = %q, not oldest first", i, msg.ID)
		}
		if msg.Envelope == nil {
			t.Fatalf("msgs[%d] has no envelope", i)
		}
		if msg.Envelope.KEMCiphertext != fmt.Sprintf("kem-%d", i) ||
			msg.Envelope.IV != fmt.Sprintf("iv-%d", i) ||
			msg.Envelope.Ciphertext != fmt.Sprintf("ct-%d", i) {
			t.Errorf("msgs[%d] envelope fields did not round trip", i)
		}
		if msg.Sender != "alice" || msg.Recipient != "bob" {
			t.Errorf("msgs[%d] participants did not round trip", i)
		}
	}
}

func TestStore_List_OrderedBySentAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// Insert out of chronological order
	for _, i := range []int{2, 0, 1} {
		if err := s.Save(ctx, testMessage(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	msgs, err := s.List(ctx, "alice|bob")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for i, msg := range msgs {
		if msg.ID != fmt.Sprintf("msg-%d", i) {
			t.Errorf("msgs[%d].ID = %q, want msg-%d", i, msg.ID, i)
		}
	}
}

func TestStore_List_EmptyConversation(t *testing.T) {
	s := newTestStore(t)

	msgs, err := s.List(context.Background(), "nobody|nowhere")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages, want 0", len(msgs))
	}
}

func TestStore_Save_Validation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Save(ctx, nil); err == nil {
		t.Error("expected error for nil message")
	}
	if err := s.Save(ctx, &pqchat.Message{ID: "x"}); err == nil {
		t.Error("expected error for message without envelope")
	}
}

func TestStore_Save_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	msg := testMessage(0, time.Now())
	if err := s.Save(ctx, msg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, msg); err == nil {
		t.Error("expected primary key violation on duplicate ID")
	}
}

func TestStore_ReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "messages.db")

	s1, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s1.Save(ctx, testMessage(0, time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()

	msgs, err := s2.List(ctx, "alice|bob")
	if err != nil {
		t.Fatalf("List() after reopen error = %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("got %d messages after reopen, want 1", len(msgs))
	}
}

var _ pqchat.MessageStore = (*Store)(nil)
