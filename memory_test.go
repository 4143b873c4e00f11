package pqchat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemorySecretStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySecretStore()

	if _, err := s.Read(ctx, "missing"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Read(missing) = %v, want ErrSecretNotFound", err)
	}

	if err := s.Write(ctx, "k", "v1"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Write(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite error = %v", err)
	}

	got, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "v2" {
		t.Errorf("Read() = %q, want %q", got, "v2")
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Read(ctx, "k"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Read() after delete = %v, want ErrSecretNotFound", err)
	}

	// Deleting an absent key is not an error
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(absent) error = %v", err)
	}
}

func TestMemoryDirectory_MergeUpsert(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()

	if _, err := d.Get(ctx, "alice"); !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("Get(missing) = %v, want ErrIdentityNotFound", err)
	}

	if err := d.Upsert(ctx, "alice", map[string]string{"displayName": "Alice"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := d.Upsert(ctx, "alice", map[string]string{"publicKey": "abc"}); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	fields, err := d.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fields["displayName"] != "Alice" || fields["publicKey"] != "abc" {
		t.Errorf("merge lost a field: %v", fields)
	}

	// Mutating the returned map must not leak into the store
	fields["publicKey"] = "tampered"
	again, err := d.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again["publicKey"] != "abc" {
		t.Error("Get() returned a live reference to the record")
	}
}

func TestMemoryMessageStore_Order(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMessageStore()

	for i := 0; i < 5; i++ {
		msg := &Message{
			ID:             fmt.Sprintf("m%d", i),
			ConversationID: "alice|bob",
		}
		if err := s.Save(ctx, msg); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	msgs, err := s.List(ctx, "alice|bob")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(msgs))
	}
	for i, msg := range msgs {
		if msg.ID != fmt.Sprintf("m%d", i) {
			t.Errorf("msgs[%d].ID = %q, insertion order not preserved", i, msg.ID)
		}
	}

	empty, err := s.List(ctx, "nobody|nowhere")
	if err != nil {
		t.Fatalf("List(empty) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List(empty) returned %d messages", len(empty))
	}
}

func TestMemoryStores_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySecretStore()
	d := NewMemoryDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = s.Write(ctx, key, "v")
			_, _ = s.Read(ctx, key)
			_ = d.Upsert(ctx, "alice", map[string]string{key: "v"})
			_, _ = d.Get(ctx, "alice")
		}(i)
	}
	wg.Wait()
}
