package pqchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeDirectoryBackend is a minimal in-memory implementation of the directory
// REST API with merge-PATCH semantics.
type fakeDirectoryBackend struct {
	mu      sync.Mutex
	records map[string]map[string]string
}

func newFakeDirectoryBackend() *fakeDirectoryBackend {
	return &fakeDirectoryBackend{records: make(map[string]map[string]string)}
}

func (b *fakeDirectoryBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/directory/", func(w http.ResponseWriter, r *http.Request) {
		identity := r.URL.Path[len("/api/directory/"):]

		b.mu.Lock()
		defer b.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			record, ok := b.records[identity]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"fields": record})

		case http.MethodPatch:
			var body struct {
				Fields map[string]string `json:"fields"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			record, ok := b.records[identity]
			if !ok {
				record = make(map[string]string)
				b.records[identity] = record
			}
			for k, v := range body.Fields {
				record[k] = v
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"fields": record})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestHTTPDirectory_UpsertAndGet(t *testing.T) {
	backend := newFakeDirectoryBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	dir, err := NewHTTPDirectory(server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewHTTPDirectory() error = %v", err)
	}

	ctx := context.Background()
	if err := dir.Upsert(ctx, "alice", map[string]string{"displayName": "Alice"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := dir.Upsert(ctx, "alice", map[string]string{"publicKey": "abc"}); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	fields, err := dir.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fields["displayName"] != "Alice" {
		t.Error("merge PATCH lost the displayName field")
	}
	if fields["publicKey"] != "abc" {
		t.Error("merge PATCH lost the publicKey field")
	}
}

func TestHTTPDirectory_Get_NotFound(t *testing.T) {
	backend := newFakeDirectoryBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	dir, err := NewHTTPDirectory(server.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPDirectory() error = %v", err)
	}

	_, err = dir.Get(context.Background(), "nobody")
	if !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("Get(missing) = %v, want ErrIdentityNotFound", err)
	}
}

func TestHTTPDirectory_BearerAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"fields": map[string]string{}})
	}))
	defer server.Close()

	dir, err := NewHTTPDirectory(server.URL, "secret-token")
	if err != nil {
		t.Fatalf("NewHTTPDirectory() error = %v", err)
	}
	if _, err := dir.Get(context.Background(), "alice"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestHTTPDirectory_AsDirectoryForClient(t *testing.T) {
	backend := newFakeDirectoryBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	dir, err := NewHTTPDirectory(server.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPDirectory() error = %v", err)
	}

	ctx := context.Background()
	msgs := NewMemoryMessageStore()

	alice, err := New("alice", NewMemorySecretStore(), dir, WithMessageStore(msgs))
	if err != nil {
		t.Fatalf("New(alice) error = %v", err)
	}
	bob, err := New("bob", NewMemorySecretStore(), dir, WithMessageStore(msgs))
	if err != nil {
		t.Fatalf("New(bob) error = %v", err)
	}
	if err := alice.EnsureKeys(ctx); err != nil {
		t.Fatalf("alice EnsureKeys() error = %v", err)
	}
	if err := bob.EnsureKeys(ctx); err != nil {
		t.Fatalf("bob EnsureKeys() error = %v", err)
	}

	if _, err := alice.Send(ctx, "bob", "hello quantum"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rendered, err := bob.Conversation(ctx, "alice")
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if len(rendered) != 1 || rendered[0].Text != "hello quantum" {
		t.Fatalf("Conversation() = %+v, want one readable message", rendered)
	}
}

func TestNewHTTPDirectory_RequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPDirectory("", ""); err == nil {
		t.Error("expected error for empty base URL")
	}
}

var _ Directory = (*HTTPDirectory)(nil)

func ExampleNewHTTPDirectory() {
	dir, err := NewHTTPDirectory("https://directory.example.com", "api-key")
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = dir
}
