package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/subletter/subletter/internal/model"
)

func TestMemory_InsertAndLookup(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	sub, err := m.Insert(ctx, "user@example.com", map[string]string{"source": "footer"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if sub.ID == "" {
		t.Error("ID should be assigned at insertion")
	}
	if sub.Email != "user@example.com" {
		t.Errorf("Email mismatch: got %q", sub.Email)
	}
	if sub.Status != model.SubscriberStatusActive {
		t.Errorf("Status mismatch: got %q, want %q", sub.Status, model.SubscriberStatusActive)
	}
	if sub.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, found, err := m.Lookup(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if got.ID != sub.ID {
		t.Errorf("ID mismatch: got %q, want %q", got.ID, sub.ID)
	}
	if got.Metadata["source"] != "footer" {
		t.Errorf("Metadata mismatch: got %v", got.Metadata)
	}
}

func TestMemory_Lookup_Absent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, found, err := m.Lookup(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if found {
		t.Error("expected absence, got a record")
	}
}

func TestMemory_Insert_Duplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Insert(ctx, "user@example.com", nil); err != nil {
		t.Fatalf("Insert (first) failed: %v", err)
	}

	_, err := m.Insert(ctx, "user@example.com", nil)
	if !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got: %v", err)
	}

	if m.Len() != 1 {
		t.Errorf("expected 1 record, got %d", m.Len())
	}
}

func TestMemory_Insert_MetadataIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	meta := map[string]string{"source": "landing_page"}
	sub, err := m.Insert(ctx, "user@example.com", meta)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the caller's map after insertion must not affect the store
	meta["source"] = "changed"
	// Neither must mutating the returned copy
	sub.Metadata["source"] = "also changed"

	got, _, err := m.Lookup(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Metadata["source"] != "landing_page" {
		t.Errorf("stored metadata mutated: got %v", got.Metadata)
	}

	// And mutating the lookup result must not affect later lookups
	got.Metadata["source"] = "again"
	again, _, err := m.Lookup(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if again.Metadata["source"] != "landing_page" {
		t.Errorf("stored metadata mutated via lookup result: got %v", again.Metadata)
	}
}

func TestMemory_Insert_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const writers = 32

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
		conflict int
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Insert(ctx, "race@example.com", nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, ErrExists):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if inserted != 1 {
		t.Errorf("expected exactly one successful insert, got %d", inserted)
	}
	if conflict != writers-1 {
		t.Errorf("expected %d conflicts, got %d", writers-1, conflict)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 stored record, got %d", m.Len())
	}
}

func TestMemory_PingAndClose(t *testing.T) {
	m := NewMemory()

	if err := m.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
