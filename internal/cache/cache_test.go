package cache

import (
	"testing"
	"time"
)

func TestStore_GetMissing(t *testing.T) {
	store := New[string]()

	if _, ok := store.Get("BTC"); ok {
		t.Error("expected miss on empty store")
	}
}

func TestStore_PutAndGet(t *testing.T) {
	store := New[string]()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Put("BTC", "result-1", at)

	entry, ok := store.Get("BTC")
	if !ok {
		t.Fatal("expected hit")
	}
	if entry.Value != "result-1" {
		t.Errorf("Value = %q", entry.Value)
	}
	if !entry.ComputedAt.Equal(at) {
		t.Errorf("ComputedAt = %v, want %v", entry.ComputedAt, at)
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	store := New[string]()
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(10 * time.Minute)

	store.Put("BTC", "result-1", first)
	store.Put("BTC", "result-2", second)

	entry, _ := store.Get("BTC")
	if entry.Value != "result-2" || !entry.ComputedAt.Equal(second) {
		t.Errorf("expected unconditional replacement, got %+v", entry)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := New[int]()
	now := time.Now()

	store.Put("BTC", 1, now)
	store.Put("ETH", 2, now)

	if entry, _ := store.Get("BTC"); entry.Value != 1 {
		t.Errorf("BTC = %d", entry.Value)
	}
	if entry, _ := store.Get("ETH"); entry.Value != 2 {
		t.Errorf("ETH = %d", entry.Value)
	}
}
