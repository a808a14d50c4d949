package storage

import (
	"sync"
	"testing"
	"time"
)

func TestMemoryStorePutGetLatest(t *testing.T) {
	store := NewMemoryStore()

	snap := Snapshot{
		ID:          "a1",
		Target:      "checkout",
		Kind:        KindPerformance,
		GeneratedAt: time.Now(),
		Summary:     "Performance telemetry summary:",
		Received:    20,
		Retained:    17,
	}

	if err := store.Put(snap); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, found, err := store.GetLatest("checkout")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if !found {
		t.Fatal("GetLatest() found = false, want true")
	}
	if got.ID != snap.ID {
		t.Errorf("ID = %q, want %q", got.ID, snap.ID)
	}
	if got.Retained != 17 {
		t.Errorf("Retained = %d, want 17", got.Retained)
	}
}

func TestMemoryStoreGetLatestMissing(t *testing.T) {
	store := NewMemoryStore()

	_, found, err := store.GetLatest("unknown")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if found {
		t.Error("GetLatest() found = true, want false")
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Put(Snapshot{ID: "old", Target: "checkout"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(Snapshot{ID: "new", Target: "checkout"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, found, err := store.GetLatest("checkout")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if !found {
		t.Fatal("GetLatest() found = false, want true")
	}
	if got.ID != "new" {
		t.Errorf("ID = %q, want %q", got.ID, "new")
	}
}

func TestMemoryStoreTargetsIsolated(t *testing.T) {
	store := NewMemoryStore()

	store.Put(Snapshot{ID: "p1", Target: "checkout", Kind: KindPerformance})
	store.Put(Snapshot{ID: "r1", Target: "inventory", Kind: KindResource})

	got, found, _ := store.GetLatest("inventory")
	if !found {
		t.Fatal("GetLatest(inventory) found = false, want true")
	}
	if got.ID != "r1" {
		t.Errorf("ID = %q, want %q", got.ID, "r1")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Put(Snapshot{ID: "x", Target: "checkout"})
		}()
		go func() {
			defer wg.Done()
			store.GetLatest("checkout")
		}()
	}
	wg.Wait()

	_, found, err := store.GetLatest("checkout")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if !found {
		t.Error("GetLatest() found = false, want true")
	}
}
