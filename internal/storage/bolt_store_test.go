package storage

import (
	"path/filepath"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestBoltStoreMarksAndExpiresListings(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	store, err := openBolt(filepath.Join(t.TempDir(), "nested", "seen.db"), Options{
		ListingTTL:      time.Hour,
		CleanupInterval: 30 * time.Minute,
		Now:             clock.Now,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	seen, err := store.Seen("job-1")
	if err != nil || seen {
		t.Fatalf("expected unseen listing, seen=%v err=%v", seen, err)
	}

	if err := store.Mark("job-1"); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := store.Mark("job-2"); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	seen, err = store.Seen("job-1")
	if err != nil || !seen {
		t.Fatalf("expected listing marked as seen, got seen=%v err=%v", seen, err)
	}
	if n, err := store.Len(); err != nil || n != 2 {
		t.Fatalf("Len = %d, %v", n, err)
	}

	clock.t = clock.t.Add(2 * time.Hour)

	seen, err = store.Seen("job-1")
	if err != nil {
		t.Fatalf("Seen after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
	if n, err := store.Len(); err != nil || n != 0 {
		t.Fatalf("Len after sweep = %d, %v", n, err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Mark("x"); err != nil {
		t.Fatalf("noop store Mark: %v", err)
	}
	if seen, _ := store.Seen("x"); seen {
		t.Fatalf("noop store must never report a listing as seen")
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestNewStoreOpensBolt(t *testing.T) {
	store, err := NewStore("BBolt", filepath.Join(t.TempDir(), "seen.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore bbolt: %v", err)
	}
	defer store.Close()
	if err := store.Mark("k"); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if seen, err := store.Seen("k"); err != nil || !seen {
		t.Fatalf("expected seen, got %v %v", seen, err)
	}
}
