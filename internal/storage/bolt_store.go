package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	listingBucket    = "listings"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("listing bucket missing")

// boltStore keeps listing keys with an expiry timestamp in a single BoltDB bucket.
type boltStore struct {
	db              *bolt.DB
	now             func() time.Time
	ttl             time.Duration
	cleanupInterval time.Duration

	mu          sync.Mutex
	lastCleanup time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(listingBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &boltStore{
		db:              db,
		now:             now,
		ttl:             opts.ListingTTL,
		cleanupInterval: opts.CleanupInterval,
		lastCleanup:     now(),
	}, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Seen reports whether key was marked and has not expired. Expired keys are removed on read.
func (b *boltStore) Seen(key string) (bool, error) {
	now := b.now()
	if err := b.sweep(now); err != nil {
		return false, err
	}

	seen := false
	err := b.withBucket(func(bucket *bolt.Bucket) error {
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		if live(raw, now) {
			seen = true
			return nil
		}
		return bucket.Delete([]byte(key))
	})
	return seen, err
}

// Mark records key as seen until the TTL elapses.
func (b *boltStore) Mark(key string) error {
	now := b.now()
	if err := b.sweep(now); err != nil {
		return err
	}

	expiry := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(expiry, uint64(now.Add(b.ttl).Unix()))
	return b.withBucket(func(bucket *bolt.Bucket) error {
		return bucket.Put([]byte(key), expiry)
	})
}

// Len counts the live keys.
func (b *boltStore) Len() (int, error) {
	now := b.now()
	n := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(listingBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.ForEach(func(_, v []byte) error {
			if live(v, now) {
				n++
			}
			return nil
		})
	})
	return n, err
}

func (b *boltStore) withBucket(fn func(*bolt.Bucket) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(listingBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return fn(bucket)
	})
}

// sweep drops expired keys at most once per cleanup interval.
func (b *boltStore) sweep(now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastCleanup) < b.cleanupInterval {
		return nil
	}

	err := b.withBucket(func(bucket *bolt.Bucket) error {
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if live(v, now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired listings: %w", err)
	}
	b.lastCleanup = now
	return nil
}

func live(value []byte, now time.Time) bool {
	if len(value) != expiryValueBytes {
		return false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	return unix > 0 && time.Unix(unix, 0).After(now)
}
