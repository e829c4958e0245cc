package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which listings were already announced.

// Store tracks listing keys that have been published.
type Store interface {
	Close() error
	Seen(key string) (bool, error)
	Mark(key string) error
}

// Options controls retention for concrete store implementations.
type Options struct {
	ListingTTL      time.Duration
	CleanupInterval time.Duration
	// Now overrides the clock; tests use it to expire keys without sleeping.
	Now func() time.Time
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultListingTTL      = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	if opts.ListingTTL <= 0 {
		opts.ListingTTL = defaultListingTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// noopStore never remembers anything, so every listing counts as new.
type noopStore struct{}

func (noopStore) Close() error              { return nil }
func (noopStore) Seen(string) (bool, error) { return false, nil }
func (noopStore) Mark(string) error         { return nil }
