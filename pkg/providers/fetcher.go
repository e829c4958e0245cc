package providers

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewFetcherRegistry builds a registry for fetchers keyed by provider id.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		if f == nil {
			continue
		}
		if key := strings.ToLower(strings.TrimSpace(f.ID())); key != "" {
			reg.fetchers[key] = f
		}
	}
	return reg
}

// FetcherFor selects the fetcher registered for the provider id.
func (r *fetcherRegistry) FetcherFor(cfg Provider) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	key := strings.ToLower(strings.TrimSpace(cfg.ID))
	if key == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[key]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for provider %q (type %q)", cfg.ID, cfg.Type)
}

// DefaultFetcherRegistry wires the built-in catalog sources. A nil clock means time.Now.
func DefaultFetcherRegistry(now func() time.Time) FetcherRegistry {
	fetchers := make([]Fetcher, 0, len(catalog))
	for _, src := range catalog {
		fetchers = append(fetchers, newCatalogFetcher(src, now))
	}
	return NewFetcherRegistry(fetchers...)
}
