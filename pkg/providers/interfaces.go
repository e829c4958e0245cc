package providers

import (
	"context"

	"github.com/samvad-hq/visajobs/internal/domain"
)

// Fetcher produces the job listings of one provider.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Provider) ([]domain.Job, error)
}

// FetcherRegistry resolves the fetcher implementation for a given provider config.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}
