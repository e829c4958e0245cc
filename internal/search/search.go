package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/filter"
	"github.com/samvad-hq/visajobs/internal/logger"
	"github.com/samvad-hq/visajobs/pkg/providers"
)

// ErrNoProviders is returned when the registry has nothing enabled to search.
var ErrNoProviders = errors.New("no providers configured for search")

// Options tune a single search.
type Options struct {
	// Strict keeps only listings whose title matches the profile and whose
	// visa text mentions sponsorship.
	Strict bool
}

// Notifier receives the listings of every successful search. It is called
// before Search returns, so implementations should hand off rather than publish.
type Notifier interface {
	Notify(ctx context.Context, jobs []domain.Job) error
}

// Service coordinates searches across the configured providers.
type Service struct {
	providers  *providers.Registry
	fetchers   providers.FetcherRegistry
	windowDays int
	now        func() time.Time
	log        logger.Logger
	notifier   Notifier
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for filtering and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWindowDays sets the recency window in days.
func WithWindowDays(days int) Option {
	return func(s *Service) { s.windowDays = days }
}

// WithNotifier hands every result to n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.log = logger.Ensure(log) }
}

// NewService wires a search service over a provider registry and its fetchers.
func NewService(reg *providers.Registry, fetchers providers.FetcherRegistry, opts ...Option) *Service {
	s := &Service{
		providers:  reg,
		fetchers:   fetchers,
		windowDays: filter.DefaultWindowDays,
		now:        time.Now,
		log:        logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs one pass over every enabled provider and returns the recent listings, newest first.
func (s *Service) Search(ctx context.Context, opts Options) (domain.SearchResult, error) {
	if s == nil || s.fetchers == nil {
		return domain.SearchResult{}, fmt.Errorf("search service is not initialized")
	}
	cfgs := s.providers.Enabled()
	if len(cfgs) == 0 {
		return domain.SearchResult{}, ErrNoProviders
	}

	start := s.now()
	collected, err := s.collect(ctx, cfgs)
	if err != nil {
		return domain.SearchResult{}, err
	}

	jobs := filter.Recent(collected, start, s.windowDays)
	if opts.Strict {
		jobs = filter.Strict(jobs)
	}
	filter.SortByPostedDesc(jobs)

	result := domain.NewSearchResult(jobs, start)
	s.log.InfoObj("search completed", "search_result", map[string]any{
		"providers_count": len(cfgs),
		"collected":       len(collected),
		"returned":        result.Total,
		"strict":          opts.Strict,
	})

	if s.notifier != nil && len(result.Jobs) > 0 {
		if err := s.notifier.Notify(ctx, result.Jobs); err != nil {
			s.log.WarnObj("listing notification failed", "notify_error", err.Error())
		}
	}
	return result, nil
}

// collect fetches all providers concurrently. A failing provider contributes
// nothing; only context cancellation aborts the pass.
func (s *Service) collect(ctx context.Context, cfgs []providers.Provider) ([]domain.Job, error) {
	perProvider := make([][]domain.Job, len(cfgs))

	// Per-provider errors are logged and dropped, never returned.
	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			jobs, err := s.runProvider(ctx, cfg)
			if err != nil {
				s.log.ErrorObj("provider search failed", "provider_error", map[string]any{
					"provider_id": cfg.ID,
					"error":       err.Error(),
				})
				return
			}
			perProvider[i] = jobs
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search aborted: %w", err)
	}

	var out []domain.Job
	for _, jobs := range perProvider {
		out = append(out, jobs...)
	}
	return out, nil
}

func (s *Service) runProvider(ctx context.Context, cfg providers.Provider) ([]domain.Job, error) {
	fetcher, err := s.fetchers.FetcherFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve fetcher for provider %s: %w", cfg.ID, err)
	}

	jobs, err := fetcher.Fetch(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetch provider %s: %w", cfg.ID, err)
	}

	s.log.DebugObj("provider search completed", "provider_result", map[string]any{
		"provider_id":    cfg.ID,
		"jobs_collected": len(jobs),
	})
	return jobs, nil
}
