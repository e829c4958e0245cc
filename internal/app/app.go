package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/visajobs/internal/config"
	"github.com/samvad-hq/visajobs/internal/logger"
	"github.com/samvad-hq/visajobs/internal/notify"
	"github.com/samvad-hq/visajobs/internal/search"
	"github.com/samvad-hq/visajobs/internal/server"
	"github.com/samvad-hq/visajobs/internal/storage"
	"github.com/samvad-hq/visajobs/pkg/providers"
	"github.com/samvad-hq/visajobs/pkg/publishers"
	"golang.org/x/sync/errgroup"
)

// App is the visajobs runtime: the HTTP server plus the optional watch loop
// that publishes new listings.
type App struct {
	cfg           *config.Config
	providerReg   *providers.Registry
	fanout        *publishers.Fanout
	store         storage.Store
	queue         *notify.Queue
	search        *search.Service
	server        *server.Server
	watchInterval time.Duration
	now           func() time.Time
	log           logger.Logger
}

// New builds the runtime from config. zl may be nil in tests.
func New(ctx context.Context, cfg *config.Config, zl *logger.ZapLogger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	var log logger.Logger = logger.NopLogger{}
	if zl != nil {
		log = zl
	}
	a := &App{cfg: cfg, watchInterval: cfg.WatchInterval, now: time.Now, log: log}

	providerReg, err := loadProviders(cfg.ProvidersFile)
	if err != nil {
		return nil, err
	}
	a.providerReg = providerReg
	providerIDs := make([]string, 0, len(providerReg.All()))
	for _, p := range providerReg.Enabled() {
		providerIDs = append(providerIDs, p.ID)
	}
	log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
		"count": len(providerIDs),
		"ids":   providerIDs,
	})
	fetchers := providers.DefaultFetcherRegistry(a.now)
	if err := checkFetchers(providerReg, fetchers); err != nil {
		return nil, err
	}
	lintCatalog(providerReg, a.now(), log)

	opts := []search.Option{
		search.WithClock(a.now),
		search.WithWindowDays(cfg.RecencyWindowDays),
		search.WithLogger(log),
	}

	if err := a.initNotifications(ctx); err != nil {
		a.close()
		return nil, err
	}
	if a.fanout.Size() > 0 {
		a.queue = notify.NewQueue(notify.New(a.store, a.fanout, a.now, log), 0, log)
		opts = append(opts, search.WithNotifier(a.queue))
	}

	a.search = search.NewService(providerReg, fetchers, opts...)

	a.server, err = server.New(server.Config{
		Addr:          cfg.HTTPAddr,
		AppName:       cfg.AppName,
		Env:           cfg.Env,
		SearchTimeout: cfg.SearchTimeout,
		WindowDays:    cfg.RecencyWindowDays,
	}, a.search, zl)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init http server: %w", err)
	}
	return a, nil
}

// checkFetchers rejects enabled providers no fetcher can serve, so a typo in
// the providers file fails startup instead of every search.
func checkFetchers(reg *providers.Registry, fetchers providers.FetcherRegistry) error {
	for _, p := range reg.Enabled() {
		if _, err := fetchers.FetcherFor(p); err != nil {
			return fmt.Errorf("providers registry: %w", err)
		}
	}
	return nil
}

func loadProviders(path string) (*providers.Registry, error) {
	if path == "" {
		return providers.DefaultRegistry(), nil
	}
	reg, err := providers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}
	return reg, nil
}

// initNotifications builds publishers and the seen-listing store. Without a
// publishers file notifications stay off.
func (a *App) initNotifications(ctx context.Context) error {
	if a.cfg.PublishersFile == "" {
		a.log.InfoObj("notifications disabled", "publishers_file", "")
		return nil
	}

	publisherReg, err := publishers.LoadRegistry(a.cfg.PublishersFile)
	if err != nil {
		return fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		a.log.WarnObj("no enabled publishers; notifications disabled", "publishers_file", a.cfg.PublishersFile)
		return nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, a.log)
	if err != nil {
		return fmt.Errorf("build publishers: %w", err)
	}
	a.fanout = publishers.NewFanout(pubClients)

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	a.log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(a.cfg.StorageType, a.cfg.BBoltPath, storage.Options{
		ListingTTL:      a.cfg.StorageTTL,
		CleanupInterval: a.cfg.StorageCleanupInterval,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	a.store = store
	a.log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     a.cfg.StorageType,
		"path":                     a.cfg.BBoltPath,
		"listing_ttl_seconds":      int(a.cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(a.cfg.StorageCleanupInterval.Seconds()),
	})
	return nil
}

// Search exposes the wired search service.
func (a *App) Search() *search.Service { return a.search }

// Run serves HTTP, and watches for new listings when configured, until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app is not initialized")
	}
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.server.Run(gctx) })
	if a.queue != nil {
		g.Go(func() error { return a.queue.Run(gctx) })
	}

	switch {
	case a.watchInterval > 0 && a.fanout.Size() > 0:
		g.Go(func() error { return a.watch(gctx) })
	case a.watchInterval > 0:
		a.log.WarnObj("watch interval set but no publishers configured; watcher idle", "watch_interval", a.watchInterval.String())
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watch runs a search on start and on every tick so new listings get published.
func (a *App) watch(ctx context.Context) error {
	a.log.InfoObj("watch loop starting", "watch_state", map[string]any{
		"providers_count":  len(a.providerReg.Enabled()),
		"publishers_count": a.fanout.Size(),
		"watch_interval":   a.watchInterval.String(),
	})

	a.runOnce(ctx)

	ticker := time.NewTicker(a.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.InfoObj("watch loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *App) runOnce(ctx context.Context) {
	start := time.Now()
	res, err := a.search.Search(ctx, search.Options{})
	if err != nil {
		if ctx.Err() == nil {
			a.log.ErrorObj("scheduled search failed", "error", err.Error())
		}
		return
	}
	a.log.InfoObj("scheduled search completed", "watch_meta", map[string]any{
		"total":      res.Total,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

// close releases publishers and the store, logging any errors encountered.
func (a *App) close() {
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.ErrorObj("storage close failed", "error", err.Error())
	}
	a.store = nil
}
