// Package server exposes the job search over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/filter"
	"github.com/samvad-hq/visajobs/internal/logger"
	"github.com/samvad-hq/visajobs/internal/search"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Searcher runs a job search.
type Searcher interface {
	Search(ctx context.Context, opts search.Options) (domain.SearchResult, error)
}

// Config carries the HTTP settings.
type Config struct {
	Addr          string
	AppName       string
	Env           string
	SearchTimeout time.Duration
	WindowDays    int
}

// Server wraps the gin engine and its http.Server.
type Server struct {
	cfg      Config
	engine   *gin.Engine
	http     *http.Server
	searcher Searcher
	log      logger.Logger
}

// New builds the router. zl may be nil, in which case requests are not logged.
func New(cfg Config, searcher Searcher, zl *logger.ZapLogger) (*Server, error) {
	if searcher == nil {
		return nil, errors.New("server requires a searcher")
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = filter.DefaultWindowDays
	}
	if cfg.Env != "development" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	base := zap.NewNop()
	var log logger.Logger = logger.NopLogger{}
	if zl != nil {
		base = zl.Zap()
		log = zl
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("configure trusted proxies: %w", err)
	}
	engine.Use(requestLogger(base), recoverer(base))
	engine.SetHTMLTemplate(pageTemplate)

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		searcher: searcher,
		log:      log,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.GET("/jobs", s.jobsPage)
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/api/search-jobs", s.searchJobs)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("http server listening", "http_server", map[string]any{"addr": s.cfg.Addr})
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.log.InfoObj("http server stopped", "http_server", map[string]any{"addr": s.cfg.Addr})
	return nil
}
