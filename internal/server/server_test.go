package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/logger"
	"github.com/samvad-hq/visajobs/internal/search"
	"github.com/samvad-hq/visajobs/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var now = time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

type stubSearcher struct {
	res   domain.SearchResult
	err   error
	opts  []search.Options
	panic bool
}

func (s *stubSearcher) Search(ctx context.Context, opts search.Options) (domain.SearchResult, error) {
	if s.panic {
		panic("boom")
	}
	s.opts = append(s.opts, opts)
	return s.res, s.err
}

func catalogSearcher() *search.Service {
	clock := func() time.Time { return now }
	return search.NewService(providers.DefaultRegistry(), providers.DefaultFetcherRegistry(clock), search.WithClock(clock))
}

func newServer(t *testing.T, s Searcher) *Server {
	t.Helper()
	srv, err := New(Config{AppName: "visajobs", SearchTimeout: time.Second}, s, nil)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchJobsEndpoint(t *testing.T) {
	srv := newServer(t, catalogSearcher())

	rec := get(t, srv, "/api/search-jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "14", rec.Header().Get(domain.WindowDaysHeader))

	var body domain.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 13, body.Total)
	assert.Len(t, body.Jobs, 13)
	assert.Equal(t, "2026-10-18T08:00:00.000Z", body.SearchDate)
	assert.Equal(t, "Tier 2 sponsorship available", body.Jobs[1].VisaInfo)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "searchDate")
}

func TestSearchJobsReportsConfiguredWindow(t *testing.T) {
	srv, err := New(Config{AppName: "visajobs", WindowDays: 7}, &stubSearcher{res: domain.NewSearchResult(nil, now)}, nil)
	require.NoError(t, err)

	rec := get(t, srv, "/api/search-jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Header().Get(domain.WindowDaysHeader))
}

func TestSearchJobsStrictFlag(t *testing.T) {
	stub := &stubSearcher{res: domain.NewSearchResult(nil, now)}
	srv := newServer(t, stub)

	get(t, srv, "/api/search-jobs?strict=true")
	get(t, srv, "/api/search-jobs?strict=nonsense")
	get(t, srv, "/api/search-jobs")

	require.Len(t, stub.opts, 3)
	assert.True(t, stub.opts[0].Strict)
	assert.False(t, stub.opts[1].Strict)
	assert.False(t, stub.opts[2].Strict)
}

func TestSearchJobsEmptyResultHasEmptyArray(t *testing.T) {
	srv := newServer(t, &stubSearcher{res: domain.NewSearchResult(nil, now)})

	rec := get(t, srv, "/api/search-jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[],"total":0,"searchDate":"2026-10-18T08:00:00.000Z"}`, rec.Body.String())
}

func TestSearchJobsFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	srv, err := New(Config{AppName: "visajobs"}, &stubSearcher{err: errors.New("portal down")}, logger.NewZapLogger(zap.New(core)))
	require.NoError(t, err)

	rec := get(t, srv, "/api/search-jobs")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to search jobs","jobs":[]}`, rec.Body.String())
	assert.Equal(t, "14", rec.Header().Get(domain.WindowDaysHeader))
	assert.Equal(t, 1, logs.FilterMessage("job search failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("http request").Len())
}

func TestPanicIsRecovered(t *testing.T) {
	srv := newServer(t, &stubSearcher{panic: true})

	rec := get(t, srv, "/api/search-jobs")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to search jobs","jobs":[]}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	rec := get(t, newServer(t, &stubSearcher{}), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","app":"visajobs"}`, rec.Body.String())
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestIndexPage(t *testing.T) {
	stub := &stubSearcher{}
	rec := get(t, newServer(t, stub), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parse(t, rec)
	assert.Equal(t, "Visa-Sponsored Job Finder", doc.Find("h1").Text())
	assert.Equal(t, "Search Latest Jobs", doc.Find("button#search").Text())
	assert.Contains(t, doc.Find(".countries").Text(), "Netherlands")
	assert.Equal(t, "Searching official portals...", strings.TrimSpace(doc.Find("#loading").Text()))
	_, hidden := doc.Find("#error").Attr("hidden")
	assert.True(t, hidden)
	assert.Zero(t, doc.Find(".job-card").Length())
	assert.Empty(t, stub.opts, "index must not search")
}

func TestJobsPageRendersCards(t *testing.T) {
	rec := get(t, newServer(t, catalogSearcher()), "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parse(t, rec)
	assert.Equal(t, "Found 13 visa-sponsored jobs", doc.Find(".summary").Text())

	cards := doc.Find(".job-card")
	require.Equal(t, 13, cards.Length())

	first := cards.First()
	assert.Equal(t, "Video Editor & Social Media Manager", first.Find(".job-title").Text())
	assert.Equal(t, "Netherlands", first.Find(".country").Text())
	assert.Equal(t, "📅 Posted: 2026-10-16", first.Find(".posted").Text())
	href, _ := first.Find("a.apply").Attr("href")
	assert.Equal(t, "https://www.werk.nl", href)
	assert.Equal(t, "Source: Werk.nl", first.Find(".source").Text())
}

func TestJobsPageSingularAndNoSalary(t *testing.T) {
	job := domain.Job{Title: "Community Manager", Country: "Ireland", PostedDate: "2026-10-10", URL: "https://www.publicjobs.ie"}
	rec := get(t, newServer(t, &stubSearcher{res: domain.NewSearchResult([]domain.Job{job}, now)}), "/jobs")

	doc := parse(t, rec)
	assert.Equal(t, "Found 1 visa-sponsored job", doc.Find(".summary").Text())
	assert.Zero(t, doc.Find(".salary").Length())
}

func TestJobsPageEmptyAndError(t *testing.T) {
	rec := get(t, newServer(t, &stubSearcher{res: domain.NewSearchResult(nil, now)}), "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No visa-sponsored jobs found in the last 14 days. Try again later.", parse(t, rec).Find("#error").Text())

	rec = get(t, newServer(t, &stubSearcher{err: errors.New("down")}), "/jobs")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch jobs", parse(t, rec).Find("#error").Text())
}

func TestNewRequiresSearcher(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.Error(t, err)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv, err := New(Config{Addr: "127.0.0.1:0"}, &stubSearcher{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
