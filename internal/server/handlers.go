package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/search"
)

// searchJobs serves GET /api/search-jobs.
func (s *Server) searchJobs(c *gin.Context) {
	c.Header(domain.WindowDaysHeader, strconv.Itoa(s.cfg.WindowDays))
	res, err := s.runSearch(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.SearchFailed())
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, pageName, s.page())
}

// jobsPage renders the results server-side for clients without scripting.
func (s *Server) jobsPage(c *gin.Context) {
	data := s.page()
	data.Searched = true

	res, err := s.runSearch(c)
	if err != nil {
		data.Error = fetchFailedMessage
		c.HTML(http.StatusInternalServerError, pageName, data)
		return
	}
	data.Jobs = res.Jobs
	data.SearchDate = res.SearchDate
	c.HTML(http.StatusOK, pageName, data)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "app": s.cfg.AppName})
}

func (s *Server) runSearch(c *gin.Context) (domain.SearchResult, error) {
	strict, _ := strconv.ParseBool(c.Query("strict"))

	ctx := c.Request.Context()
	if s.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
	}

	res, err := s.searcher.Search(ctx, search.Options{Strict: strict})
	if err != nil {
		s.log.ErrorObj("job search failed", "search_error", map[string]any{
			"path":   c.Request.URL.Path,
			"strict": strict,
			"error":  err.Error(),
		})
		return domain.SearchResult{}, err
	}
	return res, nil
}
