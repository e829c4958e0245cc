package server

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/samvad-hq/visajobs/internal/domain"
)

const (
	pageName           = "index.html"
	fetchFailedMessage = "Failed to fetch jobs"
	emptyMessage       = "No visa-sponsored jobs found in the last %d days. Try again later."
)

//go:embed templates/index.html
var assets embed.FS

var pageTemplate = template.Must(template.New(pageName).ParseFS(assets, "templates/"+pageName))

// pageData feeds the single-page view.
type pageData struct {
	AppName    string
	WindowDays int
	Searched   bool
	Jobs       []domain.Job
	SearchDate string
	Error      string
}

func (s *Server) page() pageData {
	return pageData{AppName: s.cfg.AppName, WindowDays: s.cfg.WindowDays}
}

// Notice is the message shown above the results, if any.
func (p pageData) Notice() string {
	if p.Error != "" {
		return p.Error
	}
	if p.Searched && len(p.Jobs) == 0 {
		return fmt.Sprintf(emptyMessage, p.WindowDays)
	}
	return ""
}
