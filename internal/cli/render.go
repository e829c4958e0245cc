// Package cli renders search results in a terminal.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/samvad-hq/visajobs/internal/domain"
)

// Renderer writes results to Out.
type Renderer struct {
	Out        io.Writer
	Plain      bool
	WindowDays int
	Now        func() time.Time
}

// Summary mirrors the results header of the web view.
func Summary(n int) string {
	noun := "jobs"
	if n == 1 {
		noun = "job"
	}
	return fmt.Sprintf("Found %d visa-sponsored %s", n, noun)
}

// EmptyMessage is shown when a search returns nothing.
func EmptyMessage(windowDays int) string {
	return fmt.Sprintf("No visa-sponsored jobs found in the last %d days. Try again later.", windowDays)
}

// Render prints every listing of res.
func (r Renderer) Render(res domain.SearchResult) error {
	if len(res.Jobs) == 0 {
		_, err := fmt.Fprintln(r.Out, r.warn(EmptyMessage(r.windowDays())))
		return err
	}

	if _, err := fmt.Fprintln(r.Out, r.header(Summary(len(res.Jobs)))); err != nil {
		return err
	}
	for _, job := range res.Jobs {
		if _, err := fmt.Fprintln(r.Out, r.card(job)); err != nil {
			return err
		}
	}
	return nil
}

func (r Renderer) card(job domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", job.Company)
	fmt.Fprintf(&b, "📍 %s\n", job.Location)
	if job.Salary != "" {
		fmt.Fprintf(&b, "💰 %s\n", job.Salary)
	}
	fmt.Fprintf(&b, "📅 Posted: %s%s\n", job.PostedDate, r.relative(job))
	fmt.Fprintf(&b, "✅ %s\n", r.visa(job.VisaInfo))
	fmt.Fprintf(&b, "Source: %s\n", job.Source)
	fmt.Fprintf(&b, "Apply Now → %s", job.URL)

	title := fmt.Sprintf("%s [%s]", job.Title, job.Country)
	if r.Plain {
		return title + "\n" + b.String() + "\n"
	}
	return pterm.DefaultBox.WithTitle(pterm.Bold.Sprint(title)).Sprint(b.String())
}

// relative renders the posted date as "(3 days ago)".
func (r Renderer) relative(job domain.Job) string {
	posted, ok := job.Posted()
	if !ok {
		return ""
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return " (" + humanize.RelTime(posted, now(), "ago", "from now") + ")"
}

func (r Renderer) header(s string) string {
	if r.Plain {
		return s + "\n"
	}
	return pterm.DefaultHeader.Sprint(s)
}

func (r Renderer) warn(s string) string {
	if r.Plain {
		return s
	}
	return pterm.Yellow(s)
}

func (r Renderer) visa(s string) string {
	if r.Plain {
		return s
	}
	return pterm.Green(s)
}

func (r Renderer) windowDays() int {
	if r.WindowDays <= 0 {
		return 14
	}
	return r.WindowDays
}
