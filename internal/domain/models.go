package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"time"
)

// Domain contains core models shared by the search, server and notification layers.

// PostedDateLayout is the calendar-date format used for Job.PostedDate.
const PostedDateLayout = "2006-01-02"

// WindowDaysHeader carries the server's recency window on search responses.
const WindowDaysHeader = "X-Recency-Window-Days"

// SearchDateLayout renders search timestamps with millisecond precision in UTC.
const SearchDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Job is a single visa-sponsored job listing.
type Job struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Salary     string `json:"salary,omitempty"`
	PostedDate string `json:"postedDate"`
	URL        string `json:"url"`
	Source     string `json:"source"`
	VisaInfo   string `json:"visaInfo"`
	Country    string `json:"country"`
}

// Key identifies a listing across searches. Listings carry no id of their own.
func (j Job) Key() string {
	sum := sha1.Sum([]byte(j.Source + "|" + j.Title + "|" + j.Company + "|" + j.Location))
	return hex.EncodeToString(sum[:])
}

// Posted parses PostedDate as a UTC calendar date.
func (j Job) Posted() (time.Time, bool) {
	t, err := time.ParseInLocation(PostedDateLayout, j.PostedDate, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SearchResult is the payload returned by a job search.
type SearchResult struct {
	Jobs       []Job  `json:"jobs"`
	Total      int    `json:"total"`
	SearchDate string `json:"searchDate"`
}

// NewSearchResult builds a result stamped with the given search time.
func NewSearchResult(jobs []Job, at time.Time) SearchResult {
	if jobs == nil {
		jobs = []Job{}
	}
	return SearchResult{
		Jobs:       jobs,
		Total:      len(jobs),
		SearchDate: at.UTC().Format(SearchDateLayout),
	}
}

// ErrorResponse is returned when a search fails.
type ErrorResponse struct {
	Error string `json:"error"`
	Jobs  []Job  `json:"jobs"`
}

// SearchFailed is the generic failure body.
func SearchFailed() ErrorResponse {
	return ErrorResponse{Error: "Failed to search jobs", Jobs: []Job{}}
}
