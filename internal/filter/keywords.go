package filter

import (
	"strings"

	"github.com/samvad-hq/visajobs/internal/domain"
)

// ProfileKeywords are the job categories the finder targets.
var ProfileKeywords = []string{
	"marketing",
	"content",
	"video",
	"videography",
	"editor",
	"editing",
	"community",
	"wordpress",
	"social media",
	"digital marketing",
	"content creator",
}

// VisaKeywords signal that an employer sponsors or supports work visas.
var VisaKeywords = []string{
	"visa sponsorship",
	"work permit",
	"tier 2",
	"skilled worker",
	"sponsorship",
	"international",
	"relocat",
	"work visa",
	"right to work",
	"will sponsor",
}

// MatchesProfile reports whether text mentions any profile keyword.
func MatchesProfile(text string) bool {
	return containsAny(text, ProfileKeywords)
}

// HasVisaSponsorship reports whether text mentions any visa keyword.
func HasVisaSponsorship(text string) bool {
	return containsAny(text, VisaKeywords)
}

// Strict keeps jobs whose title fits the profile and whose visa info mentions sponsorship.
func Strict(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if MatchesProfile(j.Title) && HasVisaSponsorship(j.VisaInfo) {
			out = append(out, j)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
