package filter

import (
	"math"
	"sort"
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
)

// DefaultWindowDays is the recency window applied to searches.
const DefaultWindowDays = 14

const day = 24 * time.Hour

// AgeDays returns the whole number of days (rounded up) between the posted
// date and now, in either direction.
func AgeDays(postedDate string, now time.Time) (int, bool) {
	posted, ok := domain.Job{PostedDate: postedDate}.Posted()
	if !ok {
		return 0, false
	}
	diff := now.Sub(posted)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day))), true
}

// IsRecent reports whether postedDate lies within windowDays of now.
// Future dates count as recent too. Unparseable dates never do.
func IsRecent(postedDate string, now time.Time, windowDays int) bool {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	age, ok := AgeDays(postedDate, now)
	if !ok {
		return false
	}
	return age <= windowDays
}

// Recent keeps the jobs posted within the window, preserving order.
func Recent(jobs []domain.Job, now time.Time, windowDays int) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if IsRecent(j.PostedDate, now, windowDays) {
			out = append(out, j)
		}
	}
	return out
}

// SortByPostedDesc orders jobs newest first. Equal dates keep their input
// order and unparseable dates sink to the end.
func SortByPostedDesc(jobs []domain.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		a, okA := jobs[i].Posted()
		b, okB := jobs[k].Posted()
		switch {
		case okA && okB:
			return a.After(b)
		case okA:
			return true
		default:
			return false
		}
	})
}
