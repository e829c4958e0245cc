package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/visajobs/internal/domain"
)

// EventTypeJobListed is emitted the first time a listing shows up in a search.
const EventTypeJobListed = "job.listed"

// Event represents the payload published downstream.
type Event struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	JobKey      string     `json:"job_key"`
	Job         domain.Job `json:"job"`
	CollectedAt time.Time  `json:"collected_at"`
}

// NewEvent wraps a listing in a job.listed event stamped with at.
func NewEvent(job domain.Job, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        EventTypeJobListed,
		JobKey:      job.Key(),
		Job:         job,
		CollectedAt: at.UTC(),
	}
}

// attributes are the routing hints attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"country":    e.Job.Country,
		"source":     e.Job.Source,
	}
}
