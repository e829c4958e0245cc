package publishers

import (
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
)

func sampleEvent() Event {
	return NewEvent(domain.Job{
		Title:      "Content Marketing Manager",
		Company:    "TechVision Ltd",
		Location:   "Manchester, UK",
		PostedDate: "2026-10-15",
		URL:        "https://www.reed.co.uk",
		Source:     "Reed.co.uk",
		VisaInfo:   "Tier 2 sponsorship available",
		Country:    "UK",
	}, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC))
}
