package app

import (
	"time"

	"github.com/samvad-hq/visajobs/internal/filter"
	"github.com/samvad-hq/visajobs/internal/logger"
	"github.com/samvad-hq/visajobs/pkg/providers"
)

// lintCatalog warns about built-in listings the keyword matchers would not
// recognise, and about providers with no catalog entry. Nothing is dropped;
// it returns the number of warnings.
func lintCatalog(reg *providers.Registry, now time.Time, log logger.Logger) int {
	warnings := 0
	for _, p := range reg.Enabled() {
		jobs, ok := providers.CatalogJobs(p.ID, now)
		if !ok {
			warnings++
			log.WarnObj("provider has no catalog listings", "catalog_lint", map[string]any{
				"provider_id": p.ID,
			})
			continue
		}
		for _, j := range jobs {
			profile := filter.MatchesProfile(j.Title)
			visa := filter.HasVisaSponsorship(j.VisaInfo)
			if profile && visa {
				continue
			}
			warnings++
			log.WarnObj("catalog listing fails keyword check", "catalog_lint", map[string]any{
				"provider_id":    p.ID,
				"title":          j.Title,
				"profile_match":  profile,
				"visa_mentioned": visa,
			})
		}
	}
	return warnings
}
