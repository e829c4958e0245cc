package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
)

// Built-in source ids.
const (
	SourceUKGov       = "uk_gov"
	SourceReed        = "reed"
	SourceTotaljobs   = "totaljobs"
	SourceIreland     = "ireland"
	SourceBelgium     = "belgium"
	SourceNetherlands = "netherlands"
	SourceItaly       = "italy"
)

// listing is a catalog entry; its posted date is ageDays before the fetch time.
type listing struct {
	title    string
	company  string
	location string
	salary   string
	ageDays  int
	url      string
	source   string
	visaInfo string
	country  string
}

type catalogSource struct {
	id       string
	name     string
	country  string
	listings []listing
}

// catalog holds the sources in the order searches concatenate them.
var catalog = []catalogSource{
	{
		id:      SourceUKGov,
		name:    "UK Government",
		country: "UK",
		listings: []listing{
			{
				title:    "Digital Content Creator",
				company:  "Department for Education",
				location: "London, UK",
				salary:   "£28,000 - £32,000",
				ageDays:  5,
				url:      "https://www.civilservicejobs.service.gov.uk",
				source:   "UK Civil Service Jobs",
				visaInfo: "Visa sponsorship available for eligible candidates",
				country:  "UK",
			},
			{
				title:    "Marketing and Communications Officer",
				company:  "NHS Digital",
				location: "Leeds, UK",
				salary:   "£30,000 - £37,000",
				ageDays:  8,
				url:      "https://www.jobs.nhs.uk",
				source:   "NHS Careers",
				visaInfo: "Skilled Worker visa sponsorship available",
				country:  "UK",
			},
		},
	},
	{
		id:      SourceReed,
		name:    "Reed.co.uk",
		country: "UK",
		listings: []listing{
			{
				title:    "Content Marketing Manager",
				company:  "TechVision Ltd",
				location: "Manchester, UK",
				salary:   "£32,000 - £38,000",
				ageDays:  3,
				url:      "https://www.reed.co.uk",
				source:   "Reed.co.uk",
				visaInfo: "Tier 2 sponsorship available",
				country:  "UK",
			},
			{
				title:    "Video Editor - Social Media",
				company:  "Creative Digital Agency",
				location: "Birmingham, UK",
				salary:   "£26,000 - £30,000",
				ageDays:  10,
				url:      "https://www.reed.co.uk",
				source:   "Reed.co.uk",
				visaInfo: "Sponsorship licence holder - international applicants welcome",
				country:  "UK",
			},
		},
	},
	{
		id:      SourceTotaljobs,
		name:    "Totaljobs",
		country: "UK",
		listings: []listing{
			{
				title:    "WordPress Developer & Content Manager",
				company:  "MediaTech Solutions",
				location: "Bristol, UK",
				salary:   "£29,000 - £35,000",
				ageDays:  7,
				url:      "https://www.totaljobs.com",
				source:   "Totaljobs",
				visaInfo: "Skilled Worker visa sponsorship offered",
				country:  "UK",
			},
		},
	},
	{
		id:      SourceIreland,
		name:    "IrishJobs.ie and PublicJobs.ie",
		country: "Ireland",
		listings: []listing{
			{
				title:    "Digital Marketing Executive",
				company:  "Dublin Tech Hub",
				location: "Dublin, Ireland",
				salary:   "€32,000 - €38,000",
				ageDays:  6,
				url:      "https://www.irishjobs.ie",
				source:   "IrishJobs.ie",
				visaInfo: "Work permit sponsorship available",
				country:  "Ireland",
			},
			{
				title:    "Community Manager",
				company:  "Innovation Ireland",
				location: "Cork, Ireland",
				salary:   "€30,000 - €35,000",
				ageDays:  12,
				url:      "https://www.publicjobs.ie",
				source:   "PublicJobs.ie",
				visaInfo: "International applicants accepted - visa support provided",
				country:  "Ireland",
			},
		},
	},
	{
		id:      SourceBelgium,
		name:    "VDAB, Actiris and Forem",
		country: "Belgium",
		listings: []listing{
			{
				title:    "Content Creator & Videographer",
				company:  "EU Digital Agency",
				location: "Brussels, Belgium",
				salary:   "€35,000 - €42,000",
				ageDays:  4,
				url:      "https://www.actiris.be",
				source:   "Actiris",
				visaInfo: "Single permit sponsorship available for international workers",
				country:  "Belgium",
			},
			{
				title:    "Marketing Coordinator",
				company:  "International Trade Corp",
				location: "Antwerp, Belgium",
				salary:   "€32,000 - €38,000",
				ageDays:  9,
				url:      "https://www.vdab.be",
				source:   "VDAB",
				visaInfo: "Work permit assistance for qualified candidates",
				country:  "Belgium",
			},
		},
	},
	{
		id:      SourceNetherlands,
		name:    "Werk.nl and Nationale Vacaturebank",
		country: "Netherlands",
		listings: []listing{
			{
				title:    "Video Editor & Social Media Manager",
				company:  "Amsterdam Creative Studio",
				location: "Amsterdam, Netherlands",
				salary:   "€36,000 - €42,000",
				ageDays:  2,
				url:      "https://www.werk.nl",
				source:   "Werk.nl",
				visaInfo: "Highly skilled migrant visa sponsorship offered",
				country:  "Netherlands",
			},
			{
				title:    "WordPress Developer & Content Specialist",
				company:  "Rotterdam Digital",
				location: "Rotterdam, Netherlands",
				salary:   "€34,000 - €40,000",
				ageDays:  11,
				url:      "https://www.nationalevacaturebank.nl",
				source:   "Nationale Vacaturebank",
				visaInfo: "International recruitment - work permit support provided",
				country:  "Netherlands",
			},
		},
	},
	{
		id:      SourceItaly,
		name:    "ClicLavoro and InfoJobs Italy",
		country: "Italy",
		listings: []listing{
			{
				title:    "Digital Content Specialist",
				company:  "Milano Media Group",
				location: "Milan, Italy",
				salary:   "€28,000 - €35,000",
				ageDays:  13,
				url:      "https://www.cliclavoro.gov.it",
				source:   "ClicLavoro (Italian Government)",
				visaInfo: "Work visa sponsorship available for skilled workers",
				country:  "Italy",
			},
			{
				title:    "Marketing & Community Manager",
				company:  "Rome Innovation Hub",
				location: "Rome, Italy",
				salary:   "€30,000 - €36,000",
				ageDays:  8,
				url:      "https://www.infojobs.it",
				source:   "InfoJobs Italy",
				visaInfo: "International candidates welcome - visa assistance provided",
				country:  "Italy",
			},
		},
	},
}

// CatalogSourceIDs lists the built-in sources in search order.
func CatalogSourceIDs() []string {
	ids := make([]string, len(catalog))
	for i, src := range catalog {
		ids[i] = src.id
	}
	return ids
}

// CatalogJobs materializes every listing of source id as of now.
func CatalogJobs(id string, now time.Time) ([]domain.Job, bool) {
	src, ok := findSource(id)
	if !ok {
		return nil, false
	}
	return src.materialize(now), true
}

func builtinProviders() []Provider {
	out := make([]Provider, len(catalog))
	for i, src := range catalog {
		out[i] = Provider{ID: src.id, Name: src.name, Type: TypeStatic, Country: src.country}
	}
	return out
}

func findSource(id string) (catalogSource, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, src := range catalog {
		if src.id == id {
			return src, true
		}
	}
	return catalogSource{}, false
}

func (s catalogSource) materialize(now time.Time) []domain.Job {
	now = now.UTC()
	jobs := make([]domain.Job, 0, len(s.listings))
	for _, l := range s.listings {
		jobs = append(jobs, domain.Job{
			Title:      l.title,
			Company:    l.company,
			Location:   l.location,
			Salary:     l.salary,
			PostedDate: now.Add(-time.Duration(l.ageDays) * 24 * time.Hour).Format(domain.PostedDateLayout),
			URL:        l.url,
			Source:     l.source,
			VisaInfo:   l.visaInfo,
			Country:    l.country,
		})
	}
	return jobs
}

// catalogFetcher serves one built-in source.
type catalogFetcher struct {
	source catalogSource
	now    func() time.Time
}

// NewCatalogFetcher builds the fetcher for a built-in source id.
func NewCatalogFetcher(id string, now func() time.Time) (Fetcher, error) {
	src, ok := findSource(id)
	if !ok {
		return nil, fmt.Errorf("no catalog for source %q", id)
	}
	return newCatalogFetcher(src, now), nil
}

func newCatalogFetcher(src catalogSource, now func() time.Time) *catalogFetcher {
	if now == nil {
		now = time.Now
	}
	return &catalogFetcher{source: src, now: now}
}

func (f *catalogFetcher) ID() string { return f.source.id }

func (f *catalogFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.EqualFold(cfg.ID, f.source.id) {
		return nil, fmt.Errorf("%s fetcher received incompatible provider %q", f.source.id, cfg.ID)
	}
	return f.source.materialize(f.now()), nil
}
