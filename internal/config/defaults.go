package config

import "github.com/williampepple1/listing-scraper/pkg/models"

// DefaultUserAgents provides a list of common user agents
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
}

func courseraFields() []FieldRule {
	return []FieldRule{
		{Name: models.FieldTitle, Selector: "h3.cds-CommonCard-title.css-6ecy9b"},
		{Name: models.FieldOrganization, Label: "Organization", Selector: "p.cds-ProductCard-partnerNames.css-vac8rf"},
		{Name: models.FieldURL, Selector: "a.cds-CommonCard-titleLink", Attr: "href", Default: "N/A"},
		{Name: models.FieldTags, Label: "Skills", Selector: "div.cds-CommonCard-bodyContent", TrimPrefix: "Skills you'll gain: "},
		{Name: models.FieldImageURL, Selector: "div.cds-CommonCard-previewImage img", Attr: "src"},
		{Name: models.FieldCategory, Label: "Certificate Type", Selector: "div.cds-CommonCard-metadata p.css-vac8rf"},
	}
}

func unstopFields(json bool) []FieldRule {
	if json {
		return []FieldRule{
			{Name: models.FieldTitle, Selector: "title", Default: "N/A"},
			{Name: models.FieldOrganization, Label: "College", Selector: "organisation.name", Default: "N/A"},
			{Name: models.FieldURL, Selector: "seo_url", Default: "N/A"},
			{Name: models.FieldImageURL, Selector: "logoUrl2"},
			{Name: "days_left", Label: "Days Left", Selector: "regnRequirements.remain_days", Default: "N/A"},
			{Name: "status", Selector: "status", Default: "N/A"},
		}
	}
	return []FieldRule{
		{Name: models.FieldTitle, Selector: "h2", Default: "N/A"},
		{Name: models.FieldOrganization, Label: "College", Selector: "p", Default: "N/A"},
		{Name: models.FieldURL, Selector: "a", Attr: "href", Default: "N/A"},
		{Name: models.FieldImageURL, Selector: "img", Attr: "src"},
		{Name: "days_left", Label: "Days Left", Selector: ".seperate_box .days-left, .cptn span", Default: "N/A"},
		{Name: "status", Selector: "[data-status]", Attr: "data-status", Default: "LIVE"},
	}
}

func hackathonFilter() FilterConfig {
	return FilterConfig{
		Field: models.FieldTitle,
		Require: []Requirement{
			{Field: "status", Equals: "LIVE"},
			{Field: "days_left", NotEquals: "ended"},
		},
	}
}

// DefaultSources returns the built-in source tables
func DefaultSources() []SourceConfig {
	titleForm := func(label string) FormConfig {
		return FormConfig{Method: "get", Action: "/", Param: "title", Label: label}
	}

	return []SourceConfig{
		{
			Name:      "coursera-courses",
			Heading:   "Scraped Course Data",
			Backend:   BackendHTTP,
			Format:    FormatHTML,
			URL:       "https://www.coursera.org/courses?index=prod_all_products_term_optimization",
			Origin:    "https://www.coursera.org",
			PageParam: "page",
			MaxPages:  10,
			Extraction: ExtractionConfig{
				Items:  "div.css-1evtm7z",
				Fields: courseraFields(),
			},
			Filter: FilterConfig{Field: models.FieldTitle},
			Form:   titleForm("Enter Course Title:"),
		},
		{
			Name:      "coursera-projects",
			Heading:   "Scraped Project Data",
			Backend:   BackendHTTP,
			Format:    FormatHTML,
			URL:       "https://www.coursera.org/courses?productTypeDescription=Projects&productTypeDescription=Guided%20Projects&sortBy=BEST_MATCH&index=prod_all_products_term_optimization",
			Origin:    "https://www.coursera.org",
			PageParam: "page",
			MaxPages:  10,
			Extraction: ExtractionConfig{
				Items:  "div.css-1evtm7z",
				Fields: courseraFields(),
			},
			Filter: FilterConfig{Field: models.FieldTitle},
			Form:   titleForm("Enter Project Title:"),
		},
		{
			Name:      "unstop-hackathons",
			Heading:   "Scraped Hackathon Data",
			Backend:   BackendHTTP,
			Format:    FormatJSON,
			URL:       "https://unstop.com/api/public/opportunity/search-result?opportunity=hackathons",
			Origin:    "https://unstop.com",
			PageParam: "page",
			MaxPages:  5,
			Extraction: ExtractionConfig{
				Items:    "data.data",
				LastPage: "data.last_page",
				Fields:   unstopFields(true),
			},
			Filter: hackathonFilter(),
			Form:   titleForm("Enter Hackathon Title:"),
		},
		{
			Name:      "unstop-live",
			Heading:   "Live Hackathons",
			Backend:   BackendBrowser,
			Format:    FormatHTML,
			URL:       "https://unstop.com/hackathons",
			Origin:    "https://unstop.com",
			PageParam: "page",
			MaxPages:  3,
			WaitFor:   "app-competition-listing",
			Extraction: ExtractionConfig{
				Items:  "app-competition-listing .single_profile",
				Fields: unstopFields(false),
			},
			Filter: hackathonFilter(),
			Form:   titleForm("Enter Hackathon Title:"),
		},
		{
			Name:         "linkedin-jobs",
			Heading:      "Search Job Listings",
			Backend:      BackendHTTP,
			Format:       FormatHTML,
			URL:          "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search",
			Origin:       "https://www.linkedin.com",
			OffsetParam:  "start",
			PageSize:     25,
			KeywordParam: "keywords",
			JobOptions:   true,
			MaxPages:     10,
			Extraction: ExtractionConfig{
				Items: "li",
				Fields: []FieldRule{
					{Name: models.FieldTitle, Selector: ".base-search-card__title"},
					{Name: models.FieldOrganization, Label: "Company", Selector: ".base-search-card__subtitle"},
					{Name: "location", Label: "Location", Selector: ".job-search-card__location"},
					{Name: "posted_date", Selector: "time", Attr: "datetime"},
					{Name: "posted_ago", Label: "Posted", Selector: ".job-search-card__listdate"},
					{Name: "salary", Label: "Salary", Selector: ".job-search-card__salary-info", Squash: true, Default: "Not specified"},
					{Name: models.FieldURL, Selector: ".base-card__full-link", Attr: "href"},
					{Name: models.FieldImageURL, Selector: ".artdeco-entity-image", Attr: "data-delayed-url"},
				},
			},
			Form:  FormConfig{Method: "post", Action: "/filter", Param: "keyword", Label: "Search Keyword:"},
			Trust: true,
		},
	}
}
