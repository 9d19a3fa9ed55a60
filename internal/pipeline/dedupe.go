package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/purell"
	"github.com/williampepple1/listing-scraper/pkg/models"
)

const dedupeFlags = purell.FlagsSafe |
	purell.FlagsUsuallySafeNonGreedy |
	purell.FlagRemoveDirectoryIndex |
	purell.FlagRemoveFragment |
	purell.FlagSortQuery

// DedupeByURL drops records whose normalized URL appeared earlier. Records
// without an absolute URL are always kept.
func DedupeByURL(records []models.Record) []models.Record {
	seen := make(map[string]bool, len(records))
	out := make([]models.Record, 0, len(records))

	for _, r := range records {
		if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
			out = append(out, r)
			continue
		}

		key, err := purell.NormalizeURLString(r.URL, dedupeFlags)
		if err != nil {
			key = r.URL
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
