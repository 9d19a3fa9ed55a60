package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/pkg/models"
)

func titled(titles ...string) []models.Record {
	records := make([]models.Record, len(titles))
	for i, title := range titles {
		records[i] = models.Record{Title: title}
	}
	return records
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	records := titled("Intro to AI", "Advanced ML", "History 101")
	got := NewFilter(config.FilterConfig{Field: models.FieldTitle}, "").Apply(records)
	assert.Equal(t, records, got)

	assert.Empty(t, NewFilter(config.FilterConfig{Field: models.FieldTitle}, "").Apply(nil))
}

func TestFilterNoMatches(t *testing.T) {
	got := NewFilter(config.FilterConfig{Field: models.FieldTitle}, "quantum").Apply(titled("Intro to AI", "History 101"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterCaseInsensitive(t *testing.T) {
	got := NewFilter(config.FilterConfig{Field: models.FieldTitle}, "AI").Apply(titled("ai engineering", "Biology", "Applied AI"))
	assert.Equal(t, titled("ai engineering", "Applied AI"), got, "order is preserved")
}

func TestFilterWithoutField(t *testing.T) {
	records := titled("Backend Engineer", "Designer")
	got := NewFilter(config.FilterConfig{}, "golang").Apply(records)
	assert.Equal(t, records, got, "keyword is only applied upstream")
}

func TestFilterRequirements(t *testing.T) {
	f := NewFilter(config.FilterConfig{
		Field: models.FieldTitle,
		Require: []config.Requirement{
			{Field: "status", Equals: "LIVE"},
			{Field: "days_left", NotEquals: "ended"},
		},
	}, "hack")

	mk := func(title, status, days string) models.Record {
		r := models.Record{Title: title}
		r.Set("status", status)
		r.Set("days_left", days)
		return r
	}

	records := []models.Record{
		mk("Hack the Planet", "LIVE", "3 days left"),
		mk("Hack Night", "LIVE", "Ended"),
		mk("HackFest", "LIVE", "ENDED"),
		mk("Hack Lowercase", "live", "2 days left"),
		mk("Hack Week", "CLOSED", "2 days left"),
		mk("Design Jam", "LIVE", "3 days left"),
		mk("Hackathon X", "LIVE", "N/A"),
	}

	var titles []string
	for _, r := range f.Apply(records) {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"Hack the Planet", "Hackathon X"}, titles)
}
