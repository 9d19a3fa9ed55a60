package source

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/listing-scraper/internal/config"
)

func defaults(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(config.DefaultSources())
	require.NoError(t, err)
	return r
}

func TestDefaultSourcesCompile(t *testing.T) {
	r := defaults(t)
	assert.Equal(t, []string{
		"coursera-courses",
		"coursera-projects",
		"unstop-hackathons",
		"unstop-live",
		"linkedin-jobs",
	}, r.Names())
	assert.True(t, r.NeedsTrust())
}

func TestRegistryUnknown(t *testing.T) {
	_, err := defaults(t).Get("nope")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestRegistryDuplicate(t *testing.T) {
	cfgs := config.DefaultSources()
	_, err := NewRegistry(append(cfgs, cfgs[0]))
	assert.Error(t, err)
}

func TestPageURL(t *testing.T) {
	r := defaults(t)

	courses, err := r.Get("coursera-courses")
	require.NoError(t, err)
	u, err := url.Parse(courses.URL(3, Query{Keyword: "ai"}))
	require.NoError(t, err)
	assert.Equal(t, "www.coursera.org", u.Host)
	assert.Equal(t, "3", u.Query().Get("page"))
	assert.Equal(t, "prod_all_products_term_optimization", u.Query().Get("index"))
	assert.Empty(t, u.Query().Get("keywords"), "course keyword is filtered locally")

	projects, err := r.Get("coursera-projects")
	require.NoError(t, err)
	u, err = url.Parse(projects.URL(1, Query{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Projects", "Guided Projects"}, u.Query()["productTypeDescription"])

	hackathons, err := r.Get("unstop-hackathons")
	require.NoError(t, err)
	u, err = url.Parse(hackathons.URL(2, Query{}))
	require.NoError(t, err)
	assert.Equal(t, "hackathons", u.Query().Get("opportunity"))
	assert.Equal(t, "2", u.Query().Get("page"))
}

func TestJobURL(t *testing.T) {
	jobs, err := defaults(t).Get("linkedin-jobs")
	require.NoError(t, err)

	q := Query{
		Keyword:    "data engineer",
		Location:   "New York",
		DatePosted: "Past Week",
		JobType:    "full-time",
		Remote:     "hybrid",
		Salary:     "100000",
		Experience: "entry level",
		SortBy:     "recent",
	}

	u, err := url.Parse(jobs.URL(1, q))
	require.NoError(t, err)
	assert.Equal(t, "/jobs-guest/jobs/api/seeMoreJobPostings/search", u.Path)

	got := u.Query()
	assert.Equal(t, "0", got.Get("start"))
	assert.Equal(t, "data engineer", got.Get("keywords"))
	assert.Equal(t, "New York", got.Get("location"))
	assert.Equal(t, "r604800", got.Get("f_TPR"))
	assert.Equal(t, "F", got.Get("f_JT"))
	assert.Equal(t, "3", got.Get("f_WT"))
	assert.Equal(t, "4", got.Get("f_SB2"))
	assert.Equal(t, "2", got.Get("f_E"))
	assert.Equal(t, "DD", got.Get("sortBy"))

	u, err = url.Parse(jobs.URL(3, Query{}))
	require.NoError(t, err)
	assert.Equal(t, "50", u.Query().Get("start"))
	assert.False(t, u.Query().Has("keywords"))
	assert.False(t, u.Query().Has("f_TPR"))
}

func TestNewRejectsInvalidTable(t *testing.T) {
	cfg := config.DefaultSources()[0]
	cfg.Backend = "ftp"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = config.DefaultSources()[0]
	cfg.URL = "http://[::1"
	_, err = New(cfg)
	assert.Error(t, err)
}
