package source

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is the user's search input for one request. Keyword feeds the local
// title filter or, for sources that search upstream, the keyword parameter.
// The remaining options only apply to sources with job options enabled.
type Query struct {
	Keyword    string `json:"keyword,omitempty"`
	Location   string `json:"location,omitempty"`
	DatePosted string `json:"date_posted,omitempty"`
	JobType    string `json:"job_type,omitempty"`
	Remote     string `json:"remote,omitempty"`
	Salary     string `json:"salary,omitempty"`
	Experience string `json:"experience,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// QueryFromValues builds a Query from request form values
func QueryFromValues(v url.Values) Query {
	keyword := v.Get("keyword")
	if keyword == "" {
		keyword = v.Get("title")
	}
	limit, _ := strconv.Atoi(v.Get("limit"))
	if limit < 0 {
		limit = 0
	}

	return Query{
		Keyword:    strings.TrimSpace(keyword),
		Location:   strings.TrimSpace(v.Get("location")),
		DatePosted: v.Get("date_posted"),
		JobType:    v.Get("job_type"),
		Remote:     v.Get("remote"),
		Salary:     v.Get("salary"),
		Experience: v.Get("experience"),
		SortBy:     v.Get("sort_by"),
		Limit:      limit,
	}
}

var (
	datePostedCodes = map[string]string{
		"past month": "r2592000",
		"past week":  "r604800",
		"24hr":       "r86400",
	}
	experienceCodes = map[string]string{
		"internship":  "1",
		"entry level": "2",
		"associate":   "3",
		"senior":      "4",
		"director":    "5",
		"executive":   "6",
	}
	jobTypeCodes = map[string]string{
		"full time":  "F",
		"full-time":  "F",
		"part time":  "P",
		"part-time":  "P",
		"contract":   "C",
		"temporary":  "T",
		"volunteer":  "V",
		"internship": "I",
	}
	remoteCodes = map[string]string{
		"on-site": "1",
		"on site": "1",
		"remote":  "2",
		"hybrid":  "3",
	}
	salaryCodes = map[string]string{
		"40000":  "1",
		"60000":  "2",
		"80000":  "3",
		"100000": "4",
		"120000": "5",
	}
	sortCodes = map[string]string{
		"recent":   "DD",
		"relevant": "R",
	}
)

func code(table map[string]string, v string) string {
	return table[strings.ToLower(strings.TrimSpace(v))]
}

// DatePostedCode maps a human date window to the job board's code
func (q Query) DatePostedCode() string { return code(datePostedCodes, q.DatePosted) }

// ExperienceCode maps an experience level to the job board's code
func (q Query) ExperienceCode() string { return code(experienceCodes, q.Experience) }

// JobTypeCode maps a job type to the job board's code
func (q Query) JobTypeCode() string { return code(jobTypeCodes, q.JobType) }

// RemoteCode maps a remote mode to the job board's code
func (q Query) RemoteCode() string { return code(remoteCodes, q.Remote) }

// SalaryCode maps a salary band to the job board's code
func (q Query) SalaryCode() string { return code(salaryCodes, q.Salary) }

// SortCode maps a sort mode to the job board's code
func (q Query) SortCode() string { return code(sortCodes, q.SortBy) }

// JobParams returns the query-string fragment for the job options.
// Options that are unset or unknown are omitted.
func (q Query) JobParams() url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}

	set("location", q.Location)
	set("f_TPR", q.DatePostedCode())
	set("f_SB2", q.SalaryCode())
	set("f_E", q.ExperienceCode())
	set("f_WT", q.RemoteCode())
	set("f_JT", q.JobTypeCode())
	set("sortBy", q.SortCode())
	return params
}
