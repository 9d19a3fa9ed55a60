package models

// Canonical field names shared by every source. Any other name a source
// declares is stored in Record.Extra.
const (
	FieldTitle        = "title"
	FieldOrganization = "organization"
	FieldURL          = "url"
	FieldImageURL     = "image_url"
	FieldTags         = "tags"
	FieldCategory     = "category"
)

// Record is one normalized listing extracted from a source page
type Record struct {
	Source       string            `json:"source"`
	Title        string            `json:"title"`
	Organization string            `json:"organization"`
	URL          string            `json:"url"`
	ImageURL     string            `json:"image_url"`
	Tags         string            `json:"tags"`
	Category     string            `json:"category"`
	Extra        map[string]string `json:"extra,omitempty"`
	Trusted      bool              `json:"trusted"`
}

// Get returns the value stored under a field name and whether the record
// carries that field at all.
func (r *Record) Get(name string) (string, bool) {
	switch name {
	case FieldTitle:
		return r.Title, true
	case FieldOrganization:
		return r.Organization, true
	case FieldURL:
		return r.URL, true
	case FieldImageURL:
		return r.ImageURL, true
	case FieldTags:
		return r.Tags, true
	case FieldCategory:
		return r.Category, true
	}
	v, ok := r.Extra[name]
	return v, ok
}

// Value is Get without the presence flag
func (r *Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Set stores a value under a field name
func (r *Record) Set(name, value string) {
	switch name {
	case FieldTitle:
		r.Title = value
	case FieldOrganization:
		r.Organization = value
	case FieldURL:
		r.URL = value
	case FieldImageURL:
		r.ImageURL = value
	case FieldTags:
		r.Tags = value
	case FieldCategory:
		r.Category = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[name] = value
	}
}

// Update rewrites every named field through fn
func (r *Record) Update(names []string, fn func(name, value string) string) {
	for _, name := range names {
		r.Set(name, fn(name, r.Value(name)))
	}
}
