package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/pkg/models"
)

// Extractor applies a source's field rules to every item of a parsed page
type Extractor struct {
	Config *config.ExtractionConfig
	Source string
}

// NewExtractor creates a new data extractor
func NewExtractor(source string, config *config.ExtractionConfig) *Extractor {
	return &Extractor{
		Config: config,
		Source: source,
	}
}

// Names returns the declared field names in rule order
func (e *Extractor) Names() []string {
	names := make([]string, 0, len(e.Config.Fields))
	for _, rule := range e.Config.Fields {
		names = append(names, rule.Name)
	}
	return names
}

// HTML extracts one record per element matching the items selector.
// Every declared field is set; rules that find nothing yield their default.
func (e *Extractor) HTML(root *goquery.Selection) []models.Record {
	items := root.Find(e.Config.Items)
	records := make([]models.Record, 0, items.Length())

	items.Each(func(_ int, item *goquery.Selection) {
		record := models.Record{Source: e.Source}
		for _, rule := range e.Config.Fields {
			record.Set(rule.Name, readHTML(item, rule))
		}
		records = append(records, record)
	})

	return records
}

// JSON extracts one record per element of the array found at the items path
func (e *Extractor) JSON(root gjson.Result) []models.Record {
	items := root.Get(e.Config.Items)
	if !items.IsArray() {
		return []models.Record{}
	}

	records := make([]models.Record, 0, len(items.Array()))
	items.ForEach(func(_, item gjson.Result) bool {
		record := models.Record{Source: e.Source}
		for _, rule := range e.Config.Fields {
			record.Set(rule.Name, readJSON(item, rule))
		}
		records = append(records, record)
		return true
	})

	return records
}

// LastPage reads the paging marker from a JSON page, 0 when absent
func (e *Extractor) LastPage(root gjson.Result) int {
	if e.Config.LastPage == "" {
		return 0
	}
	marker := root.Get(e.Config.LastPage)
	if !marker.Exists() {
		return 0
	}
	return int(marker.Int())
}

func readHTML(item *goquery.Selection, rule config.FieldRule) string {
	sel := item.Find(rule.Selector)
	if sel.Length() == 0 {
		return rule.Default
	}

	if rule.Attr != "" {
		v, ok := sel.Attr(rule.Attr)
		if !ok {
			return rule.Default
		}
		return clean(v, rule)
	}
	return clean(sel.Text(), rule)
}

func readJSON(item gjson.Result, rule config.FieldRule) string {
	v := item.Get(rule.Selector)
	if !v.Exists() || v.Type == gjson.Null {
		return rule.Default
	}
	return clean(v.String(), rule)
}

func clean(v string, rule config.FieldRule) string {
	v = strings.TrimSpace(v)
	if rule.TrimPrefix != "" {
		v = strings.TrimSpace(strings.TrimPrefix(v, rule.TrimPrefix))
	}
	if rule.Squash {
		v = strings.NewReplacer("\n", "", " ", "").Replace(v)
	}
	if v == "" {
		return rule.Default
	}
	return v
}
