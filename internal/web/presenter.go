package web

import (
	_ "embed"
	"html/template"
	"io"
	"strings"

	"github.com/williampepple1/listing-scraper/internal/pipeline"
	"github.com/williampepple1/listing-scraper/internal/source"
	"github.com/williampepple1/listing-scraper/pkg/models"
)

//go:embed templates/page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Detail is one labeled line on a card
type Detail struct {
	Label string
	Value string
}

// Card is the view of a single record
type Card struct {
	Title    string
	ImageURL string
	Link     string
	Details  []Detail
	Trusted  bool
}

// View is everything the page template reads
type View struct {
	Heading string
	Source  string
	Form    formView
	// Searched is false for the bare search form, which renders no results
	// section at all
	Searched bool
	Cards    []Card
	Failure  string
}

type formView struct {
	Method string
	Action string
	Param  string
	Label  string
}

// Presenter renders results as an HTML page. Every interpolated value goes
// through html/template's contextual escaping.
type Presenter struct {
	tmpl *template.Template
}

// NewPresenter creates a presenter with the embedded page template
func NewPresenter() *Presenter {
	return &Presenter{tmpl: pageTemplate}
}

// Render writes the page for src. A nil result renders the search form only.
func (p *Presenter) Render(w io.Writer, src *source.Source, result *pipeline.Result) error {
	return p.tmpl.Execute(w, NewView(src, result))
}

// NewView builds the template data for src and result
func NewView(src *source.Source, result *pipeline.Result) View {
	form := src.Config.Form
	view := View{
		Heading: src.Config.Heading,
		Source:  src.Name(),
		Form: formView{
			Method: strings.ToLower(form.Method),
			Action: form.Action,
			Param:  form.Param,
			Label:  form.Label,
		},
	}
	if view.Heading == "" {
		view.Heading = src.Name()
	}
	if view.Form.Method == "" {
		view.Form.Method = "get"
	}
	if view.Form.Action == "" {
		view.Form.Action = "/"
	}
	if view.Form.Param == "" {
		view.Form.Param = "title"
	}
	if result == nil {
		return view
	}

	view.Searched = true
	view.Cards = make([]Card, 0, len(result.Records))
	for i := range result.Records {
		view.Cards = append(view.Cards, newCard(src, &result.Records[i]))
	}
	if result.Failed() > 0 {
		view.Failure = result.Summary()
	}
	return view
}

func newCard(src *source.Source, r *models.Record) Card {
	card := Card{
		Title:   r.Title,
		Trusted: r.Trusted,
	}
	if isLink(r.ImageURL) {
		card.ImageURL = r.ImageURL
	}
	if isLink(r.URL) {
		card.Link = r.URL
	}

	for _, f := range src.Config.Extraction.Fields {
		if f.Label == "" {
			continue
		}
		card.Details = append(card.Details, Detail{Label: f.Label, Value: r.Value(f.Name)})
	}
	return card
}

func isLink(v string) bool {
	return strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://")
}
