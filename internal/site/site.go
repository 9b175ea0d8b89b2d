package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/yuin/goldmark"
)

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

// DefaultTitle is used when no site title is configured.
const DefaultTitle = "Courses"

type cardView struct {
	Name     string
	Category string
	Slug     string
	Summary  template.HTML
}

type pageView struct {
	Title   string
	Query   string
	Courses []cardView
}

// Builder renders the catalog page. Course summaries are converted from
// markdown once, at construction.
type Builder struct {
	title string
	cards []cardView
}

// NewBuilder prepares the catalog page for the given courses.
func NewBuilder(title string, cat *catalog.Catalog) (*Builder, error) {
	if title == "" {
		title = DefaultTitle
	}
	md := goldmark.New()
	b := &Builder{title: title}
	for _, c := range cat.Courses {
		var summary bytes.Buffer
		if err := md.Convert([]byte(c.Summary), &summary); err != nil {
			return nil, fmt.Errorf("render summary for %q: %w", c.Name, err)
		}
		slug := c.Slug
		if slug == "" {
			slug = catalog.Slugify(c.Name)
		}
		b.cards = append(b.cards, cardView{
			Name:     c.Name,
			Category: c.Category,
			Slug:     slug,
			// goldmark drops raw HTML unless html.WithUnsafe is set.
			Summary: template.HTML(summary.String()),
		})
	}
	return b, nil
}

// Page renders a fresh catalog document. The query only pre-fills the search box.
func (b *Builder) Page(query string) (*document.Document, error) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, pageView{Title: b.title, Query: query, Courses: b.cards}); err != nil {
		return nil, fmt.Errorf("render catalog page: %w", err)
	}
	return document.Parse(&buf, b.title)
}
