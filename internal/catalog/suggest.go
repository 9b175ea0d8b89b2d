package catalog

import (
	"io"
	"strings"

	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/dgallion1/coursesearch/internal/highlight"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultSuggestionLimit caps the suggestion list.
const DefaultSuggestionLimit = 5

// Suggestion is one entry of the search suggestion list.
type Suggestion struct {
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Segments []highlight.Segment `json:"segments"`
}

// Suggest returns at most limit courses whose name contains the trimmed
// query, in catalog order. A blank query yields no suggestions.
func Suggest(courses []Course, query string, limit int) []Suggestion {
	term := strings.TrimSpace(query)
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	match := matcher(term)
	var out []Suggestion
	for _, c := range courses {
		if len(out) == limit {
			break
		}
		if !match(c.Name) {
			continue
		}
		out = append(out, Suggestion{
			Name:     c.Name,
			Category: c.Category,
			Segments: highlight.Split(c.Name, term),
		})
	}
	return out
}

const noMatches = "No matches found"

// SuggestionNodes builds the suggestion list markup as detached elements.
func SuggestionNodes(suggestions []Suggestion) []*html.Node {
	if len(suggestions) == 0 {
		return []*html.Node{document.ElementWithText(atom.Div, noMatches, "class", "suggestion")}
	}
	nodes := make([]*html.Node, 0, len(suggestions))
	for _, s := range suggestions {
		div := document.Element(atom.Div, "class", "suggestion", "data-name", s.Name)
		strong := document.Element(atom.Strong)
		for _, seg := range s.Segments {
			if seg.Match {
				strong.AppendChild(document.ElementWithText(atom.Mark, seg.Text, "class", highlight.MarkerClass))
			} else {
				strong.AppendChild(document.Text(seg.Text))
			}
		}
		div.AppendChild(strong)
		div.AppendChild(document.ElementWithText(atom.Small, s.Category))
		nodes = append(nodes, div)
	}
	return nodes
}

// RenderSuggestions writes the suggestion list as HTML.
func RenderSuggestions(w io.Writer, suggestions []Suggestion) error {
	for _, n := range SuggestionNodes(suggestions) {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}
