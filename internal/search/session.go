package search

import (
	"io"
	"strings"
	"sync"

	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/dgallion1/coursesearch/internal/highlight"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InputClass marks the page's search box.
const InputClass = "input"

// Result is the visible state after one search event.
type Result struct {
	Query       string               `json:"query"`
	Highlights  int                  `json:"highlights"`
	Shown       int                  `json:"cards_shown"`
	Hidden      int                  `json:"cards_hidden"`
	Visible     []string             `json:"visible_cards"`
	Suggestions []catalog.Suggestion `json:"suggestions"`
}

// Options configure a Session.
type Options struct {
	SuggestionLimit int
	Stats           *Stats
}

// Session runs search events against one document. Every exported method
// holds the session lock for its whole duration, so filtering and
// highlighting of one event are never interleaved with another event.
type Session struct {
	mu    sync.Mutex
	doc   *document.Document
	items []catalog.Course
	limit int
	stats *Stats
	query string
}

// NewSession binds a document and the known items used for suggestions.
// The items slice is treated as read-only.
func NewSession(doc *document.Document, items []catalog.Course, opts Options) *Session {
	limit := opts.SuggestionLimit
	if limit <= 0 {
		limit = catalog.DefaultSuggestionLimit
	}
	return &Session{doc: doc, items: items, limit: limit, stats: opts.Stats}
}

// Input handles one change of the search box value: cards are filtered, then
// highlights are cleared (blank value) or recomputed. Pages without an
// input.input search box still run the event; only the value mirror is skipped.
func (s *Session) Input(query string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputLocked(query)
}

// Select handles a click on a suggestion. The query becomes the item's full
// name. Unknown names leave the session untouched and report false.
func (s *Session) Select(name string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Name == name {
			return s.inputLocked(item.Name), true
		}
	}
	return Result{}, false
}

func (s *Session) inputLocked(query string) Result {
	body := s.doc.Body()
	if body == nil {
		return Result{}
	}
	done := s.stats.Track(PassInput)

	s.query = query
	setInputValue(s.doc.Root, query)

	res := Result{Query: query}
	res.Shown, res.Hidden = catalog.FilterCardNodes(body, query)
	if strings.TrimSpace(query) == "" {
		highlight.Clear(body)
	} else {
		res.Highlights = highlight.Apply(body, query)
	}
	res.Visible = catalog.VisibleCards(body)
	res.Suggestions = catalog.Suggest(s.items, query, s.limit)
	done(res.Highlights)
	return res
}

// Highlight runs a single highlight pass and returns the number of markers.
func (s *Session) Highlight(query string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := s.doc.Body()
	if body == nil {
		return 0
	}
	done := s.stats.Track(PassHighlight)
	n := highlight.Apply(body, query)
	done(n)
	return n
}

// ClearHighlights removes every marker and returns how many were removed.
func (s *Session) ClearHighlights() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return highlight.Clear(s.doc.Body())
}

// FilterCards shows or hides the document's cards for query.
func (s *Session) FilterCards(query string) (shown, hidden int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.FilterCardNodes(s.doc.Body(), query)
}

// Query returns the value of the last search event.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Title returns the document title.
func (s *Session) Title() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.Title
}

// Render writes the document in its current state.
func (s *Session) Render(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Render(w)
}

// setInputValue mirrors query into the page's search box, if it has one.
func setInputValue(root *html.Node, query string) {
	input := document.Find(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Input && document.HasClass(n, InputClass)
	})
	if input != nil {
		document.SetAttr(input, "value", query)
	}
}
