package search

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/dgallion1/coursesearch/internal/highlight"
	"golang.org/x/net/html"
)

const page = `<html><head><title>Courses</title></head><body>
<input class="input" value="">
<div class="card"><h3>WEB Technologies</h3><p>HTML and CSS for the web.</p></div>
<div class="card"><h3>Intro to Python</h3><p>Scripts and data.</p></div>
<script>var courses = ["python"];</script>
</body></html>`

func newSession(t *testing.T, src string) (*Session, *document.Document) {
	t.Helper()
	doc, err := document.Parse(strings.NewReader(src), "page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewSession(doc, catalog.Default().Courses, Options{Stats: NewStats(time.Hour)}), doc
}

func TestSession_InputFiltersAndHighlights(t *testing.T) {
	s, doc := newSession(t, page)

	res := s.Input("python")
	if res.Shown != 1 || res.Hidden != 1 {
		t.Fatalf("expected shown=1 hidden=1, got shown=%d hidden=%d", res.Shown, res.Hidden)
	}
	if len(res.Visible) != 1 || res.Visible[0] != "Intro to Python" {
		t.Errorf("expected Intro to Python visible, got %v", res.Visible)
	}
	if res.Highlights != 1 {
		t.Errorf("expected 1 highlight (script excluded), got %d", res.Highlights)
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].Name != "Intro to Python" {
		t.Errorf("expected one suggestion, got %+v", res.Suggestions)
	}
	if s.Query() != "python" {
		t.Errorf("expected query %q, got %q", "python", s.Query())
	}

	input := document.Find(doc.Root, func(n *html.Node) bool { return document.HasClass(n, InputClass) })
	if v, _ := document.Attr(input, "value"); v != "python" {
		t.Errorf("expected input value mirrored, got %q", v)
	}
}

func TestSession_BlankInputClearsAndShowsAll(t *testing.T) {
	s, doc := newSession(t, page)
	before := document.TextContent(doc.Root)

	s.Input("web")
	res := s.Input("   ")

	if res.Highlights != 0 || highlight.Count(doc.Root) != 0 {
		t.Fatalf("expected no highlights after blank input, got %d", highlight.Count(doc.Root))
	}
	if res.Shown != 2 || res.Hidden != 0 {
		t.Errorf("expected all cards shown, got shown=%d hidden=%d", res.Shown, res.Hidden)
	}
	if res.Suggestions != nil {
		t.Errorf("expected no suggestions, got %+v", res.Suggestions)
	}
	if after := document.TextContent(doc.Root); after != before {
		t.Errorf("expected text restored, got %q", after)
	}
}

func TestSession_CardNameReadThroughHighlights(t *testing.T) {
	s, _ := newSession(t, page)

	// "Tech" wraps part of the h3; filtering on the full name must still work.
	s.Input("Tech")
	res := s.Input("WEB Technologies")
	if len(res.Visible) != 1 || res.Visible[0] != "WEB Technologies" {
		t.Fatalf("expected WEB Technologies visible, got %v", res.Visible)
	}
}

func TestSession_SelectSuggestion(t *testing.T) {
	s, _ := newSession(t, page)

	res, ok := s.Select("Intro to Python")
	if !ok {
		t.Fatal("expected known item to be selectable")
	}
	if res.Query != "Intro to Python" || res.Highlights != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	if _, ok := s.Select("Unknown course"); ok {
		t.Error("expected unknown item to be rejected")
	}
	if s.Query() != "Intro to Python" {
		t.Errorf("expected query unchanged by rejected select, got %q", s.Query())
	}
}

func TestSession_MissingBodyIsNoop(t *testing.T) {
	s := NewSession(nil, catalog.Default().Courses, Options{})
	res := s.Input("python")
	if res.Query != "" || res.Highlights != 0 || res.Suggestions != nil {
		t.Errorf("expected zero result, got %+v", res)
	}
	if n := s.Highlight("python"); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
	if n := s.ClearHighlights(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
	var buf strings.Builder
	if err := s.Render(&buf); err != nil || buf.Len() != 0 {
		t.Errorf("expected empty render, got %q err=%v", buf.String(), err)
	}
}

func TestSession_IndividualOperations(t *testing.T) {
	s, doc := newSession(t, page)

	if n := s.Highlight("s"); n == 0 {
		t.Fatal("expected highlights")
	}
	shown, hidden := s.FilterCards("intro")
	if shown != 1 || hidden != 1 {
		t.Errorf("expected shown=1 hidden=1, got %d/%d", shown, hidden)
	}
	if n := s.ClearHighlights(); n == 0 {
		t.Error("expected markers removed")
	}
	if highlight.Count(doc.Root) != 0 {
		t.Error("expected no markers left")
	}
}

func TestSession_ConcurrentEventsDoNotInterleave(t *testing.T) {
	s, doc := newSession(t, page)

	var wg sync.WaitGroup
	for _, q := range []string{"web", "python", "a", "", "tech", "s"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				s.Input(q)
			}
		}(q)
	}
	wg.Wait()

	final := s.Query()
	want := highlight.Count(doc.Root)
	if got := s.Input(final).Highlights; got != want {
		t.Errorf("expected markers to reflect only the last query %q: %d vs %d", final, want, got)
	}
}

func TestSession_RecordsStats(t *testing.T) {
	stats := NewStats(time.Hour)
	doc, _ := document.Parse(strings.NewReader(page), "page")
	s := NewSession(doc, nil, Options{Stats: stats})
	s.Input("a")
	s.Input("b")
	s.Highlight("python")
	snap := stats.Snapshot()
	if snap.Count != 3 {
		t.Errorf("expected 3 passes, got %d", snap.Count)
	}
	if snap.ByKind[PassInput] != 2 || snap.ByKind[PassHighlight] != 1 {
		t.Errorf("unexpected pass kinds %v", snap.ByKind)
	}
}

func TestSession_PageWithoutSearchBox(t *testing.T) {
	s, doc := newSession(t, `<html><body><p>Python notes</p><div class="card"><h3>Intro to Python</h3></div></body></html>`)
	before := doc.String()

	res := s.Input("python")
	if res.Highlights != 2 || res.Shown != 1 {
		t.Fatalf("expected the event to run without a search box, got %+v", res)
	}
	if document.Find(doc.Root, func(n *html.Node) bool { return document.HasClass(n, InputClass) }) != nil {
		t.Error("expected no search box to be created")
	}

	s.Input("")
	if after := doc.String(); after != before {
		t.Errorf("expected page restored after blank input\nbefore %s\nafter  %s", before, after)
	}
}
