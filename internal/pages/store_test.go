package pages

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/dgallion1/coursesearch/internal/search"
)

func newTestPage(t *testing.T, body string) *Page {
	t.Helper()
	doc, err := document.Parse(strings.NewReader(body), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewPage("test.html", []byte(body), search.NewSession(doc, nil, search.Options{}))
}

func TestContentHashHex_Consistency(t *testing.T) {
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h := ContentHashHex([]byte("hello world")); h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h := ContentHashHex([]byte{}); h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	s := NewStore(time.Hour, 0, nil)
	p := newTestPage(t, "<p>hello</p>")

	if err := s.Put(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get(p.ID); got != p {
		t.Fatalf("expected to get stored page")
	}
	if s.Get("missing") != nil {
		t.Error("expected nil for missing id")
	}
	if !s.Delete(p.ID) {
		t.Error("expected delete to report existing page")
	}
	if s.Delete(p.ID) {
		t.Error("expected second delete to report missing page")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestStore_Full(t *testing.T) {
	s := NewStore(time.Hour, 1, nil)
	if err := s.Put(newTestPage(t, "<p>a</p>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Put(newTestPage(t, "<p>b</p>")); err == nil {
		t.Fatal("expected error when store is full")
	}
}

func TestStore_ListOrderedAndIncludesQuery(t *testing.T) {
	s := NewStore(time.Hour, 0, nil)
	first := newTestPage(t, "<p>first</p>")
	time.Sleep(time.Millisecond)
	second := newTestPage(t, "<p>second</p>")
	s.Put(second)
	s.Put(first)

	first.Session.Input("fir")

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("expected creation order")
	}
	if list[0].Query != "fir" {
		t.Errorf("expected query %q, got %q", "fir", list[0].Query)
	}
}

func TestStore_CleanupEvictsIdlePages(t *testing.T) {
	s := NewStore(10*time.Millisecond, 0, nil)
	idle := newTestPage(t, "<p>idle</p>")
	s.Put(idle)
	time.Sleep(25 * time.Millisecond)

	fresh := newTestPage(t, "<p>fresh</p>")
	s.Put(fresh)

	if n := s.Cleanup(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if s.Get(idle.ID) != nil {
		t.Error("expected idle page evicted")
	}
	if s.Get(fresh.ID) == nil {
		t.Error("expected fresh page kept")
	}
}

func TestStore_StartStop(t *testing.T) {
	s := NewStore(time.Millisecond, 0, nil)
	s.Put(newTestPage(t, "<p>x</p>"))
	s.Start(context.Background(), 5*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for s.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
	if s.Len() != 0 {
		t.Errorf("expected background cleanup to evict page, %d left", s.Len())
	}
}
