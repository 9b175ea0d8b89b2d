package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/dgallion1/coursesearch/internal/search"
	"golang.org/x/net/html"
)

// handleIndex renders the catalog page with the optional ?q= search applied.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	doc, err := s.site.Page(query)
	if err != nil {
		s.log.Error("render catalog page", "error", err)
		jsonError(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	session := search.NewSession(doc, s.catalog.Courses, s.sessionOptions())
	if strings.TrimSpace(query) != "" {
		res := session.Input(query)
		if box := document.Find(doc.Root, func(n *html.Node) bool { return document.HasClass(n, "search-suggestions") }); box != nil {
			for _, n := range catalog.SuggestionNodes(res.Suggestions) {
				box.AppendChild(n)
			}
		}
	}

	var buf bytes.Buffer
	if err := session.Render(&buf); err != nil {
		s.log.Error("serialize catalog page", "error", err)
		jsonError(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleCourses lists every course card with its visibility for ?q=.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query": query,
		"cards": catalog.FilterCards(s.catalog.Courses, query),
	})
}

// handleSuggestions returns the suggestion list for ?q=, as JSON or, with
// format=html, as ready-to-insert markup.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	suggestions := catalog.Suggest(s.catalog.Courses, query, s.cfg.SuggestionLimit)

	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if strings.TrimSpace(query) != "" {
			if err := catalog.RenderSuggestions(&buf, suggestions); err != nil {
				jsonError(w, "failed to render suggestions", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
		return
	}

	if suggestions == nil {
		suggestions = []catalog.Suggestion{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":       query,
		"suggestions": suggestions,
	})
}

func (s *Server) sessionOptions() search.Options {
	return search.Options{SuggestionLimit: s.cfg.SuggestionLimit, Stats: s.stats}
}
