package api

import (
	"encoding/json"
	"net/http"
)

const maxSearchBody = 64 << 10

type searchRequest struct {
	Query string `json:"query"`
}

type selectRequest struct {
	Name string `json:"name"`
}

// handleSearchPage applies one search event to the page: cards are filtered
// and highlights replaced for the new query.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	page := s.lookupPage(w, r)
	if page == nil {
		return
	}
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := page.Session.Input(req.Query)
	s.log.Debug("search", "page_id", page.ID, "highlights", res.Highlights)

	writeJSON(w, http.StatusOK, res)
}

// handleSelectSuggestion applies a suggestion click.
func (s *Server) handleSelectSuggestion(w http.ResponseWriter, r *http.Request) {
	page := s.lookupPage(w, r)
	if page == nil {
		return
	}
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, ok := page.Session.Select(req.Name)
	if !ok {
		jsonError(w, "unknown suggestion: "+req.Name, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClearHighlights(w http.ResponseWriter, r *http.Request) {
	page := s.lookupPage(w, r)
	if page == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": page.Session.ClearHighlights()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
