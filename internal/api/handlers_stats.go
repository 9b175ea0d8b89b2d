package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleSearchStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "search stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"pages": s.pages.Len(),
		"stats": s.stats.Snapshot(),
	})
}
