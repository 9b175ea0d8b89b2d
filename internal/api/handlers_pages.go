package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/coursesearch/internal/pages"
	"github.com/dgallion1/coursesearch/internal/parser"
	"github.com/dgallion1/coursesearch/internal/search"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	p, err := parser.ForFile(filename, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("parse upload", "filename", filename, "error", err)
		jsonError(w, "failed to parse file: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		doc.Title = title
	}

	page := pages.NewPage(filename, data, search.NewSession(doc, s.catalog.Courses, s.sessionOptions()))
	if err := s.pages.Put(page); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("page registered", "page_id", page.ID, "filename", filename, "bytes", len(data))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"page_id":      page.ID,
		"title":        page.Title,
		"filename":     page.Filename,
		"content_hash": page.ContentHash,
		"url":          fmt.Sprintf("/api/pages/%s", page.ID),
	})
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"pages": s.pages.List()})
}

// handleGetPage serves the page markup in its current highlight state.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page := s.lookupPage(w, r)
	if page == nil {
		return
	}
	var buf bytes.Buffer
	if err := page.Session.Render(&buf); err != nil {
		s.log.Error("render page", "page_id", page.ID, "error", err)
		jsonError(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	if !s.pages.Delete(pageID) {
		jsonError(w, "page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": pageID})
}

// lookupPage resolves {pageID} or writes a 404.
func (s *Server) lookupPage(w http.ResponseWriter, r *http.Request) *pages.Page {
	page := s.pages.Get(chi.URLParam(r, "pageID"))
	if page == nil {
		jsonError(w, "page not found", http.StatusNotFound)
	}
	return page
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
