package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/web/templates"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 64 * 1024

// RosterResponse is the body of GET /api/characters.
type RosterResponse struct {
	File       string                   `json:"file"`
	Characters []core.ExportedCharacter `json:"characters"`
	Skipped    int                      `json:"skipped"`
}

// handleIndex renders the roster page. An empty roster renders an empty list.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	path := s.service.Store().Path()

	roster, err := s.service.List(r.Context())
	if err != nil && !errors.Is(err, core.ErrNoCharacters) {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.RosterPage(core.NewExport(path, roster)).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render roster page", "error", err)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListCharacters returns the parsed roster.
func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	roster, err := s.service.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	doc := core.NewExport(s.service.Store().Path(), roster)
	writeJSON(w, http.StatusOK, RosterResponse{
		File:       doc.File,
		Characters: doc.Characters,
		Skipped:    len(doc.Skipped),
	})
}

// handleAddCharacter appends a character from a JSON body.
func (s *Server) handleAddCharacter(w http.ResponseWriter, r *http.Request) {
	var req core.NewCharacter
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: invalid request body: %v", core.ErrInvalidCharacter, err))
		return
	}

	c, err := s.service.Add(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// handleLevelUp levels up the character at the {selection} path parameter.
func (s *Server) handleLevelUp(w http.ResponseWriter, r *http.Request) {
	selection, err := core.ParseSelection(chi.URLParam(r, "selection"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.LevelUp(r.Context(), selection)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExport streams the roster as JSON (default) or YAML.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(core.FormatJSON)
	}
	format, err := core.ParseExportFormat(raw)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Encode to a buffer so errors can still set the status code.
	var buf bytes.Buffer
	if err := s.service.Export(r.Context(), &buf, format); err != nil {
		s.respondError(w, r, err)
		return
	}

	contentType := "application/json"
	if format == core.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=roster.%s", format))
	w.Write(buf.Bytes())
}

// handleSync copies the roster to the configured database.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		s.respondError(w, r, core.ErrDatabaseNotConfigured)
		return
	}

	roster, err := s.service.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.syncer.Sync(r.Context(), s.service.Store().Path(), roster)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
