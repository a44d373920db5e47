package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/lecternhq/lectern/internal/epub"
	"github.com/lecternhq/lectern/internal/validate"
)

// handleValidate runs synchronous EPUB validation and compatibility
// analysis without queueing an extraction job.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

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
	if !strings.EqualFold(filepath.Ext(filename), ".epub") {
		jsonError(w, "validation requires an .epub file", http.StatusBadRequest)
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

	book, err := epub.Open(data)
	if err != nil {
		jsonError(w, "failed to open epub: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	level := validate.LevelStandard
	switch strings.ToLower(r.FormValue("level")) {
	case "basic":
		level = validate.LevelBasic
	case "strict":
		level = validate.LevelStrict
	case "", "standard":
		if s.cfg.StrictMode {
			level = validate.LevelStrict
		}
	default:
		jsonError(w, "level must be basic, standard, or strict", http.StatusBadRequest)
		return
	}

	result := s.validator.Validate(book, level)
	analysis := s.analyzer.Analyze(book)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":      filename,
		"validation":    result,
		"compatibility": analysis,
		"warnings":      book.Warnings(),
	})
}
