package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/receipt-processor/internal/scanning"
)

const maxFormSize = int64(50 << 20) // 50MB, high-resolution phone photos

// writeJSON writes v as the JSON response body with the given status
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "Error encoding response", "error", err)
	}
}

// writeError writes a {"error": message} body
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	s.writeJSON(w, r, code, map[string]string{"error": message})
}

// detectContentType falls back to the file extension when the part has no content type
func detectContentType(header string, filename string) string {
	if header != "" {
		return header
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleProcessReceipt handles receipt upload and extraction
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		s.logger.ErrorContext(ctx, "Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		s.writeError(w, r, http.StatusBadRequest, errorMsg)
		return
	}

	// Decode categories before any provider call. Absent means none; malformed fails the request.
	categories := []string{}
	if values, ok := r.MultipartForm.Value["categories"]; ok && len(values) > 0 {
		parsed, err := ParseCategories(values[0])
		if err != nil {
			s.logger.ErrorContext(ctx, "Error decoding categories", "categories", values[0], "error", err)
			s.writeError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		categories = parsed
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		s.writeError(w, r, http.StatusBadRequest, errorMsg)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error reading file data", "error", err, "filename", header.Filename)
		s.writeError(w, r, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	upload := scanning.Upload{
		Filename:    header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), header.Filename),
		Data:        data,
	}

	receipt, err := s.service.ProcessReceipt(ctx, upload, categories)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error processing receipt", "filename", header.Filename, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSON(w, r, http.StatusCreated, receipt)
}

// handleUpdateReceipt acknowledges a category correction
func (s *Server) handleUpdateReceipt(w http.ResponseWriter, r *http.Request) {
	var update CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.WarnContext(r.Context(), "Invalid update request body", "error", err)
		s.writeError(w, r, http.StatusBadRequest, invalidUpdateMessage)
		return
	}

	confirmation, err := s.service.UpdateCategory(r.Context(), update)
	if err != nil {
		if errors.Is(err, ErrInvalidUpdate) {
			s.writeError(w, r, http.StatusBadRequest, invalidUpdateMessage)
			return
		}
		s.logger.ErrorContext(r.Context(), "Error updating receipt", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.DebugContext(r.Context(), "Updated receipt data", "id", confirmation.ID, "category", confirmation.Category)
	s.writeJSON(w, r, http.StatusOK, confirmation)
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}
