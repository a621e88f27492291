package handlers

import (
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/perspectshift/internal/images"
)

// HandleUpload takes the dropped files and starts the session. Every outcome,
// including an unreadable form, goes back to the page; the drop zone stays
// up until an upload succeeds.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(images.MaxUploadSize); err != nil {
		slog.Error("Failed to parse form", "error", err)
		h.backToPage(w, r)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		slog.Error("Failed to read file", "error", "missing form field \"file\"")
		h.backToPage(w, r)
		return
	}

	// Only the first file of a multi-file drop is read.
	file, err := headers[0].Open()
	if err != nil {
		slog.Error("Failed to read file", "filename", headers[0].Filename, "error", err)
		h.backToPage(w, r)
		return
	}
	defer file.Close()

	upload, err := images.ReadFrom(headers[0].Filename, file)
	if err != nil {
		slog.Error("Failed to read file", "filename", headers[0].Filename, "error", err)
		h.backToPage(w, r)
		return
	}

	files := []images.File{upload}
	for _, extra := range headers[1:] {
		files = append(files, images.File{Name: extra.Filename})
	}

	_ = h.controller.Upload(r.Context(), files)
	h.backToPage(w, r)
}
