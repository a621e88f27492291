package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/perspectshift/internal/models"
	"github.com/lehigh-university-libraries/perspectshift/internal/render"
)

func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	h.writeHTML(w, render.NewView(h.controller.State()))
}

func (h *Handler) HandlePerspective(w http.ResponseWriter, r *http.Request) {
	perspective := r.FormValue("perspective")
	if perspective == "" {
		h.writeError(w, "perspective is required", http.StatusBadRequest)
		return
	}

	// The selector only offers the closed set; the value is passed through as sent.
	_ = h.controller.LoadPerspective(r.Context(), models.Perspective(perspective))
	h.backToPage(w, r)
}

func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	h.controller.SetDraft(r.FormValue("text"))
	_ = h.controller.SubmitComment(r.Context())
	h.backToPage(w, r)
}

// HandleImage serves the bytes of the currently displayed rendering
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	current := h.controller.State().Current
	if current == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", current.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(current.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(current.Data); err != nil {
		slog.Error("Unable to write image", "err", err)
	}
}
