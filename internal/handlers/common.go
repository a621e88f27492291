package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lehigh-university-libraries/perspectshift/internal/render"
	"github.com/lehigh-university-libraries/perspectshift/internal/session"
)

// Handler serves the local web surface for one client session
type Handler struct {
	controller *session.Controller
	renderer   render.Renderer
}

func New(controller *session.Controller, renderer render.Renderer) *Handler {
	return &Handler{
		controller: controller,
		renderer:   renderer,
	}
}

// Router wires the web surface routes
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.HandlePage).Methods(http.MethodGet)
	r.HandleFunc("/upload", h.HandleUpload).Methods(http.MethodPost)
	r.HandleFunc("/perspective", h.HandlePerspective).Methods(http.MethodPost)
	r.HandleFunc("/comment", h.HandleComment).Methods(http.MethodPost)
	r.HandleFunc("/image", h.HandleImage).Methods(http.MethodGet)
	r.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	}).Methods(http.MethodGet)
	return r
}

// Response helpers
func (h *Handler) writeHTML(w http.ResponseWriter, view render.View) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		h.writeError(w, "Unable to render page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write page", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// backToPage sends the browser back to the session view after an action.
// Action failures are logged by the controller and never shown.
func (h *Handler) backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
