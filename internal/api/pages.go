package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ghform/internal/apperr"
	"github.com/starford/ghform/internal/assets"
	"github.com/starford/ghform/internal/checksum"
	"github.com/starford/ghform/internal/formservice"
	"github.com/starford/ghform/internal/issueform"
)

// PageHandler serves rendered HTML pages.
type PageHandler struct {
	svc *formservice.Service
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(svc *formservice.Service) *PageHandler {
	return &PageHandler{svc: svc}
}

// Listing handles GET /.
func (p *PageHandler) Listing(w http.ResponseWriter, r *http.Request) {
	page, err := p.svc.Listing(r.Context())
	if err != nil {
		slog.Error("listing failed", slog.String("error", err.Error()))
		writeHTML(w, http.StatusInternalServerError, p.svc.Renderer().RenderErrorPage("", err))
		return
	}
	writeHTML(w, http.StatusOK, page)
}

// Stylesheet handles GET /assets/extra.css.
func (p *PageHandler) Stylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(assets.ExtraCSS)
}

// Preview handles GET /{name}. The ETag is the checksum of the template
// source, so an unchanged file answers If-None-Match with 304.
func (p *PageHandler) Preview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	preview, err := p.svc.Preview(r.Context(), name)
	if err != nil {
		var de *issueform.DecodeError
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeHTML(w, http.StatusNotFound, p.svc.Renderer().RenderNotFoundPage(name))
		case errors.As(err, &de):
			writeHTML(w, http.StatusInternalServerError, p.svc.Renderer().RenderErrorPage(de.File, err))
		default:
			slog.Error("preview failed", slog.String("name", name), slog.String("error", err.Error()))
			writeHTML(w, http.StatusInternalServerError, p.svc.Renderer().RenderErrorPage(name, err))
		}
		return
	}

	etag := checksum.ETag(preview.Checksum)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && checksum.MatchETag(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeHTML(w, http.StatusOK, preview.HTML)
}
