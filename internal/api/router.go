package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ghform/internal/formservice"
)

// NewRouter creates a chi router with the JSON API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *formservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/templates", h.ListTemplates)
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// NewPageRouter creates a chi router serving the rendered HTML pages: the
// listing at /, the stylesheet and one preview per template name.
func NewPageRouter(svc *formservice.Service) chi.Router {
	p := NewPageHandler(svc)

	r := chi.NewRouter()

	r.Get("/", p.Listing)
	r.Get("/assets/extra.css", p.Stylesheet)
	r.Get("/{name}", p.Preview)

	return r
}
