package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/ghform/internal/formservice"
	"github.com/starford/ghform/internal/models"
)

// Handler holds JSON API route handlers.
type Handler struct {
	svc *formservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *formservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListTemplates handles GET /api/templates.
//
//	@Summary		List indexed templates
//	@Tags			templates
//	@Produce		json
//	@Success		200		{object}	TemplateListResponse
//	@Router			/templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Templates(r.Context())
	if err != nil {
		slog.Error("list templates failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []models.Template{}
	}
	writeJSON(w, http.StatusOK, TemplateListResponse{Templates: items, Total: len(items)})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search over template names, descriptions and labels
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
