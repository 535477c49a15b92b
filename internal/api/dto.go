package api

import (
	"github.com/starford/ghform/internal/index"
	"github.com/starford/ghform/internal/models"
)

// TemplateItem is an indexed template in a list response (aliased from the
// domain layer).
type TemplateItem = models.Template

// TemplateListResponse wraps the template listing.
type TemplateListResponse struct {
	Templates []TemplateItem `json:"templates" validate:"required"`
	Total     int            `json:"total" example:"3" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
