// Package models defines the domain types shared by storage, index and API.
package models

import "time"

// Template kinds recorded in the index.
const (
	KindForm    = "form"
	KindConfig  = "config"
	KindInvalid = "invalid"
)

// TemplateMetadata is a lightweight representation returned by list operations.
type TemplateMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Template is the indexed summary of one template file. Error is set for
// KindInvalid and holds the decode failure.
type Template struct {
	Path        string    `json:"path"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Fields      int       `json:"fields"`
	Checksum    string    `json:"checksum"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
