// Package storage defines where issue templates are read from.
package storage

import (
	"context"

	"github.com/starford/ghform/internal/models"
)

// Provider is the interface for read-only template sources. Paths are
// relative to the template directory. Errors for missing files wrap
// fs.ErrNotExist.
type Provider interface {
	// List returns metadata for every YAML file directly under the template
	// directory, sorted by path.
	List(ctx context.Context) ([]models.TemplateMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)
}
