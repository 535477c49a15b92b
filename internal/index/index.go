package index

import (
	"context"

	"github.com/starford/ghform/internal/models"
)

// TemplateIndex defines the interface for template indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type TemplateIndex interface {
	Upsert(ctx context.Context, t models.Template) error
	Delete(ctx context.Context, path string) error
	Get(ctx context.Context, path string) (*models.Template, error)
	List(ctx context.Context) ([]models.Template, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	AllChecksums(ctx context.Context) (map[string]string, error)
	Close() error
}

// Verify *DB satisfies TemplateIndex at compile time.
var _ TemplateIndex = (*DB)(nil)
