package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/ghform/internal/checksum"
	"github.com/starford/ghform/internal/models"
	"github.com/starford/ghform/internal/parser"
	"github.com/starford/ghform/internal/storage"
)

// Sync lists the template source and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files no longer listed are deleted from the index
func Sync(ctx context.Context, db TemplateIndex, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List(ctx)
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums(ctx)
	if err != nil {
		return err
	}

	listed := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		listed[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(ctx, m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(ctx, db, m, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := listed[p]; !ok {
			if err := db.Delete(ctx, p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it into the index. An empty checksum in
// meta is computed from data.
func indexFile(ctx context.Context, db TemplateIndex, meta models.TemplateMetadata, data []byte) error {
	if meta.Checksum == "" {
		meta.Checksum = checksum.Sum(data)
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now().UTC()
	}
	return db.Upsert(ctx, parser.Parse(meta.Path, data).Template(meta))
}
