package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/ghform/internal/apperr"
	"github.com/starford/ghform/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

const templateColumns = `path, kind, name, description, labels, fields, checksum, error, updated_at`

// Upsert inserts or replaces a template and its FTS entry within a transaction.
func (db *DB) Upsert(ctx context.Context, t models.Template) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	labelsJSON, _ := json.Marshal(labels)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind        = excluded.kind,
			name        = excluded.name,
			description = excluded.description,
			labels      = excluded.labels,
			fields      = excluded.fields,
			checksum    = excluded.checksum,
			error       = excluded.error,
			updated_at  = excluded.updated_at
	`, t.Path, t.Kind, t.Name, t.Description, string(labelsJSON), t.Fields, t.Checksum, t.Error, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert template: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(ctx, tx, t); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a template and its FTS entry.
func (db *DB) Delete(ctx context.Context, path string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(ctx, tx, path)
	if _, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete template: %w", err)
	}

	return tx.Commit()
}

// Get returns one indexed template or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, path string) (*models.Template, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE path = ?`, path)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get template: %w", err)
	}
	return t, nil
}

// List returns every indexed template ordered by path.
func (db *DB) List(ctx context.Context) ([]models.Template, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: list templates: %w", err)
	}
	defer rows.Close()

	out := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("index: scan template: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// AllChecksums returns the stored checksum of every indexed path.
func (db *DB) AllChecksums(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT path, checksum FROM templates`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (*models.Template, error) {
	var (
		t      models.Template
		labels string
	)
	if err := s.Scan(&t.Path, &t.Kind, &t.Name, &t.Description, &labels, &t.Fields, &t.Checksum, &t.Error, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(labels), &t.Labels); err != nil {
		return nil, fmt.Errorf("decode labels of %s: %w", t.Path, err)
	}
	return &t, nil
}
