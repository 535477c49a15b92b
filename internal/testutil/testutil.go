// Package testutil provides shared test helpers for setting up template
// directories and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ghform/internal/index"
	"github.com/starford/ghform/internal/storage"
)

// BugReport is a small valid issue form.
const BugReport = `name: Bug Report
description: File a bug report
labels: bug, triage
body:
  - type: markdown
    attributes:
      value: Thanks for taking the time!
  - type: input
    id: version
    attributes:
      label: Version
    validations:
      required: true
`

// Config is a chooser config with one contact link and blank issues enabled.
const Config = `blank_issues_enabled: true
contact_links:
  - name: Discussions
    url: https://github.com/octo/repo/discussions
    about: Ask questions here
`

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ghform-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestTemplates creates a temporary template directory holding files and
// returns it with a storage.Provider over it.
func TestTemplates(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
