package index

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/ghform/internal/apperr"
	"github.com/starford/ghform/internal/models"
	"github.com/starford/ghform/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "ghform-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func checksumOf(t *testing.T, db *DB, path string) string {
	t.Helper()
	all, err := db.AllChecksums(context.Background())
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	return all[path]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM templates`).Scan(&count); err != nil {
		t.Fatalf("templates table missing: %v", err)
	}
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	if err := db.Upsert(ctx, models.Template{Path: "a.yml", Kind: models.KindForm}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := db.Get(ctx, "a.yml"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	row := models.Template{
		Path:        "bug.yml",
		Kind:        models.KindForm,
		Name:        "Bug Report",
		Description: "File a bug",
		Labels:      []string{"bug", "triage"},
		Fields:      3,
		Checksum:    "abc123",
		UpdatedAt:   now,
	}
	if err := db.Upsert(ctx, row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := db.Get(ctx, "bug.yml")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Bug Report" || got.Checksum != "abc123" || got.Fields != 3 {
		t.Errorf("got %+v", got)
	}
	if len(got.Labels) != 2 || got.Labels[1] != "triage" {
		t.Errorf("labels = %v", got.Labels)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, now)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.Get(context.Background(), "nope.yml"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Upsert(ctx, models.Template{Path: "up.yml", Kind: models.KindForm, Name: "Old", Checksum: "1"})
	_ = db.Upsert(ctx, models.Template{Path: "up.yml", Kind: models.KindInvalid, Checksum: "2", Error: "boom"})

	got, err := db.Get(ctx, "up.yml")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Checksum != "2" || got.Kind != models.KindInvalid || got.Error != "boom" || got.Name != "" {
		t.Errorf("got %+v", got)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Upsert(ctx, models.Template{Path: "del.yml", Kind: models.KindForm, Checksum: "x"})

	if err := db.Delete(ctx, "del.yml"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if cs := checksumOf(t, db, "del.yml"); cs != "" {
		t.Errorf("deleted template still has checksum %q", cs)
	}
}

func TestList_Ordered(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	for _, p := range []string{"c.yml", "a.yml", "b.yml"} {
		_ = db.Upsert(ctx, models.Template{Path: p, Kind: models.KindForm})
	}
	got, err := db.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0].Path != "a.yml" || got[2].Path != "c.yml" {
		t.Errorf("list = %+v", got)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Upsert(ctx, models.Template{Path: "s.yml", Kind: models.KindForm, Name: "Search Me", Description: "uniqueword appears here"})
	_ = db.Upsert(ctx, models.Template{Path: "t.yml", Kind: models.KindForm, Name: "Other", Labels: []string{"enhancement"}})

	results, err := db.Search(ctx, "uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.yml" || results[0].Name != "Search Me" {
		t.Errorf("search results = %+v, want 1 hit for s.yml", results)
	}

	results, err = db.Search(ctx, "enhancement", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "t.yml" {
		t.Errorf("label search results = %+v", results)
	}
}

func TestSync(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	db := testDB(t)
	ctx := context.Background()

	_ = os.WriteFile(filepath.Join(dir, "bug.yml"), []byte("name: Bug\ndescription: d\nlabels: bug\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("name: only\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "config.yml"), []byte("blank_issues_enabled: true\n"), 0o644)

	if err := Sync(ctx, db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	kinds := map[string]string{}
	all, _ := db.List(ctx)
	for _, tpl := range all {
		kinds[tpl.Path] = tpl.Kind
	}
	want := map[string]string{"bug.yml": models.KindForm, "broken.yml": models.KindInvalid, "config.yml": models.KindConfig}
	for p, k := range want {
		if kinds[p] != k {
			t.Errorf("%s kind = %q, want %q", p, kinds[p], k)
		}
	}

	_ = os.Remove(filepath.Join(dir, "broken.yml"))
	if err := Sync(ctx, db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if cs := checksumOf(t, db, "broken.yml"); cs != "" {
		t.Error("stale entry not removed")
	}
}
