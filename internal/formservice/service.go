// Package formservice resolves template names, renders pages and answers
// index queries for the HTTP, CLI and MCP front ends.
package formservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/hashicorp/go-multierror"

	"github.com/starford/ghform/internal/apperr"
	"github.com/starford/ghform/internal/checksum"
	"github.com/starford/ghform/internal/index"
	"github.com/starford/ghform/internal/issueform"
	"github.com/starford/ghform/internal/models"
	"github.com/starford/ghform/internal/storage"
)

// Preview is a rendered template page.
type Preview struct {
	File     string
	HTML     string
	Checksum string
}

// CheckResult is the outcome of decoding and linting one file. Err is nil
// for a clean file.
type CheckResult struct {
	File string
	Kind string
	Err  error
}

// Service coordinates storage, rendering and index operations.
type Service struct {
	store    storage.Provider
	db       index.TemplateIndex
	renderer *issueform.Renderer
}

// NewService creates a new form service. db may be nil when index queries
// are not needed.
func NewService(store storage.Provider, db index.TemplateIndex, renderer *issueform.Renderer) *Service {
	if renderer == nil {
		renderer = issueform.NewRenderer()
	}
	return &Service{store: store, db: db, renderer: renderer}
}

// Renderer returns the renderer used for pages.
func (s *Service) Renderer() *issueform.Renderer {
	return s.renderer
}

// Resolve finds the file for name, trying name, name.yml and name.yaml in
// that order. It returns apperr.ErrNotFound when none exists.
func (s *Service) Resolve(ctx context.Context, name string) (string, []byte, error) {
	if name == "" || name != path.Base(name) {
		return "", nil, apperr.ErrNotFound
	}
	candidates := []string{name}
	if !issueform.IsTemplateFile(name) {
		candidates = append(candidates, name+".yml", name+".yaml")
	}
	for _, file := range candidates {
		data, err := s.store.Read(ctx, file)
		if err == nil {
			return file, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
	}
	return "", nil, apperr.ErrNotFound
}

// Preview renders the full page for the template called name. A decode
// failure is returned as *issueform.DecodeError naming the file.
func (s *Service) Preview(ctx context.Context, name string) (*Preview, error) {
	file, data, err := s.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	html, err := s.render(file, data)
	if err != nil {
		return nil, err
	}
	return &Preview{File: file, HTML: html, Checksum: checksum.Sum(data)}, nil
}

func (s *Service) render(file string, data []byte) (string, error) {
	if issueform.IsConfigFile(file) {
		cfg, err := issueform.DecodeConfig(data)
		if err != nil {
			return "", withFile(err, file)
		}
		return s.renderer.RenderListing([]string{s.renderer.RenderConfig(cfg)}), nil
	}
	form, err := issueform.DecodeForm(data)
	if err != nil {
		return "", withFile(err, file)
	}
	return s.renderer.RenderDocument(form), nil
}

// RenderBytes renders data as if it were stored under file.
func (s *Service) RenderBytes(file string, data []byte) (string, error) {
	return s.render(path.Base(file), data)
}

// Listing renders the index page: a card per form in file order, an error
// card per file that fails to load, and the config cards last.
func (s *Service) Listing(ctx context.Context) (string, error) {
	metas, err := s.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing: %w", err)
	}

	var cards []string
	var configFile string
	for _, m := range metas {
		if issueform.IsConfigFile(m.Path) {
			if configFile == "" {
				configFile = m.Path
			}
			continue
		}
		data, err := s.store.Read(ctx, m.Path)
		if err != nil {
			cards = append(cards, s.renderer.RenderErrorCard(m.Path, err))
			continue
		}
		form, err := issueform.DecodeForm(data)
		if err != nil {
			cards = append(cards, s.renderer.RenderErrorCard(m.Path, err))
			continue
		}
		cards = append(cards, s.renderer.RenderSummary(form, m.Path))
	}

	if configFile != "" {
		cards = append(cards, s.configCards(ctx, configFile))
	}
	return s.renderer.RenderListing(cards), nil
}

func (s *Service) configCards(ctx context.Context, file string) string {
	data, err := s.store.Read(ctx, file)
	if err != nil {
		return s.renderer.RenderErrorCard(file, err)
	}
	cfg, err := issueform.DecodeConfig(data)
	if err != nil {
		return s.renderer.RenderErrorCard(file, err)
	}
	return s.renderer.RenderConfig(cfg)
}

// CheckFile decodes and lints one template.
func (s *Service) CheckFile(ctx context.Context, name string) (*CheckResult, error) {
	file, data, err := s.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return CheckBytes(file, data), nil
}

// CheckBytes decodes and lints data as if it were stored under file.
func CheckBytes(file string, data []byte) *CheckResult {
	if issueform.IsConfigFile(file) {
		cfg, err := issueform.DecodeConfig(data)
		if err != nil {
			return &CheckResult{File: file, Kind: models.KindInvalid, Err: withFile(err, file)}
		}
		return &CheckResult{File: file, Kind: models.KindConfig, Err: issueform.LintConfig(cfg)}
	}
	form, err := issueform.DecodeForm(data)
	if err != nil {
		return &CheckResult{File: file, Kind: models.KindInvalid, Err: withFile(err, file)}
	}
	return &CheckResult{File: file, Kind: models.KindForm, Err: issueform.Lint(form)}
}

// Check runs CheckFile over every listed template. The returned error
// aggregates every failing file.
func (s *Service) Check(ctx context.Context) ([]*CheckResult, error) {
	metas, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	var (
		results []*CheckResult
		merr    *multierror.Error
	)
	for _, m := range metas {
		data, err := s.store.Read(ctx, m.Path)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", m.Path, err))
			continue
		}
		res := CheckBytes(m.Path, data)
		results = append(results, res)
		if res.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", m.Path, res.Err))
		}
	}
	return results, merr.ErrorOrNil()
}

// Templates lists the indexed templates.
func (s *Service) Templates(ctx context.Context) ([]models.Template, error) {
	if s.db == nil {
		return nil, errNoIndex
	}
	return s.db.List(ctx)
}

// Search delegates full-text search to the index.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, errNoIndex
	}
	return s.db.Search(ctx, query, limit)
}

var errNoIndex = errors.New("formservice: no index configured")

func withFile(err error, file string) error {
	var de *issueform.DecodeError
	if errors.As(err, &de) {
		return de.In(file)
	}
	return err
}
