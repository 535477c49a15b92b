package storage

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/starford/ghform/internal/issueform"
	"github.com/starford/ghform/internal/models"
)

// DefaultGitHubDir is where GitHub looks for issue templates.
const DefaultGitHubDir = ".github/ISSUE_TEMPLATE"

// ContentsService is the subset of the GitHub repositories API used by
// GitHub.
type ContentsService interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// GitHubOptions selects the repository directory to read templates from.
// An empty Ref means the default branch.
type GitHubOptions struct {
	Owner string
	Repo  string
	Ref   string
	Dir   string
	Token string
}

// GitHub implements Provider over the contents API of a GitHub repository.
// Checksums are git blob SHAs and UpdatedAt is left zero.
type GitHub struct {
	contents ContentsService
	owner    string
	repo     string
	ref      string
	dir      string
}

// NewGitHub creates a provider authenticated with opts.Token when set.
func NewGitHub(opts GitHubOptions) *GitHub {
	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	client := github.NewClient(httpClient)
	return NewGitHubWithService(client.Repositories, opts)
}

// NewGitHubWithService creates a provider on top of an existing contents
// service.
func NewGitHubWithService(contents ContentsService, opts GitHubOptions) *GitHub {
	dir := strings.Trim(opts.Dir, "/")
	if dir == "" {
		dir = DefaultGitHubDir
	}
	return &GitHub{
		contents: contents,
		owner:    opts.Owner,
		repo:     opts.Repo,
		ref:      opts.Ref,
		dir:      dir,
	}
}

func (g *GitHub) getOptions() *github.RepositoryContentGetOptions {
	return &github.RepositoryContentGetOptions{Ref: g.ref}
}

// List returns the YAML files of the template directory.
func (g *GitHub) List(ctx context.Context) ([]models.TemplateMetadata, error) {
	_, entries, resp, err := g.contents.GetContents(ctx, g.owner, g.repo, g.dir, g.getOptions())
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("storage: list %s/%s/%s: %w", g.owner, g.repo, g.dir, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("storage: list %s/%s/%s: %w", g.owner, g.repo, g.dir, err)
	}

	var out []models.TemplateMetadata
	for _, e := range entries {
		if e.GetType() != "file" || !issueform.IsTemplateFile(e.GetName()) {
			continue
		}
		out = append(out, models.TemplateMetadata{
			Path:     e.GetName(),
			Checksum: e.GetSHA(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Read returns the decoded content of a file in the template directory.
func (g *GitHub) Read(ctx context.Context, name string) ([]byte, error) {
	if name == "" || name != path.Base(name) || name == ".." {
		return nil, fmt.Errorf("storage: invalid template name: %s", name)
	}

	file, _, resp, err := g.contents.GetContents(ctx, g.owner, g.repo, path.Join(g.dir, name), g.getOptions())
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("storage: read %s: %w", name, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	if file == nil {
		return nil, fmt.Errorf("storage: read %s: not a file: %w", name, fs.ErrNotExist)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", name, err)
	}
	return []byte(content), nil
}

func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}
