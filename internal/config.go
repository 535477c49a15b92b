package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ghform/internal/i18n"
	"github.com/starford/ghform/internal/index"
	"github.com/starford/ghform/internal/storage"
)

// Template source kinds.
const (
	SourceKindFS     = "fs"
	SourceKindGitHub = "github"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Source SourceConfig      `yaml:"source"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Render RenderConfig      `yaml:"render"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Render.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel   slog.Level `yaml:"log_level"`
	HTTP       HTTPConfig `yaml:"http"`
	LiveReload bool       `yaml:"live_reload"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourceConfig selects where templates are read from.
//
// Kind controls the provider:
//   - "fs" (default): Path is a local directory, watched for changes.
//   - "github": GitHub names a repository directory read through the API.
type SourceConfig struct {
	Kind   string       `yaml:"kind"`
	Path   string       `yaml:"path"`
	GitHub GitHubConfig `yaml:"github"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	if c.Kind == "" {
		c.Kind = SourceKindFS
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Kind, validation.Required, validation.In(SourceKindFS, SourceKindGitHub)),
		validation.Field(&c.Path, validation.When(c.Kind == SourceKindFS, validation.Required)),
	); err != nil {
		return err
	}
	if c.Kind == SourceKindGitHub {
		return c.GitHub.Validate()
	}
	return nil
}

// GitHubConfig identifies a template directory in a GitHub repository.
// An empty Token reads public repositories anonymously.
type GitHubConfig struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Ref   string `yaml:"ref"`
	Dir   string `yaml:"dir"`
	Token string `yaml:"token"`
}

// Validate validates the GitHub configuration.
func (c *GitHubConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Owner, validation.Required),
		validation.Field(&c.Repo, validation.Required),
	)
}

// Options converts the section into provider options.
func (c *GitHubConfig) Options() storage.GitHubOptions {
	return storage.GitHubOptions{
		Owner: c.Owner,
		Repo:  c.Repo,
		Ref:   c.Ref,
		Dir:   c.Dir,
		Token: c.Token,
	}
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RenderConfig holds page rendering options.
type RenderConfig struct {
	Locale    string `yaml:"locale"`
	ShowTitle bool   `yaml:"show_title"`
	RawHTML   bool   `yaml:"raw_html"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if c.Locale == "" {
		c.Locale = i18n.DefaultLanguage
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Locale, validation.Required, validation.In(toAny(i18n.Languages())...)),
	)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Source: SourceConfig{
			Kind: SourceKindFS,
			Path: storage.DefaultGitHubDir,
		},
		SQLite: SQLiteConfig{
			Path: index.MemoryDSN,
		},
		Render: RenderConfig{
			Locale: i18n.DefaultLanguage,
		},
	}
}
