// Package parser classifies template files and extracts the metadata the
// index stores for them.
package parser

import (
	"github.com/starford/ghform/internal/issueform"
	"github.com/starford/ghform/internal/models"
)

// Result holds the output of parsing a template file.
type Result struct {
	Kind        string
	Name        string
	Description string
	Labels      []string
	Fields      int
	// Err is the decode failure for models.KindInvalid.
	Err error
}

// Parse decodes data as a form, or as the chooser config when path names
// config.yml. A file that does not decode is reported as models.KindInvalid
// rather than as an error so that it still appears in listings.
func Parse(path string, data []byte) *Result {
	if issueform.IsConfigFile(path) {
		cfg, err := issueform.DecodeConfig(data)
		if err != nil {
			return invalid(path, err)
		}
		return &Result{
			Kind:   models.KindConfig,
			Name:   "config",
			Fields: len(cfg.ContactLinks),
		}
	}

	form, err := issueform.DecodeForm(data)
	if err != nil {
		return invalid(path, err)
	}
	return &Result{
		Kind:        models.KindForm,
		Name:        form.Name,
		Description: form.Description,
		Labels:      append([]string(nil), form.Labels...),
		Fields:      len(form.Body),
	}
}

func invalid(path string, err error) *Result {
	if de, ok := err.(*issueform.DecodeError); ok {
		err = de.In(path)
	}
	return &Result{Kind: models.KindInvalid, Err: err}
}

// Template builds the index row for path from a parse result.
func (r *Result) Template(meta models.TemplateMetadata) models.Template {
	t := models.Template{
		Path:        meta.Path,
		Kind:        r.Kind,
		Name:        r.Name,
		Description: r.Description,
		Labels:      r.Labels,
		Fields:      r.Fields,
		Checksum:    meta.Checksum,
		UpdatedAt:   meta.UpdatedAt,
	}
	if r.Err != nil {
		t.Error = r.Err.Error()
	}
	return t
}
