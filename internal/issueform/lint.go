package issueform

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Lint reports problems GitHub would reject or show badly. A form that lints
// with errors still renders; Lint is advisory.
func Lint(f *Form) error {
	var result *multierror.Error

	if err := validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Description, validation.Required),
	); err != nil {
		result = multierror.Append(result, err)
	}

	seen := make(map[string]int, len(f.Body))
	for i, field := range f.Body {
		if err := lintField(field); err != nil {
			result = multierror.Append(result, fmt.Errorf("body[%d] (%s): %w", i, field.Type(), err))
		}
		id := FieldID(field)
		if id == "" {
			continue
		}
		if j, dup := seen[id]; dup {
			result = multierror.Append(result, fmt.Errorf("body[%d] (%s): id %q already used by body[%d]", i, field.Type(), id, j))
			continue
		}
		seen[id] = i
	}

	return result.ErrorOrNil()
}

func lintField(field Field) error {
	switch f := field.(type) {
	case *CheckboxesField:
		return validation.Errors{
			"id": validation.Validate(f.ID, validation.Required, validation.Match(idPattern)),
			"attributes": validation.ValidateStruct(&f.Attributes,
				validation.Field(&f.Attributes.Label, validation.Required),
				validation.Field(&f.Attributes.Options, validation.Required),
			),
		}.Filter()
	case *DropdownField:
		return validation.Errors{
			"id": validation.Validate(f.ID, validation.Required, validation.Match(idPattern)),
			"attributes": validation.ValidateStruct(&f.Attributes,
				validation.Field(&f.Attributes.Label, validation.Required),
				validation.Field(&f.Attributes.Options, validation.Required, validation.Each(validation.Required), validation.By(distinct)),
			),
		}.Filter()
	case *InputField:
		return validation.Errors{
			"id": validation.Validate(f.ID, validation.Required, validation.Match(idPattern)),
			"attributes": validation.ValidateStruct(&f.Attributes,
				validation.Field(&f.Attributes.Label, validation.Required),
			),
		}.Filter()
	case *MarkdownField:
		return validation.Errors{
			"attributes": validation.ValidateStruct(&f.Attributes,
				validation.Field(&f.Attributes.Value, validation.Required),
			),
		}.Filter()
	case *TextareaField:
		return validation.Errors{
			"id": validation.Validate(f.ID, validation.Required, validation.Match(idPattern)),
			"attributes": validation.ValidateStruct(&f.Attributes,
				validation.Field(&f.Attributes.Label, validation.Required),
			),
		}.Filter()
	}
	return nil
}

// Validate checks a single checkbox. It runs for every element of a
// CheckboxesAttributes.Options slice during Lint.
func (o CheckboxOption) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Label, validation.Required),
	)
}

func distinct(value any) error {
	options, _ := value.([]string)
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	return nil
}

// LintConfig checks the contact links of a config.yml.
func LintConfig(c *Config) error {
	var result *multierror.Error
	for i := range c.ContactLinks {
		link := &c.ContactLinks[i]
		if err := validation.ValidateStruct(link,
			validation.Field(&link.Name, validation.Required),
			validation.Field(&link.URL, validation.Required),
			validation.Field(&link.About, validation.Required),
		); err != nil {
			result = multierror.Append(result, fmt.Errorf("contact_links[%d]: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}
