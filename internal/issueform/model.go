// Package issueform decodes GitHub issue form templates and their companion
// config.yml, and renders both as read-only HTML previews.
package issueform

import (
	"path"
	"strings"
)

// FieldType is the value of a body element's "type" key.
type FieldType string

// Field types accepted in a form body.
const (
	TypeCheckboxes FieldType = "checkboxes"
	TypeDropdown   FieldType = "dropdown"
	TypeInput      FieldType = "input"
	TypeMarkdown   FieldType = "markdown"
	TypeTextarea   FieldType = "textarea"
)

// FieldTypes lists the accepted field types in documentation order.
var FieldTypes = []FieldType{TypeCheckboxes, TypeDropdown, TypeInput, TypeMarkdown, TypeTextarea}

// Markdown is text rendered with block rules (paragraphs, headings, lists).
type Markdown string

// MarkdownInline is text rendered with inline rules, without a paragraph
// wrapper. Only checkbox option labels use it.
type MarkdownInline string

// StringList is a list that may be written either as a YAML sequence or as a
// single comma-separated string.
type StringList []string

// Join returns the items separated by ", ".
func (l StringList) Join() string {
	return strings.Join(l, ", ")
}

// Form is a decoded issue form template.
type Form struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Title       *string    `yaml:"title" json:"title,omitempty"`
	Labels      StringList `yaml:"labels" json:"labels"`
	Assignees   StringList `yaml:"assignees" json:"assignees"`
	Body        Body       `yaml:"body" json:"body"`
}

// Body is the ordered list of fields of a form.
type Body []Field

// Field is one element of a form body. The set of implementations is closed:
// CheckboxesField, DropdownField, InputField, MarkdownField and TextareaField.
type Field interface {
	Type() FieldType
	isField()
}

// Validations holds the display-only validation metadata of a field.
type Validations struct {
	Required bool `yaml:"required" json:"required"`
}

// Marker returns "required" when v is present and required, "optional"
// otherwise.
func (v *Validations) Marker() string {
	if v != nil && v.Required {
		return "required"
	}
	return "optional"
}

// CheckboxesField is a list of checkboxes, each independently required.
type CheckboxesField struct {
	ID         string               `yaml:"id" json:"id"`
	Attributes CheckboxesAttributes `yaml:"attributes" json:"attributes"`
}

// CheckboxesAttributes are the attributes of a CheckboxesField.
type CheckboxesAttributes struct {
	Label       string           `yaml:"label" json:"label"`
	Description Markdown         `yaml:"description" json:"description"`
	Options     []CheckboxOption `yaml:"options" json:"options"`
}

// CheckboxOption is one checkbox.
type CheckboxOption struct {
	Label    MarkdownInline `yaml:"label" json:"label"`
	Required bool           `yaml:"required" json:"required"`
}

// DropdownField is a single or multiple choice selector.
type DropdownField struct {
	ID          string             `yaml:"id" json:"id"`
	Attributes  DropdownAttributes `yaml:"attributes" json:"attributes"`
	Validations *Validations       `yaml:"validations" json:"validations,omitempty"`
}

// DropdownAttributes are the attributes of a DropdownField.
type DropdownAttributes struct {
	Label       string   `yaml:"label" json:"label"`
	Description Markdown `yaml:"description" json:"description"`
	Multiple    bool     `yaml:"multiple" json:"multiple"`
	Options     []string `yaml:"options" json:"options"`
}

// InputField is a single line text input.
type InputField struct {
	ID          string          `yaml:"id" json:"id"`
	Attributes  InputAttributes `yaml:"attributes" json:"attributes"`
	Validations *Validations    `yaml:"validations" json:"validations,omitempty"`
}

// InputAttributes are the attributes of an InputField.
type InputAttributes struct {
	Label       string   `yaml:"label" json:"label"`
	Description Markdown `yaml:"description" json:"description"`
	Placeholder string   `yaml:"placeholder" json:"placeholder"`
	Value       *string  `yaml:"value" json:"value,omitempty"`
}

// MarkdownField is static Markdown text shown between fields.
type MarkdownField struct {
	Attributes MarkdownAttributes `yaml:"attributes" json:"attributes"`
}

// MarkdownAttributes are the attributes of a MarkdownField.
type MarkdownAttributes struct {
	Value Markdown `yaml:"value" json:"value"`
}

// TextareaField is a multi-line text input.
type TextareaField struct {
	ID          string             `yaml:"id" json:"id"`
	Attributes  TextareaAttributes `yaml:"attributes" json:"attributes"`
	Validations *Validations       `yaml:"validations" json:"validations,omitempty"`
}

// TextareaAttributes are the attributes of a TextareaField. Render is a
// language hint for the submitted text and only affects display.
type TextareaAttributes struct {
	Label       string   `yaml:"label" json:"label"`
	Description Markdown `yaml:"description" json:"description"`
	Placeholder string   `yaml:"placeholder" json:"placeholder"`
	Value       string   `yaml:"value" json:"value"`
	Render      *string  `yaml:"render" json:"render,omitempty"`
}

func (*CheckboxesField) Type() FieldType { return TypeCheckboxes }
func (*DropdownField) Type() FieldType   { return TypeDropdown }
func (*InputField) Type() FieldType      { return TypeInput }
func (*MarkdownField) Type() FieldType   { return TypeMarkdown }
func (*TextareaField) Type() FieldType   { return TypeTextarea }

func (*CheckboxesField) isField() {}
func (*DropdownField) isField()   {}
func (*InputField) isField()      {}
func (*MarkdownField) isField()   {}
func (*TextareaField) isField()   {}

// FieldID returns the id of f, or "" for fields without one.
func FieldID(f Field) string {
	switch f := f.(type) {
	case *CheckboxesField:
		return f.ID
	case *DropdownField:
		return f.ID
	case *InputField:
		return f.ID
	case *TextareaField:
		return f.ID
	}
	return ""
}

// Config is the decoded config.yml that sits next to the templates.
type Config struct {
	BlankIssuesEnabled bool          `yaml:"blank_issues_enabled" json:"blank_issues_enabled"`
	ContactLinks       []ContactLink `yaml:"contact_links" json:"contact_links"`
}

// ContactLink points issue reporters somewhere other than the issue tracker.
type ContactLink struct {
	Name  string `yaml:"name" json:"name"`
	URL   string `yaml:"url" json:"url"`
	About string `yaml:"about" json:"about"`
}

// IsConfigFile reports whether name is the template chooser config rather
// than a form.
func IsConfigFile(name string) bool {
	base := path.Base(name)
	return base == "config.yml" || base == "config.yaml"
}

// IsTemplateFile reports whether name has a YAML extension.
func IsTemplateFile(name string) bool {
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}
