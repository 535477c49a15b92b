package issueform

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("empty document")

// DecodeError reports a template that could not be decoded. File is empty
// until the caller that read the bytes attaches it with In.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.File == "" {
		return "decode: " + e.Err.Error()
	}
	return fmt.Sprintf("decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// In returns a copy of e attributed to file.
func (e *DecodeError) In(file string) *DecodeError {
	return &DecodeError{File: file, Err: e.Err}
}

// DecodeForm decodes an issue form template. Missing optional keys take their
// defaults and unknown keys are ignored.
func DecodeForm(data []byte) (*Form, error) {
	var form Form
	if err := decodeDocument(data, &form); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &form, nil
}

// DecodeConfig decodes a config.yml document. blank_issues_enabled defaults to
// true as it does on GitHub.
func DecodeConfig(data []byte) (*Config, error) {
	cfg := Config{BlankIssuesEnabled: true}
	if err := decodeDocument(data, &cfg); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &cfg, nil
}

func decodeDocument(data []byte, out any) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return errEmptyDocument
	}
	return doc.Content[0].Decode(out)
}

func (f *Form) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "name", "description"); err != nil {
		return err
	}
	type plain Form
	return value.Decode((*plain)(f))
}

// UnmarshalYAML accepts a sequence of strings first and falls back to a
// single comma-separated string.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	var seq []string
	if err := value.Decode(&seq); err == nil {
		*l = seq
		return nil
	}
	var csv string
	if err := value.Decode(&csv); err != nil {
		return fmt.Errorf("line %d: expected a list of strings or a comma-separated string", value.Line)
	}
	*l = splitCSV(csv)
	return nil
}

func splitCSV(s string) StringList {
	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (b *Body) UnmarshalYAML(value *yaml.Node) error {
	value = resolve(value)
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: body must be a sequence, found %s", value.Line, value.ShortTag())
	}
	fields := make(Body, 0, len(value.Content))
	for i, node := range value.Content {
		field, err := decodeField(node)
		if err != nil {
			return fmt.Errorf("body[%d]: %w", i, err)
		}
		fields = append(fields, field)
	}
	*b = fields
	return nil
}

func decodeField(node *yaml.Node) (Field, error) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping, found %s", node.Line, node.ShortTag())
	}

	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}
	if head.Type == "" {
		return nil, fmt.Errorf("line %d: missing required key \"type\"", node.Line)
	}

	var field Field
	switch FieldType(strings.ToLower(head.Type)) {
	case TypeCheckboxes:
		field = &CheckboxesField{}
	case TypeDropdown:
		field = &DropdownField{}
	case TypeInput:
		field = &InputField{}
	case TypeMarkdown:
		field = &MarkdownField{}
	case TypeTextarea:
		field = &TextareaField{}
	default:
		return nil, fmt.Errorf("line %d: unknown field type %q, expected one of %s", node.Line, head.Type, typeList())
	}
	if err := node.Decode(field); err != nil {
		return nil, err
	}
	return field, nil
}

func typeList() string {
	names := make([]string, len(FieldTypes))
	for i, t := range FieldTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func (f *CheckboxesField) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "id", "attributes"); err != nil {
		return err
	}
	type plain CheckboxesField
	return value.Decode((*plain)(f))
}

func (a *CheckboxesAttributes) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "options"); err != nil {
		return err
	}
	type plain CheckboxesAttributes
	return value.Decode((*plain)(a))
}

func (o *CheckboxOption) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "label"); err != nil {
		return err
	}
	type plain CheckboxOption
	return value.Decode((*plain)(o))
}

func (f *DropdownField) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "id", "attributes"); err != nil {
		return err
	}
	type plain DropdownField
	return value.Decode((*plain)(f))
}

func (a *DropdownAttributes) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "options"); err != nil {
		return err
	}
	type plain DropdownAttributes
	return value.Decode((*plain)(a))
}

func (f *InputField) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "id"); err != nil {
		return err
	}
	type plain InputField
	return value.Decode((*plain)(f))
}

func (f *TextareaField) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "id"); err != nil {
		return err
	}
	type plain TextareaField
	return value.Decode((*plain)(f))
}

func (l *ContactLink) UnmarshalYAML(value *yaml.Node) error {
	if err := requireKeys(value, "name", "url", "about"); err != nil {
		return err
	}
	type plain ContactLink
	return value.Decode((*plain)(l))
}

// requireKeys fails unless node is a mapping holding every key.
func requireKeys(node *yaml.Node, keys ...string) error {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, found %s", node.Line, node.ShortTag())
	}
	for _, key := range keys {
		if !hasKey(node, key) {
			return fmt.Errorf("line %d: missing required key %q", node.Line, key)
		}
	}
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
