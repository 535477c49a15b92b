package issueform

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const bugReport = `
name: Bug Report
description: File a bug report
title: "[Bug]: "
labels: ["bug", "triage"]
assignees:
  - octocat
body:
  - type: markdown
    attributes:
      value: "Thanks for taking the time!"
  - type: input
    id: contact
    attributes:
      label: Contact Details
      placeholder: ex. email@example.com
    validations:
      required: false
  - type: textarea
    id: what-happened
    attributes:
      label: What happened?
      value: "A bug happened!"
      render: shell
    validations:
      required: true
  - type: Dropdown
    id: version
    attributes:
      label: Version
      multiple: true
      options:
        - 1.0.2 (Default)
        - 1.0.3 (Edge)
  - type: checkboxes
    id: terms
    attributes:
      label: Code of Conduct
      options:
        - label: I agree to follow this project's Code of Conduct
          required: true
        - label: I read the docs
`

func TestDecodeForm(t *testing.T) {
	form, err := DecodeForm([]byte(bugReport))
	if err != nil {
		t.Fatalf("DecodeForm: %v", err)
	}
	if form.Name != "Bug Report" || form.Description != "File a bug report" {
		t.Errorf("header = %q / %q", form.Name, form.Description)
	}
	if form.Title == nil || *form.Title != "[Bug]: " {
		t.Errorf("title = %v", form.Title)
	}
	if diff := cmp.Diff(StringList{"bug", "triage"}, form.Labels); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(StringList{"octocat"}, form.Assignees); diff != "" {
		t.Errorf("assignees (-want +got):\n%s", diff)
	}

	var types []FieldType
	for _, f := range form.Body {
		types = append(types, f.Type())
	}
	want := []FieldType{TypeMarkdown, TypeInput, TypeTextarea, TypeDropdown, TypeCheckboxes}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("body order (-want +got):\n%s", diff)
	}

	input := form.Body[1].(*InputField)
	if input.Attributes.Value != nil {
		t.Errorf("input value = %q, want absent", *input.Attributes.Value)
	}
	if got := input.Validations.Marker(); got != "optional" {
		t.Errorf("input marker = %q", got)
	}

	textarea := form.Body[2].(*TextareaField)
	if textarea.Attributes.Render == nil || *textarea.Attributes.Render != "shell" {
		t.Errorf("textarea render = %v", textarea.Attributes.Render)
	}
	if got := textarea.Validations.Marker(); got != "required" {
		t.Errorf("textarea marker = %q", got)
	}

	dropdown := form.Body[3].(*DropdownField)
	if !dropdown.Attributes.Multiple || len(dropdown.Attributes.Options) != 2 {
		t.Errorf("dropdown = %+v", dropdown.Attributes)
	}

	checkboxes := form.Body[4].(*CheckboxesField)
	wantOpts := []CheckboxOption{
		{Label: "I agree to follow this project's Code of Conduct", Required: true},
		{Label: "I read the docs"},
	}
	if diff := cmp.Diff(wantOpts, checkboxes.Attributes.Options); diff != "" {
		t.Errorf("checkbox options (-want +got):\n%s", diff)
	}
}

func TestDecodeForm_Defaults(t *testing.T) {
	form, err := DecodeForm([]byte("name: n\ndescription: d\n"))
	if err != nil {
		t.Fatalf("DecodeForm: %v", err)
	}
	if form.Title != nil || len(form.Labels) != 0 || len(form.Assignees) != 0 || len(form.Body) != 0 {
		t.Errorf("defaults not applied: %+v", form)
	}
}

func TestDecodeForm_UnknownKeysIgnored(t *testing.T) {
	src := "name: n\ndescription: d\nprojects: [\"octo-org/1\"]\nbody:\n  - type: input\n    id: x\n    extra: 1\n"
	if _, err := DecodeForm([]byte(src)); err != nil {
		t.Fatalf("DecodeForm: %v", err)
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want StringList
	}{
		{"sequence", `labels: ["a", "b"]`, StringList{"a", "b"}},
		{"csv", `labels: "a,b"`, StringList{"a", "b"}},
		{"csv with spaces", `labels: "a, b ,, c"`, StringList{"a", "b", "c"}},
		{"single", `labels: bug`, StringList{"bug"}},
		{"empty string", `labels: ""`, StringList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := DecodeForm([]byte("name: n\ndescription: d\n" + tt.yaml + "\n"))
			if err != nil {
				t.Fatalf("DecodeForm: %v", err)
			}
			if diff := cmp.Diff(tt.want, form.Labels); diff != "" {
				t.Errorf("labels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringList_JoinIsShapeIndependent(t *testing.T) {
	seq, err := DecodeForm([]byte("name: n\ndescription: d\nlabels: [\"a\", \"b\"]\n"))
	if err != nil {
		t.Fatal(err)
	}
	csv, err := DecodeForm([]byte("name: n\ndescription: d\nlabels: \"a,b\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if seq.Labels.Join() != "a, b" || csv.Labels.Join() != "a, b" {
		t.Errorf("Join = %q / %q", seq.Labels.Join(), csv.Labels.Join())
	}
}

func TestStringList_RejectsMapping(t *testing.T) {
	_, err := DecodeForm([]byte("name: n\ndescription: d\nlabels:\n  a: b\n"))
	if err == nil || !strings.Contains(err.Error(), "comma-separated") {
		t.Errorf("err = %v", err)
	}
}

func TestDecodeForm_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "empty document"},
		{"missing name", "description: d\n", `missing required key "name"`},
		{"missing description", "name: n\n", `missing required key "description"`},
		{"not a mapping", "- a\n- b\n", "expected a mapping"},
		{"bogus type", "name: n\ndescription: d\nbody:\n  - type: bogus\n", `body[0]: line 4: unknown field type "bogus"`},
		{"missing type", "name: n\ndescription: d\nbody:\n  - id: x\n", `body[0]: line 4: missing required key "type"`},
		{"body not a sequence", "name: n\ndescription: d\nbody: text\n", "body must be a sequence"},
		{"checkbox options", "name: n\ndescription: d\nbody:\n  - type: checkboxes\n    id: c\n    attributes:\n      label: l\n", `missing required key "options"`},
		{"checkbox label", "name: n\ndescription: d\nbody:\n  - type: checkboxes\n    id: c\n    attributes:\n      options:\n        - required: true\n", `missing required key "label"`},
		{"dropdown id", "name: n\ndescription: d\nbody:\n  - type: dropdown\n    attributes:\n      options: [a]\n", `missing required key "id"`},
		{"input id", "name: n\ndescription: d\nbody:\n  - type: input\n", `missing required key "id"`},
		{"textarea id", "name: n\ndescription: d\nbody:\n  - type: textarea\n", `missing required key "id"`},
		{"syntax", "name: [\n", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeForm([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("err = %T, want *DecodeError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDecodeError_In(t *testing.T) {
	_, err := DecodeForm([]byte(""))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T", err)
	}
	named := de.In("bug.yml")
	if named.File != "bug.yml" || de.File != "" {
		t.Errorf("In mutated or lost file: %q / %q", named.File, de.File)
	}
	if got := named.Error(); got != "decode bug.yml: empty document" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(named, errEmptyDocument) {
		t.Error("cause not unwrapped")
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`
blank_issues_enabled: false
contact_links:
  - name: Community
    url: https://example.com/community
    about: Ask questions here
`))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	want := &Config{
		ContactLinks: []ContactLink{{Name: "Community", URL: "https://example.com/community", About: "Ask questions here"}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestDecodeConfig_Defaults(t *testing.T) {
	cfg, err := DecodeConfig([]byte("contact_links: []\n"))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if !cfg.BlankIssuesEnabled {
		t.Error("blank_issues_enabled should default to true")
	}
}

func TestDecodeConfig_MissingLinkKey(t *testing.T) {
	_, err := DecodeConfig([]byte("contact_links:\n  - name: a\n    url: b\n"))
	if err == nil || !strings.Contains(err.Error(), `missing required key "about"`) {
		t.Errorf("err = %v", err)
	}
}

func TestFileNames(t *testing.T) {
	if !IsConfigFile("dir/config.yml") || !IsConfigFile("config.yaml") || IsConfigFile("bug.yml") {
		t.Error("IsConfigFile")
	}
	if !IsTemplateFile("a.yml") || !IsTemplateFile("a.yaml") || IsTemplateFile("a.md") {
		t.Error("IsTemplateFile")
	}
}
