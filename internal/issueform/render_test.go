package issueform

import (
	"html/template"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/ghform/internal/i18n"
)

func ptr[T any](v T) *T { return &v }

func TestRenderField_Checkboxes(t *testing.T) {
	r := NewRenderer()
	got := r.RenderField(&CheckboxesField{
		ID: "test-checkbox",
		Attributes: CheckboxesAttributes{
			Label:       "checkbox-test",
			Description: "Description",
			Options: []CheckboxOption{
				{Label: "You have searched", Required: true},
				{Label: "**bold** option"},
			},
		},
	})
	want := template.HTML(`<div id="test-checkbox"><label><h3>checkbox-test</h3></label></div>` +
		`<div class="body-description"><p>Description</p>` + "\n" + `</div>` +
		`<div>` +
		`<div><input type="checkbox" disabled="disabled" value="You have searched"><label class="checkbox-label">You have searched</label><span class="checkbox-required">*</span></div>` +
		`<div><input type="checkbox" disabled="disabled" value="&lt;strong&gt;bold&lt;/strong&gt; option"><label class="checkbox-label"><strong>bold</strong> option</label></div>` +
		`</div>`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}
}

func TestRenderField_CheckboxRequiredMarkerPerOption(t *testing.T) {
	r := NewRenderer()
	got := string(r.RenderField(&CheckboxesField{
		ID: "c",
		Attributes: CheckboxesAttributes{Options: []CheckboxOption{
			{Label: "a", Required: true},
			{Label: "b"},
			{Label: "c", Required: true},
		}},
	}))
	if n := strings.Count(got, `<span class="checkbox-required">*</span>`); n != 2 {
		t.Errorf("required markers = %d, want 2", n)
	}
}

func TestRenderField_Dropdown(t *testing.T) {
	r := NewRenderer()
	got := r.RenderField(&DropdownField{
		ID:          "test-dropdown",
		Attributes:  DropdownAttributes{Label: "dropdown-test", Options: []string{"Cat", "Dog"}},
		Validations: &Validations{Required: true},
	})
	want := template.HTML(`<div id="test-dropdown"><label><h3 required="required">dropdown-test</h3></label></div>` +
		`<div class="body-description"></div>` +
		`<details class="dropdown-container"><summary role="button">Selection: </summary><div class="choices">` +
		`<label class="checkbox-label"><input type="radio" name="issue-form[test-dropdown]" hidden value="Cat"><div class="checkmark">✓</div><div>Cat</div></label>` +
		`<label class="checkbox-label"><input type="radio" name="issue-form[test-dropdown]" hidden value="Dog"><div class="checkmark">✓</div><div>Dog</div></label>` +
		`</div></details>`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}
}

func TestRenderField_DropdownMultiple(t *testing.T) {
	r := NewRenderer()
	single := string(r.RenderField(&DropdownField{ID: "d", Attributes: DropdownAttributes{Options: []string{"x"}}}))
	multi := string(r.RenderField(&DropdownField{ID: "d", Attributes: DropdownAttributes{Multiple: true, Options: []string{"x"}}}))

	if !strings.Contains(single, `type="radio" name="issue-form[d]"`) {
		t.Errorf("single select: %s", single)
	}
	if !strings.Contains(multi, `type="checkbox" name="issue-form[d]"`) {
		t.Errorf("multiple select: %s", multi)
	}
}

func TestRenderField_Input(t *testing.T) {
	r := NewRenderer()
	got := r.RenderField(&InputField{
		ID:         "contact",
		Attributes: InputAttributes{Label: "Contact", Placeholder: "ex. email@example.com"},
	})
	want := template.HTML(`<div id="contact"><label><h3 required="optional">Contact</h3></label></div>` +
		`<div class="body-description"></div>` +
		`<input class="form-input" type="text" disabled="disabled" placeholder="ex. email@example.com">`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}

	withValue := string(r.RenderField(&InputField{ID: "v", Attributes: InputAttributes{Value: ptr("")}}))
	if !strings.Contains(withValue, `placeholder="" value="">`) {
		t.Errorf("present empty value not rendered: %s", withValue)
	}
}

func TestRenderField_Markdown(t *testing.T) {
	r := NewRenderer()
	got := r.RenderField(&MarkdownField{Attributes: MarkdownAttributes{Value: "## Thanks"}})
	want := template.HTML(`<div class="markdown-description"><h2>Thanks</h2>` + "\n" + `</div>`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}
	for _, forbidden := range []string{"id=", "<h3", "required="} {
		if strings.Contains(string(got), forbidden) {
			t.Errorf("markdown field contains %q: %s", forbidden, got)
		}
	}
}

func TestRenderField_Textarea(t *testing.T) {
	r := NewRenderer()
	got := r.RenderField(&TextareaField{
		ID:          "logs",
		Attributes:  TextareaAttributes{Label: "Logs", Value: "a < b", Render: ptr("shell")},
		Validations: &Validations{Required: false},
	})
	want := template.HTML(`<div id="logs"><label><h3 required="optional">Logs</h3></label></div>` +
		`<div class="body-description"></div>` +
		`<textarea class="form-textarea" disabled="disabled" placeholder="" lang="shell">a &lt; b</textarea>`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}

	noLang := string(r.RenderField(&TextareaField{ID: "t"}))
	if strings.Contains(noLang, "lang=") {
		t.Errorf("lang rendered without render key: %s", noLang)
	}
}

func TestRenderField_EscapesUserText(t *testing.T) {
	r := NewRenderer()
	got := string(r.RenderField(&InputField{
		ID:         `x"><script>`,
		Attributes: InputAttributes{Label: "<b>label</b>", Placeholder: `"quoted"`},
	}))
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Errorf("unescaped user text: %s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;label&lt;/b&gt;") {
		t.Errorf("label not escaped as text: %s", got)
	}
}

func TestRenderDocument(t *testing.T) {
	form, err := DecodeForm([]byte(bugReport))
	if err != nil {
		t.Fatal(err)
	}
	got := NewRenderer().RenderDocument(form)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<th align="left">Name</th><th align="left">About</th><th align="left">Labels</th><th align="left">Assignees</th>`,
		`<td align="left">Bug Report</td><td align="left">File a bug report</td><td align="left">bug, triage</td><td align="left">octocat</td>`,
		`<div class="markdown-description"><p>Thanks for taking the time!</p>`,
		`<h3 required="required">What happened?</h3>`,
		`type="checkbox" name="issue-form[version]"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(got, "[Bug]: ") {
		t.Error("title rendered without WithTitle")
	}
	if strings.Contains(got, "EventSource") {
		t.Error("reload script rendered without WithLiveReload")
	}

	// Fields appear in body order.
	order := []string{`id="contact"`, `id="what-happened"`, `id="version"`, `id="terms"`}
	last := -1
	for _, marker := range order {
		i := strings.Index(got, marker)
		if i <= last {
			t.Fatalf("%s out of order", marker)
		}
		last = i
	}
}

func TestRenderDocument_Options(t *testing.T) {
	form, err := DecodeForm([]byte(bugReport))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := i18n.New("es")
	if err != nil {
		t.Fatal(err)
	}
	got := NewRenderer(WithTitle(true), WithLiveReload(true), WithTranslator(tr)).RenderDocument(form)

	if !strings.Contains(got, `<td align="left">[Bug]: </td>`) {
		t.Error("title cell missing")
	}
	if !strings.Contains(got, "EventSource") {
		t.Error("reload script missing")
	}
	if !strings.Contains(got, `<html lang="es">`) {
		t.Error("lang not taken from translator")
	}
	// Contract literals are not localised.
	if !strings.Contains(got, `required="required"`) {
		t.Error("required marker localised")
	}
}

func TestRenderSummary(t *testing.T) {
	r := NewRenderer()
	got := r.RenderSummary(&Form{Name: "Bug", Description: "Report a bug"}, "bug report")
	want := `<div class="summary"><div><strong class="name">Bug</strong><div class="description">Report a bug</div></div>` +
		`<a class="button" href="bug%20report">Preview</a></div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}
}

func TestRenderConfig(t *testing.T) {
	r := NewRenderer()
	cfg := &Config{
		BlankIssuesEnabled: true,
		ContactLinks:       []ContactLink{{Name: "Docs", URL: "https://example.com/docs", About: "Read the docs"}},
	}
	got := r.RenderConfig(cfg)
	want := `<div class="summary"><div><strong class="name">Docs</strong><div class="description">Read the docs</div></div>` +
		`<a class="button external" href="https://example.com/docs" target="_blank" rel="noopener noreferrer">Open</a></div>` +
		`<div class="footnote">Don&#39;t see your issue here? Open a blank issue.</div>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup (-want +got):\n%s", diff)
	}
}

func TestRenderConfig_Footnote(t *testing.T) {
	r := NewRenderer()
	for _, tt := range []struct {
		enabled bool
		want    int
	}{{false, 0}, {true, 1}} {
		got := r.RenderConfig(&Config{BlankIssuesEnabled: tt.enabled})
		if n := strings.Count(got, `class="footnote"`); n != tt.want {
			t.Errorf("enabled=%v: footnotes = %d, want %d", tt.enabled, n, tt.want)
		}
	}
}

func TestRenderListingAndErrors(t *testing.T) {
	r := NewRenderer()
	_, decodeErr := DecodeForm([]byte(""))
	card := r.RenderErrorCard("broken.yml", decodeErr)
	if !strings.Contains(card, "Failed to decode broken.yml") || !strings.Contains(card, "empty document") {
		t.Errorf("error card = %s", card)
	}

	page := r.RenderListing([]string{r.RenderSummary(&Form{Name: "A", Description: "a"}, "a"), card})
	if !strings.Contains(page, `<div class="form-list-container"><div class="summary">`) {
		t.Errorf("listing = %s", page)
	}

	notFound := r.RenderNotFoundPage("missing")
	if !strings.Contains(notFound, "missing was not found") {
		t.Errorf("not found page = %s", notFound)
	}
	errPage := r.RenderErrorPage("broken.yml", decodeErr)
	if !strings.Contains(errPage, "<title>Preview error</title>") {
		t.Errorf("error page = %s", errPage)
	}
}

func TestRenderer_Concurrent(t *testing.T) {
	form, err := DecodeForm([]byte(bugReport))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer()
	want := r.RenderDocument(form)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.RenderDocument(form); got != want {
				t.Error("concurrent render differs")
			}
		}()
	}
	wg.Wait()
}
