package issueform

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/starford/ghform/internal/i18n"
	"github.com/starford/ghform/internal/markdown"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Translator supplies the localised chrome strings of rendered pages.
type Translator interface {
	Message(id string, data map[string]any) string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMarkdown sets the Markdown renderer used for descriptions and labels.
func WithMarkdown(md *markdown.Renderer) Option {
	return func(r *Renderer) {
		r.md = md
	}
}

// WithTranslator sets the source of page chrome strings. When tr also has a
// Language() string method, its result becomes the page's lang attribute.
func WithTranslator(tr Translator) Option {
	return func(r *Renderer) {
		r.tr = tr
	}
}

// WithTitle adds the form's default issue title to the document header.
func WithTitle(show bool) Option {
	return func(r *Renderer) {
		r.showTitle = show
	}
}

// WithLiveReload makes full pages reload when the template directory changes.
func WithLiveReload(enabled bool) Option {
	return func(r *Renderer) {
		r.liveReload = enabled
	}
}

// Renderer turns decoded forms and configs into HTML. It is immutable after
// NewRenderer and safe for concurrent use.
type Renderer struct {
	md         *markdown.Renderer
	tr         Translator
	lang       string
	showTitle  bool
	liveReload bool
}

// NewRenderer creates a Renderer. Without options it renders English pages
// with the safe Markdown renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.md == nil {
		r.md = markdown.New()
	}
	if r.tr == nil {
		r.tr = i18n.MustNew(i18n.DefaultLanguage)
	}
	r.lang = i18n.DefaultLanguage
	if l, ok := r.tr.(interface{ Language() string }); ok && l.Language() != "" {
		r.lang = l.Language()
	}
	return r
}

type page struct {
	Lang       string
	Title      string
	LiveReload bool
}

func (r *Renderer) page(title string) page {
	if title == "" {
		title = r.tr.Message("page_title", nil)
	}
	return page{Lang: r.lang, Title: title, LiveReload: r.liveReload}
}

type documentView struct {
	page
	Headers []string
	Cells   []string
	Fields  []template.HTML
}

// RenderDocument renders the full preview page of a form: a metadata table
// followed by every field in body order.
func (r *Renderer) RenderDocument(f *Form) string {
	view := documentView{
		page:    r.page(f.Name),
		Headers: []string{r.tr.Message("header_name", nil), r.tr.Message("header_about", nil)},
		Cells:   []string{f.Name, f.Description},
	}
	if r.showTitle {
		view.Headers = append(view.Headers, r.tr.Message("header_title", nil))
		title := ""
		if f.Title != nil {
			title = *f.Title
		}
		view.Cells = append(view.Cells, title)
	}
	view.Headers = append(view.Headers, r.tr.Message("header_labels", nil), r.tr.Message("header_assignees", nil))
	view.Cells = append(view.Cells, f.Labels.Join(), f.Assignees.Join())

	view.Fields = make([]template.HTML, 0, len(f.Body))
	for _, field := range f.Body {
		view.Fields = append(view.Fields, r.RenderField(field))
	}
	return string(r.exec("document", view))
}

type summaryView struct {
	Name        string
	Description string
	Link        string
	Preview     string
}

// RenderSummary renders the listing card of a form linking to link.
func (r *Renderer) RenderSummary(f *Form, link string) string {
	return string(r.exec("summary", summaryView{
		Name:        f.Name,
		Description: f.Description,
		Link:        link,
		Preview:     r.tr.Message("summary_preview", nil),
	}))
}

type configView struct {
	Links    []ContactLink
	Open     string
	Footnote string
}

// RenderConfig renders one card per contact link, followed by a footnote when
// blank issues are enabled.
func (r *Renderer) RenderConfig(c *Config) string {
	view := configView{
		Links: c.ContactLinks,
		Open:  r.tr.Message("contact_open", nil),
	}
	if c.BlankIssuesEnabled {
		view.Footnote = r.tr.Message("config_footnote", nil)
	}
	return string(r.exec("config", view))
}

type errorView struct {
	Title   string
	Message string
}

// RenderErrorCard renders a listing card for a template that failed to load.
func (r *Renderer) RenderErrorCard(file string, err error) string {
	return string(r.exec("error_card", r.errorView(file, err)))
}

func (r *Renderer) errorView(file string, err error) errorView {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return errorView{
		Title:   r.tr.Message("error_decode", map[string]any{"File": file}),
		Message: msg,
	}
}

type listingView struct {
	page
	Cards []template.HTML
}

// RenderListing wraps cards produced by RenderSummary, RenderConfig and
// RenderErrorCard in a full page.
func (r *Renderer) RenderListing(cards []string) string {
	view := listingView{page: r.page("")}
	for _, c := range cards {
		view.Cards = append(view.Cards, template.HTML(c))
	}
	return string(r.exec("listing", view))
}

type errorPageView struct {
	page
	Card template.HTML
}

// RenderErrorPage renders a full page explaining why file could not be
// decoded.
func (r *Renderer) RenderErrorPage(file string, err error) string {
	card := r.exec("error_card", r.errorView(file, err))
	return string(r.exec("error_page", errorPageView{page: r.page(r.tr.Message("error_title", nil)), Card: card}))
}

// RenderNotFoundPage renders a full page for a template that does not exist.
func (r *Renderer) RenderNotFoundPage(file string) string {
	card := r.exec("error_card", errorView{
		Title: r.tr.Message("error_not_found", map[string]any{"File": file}),
	})
	return string(r.exec("error_page", errorPageView{page: r.page(r.tr.Message("error_title", nil)), Card: card}))
}

type headingView struct {
	ID       string
	Label    string
	Required string
}

type checkboxOptionView struct {
	Value    string
	Label    template.HTML
	Required bool
}

type checkboxesView struct {
	Heading     headingView
	Description template.HTML
	Options     []checkboxOptionView
}

type dropdownView struct {
	Heading     headingView
	Description template.HTML
	Selection   string
	InputType   string
	Name        string
	Options     []string
}

type inputView struct {
	Heading     headingView
	Description template.HTML
	Placeholder string
	Value       string
	HasValue    bool
}

type textareaView struct {
	Heading     headingView
	Description template.HTML
	Placeholder string
	Value       string
	Lang        string
	HasLang     bool
}

// RenderField renders a single body element.
func (r *Renderer) RenderField(field Field) template.HTML {
	switch f := field.(type) {
	case *CheckboxesField:
		view := checkboxesView{
			Heading:     headingView{ID: f.ID, Label: f.Attributes.Label},
			Description: r.md.Block(string(f.Attributes.Description)),
		}
		for _, opt := range f.Attributes.Options {
			label := r.md.Inline(string(opt.Label))
			view.Options = append(view.Options, checkboxOptionView{
				Value:    string(label),
				Label:    label,
				Required: opt.Required,
			})
		}
		return r.exec("checkboxes", view)

	case *DropdownField:
		inputType := "radio"
		if f.Attributes.Multiple {
			inputType = "checkbox"
		}
		return r.exec("dropdown", dropdownView{
			Heading:     headingView{ID: f.ID, Label: f.Attributes.Label, Required: f.Validations.Marker()},
			Description: r.md.Block(string(f.Attributes.Description)),
			Selection:   r.tr.Message("dropdown_selection", nil),
			InputType:   inputType,
			Name:        fmt.Sprintf("issue-form[%s]", f.ID),
			Options:     f.Attributes.Options,
		})

	case *InputField:
		view := inputView{
			Heading:     headingView{ID: f.ID, Label: f.Attributes.Label, Required: f.Validations.Marker()},
			Description: r.md.Block(string(f.Attributes.Description)),
			Placeholder: f.Attributes.Placeholder,
		}
		if f.Attributes.Value != nil {
			view.Value, view.HasValue = *f.Attributes.Value, true
		}
		return r.exec("input", view)

	case *MarkdownField:
		return r.exec("markdown", r.md.Block(string(f.Attributes.Value)))

	case *TextareaField:
		view := textareaView{
			Heading:     headingView{ID: f.ID, Label: f.Attributes.Label, Required: f.Validations.Marker()},
			Description: r.md.Block(string(f.Attributes.Description)),
			Placeholder: f.Attributes.Placeholder,
			Value:       f.Attributes.Value,
		}
		if f.Attributes.Render != nil {
			view.Lang, view.HasLang = *f.Attributes.Render, true
		}
		return r.exec("textarea", view)
	}
	panic(fmt.Sprintf("issueform: unhandled field %T", field))
}

// exec panics on failure: the templates are embedded, so an execution error
// is a programming error rather than bad input.
func (r *Renderer) exec(name string, data any) template.HTML {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		panic(fmt.Sprintf("issueform: execute %s: %v", name, err))
	}
	return template.HTML(sb.String())
}
