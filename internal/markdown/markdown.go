// Package markdown converts issue form Markdown to HTML.
//
// Two renderings exist: Block keeps paragraph and heading structure, Inline
// drops the paragraph wrappers at the top level so that a label can sit inside
// an inline element such as <label>.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	rawHTML bool
}

// WithRawHTML passes raw HTML found in the source through to the output.
// The result is sanitised with a bluemonday UGC policy. Without this option
// raw HTML is omitted.
func WithRawHTML(enabled bool) Option {
	return func(o *options) {
		o.rawHTML = enabled
	}
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	block  goldmark.Markdown
	inline goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var rendererOpts []renderer.Option
	r := &Renderer{}
	if cfg.rawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
		r.policy = bluemonday.UGCPolicy()
	}

	r.block = goldmark.New(goldmark.WithRendererOptions(rendererOpts...))
	r.inline = goldmark.New(
		goldmark.WithRendererOptions(rendererOpts...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(unwrapParagraphs{}, 100)),
		),
	)
	return r
}

// Block renders src with full CommonMark block structure.
func (r *Renderer) Block(src string) template.HTML {
	return r.convert(r.block, src)
}

// Inline renders src like Block but without the top-level <p> wrappers.
func (r *Renderer) Inline(src string) template.HTML {
	return r.convert(r.inline, src)
}

func (r *Renderer) convert(md goldmark.Markdown, src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := buf.String()
	if r.policy != nil {
		out = r.policy.Sanitize(out)
	}
	return template.HTML(out)
}

// unwrapParagraphs replaces every paragraph directly under the document with
// a text block, which renders its children without an enclosing element.
type unwrapParagraphs struct{}

func (unwrapParagraphs) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	for n := doc.FirstChild(); n != nil; {
		next := n.NextSibling()
		if p, ok := n.(*ast.Paragraph); ok {
			tb := ast.NewTextBlock()
			tb.SetLines(p.Lines())
			for c := p.FirstChild(); c != nil; {
				cn := c.NextSibling()
				tb.AppendChild(tb, c)
				c = cn
			}
			doc.ReplaceChild(doc, p, tb)
		}
		n = next
	}
}

var defaultRenderer = New()

// Block renders src with the default renderer.
func Block(src string) template.HTML {
	return defaultRenderer.Block(src)
}

// Inline renders src with the default renderer.
func Inline(src string) template.HTML {
	return defaultRenderer.Inline(src)
}
