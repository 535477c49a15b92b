// Package assets embeds the stylesheet served next to rendered pages.
package assets

import _ "embed"

// ExtraCSS is served at /assets/extra.css. It styles the fixed class names
// emitted by the issue form renderer on top of github-markdown-css.
//
//go:embed extra.css
var ExtraCSS []byte
