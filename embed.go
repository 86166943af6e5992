// Package markpad holds the web assets of the markpad editor.
package markpad

import "embed"

// TemplateFS holds the layouts, partials, pages and snippets.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS holds the stylesheets and scripts served under /static/.
//
//go:embed static
var StaticFS embed.FS
