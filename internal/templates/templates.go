package templates

import (
	"embed"
	"html/template"
)

//go:embed html/*.tmpl
var pageTemplates embed.FS

// Page template names.
const (
	FormPage    = "form.tmpl"
	MessagePage = "message.tmpl"
)

// ParsePages parses every embedded page with funcs available to them.
func ParsePages(funcs template.FuncMap) (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(pageTemplates, "html/*.tmpl")
}
