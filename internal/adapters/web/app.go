// Package web serves the entry API, the admin endpoints and the public form
// over HTTP.
package web

import (
	"fmt"
	"html/template"

	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/templates"
)

// App holds what the handlers need.
type App struct {
	Entries   primary.EntryService
	Fields    primary.FieldService
	Responses primary.ResponseService
	Catalog   *i18n.Catalog
	Pages     *template.Template
}

var pageFuncs = template.FuncMap{
	"param": entrytype.ResponseParam,
	"primaryField": func(e *models.Entry) *models.Field {
		return e.PrimaryField()
	},
}

// NewApp parses the page templates and bundles the services.
func NewApp(entries primary.EntryService, fields primary.FieldService, responses primary.ResponseService, catalog *i18n.Catalog) (*App, error) {
	pages, err := templates.ParsePages(pageFuncs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &App{
		Entries:   entries,
		Fields:    fields,
		Responses: responses,
		Catalog:   catalog,
		Pages:     pages,
	}, nil
}
