// Package wire provides dependency injection for genatt.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	cliadapter "github.com/example/genatt/internal/adapters/cli"
	"github.com/example/genatt/internal/adapters/richtext"
	"github.com/example/genatt/internal/adapters/sqlite"
	"github.com/example/genatt/internal/adapters/web"
	"github.com/example/genatt/internal/app"
	"github.com/example/genatt/internal/config"
	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/db"
	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/ports/primary"
)

// Services groups the primary ports built over one database.
type Services struct {
	Entries   primary.EntryService
	Fields    primary.FieldService
	Responses primary.ResponseService
	Catalog   *i18n.Catalog
}

var (
	cfg      = config.Default()
	services *Services
	once     sync.Once
)

// Configure sets the configuration used by the lazy initializer.
// It must be called before any accessor.
func Configure(c *config.Config) {
	if c != nil {
		cfg = c
	}
}

// NewServices builds every service over the given database.
func NewServices(database *sql.DB, c *config.Config) (*Services, error) {
	catalog, err := i18n.New(c.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}

	regexps := make([]entrytype.RegularExpression, 0, len(c.RegularExpressions))
	for _, re := range c.RegularExpressions {
		regexps = append(regexps, entrytype.RegularExpression{
			Title:        re.Title,
			Pattern:      re.Pattern,
			ErrorMessage: re.ErrorMessage,
		})
	}

	registry := entrytype.NewRegistry(entrytype.Deps{
		Messages:           catalog,
		RichText:           richtext.NewBBCodeParser(),
		XSS:                entrytype.NewXSSChecker(c.XSSCharacters),
		RegularExpressions: regexps,
	})

	// Repository adapters (secondary ports)
	entryRepo := sqlite.NewEntryRepository(database)
	fieldRepo := sqlite.NewFieldRepository(database)
	typeRepo := sqlite.NewEntryTypeRepository(database)

	entries := app.NewEntryService(entryRepo, fieldRepo, typeRepo, registry, catalog)
	return &Services{
		Entries:   entries,
		Fields:    app.NewFieldService(fieldRepo, entryRepo),
		Responses: app.NewResponseService(entries, registry),
		Catalog:   catalog,
	}, nil
}

// initServices opens the configured database, refreshes the entry type
// catalog and builds the services.
// This is called once via sync.Once.
func initServices() {
	path, err := cfg.ResolveDBPath()
	if err != nil {
		log.Fatalf("failed to resolve database path: %v", err)
	}

	database, err := db.GetDB(path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if _, err := db.SeedEntryTypes(context.Background(), database); err != nil {
		log.Fatalf("failed to seed entry types: %v", err)
	}

	services, err = NewServices(database, cfg)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
}

// EntryService returns the singleton EntryService instance.
func EntryService() primary.EntryService {
	once.Do(initServices)
	return services.Entries
}

// FieldService returns the singleton FieldService instance.
func FieldService() primary.FieldService {
	once.Do(initServices)
	return services.Fields
}

// ResponseService returns the singleton ResponseService instance.
func ResponseService() primary.ResponseService {
	once.Do(initServices)
	return services.Responses
}

// EntryAdapter returns a new EntryAdapter writing to stdout.
func EntryAdapter() *cliadapter.EntryAdapter {
	return EntryAdapterWithOutput(os.Stdout)
}

// EntryAdapterWithOutput returns a new EntryAdapter writing to the given output.
func EntryAdapterWithOutput(out io.Writer) *cliadapter.EntryAdapter {
	once.Do(initServices)
	return cliadapter.NewEntryAdapter(services.Entries, services.Fields, out)
}

// HTTPHandler returns the full HTTP surface over the singleton services.
func HTTPHandler() (http.Handler, error) {
	once.Do(initServices)
	webApp, err := web.NewApp(services.Entries, services.Fields, services.Responses, services.Catalog)
	if err != nil {
		return nil, err
	}
	return web.Wire(webApp), nil
}
