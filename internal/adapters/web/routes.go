package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/genatt/internal/log"
)

// Wire builds the router.
func Wire(app *App) http.Handler {
	root := chi.NewRouter()
	root.Use(
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.Logger, NoColor: true}),
		middleware.Recoverer,
		Locale(app.Catalog),
	)

	root.Get("/healthz", Healthz())
	root.Mount("/api", apiRouter(app))
	root.Mount("/admin", adminRouter(app))

	root.Get(`/resources/{resourceType}/{resourceID:^\d+$}/form`, ShowForm(app))
	root.Post(`/resources/{resourceType}/{resourceID:^\d+$}/responses`, SubmitResponses(app))

	return root
}

func apiRouter(app *App) http.Handler {
	api := chi.NewRouter()

	api.Get("/entry-types", ListEntryTypes(app))
	api.Get(`/resources/{resourceType}/{resourceID:^\d+$}/entries`, ListEntries(app))
	api.Get(`/resources/{resourceType}/{resourceID:^\d+$}/entries/count`, CountEntries(app))
	api.Get(`/entries/{id:^\d+$}`, GetEntry(app))

	return api
}

func adminRouter(app *App) http.Handler {
	admin := chi.NewRouter()
	admin.Use(Actor)

	admin.Post(`/resources/{resourceType}/{resourceID:^\d+$}/entries`, CreateEntry(app))
	admin.Post(`/entries/{id:^\d+$}`, UpdateEntry(app))
	admin.Post(`/entries/{id:^\d+$}/delete`, DeleteEntry(app))
	admin.Post(`/entries/{id:^\d+$}/copy`, CopyEntry(app))
	admin.Post(`/entries/{id:^\d+$}/move`, MoveEntry(app))
	admin.Post(`/entries/{id:^\d+$}/fields`, AddField(app))
	admin.Post(`/fields/{id:^\d+$}/delete`, RemoveField(app))

	// Serves entrytype.MessagePath.
	admin.Get("/message", ShowMessage(app))

	return admin
}
