package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/ports/primary"
)

func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"status": "ok"})
	}
}

func ListEntryTypes(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types, err := app.Entries.ListEntryTypes(r.Context())
		if err != nil {
			LogInternalError(w, "db.list_entry_types", err)
			return
		}

		views := make([]*entryTypeView, len(types))
		for i, t := range types {
			views[i] = toEntryTypeView(t)
		}
		render.JSON(w, r, views)
	}
}

// entryFilters reads the resource from the path and the optional filters
// parent, root, type, field_depend, group and comment from the query.
func entryFilters(r *http.Request) (primary.EntryFilters, error) {
	var (
		f   primary.EntryFilters
		err error
	)
	f.ResourceType = chi.URLParam(r, "resourceType")
	if f.ResourceID, err = intParam(r, "resourceID"); err != nil {
		return f, err
	}
	if f.ParentID, err = intQuery(r, "parent"); err != nil {
		return f, err
	}
	if f.TypeID, err = intQuery(r, "type"); err != nil {
		return f, err
	}
	if f.FieldDependID, err = intQuery(r, "field_depend"); err != nil {
		return f, err
	}
	root, err := boolQuery(r, "root")
	if err != nil {
		return f, err
	}
	if root != nil && *root {
		f.RootOnly = true
		f.UnconditionalOnly = true
	}
	if f.Group, err = boolQuery(r, "group"); err != nil {
		return f, err
	}
	if f.Comment, err = boolQuery(r, "comment"); err != nil {
		return f, err
	}
	return f, nil
}

func ListEntries(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := entryFilters(r)
		if err != nil {
			LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.filters", "%s", err)
			return
		}

		entries, err := app.Entries.ListEntries(r.Context(), filters)
		if err != nil {
			LogInternalError(w, "db.list_entries", err)
			return
		}
		render.JSON(w, r, toEntryViews(entries))
	}
}

func CountEntries(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := entryFilters(r)
		if err != nil {
			LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.filters", "%s", err)
			return
		}

		count, err := app.Entries.CountEntries(r.Context(), filters)
		if err != nil {
			LogInternalError(w, "db.count_entries", err)
			return
		}
		render.JSON(w, r, map[string]any{"count": count})
	}
}

func GetEntry(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.get_entry", chi.URLParam(r, "id"))
			return
		}

		entry, err := app.Entries.GetEntry(r.Context(), id)
		if err != nil {
			LogServiceError(w, "db.get_entry", err)
			return
		}
		render.JSON(w, r, toEntryView(entry))
	}
}
