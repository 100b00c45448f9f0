package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	coreentry "github.com/example/genatt/internal/core/entry"
	"github.com/example/genatt/internal/core/entrytype"
	"github.com/example/genatt/internal/i18n"
	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/templates"
)

// rejectConfig redirects to the admin message page when err is a rejected
// configuration. It reports whether it did.
func rejectConfig(w http.ResponseWriter, r *http.Request, err error) bool {
	var msg *entrytype.AdminMessage
	if !errors.As(err, &msg) {
		return false
	}
	log.Debugf("admin.config_rejected: %s", msg)
	http.Redirect(w, r, msg.URL(), http.StatusSeeOther)
	return true
}

func CreateEntry(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		req := primary.CreateEntryRequest{
			ResourceType: chi.URLParam(r, "resourceType"),
			Form:         r.PostForm,
			Locale:       app.locale(r),
		}
		var err error
		if req.ResourceID, err = intParam(r, "resourceID"); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.resource_id")
			return
		}
		if req.TypeID, err = intQuery(r, "type"); err != nil || req.TypeID == 0 {
			LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.type", "missing or invalid entry type")
			return
		}
		if req.ParentID, err = intQuery(r, "parent"); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parent")
			return
		}
		if req.FieldDependID, err = intQuery(r, "field_depend"); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.field_depend")
			return
		}

		resp, err := app.Entries.CreateEntry(r.Context(), req)
		if err != nil {
			if !rejectConfig(w, r, err) {
				LogServiceError(w, "db.insert_entry", err)
			}
			return
		}

		log.Infof("entry %d created by %s", resp.EntryID, actor(r))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toEntryView(resp.Entry))
	}
}

func UpdateEntry(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.update_entry", chi.URLParam(r, "id"))
			return
		}
		if err := r.ParseForm(); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		err = app.Entries.UpdateEntry(r.Context(), primary.UpdateEntryRequest{
			EntryID: id,
			Form:    r.PostForm,
			Locale:  app.locale(r),
		})
		if err != nil {
			if !rejectConfig(w, r, err) {
				LogServiceError(w, "db.update_entry", err)
			}
			return
		}

		log.Infof("entry %d updated by %s", id, actor(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteEntry(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.delete_entry", chi.URLParam(r, "id"))
			return
		}
		force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

		if err := app.Entries.DeleteEntry(r.Context(), id, force); err != nil {
			LogServiceError(w, "db.delete_entry", err)
			return
		}

		log.Infof("entry %d deleted by %s", id, actor(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

func CopyEntry(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.copy_entry", chi.URLParam(r, "id"))
			return
		}

		cp, err := app.Entries.CopyEntry(r.Context(), id, app.locale(r))
		if err != nil {
			LogServiceError(w, "db.copy_entry", err)
			return
		}

		log.Infof("entry %d copied to %d by %s", id, cp.ID, actor(r))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toEntryView(cp))
	}
}

func MoveEntry(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.move_entry", chi.URLParam(r, "id"))
			return
		}
		direction := r.URL.Query().Get("direction")
		if _, err := coreentry.ParseDirection(direction); err != nil {
			LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.direction", "%s", err)
			return
		}

		if err := app.Entries.MoveConditionalEntry(r.Context(), id, direction); err != nil {
			LogServiceError(w, "db.move_entry", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AddField(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.insert_field", chi.URLParam(r, "id"))
			return
		}
		if err := r.ParseForm(); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		field, err := app.Fields.AddField(r.Context(), primary.AddFieldRequest{
			EntryID:      id,
			Title:        r.PostForm.Get("title"),
			Value:        r.PostForm.Get("value"),
			Comment:      r.PostForm.Get("comment"),
			DefaultValue: r.PostForm.Has("default_value"),
		})
		if err != nil {
			LogServiceError(w, "db.insert_field", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toFieldView(field))
	}
}

func RemoveField(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			LogNotFound(w, "db.delete_field", chi.URLParam(r, "id"))
			return
		}

		if err := app.Fields.RemoveField(r.Context(), id); err != nil {
			LogServiceError(w, "db.delete_field", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type messagePage struct {
	Locale    string
	Type      entrytype.MessageType
	Heading   string
	Text      string
	Back      string
	BackLabel string
}

func ShowMessage(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := app.locale(r)
		msg := entrytype.ParseAdminMessage(r.URL.Query())
		if msg.Key == "" {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.message_key")
			return
		}

		heading := i18n.MessageInfo
		if msg.Type == entrytype.MessageStop {
			heading = i18n.MessageStop
		}
		back := r.Referer()
		if back == "" {
			back = "/"
		}

		page := messagePage{
			Locale:    locale,
			Type:      msg.Type,
			Heading:   app.Catalog.Localize(locale, heading, nil),
			Text:      app.Catalog.Localize(locale, msg.Key, msg.TemplateData()),
			Back:      back,
			BackLabel: app.Catalog.Localize(locale, i18n.MessageBack, nil),
		}
		renderPage(w, app, templates.MessagePage, page)
	}
}

// renderPage executes a page template into a buffer so that a failure still
// yields a clean 500.
func renderPage(w http.ResponseWriter, app *App, name string, data any) {
	var buf bytes.Buffer
	if err := app.Pages.ExecuteTemplate(&buf, name, data); err != nil {
		LogInternalError(w, "render."+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
