package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/models"
	"github.com/example/genatt/internal/ports/primary"
	"github.com/example/genatt/internal/templates"
)

type formPage struct {
	Locale       string
	ResourceType string
	ResourceID   int
	Action       string
	Entries      []*models.Entry
}

func ShowForm(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceType := chi.URLParam(r, "resourceType")
		resourceID, err := intParam(r, "resourceID")
		if err != nil {
			LogNotFound(w, "db.get_form", chi.URLParam(r, "resourceID"))
			return
		}

		entries, err := app.Responses.LoadForm(r.Context(), resourceID, resourceType)
		if err != nil {
			LogInternalError(w, "db.get_form", err)
			return
		}
		if len(entries) == 0 {
			LogNotFound(w, "db.get_form", fmt.Sprintf("%s/%d", resourceType, resourceID))
			return
		}

		renderPage(w, app, templates.FormPage, formPage{
			Locale:       app.locale(r),
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Action:       fmt.Sprintf("/resources/%s/%d/responses", resourceType, resourceID),
			Entries:      entries,
		})
	}
}

func SubmitResponses(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceType := chi.URLParam(r, "resourceType")
		resourceID, err := intParam(r, "resourceID")
		if err != nil {
			LogNotFound(w, "db.submit_responses", chi.URLParam(r, "resourceID"))
			return
		}
		if err := r.ParseForm(); err != nil {
			LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}
		locale := app.locale(r)

		result, err := app.Responses.CollectResponses(r.Context(), primary.CollectResponsesRequest{
			ResourceID:   resourceID,
			ResourceType: resourceType,
			Form:         r.PostForm,
			Locale:       locale,
		})
		if err != nil {
			LogInternalError(w, "db.collect_responses", err)
			return
		}

		recap, err := app.Responses.FormatResponses(r.Context(), result.Responses, primary.FormatRecap, locale)
		if err != nil {
			LogInternalError(w, "responses.format", err)
			return
		}

		if len(result.Errors) > 0 {
			log.Debugf("responses.invalid: %d errors for %s/%d", len(result.Errors), resourceType, resourceID)
			render.Status(r, http.StatusUnprocessableEntity)
		}
		render.JSON(w, r, toSubmissionView(recap, result.Errors))
	}
}
