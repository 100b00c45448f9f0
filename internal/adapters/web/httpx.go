package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	coreentry "github.com/example/genatt/internal/core/entry"
	"github.com/example/genatt/internal/log"
	"github.com/example/genatt/internal/ports/secondary"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// LogServiceError maps a service error to a status: 404 for missing rows,
// 409 for refused operations, 500 otherwise.
func LogServiceError(w http.ResponseWriter, code string, err error) {
	var denied *coreentry.DeniedError
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		LogStatusMsg(w, http.StatusNotFound, log.DebugLevel, code, "%s", err)
	case errors.As(err, &denied):
		LogStatusMsg(w, http.StatusConflict, log.DebugLevel, code, "%s", denied.Reason)
	default:
		LogInternalError(w, code, err)
	}
}

// intParam reads a numeric URL parameter.
func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

// intQuery reads an optional numeric query parameter; absent means 0.
func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// boolQuery reads an optional boolean query parameter; absent means nil.
func boolQuery(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
