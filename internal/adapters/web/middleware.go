package web

import (
	"net/http"

	"github.com/example/genatt/internal/ctxutil"
	"github.com/example/genatt/internal/i18n"
)

// ActorHeader names the user performing admin operations, as set by the
// fronting proxy.
const ActorHeader = "X-Remote-User"

// Locale stores the request locale in the context: the lang query
// parameter, else Accept-Language, else the catalog default.
func Locale(catalog *i18n.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Accept-Language")
			if lang := r.URL.Query().Get("lang"); lang != "" {
				header = lang
			}
			ctx := ctxutil.WithLocale(r.Context(), catalog.Match(header))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Actor stores the admin user named by ActorHeader in the context.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get(ActorHeader); actor != "" {
			r = r.WithContext(ctxutil.WithActorID(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

func (app *App) locale(r *http.Request) string {
	return ctxutil.LocaleFromContext(r.Context(), app.Catalog.DefaultLocale())
}

func actor(r *http.Request) string {
	if a := ctxutil.ActorFromContext(r.Context()); a != "" {
		return a
	}
	return "anonymous"
}
