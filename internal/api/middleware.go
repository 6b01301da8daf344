package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/session"
)

// SessionCookie is the name under which the session token travels.
const SessionCookie = "session_id"

type contextKey string

const sessionTokenKey contextKey = "session_token"

// RequestLogger logs one line per request: method, path, status, duration.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// CORS allows browser clients from any origin, as the storefront is
// served from a different host.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Sessions loads the client's session from its cookie, creating one on
// the first request without a live token, and puts the token into the
// request context.
func Sessions(store session.Store, maxAge time.Duration, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				if _, err := store.Get(r.Context(), cookie.Value); err == nil {
					token = cookie.Value
				} else if !errors.Is(err, session.ErrSessionNotFound) {
					respondFailure(log, w, err)
					return
				}
			}

			if token == "" {
				sess := session.New(maxAge)
				if err := store.Save(r.Context(), sess); err != nil {
					respondFailure(log, w, err)
					return
				}
				token = sess.Token
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(maxAge / time.Second),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey).(string)
	return token
}
