package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// Authenticator turns an Authorization header into an identity.
type Authenticator interface {
	Authenticate(authorization string) (auth.Identity, error)
}

// RequireIdentity rejects requests without a valid access token and stores
// the caller's identity in the request context for the next handler.
func RequireIdentity(a Authenticator, l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Header.Get(common.AuthorizationHeader))
			if err != nil {
				l.Debug(r.Context(), "rejected request", "path", r.URL.Path, "error", err)
				writeError(w, r, l, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// LogRequests writes one record per request once the response is done.
func LogRequests(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			l.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
