package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/niktheblak/web-common/pkg/auth"
)

// Authenticator rejects requests whose bearer token the authenticator does
// not accept.
func Authenticator(handler http.Handler, authenticator auth.Authenticator, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if err := authenticator.Authenticate(r.Context(), token); err != nil {
			if logger != nil {
				logger.LogAttrs(r.Context(), slog.LevelDebug, "Rejected request", slog.String("path", r.URL.Path), slog.String("remote_addr", r.RemoteAddr), slog.Any("error", err))
			}
			forbidden(w)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
