package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/niktheblak/web-common/pkg/auth"

	"github.com/niktheblak/ruuvitag-decoder/internal/service"
	"github.com/niktheblak/ruuvitag-decoder/pkg/middleware"
)

// New returns the HTTP API handler. Every route requires a token the
// authenticator accepts.
func New(svc service.Service, authenticator auth.Authenticator, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router := httprouter.New()
	router.Handler(http.MethodGet, "/decode", decodeHandler(svc, logger))
	router.Handler(http.MethodPost, "/decode", decodeBodyHandler(svc, logger))
	return middleware.Authenticator(router, authenticator, logger)
}
