package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inspecciones/webapp/internal/inspection"
	"inspecciones/webapp/internal/middleware"
	apperrors "inspecciones/webapp/internal/pkg/errors"
	httppkg "inspecciones/webapp/internal/pkg/http"
)

func NewRouter(inspections *inspection.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health", handleHealth)
	r.Head("/health", handleHealth)

	inspections.Routes(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httppkg.WriteError(w, apperrors.NotFound("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httppkg.WriteError(w, &apperrors.HTTPError{StatusCode: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
