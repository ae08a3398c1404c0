package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"inspecciones/webapp/internal/pkg/id"
)

const RequestIDHeader = "X-Request-ID"

// RequestID stores the id under chi's request id key, so chi's own
// middleware and GetReqID see it. chi.RequestID generates host-prefixed
// counters; ids here are uuids or a sanitized caller value.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := id.SanitizeRequestID(r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, reqID)
		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFrom(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
