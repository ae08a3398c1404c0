package middleware

import (
	"net/http"
	"runtime/debug"

	"inspecciones/webapp/internal/logger"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("panic [%s] %s %s: %v\n%s", RequestIDFrom(r.Context()), r.Method, r.URL.Path, v, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"message":"internal server error","status":500}}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
