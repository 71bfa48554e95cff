package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery creates middleware that recovers from panics, logs full context,
// and returns a generic 500. With rethrow set (development mode) the panic
// propagates for diagnostics instead.
func Recovery(logger *slog.Logger, rethrow bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error(
						"panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					if rethrow {
						panic(rec)
					}

					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
