package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

// Recovery converts handler panics into a 500 error envelope.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						"request_id", RequestID(r.Context()),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					handlers.RespondJSON(w, http.StatusInternalServerError, map[string]any{
						"code":    handlers.ErrInternal.Code,
						"message": handlers.ErrInternal.Message,
						"data":    map[string]int{"status": http.StatusInternalServerError},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
